// Package database handles database connections for the run journal.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to configure either a
// local SQLite file (the default for a desktop tool) or a shared MySQL server.
//
// # Connect
//
// Connect selects the dialector from Config.Driver, applies pool settings and verifies the
// connection with a ping bounded by Config.TimeoutSeconds. SQLite connections are limited to a
// single open connection so that ":memory:" databases behave as one database.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
