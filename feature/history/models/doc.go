// Package models defines the GORM models of the run journal.
package models
