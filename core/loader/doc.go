// Package loader provides the plugin-like feature loading system.
//
// It allows the serve command to register features (modules) and mount their routes.
// Each feature implements the Feature interface.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Manager
//
// The Manager struct holds the registry of available features. It handles:
//   - Registration of features via Register()
//   - Loading of enabled features via LoadAll()
//
// The run history API is the first feature mounted this way.
package loader
