// Package config loads the controller's YAML configuration.
//
// A minimal file names the zone count and leaves everything else at its
// default:
//
//	zones:
//	  count: 5
//
// Values are validated as a whole; Load and Parse report every problem
// found, not just the first.
package config
