// Package config loads the pipeline configuration from the environment.
//
// The configuration surface is closed: every recognized option is a named
// field on Config with a documented default, and malformed values fail at
// load time instead of being silently ignored.
package config
