// Package logging provides leveled logging over the standard log package.
//
// The level is read once from the environment: DEBUG=1 (or true/yes/on)
// forces debug, otherwise LOG_LEVEL selects one of debug, info, warn, error.
// The default is info.
package logging
