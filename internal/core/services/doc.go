// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. Timers go through benbjohnson/clock so
// tests can drive them deterministically.
package services
