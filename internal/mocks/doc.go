// Package mocks provides centralized mock implementations of the store and
// service interfaces for testing. Each mock follows the same pattern:
// function fields override individual methods, and a map-backed default
// implementation handles the common cases so most tests need no setup
// beyond construction.
package mocks
