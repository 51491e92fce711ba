// Package store defines the persistence interfaces consumed by the service
// layer, together with the sentinel errors all implementations map their
// backend failures onto. Implementations live under internal/platform; tests
// use the in-memory versions from internal/mocks.
package store
