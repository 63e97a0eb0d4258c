// Package store defines the persistence interfaces and the sentinel
// errors their implementations return. Concrete implementations live in
// internal/platform/postgres.
package store
