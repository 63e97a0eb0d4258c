// Package postgres provides PostgreSQL-backed implementations of the
// store interfaces, plus connection setup and embedded schema migrations.
package postgres
