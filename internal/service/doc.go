// Package service contains the application's business logic: account
// registration and login, and the task mutation protocol with
// optimistic-concurrency safety and event emission.
package service
