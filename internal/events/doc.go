// Package events defines the task notification events and the in-memory
// hub that fans them out to streaming subscribers.
package events
