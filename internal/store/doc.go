// Package store defines the persistence interfaces for the task tracker
// and the sentinel errors shared by every implementation. Concrete
// implementations live under internal/platform.
package store
