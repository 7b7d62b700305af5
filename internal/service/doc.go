// Package service contains the application services that orchestrate the
// domain model, the persistence layer, and the workflow notifier. The task
// service owns the task state machine: it is the only place where a
// status-transition decision (policy check, store write, engine
// notification) is made.
package service
