// Package kie integrates the task tracker with an external BPMN process
// engine (a KIE Server exposing the jBPM REST API).
//
// Client is a thin, time-bounded HTTP client over the engine's process
// endpoints. Notifier wraps it with the fire-and-forget contract the task
// service relies on: every engine failure is logged and swallowed, never
// propagated, never retried, and never allowed to undo a committed local
// mutation. The engine is an observer of local task state, not a
// transactional participant.
package kie
