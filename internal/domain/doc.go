// Package domain defines the core business entities of the task tracker:
// tasks, users, the task status enumeration, and the role-based status
// policy that gates every transition.
package domain
