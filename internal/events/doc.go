// Package events provides types and interfaces for an event-driven architecture.
//
// Services emit a TaskEvent after every committed change to a task. Handlers
// registered with an emitter react to them without the service knowing who
// they are: the audit log and the task cache invalidator are the two that
// ship with the server.
package events
