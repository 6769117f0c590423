// Package domain contains the core business entities, value objects, and
// domain logic of the workforce service: tasks, the references they are
// attached to, and the audit trail (activities and comments) kept on each
// task. It is independent of any storage or delivery mechanism.
package domain
