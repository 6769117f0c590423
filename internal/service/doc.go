// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and the task
// store (defined in internal/store) to fulfill application features.
//
// Error handling principles:
//  1. Service methods return sentinel errors for expected error conditions
//  2. Unexpected errors are wrapped in TaskServiceError
//  3. Callers use errors.Is/errors.As to check for specific error conditions
//  4. The API layer maps service errors to appropriate HTTP status codes
//
// Every multi-task write runs inside a single store transaction, and events
// describing the change are emitted only after it commits.
package service
