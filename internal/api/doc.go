// Package api exposes the task service over HTTP. Handlers decode and
// validate JSON requests, convert epoch-millisecond timestamps, call the
// service and map its errors to status codes without leaking internals.
package api
