// Package store defines interfaces for task persistence. The interfaces
// abstract the storage mechanism from the service layer, so the business
// rules stay independent of where tasks actually live.
package store
