package domain

// ReferenceType identifies the kind of external business object a task is
// attached to.
type ReferenceType string

// Possible reference types
const (
	ReferenceTypeOrder  ReferenceType = "ORDER"
	ReferenceTypeEntity ReferenceType = "ENTITY"
)

// IsValid reports whether r is a known reference type.
func (r ReferenceType) IsValid() bool {
	_, ok := kindsByReference[r]
	return ok
}

// TaskKind is an enumerated unit of work, such as creating an invoice or
// arranging a pickup.
type TaskKind string

// Possible task kinds
const (
	TaskKindCreateInvoice               TaskKind = "CREATE_INVOICE"
	TaskKindArrangePickup               TaskKind = "ARRANGE_PICKUP"
	TaskKindCollectPayment              TaskKind = "COLLECT_PAYMENT"
	TaskKindAssignCustomerToSalesPerson TaskKind = "ASSIGN_CUSTOMER_TO_SALES_PERSON"
)

// kindsByReference is the static mapping from a reference type to the task
// kinds that apply to it. Order within each slice is the order in which
// AssignByReference walks the kinds.
var kindsByReference = map[ReferenceType][]TaskKind{
	ReferenceTypeOrder: {
		TaskKindCreateInvoice,
		TaskKindArrangePickup,
		TaskKindCollectPayment,
	},
	ReferenceTypeEntity: {
		TaskKindAssignCustomerToSalesPerson,
	},
}

// KindsForReference returns the task kinds applicable to the given reference
// type. It returns nil for an unknown reference type. The returned slice is a
// copy and may be modified by the caller.
func KindsForReference(r ReferenceType) []TaskKind {
	kinds, ok := kindsByReference[r]
	if !ok {
		return nil
	}
	out := make([]TaskKind, len(kinds))
	copy(out, kinds)
	return out
}

// IsValid reports whether k is a known task kind.
func (k TaskKind) IsValid() bool {
	for _, kinds := range kindsByReference {
		for _, known := range kinds {
			if known == k {
				return true
			}
		}
	}
	return false
}

// AppliesTo reports whether k is one of the kinds mapped to r.
func (k TaskKind) AppliesTo(r ReferenceType) bool {
	for _, known := range kindsByReference[r] {
		if known == k {
			return true
		}
	}
	return false
}

// TaskStatus represents the lifecycle state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusAssigned  TaskStatus = "ASSIGNED"
	TaskStatusStarted   TaskStatus = "STARTED"
	TaskStatusCompleted TaskStatus = "COMPLETED"
	TaskStatusCancelled TaskStatus = "CANCELLED"
)

// IsValid reports whether s is a known task status.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusAssigned, TaskStatusStarted, TaskStatusCompleted, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

// IsOpen reports whether a task in this status still represents pending work.
func (s TaskStatus) IsOpen() bool {
	return s == TaskStatusAssigned || s == TaskStatusStarted
}

// Priority is the urgency of a task.
type Priority string

// Possible priority values
const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// IsValid reports whether p is a known priority.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}
