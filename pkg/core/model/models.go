package model

// AssignmentStatus is the confirmation status of a team assignment
type AssignmentStatus string

const (
	StatusConfirmed   AssignmentStatus = "C"
	StatusUnconfirmed AssignmentStatus = "U"
	StatusDeclined    AssignmentStatus = "D"
)

// IsScheduled reports whether a volunteer with this status is expected to serve
func (s AssignmentStatus) IsScheduled() bool {
	return s == StatusConfirmed || s == StatusUnconfirmed
}

// TimeTypeService is the plan time kind that corresponds to a check-in event time.
// Rehearsal and other kinds never take part in matching.
const TimeTypeService = "service"

// CheckInKindVolunteer is the kind of every check-in this tool creates
const CheckInKindVolunteer = "Volunteer"

// ServiceType is a recurring service in the Services product
type ServiceType struct {
	ID   string
	Name string
}

// Event is a check-in event in the Check-Ins product
type Event struct {
	ID   string
	Name string
}

// Location is a room or area people can be checked in to for an event
type Location struct {
	ID   string
	Name string
}

// EventTime is a single check-in slot of an event period
type EventTime struct {
	ID       string
	StartsAt string // UTC, RFC3339
}

// EventPeriod is one occurrence of an event with its time slots
type EventPeriod struct {
	ID      string
	EventID string
	Times   []EventTime
}

// PlanTime is a time slot of a plan
type PlanTime struct {
	ID       string
	StartsAt string // UTC, RFC3339
	TimeType string
}

// IsService reports whether the plan time is a service time (as opposed to a rehearsal etc.)
func (t PlanTime) IsService() bool {
	return t.TimeType == TimeTypeService
}

// Plan is one scheduled occurrence of a service type
type Plan struct {
	ID            string
	ServiceTypeID string
	SortDate      string
	Times         []PlanTime
}

// TeamAssignment is a person scheduled on a plan for one or more plan times
type TeamAssignment struct {
	ID          string
	PersonID    string
	Name        string
	Status      AssignmentStatus
	PlanTimeIDs []string
}

// CheckInRecord is a single check-in to submit. One is built per person per event time.
type CheckInRecord struct {
	PersonID      string
	LocationID    string
	EventTimeID   string
	EventID       string
	EventPeriodID string
	Kind          string
}
