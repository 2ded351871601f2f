package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jakechorley/church-check-in/pkg/core/model"
)

var (
	// ErrNoMatchingPlan is the root of every plan matching failure
	ErrNoMatchingPlan = errors.New("no future plan matches the event times")

	// ErrNoEventPeriod is returned when an event has no event periods yet
	ErrNoEventPeriod = errors.New("event has no event periods")

	// ErrNoEventTimes is returned when the latest event period has no event times.
	// An empty set would otherwise match any plan.
	ErrNoEventTimes = errors.New("event period has no event times")
)

// NotFoundError is returned when a name can't be resolved to an identifier
type NotFoundError struct {
	Kind string // "service type", "event", "location"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %q", e.Kind, e.Name)
}

// MatchNotFoundError is returned when none of the candidate plans cover the event times
type MatchNotFoundError struct {
	EventTimes map[string]string // starts_at -> event time id
	Attempts   int
}

func (e *MatchNotFoundError) Error() string {
	return fmt.Sprintf("can not find future service with event times %s in the next %d plans",
		formatEventTimes(e.EventTimes), e.Attempts)
}

func (e *MatchNotFoundError) Unwrap() error {
	return ErrNoMatchingPlan
}

// ExhaustedCandidatesError is returned when fewer future plans exist than the attempt bound needs
type ExhaustedCandidatesError struct {
	Offset     int
	EventTimes map[string]string
}

func (e *ExhaustedCandidatesError) Error() string {
	return fmt.Sprintf("ran out of future plans at offset %d while comparing with event times %s",
		e.Offset, formatEventTimes(e.EventTimes))
}

func (e *ExhaustedCandidatesError) Unwrap() error {
	return ErrNoMatchingPlan
}

// SubmissionError records a single check-in that could not be submitted
type SubmissionError struct {
	Record model.CheckInRecord
	Err    error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("failed to check in person %s for event time %s: %v",
		e.Record.PersonID, e.Record.EventTimeID, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// formatEventTimes renders an event time map in a stable order for error messages
func formatEventTimes(eventTimes map[string]string) string {
	times := make([]string, 0, len(eventTimes))
	for startsAt, id := range eventTimes {
		times = append(times, fmt.Sprintf("%s=%s", startsAt, id))
	}
	sort.Strings(times)
	return "[" + strings.Join(times, ", ") + "]"
}
