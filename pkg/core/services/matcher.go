package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/church-check-in/pkg/core/model"
)

// DefaultFuturePlanAttempts is how many upcoming plans are compared with the event times
const DefaultFuturePlanAttempts = 3

// EventPeriodClient defines the check-in operations needed to load event times
type EventPeriodClient interface {
	// GetLatestEventPeriod returns the most recent event period with its event times,
	// or nil if the event has no periods.
	GetLatestEventPeriod(ctx context.Context, eventID string) (*model.EventPeriod, error)
}

// PlanClient defines the services operations needed to find plans and their teams
type PlanClient interface {
	// GetFuturePlan returns the future plan at offset (0 = next upcoming) ordered by sort date,
	// including its plan times. It returns nil when there is no plan at that offset.
	GetFuturePlan(ctx context.Context, serviceTypeID string, offset int) (*model.Plan, error)
	ListTeamAssignments(ctx context.Context, serviceTypeID, planID string) ([]model.TeamAssignment, error)
}

// PlanMatch is a plan whose service times cover every event time of an event period
type PlanMatch struct {
	PlanID        string
	EventPeriodID string
	ServiceTimes  map[string]string // plan time id -> starts_at
	EventTimes    map[string]string // starts_at -> event time id
}

// EventTimeIndex maps the normalised start time of each event time in the period to its id
func EventTimeIndex(period *model.EventPeriod) map[string]string {
	eventTimeToID := make(map[string]string, len(period.Times))
	for _, et := range period.Times {
		eventTimeToID[normalizeTimestamp(et.StartsAt)] = et.ID
	}
	return eventTimeToID
}

// ServiceTimeIndex maps each service plan time id to its normalised start time.
// Non-service plan times are left out.
func ServiceTimeIndex(plan *model.Plan) map[string]string {
	serviceTimeIDToTime := make(map[string]string)
	for _, pt := range plan.Times {
		if !pt.IsService() {
			continue
		}
		serviceTimeIDToTime[pt.ID] = normalizeTimestamp(pt.StartsAt)
	}
	return serviceTimeIDToTime
}

// MatchPlan finds the first upcoming plan of the service type whose service times include
// every event time of the period. Up to attempts plans are tried in sort date order.
func MatchPlan(
	ctx context.Context,
	client PlanClient,
	serviceTypeID string,
	period *model.EventPeriod,
	attempts int,
	logger *zap.Logger,
) (*PlanMatch, error) {
	if attempts <= 0 {
		attempts = DefaultFuturePlanAttempts
	}

	eventTimeToID := EventTimeIndex(period)
	if len(eventTimeToID) == 0 {
		return nil, fmt.Errorf("event period %s: %w", period.ID, ErrNoEventTimes)
	}

	logger.Debug("Matching plan to event times",
		zap.String("service_type_id", serviceTypeID),
		zap.String("event_period_id", period.ID),
		zap.Int("event_times", len(eventTimeToID)),
		zap.Int("attempts", attempts))

	for offset := 0; offset < attempts; offset++ {
		plan, err := client.GetFuturePlan(ctx, serviceTypeID, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch future plan at offset %d: %w", offset, err)
		}
		if plan == nil {
			logger.Error("Ran out of plans to compare with event times",
				zap.Int("offset", offset),
				zap.Any("event_times", eventTimeToID))
			return nil, &ExhaustedCandidatesError{Offset: offset, EventTimes: eventTimeToID}
		}

		serviceTimes := ServiceTimeIndex(plan)
		if !coversEventTimes(serviceTimes, eventTimeToID) {
			logger.Warn("Not correct service times",
				zap.String("plan_id", plan.ID),
				zap.Any("service_times", serviceTimes))
			continue
		}

		logger.Info("Matched plan",
			zap.String("plan_id", plan.ID),
			zap.String("sort_date", plan.SortDate),
			zap.Int("offset", offset))

		return &PlanMatch{
			PlanID:        plan.ID,
			EventPeriodID: period.ID,
			ServiceTimes:  serviceTimes,
			EventTimes:    eventTimeToID,
		}, nil
	}

	return nil, &MatchNotFoundError{EventTimes: eventTimeToID, Attempts: attempts}
}

// coversEventTimes reports whether every event start time is one of the service start times
func coversEventTimes(serviceTimes map[string]string, eventTimeToID map[string]string) bool {
	available := make(map[string]bool, len(serviceTimes))
	for _, startsAt := range serviceTimes {
		available[startsAt] = true
	}

	for startsAt := range eventTimeToID {
		if !available[startsAt] {
			return false
		}
	}
	return true
}

// normalizeTimestamp renders a timestamp as UTC RFC3339 so the same instant compares equal
// whatever offset the API used. Values that don't parse are compared as-is.
func normalizeTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.UTC().Format(time.RFC3339)
}
