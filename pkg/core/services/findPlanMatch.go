package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/church-check-in/pkg/core/model"
)

// EventMatch is the latest period of an event together with the plan that covers it
type EventMatch struct {
	ServiceTypeID string
	EventID       string
	Period        *model.EventPeriod
	Match         *PlanMatch
}

// FindPlanMatch resolves the service type and event by name and matches a plan to the
// event's latest period. Nothing about the volunteers is fetched.
func FindPlanMatch(
	ctx context.Context,
	client CheckInClient,
	serviceName string,
	eventName string,
	attempts int,
	logger *zap.Logger,
) (*EventMatch, error) {
	ctx, span := tracer.Start(ctx, "FindPlanMatch")
	defer span.End()

	serviceTypeID, err := ResolveServiceType(ctx, client, serviceName)
	if err != nil {
		return nil, err
	}

	eventID, err := ResolveEvent(ctx, client, eventName)
	if err != nil {
		return nil, err
	}

	period, err := client.GetLatestEventPeriod(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event period for event %s: %w", eventID, err)
	}
	if period == nil {
		return nil, fmt.Errorf("event %q: %w", eventName, ErrNoEventPeriod)
	}

	match, err := MatchPlan(ctx, client, serviceTypeID, period, attempts, logger)
	if err != nil {
		return nil, err
	}

	return &EventMatch{
		ServiceTypeID: serviceTypeID,
		EventID:       eventID,
		Period:        period,
		Match:         match,
	}, nil
}
