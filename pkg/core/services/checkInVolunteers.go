package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/jakechorley/church-check-in/pkg/core/model"
)

var tracer = otel.Tracer("core/services")

// CheckInClient is everything needed from the Planning Center API to prepare check-ins
type CheckInClient interface {
	DirectoryClient
	EventPeriodClient
	PlanClient
}

// Authenticator opens a session that check-ins can be submitted through
type Authenticator interface {
	Login(ctx context.Context) (CheckInSubmitter, error)
}

// CheckInRequest names the service, event and location to check volunteers in to
type CheckInRequest struct {
	ServiceName  string
	EventName    string
	LocationName string
	// FuturePlanAttempts bounds how many upcoming plans are compared. <= 0 uses the default.
	FuturePlanAttempts int
	// DryRun prepares the records without logging in or submitting them
	DryRun bool
}

// PreparedCheckIn is the resolved and matched state of a run with the records to submit
type PreparedCheckIn struct {
	ServiceTypeID string
	EventID       string
	LocationID    string
	EventPeriodID string
	Match         *PlanMatch
	Volunteers    []VolunteerSlots
	Records       []model.CheckInRecord
}

// CheckInResult is the outcome of a full check-in run
type CheckInResult struct {
	Prepared *PreparedCheckIn
	Report   *SubmissionReport // nil for dry runs or when nothing needed submitting
}

// PrepareCheckIns resolves the names in the request, finds the plan matching the latest
// event period and builds a check-in record per volunteer per event time
func PrepareCheckIns(ctx context.Context, client CheckInClient, req CheckInRequest, logger *zap.Logger) (*PreparedCheckIn, error) {
	ctx, span := tracer.Start(ctx, "PrepareCheckIns")
	defer span.End()
	span.SetAttributes(
		attribute.String("service_name", req.ServiceName),
		attribute.String("event_name", req.EventName),
		attribute.String("location_name", req.LocationName),
	)

	prepared, err := prepareCheckIns(ctx, client, req, logger)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to prepare check-ins")
		return nil, err
	}

	span.SetAttributes(attribute.Int("records", len(prepared.Records)))
	return prepared, nil
}

func prepareCheckIns(ctx context.Context, client CheckInClient, req CheckInRequest, logger *zap.Logger) (*PreparedCheckIn, error) {
	logger.Info("Preparing check-ins",
		zap.String("service_name", req.ServiceName),
		zap.String("event_name", req.EventName),
		zap.String("location_name", req.LocationName))

	// Step 1: Resolve names
	serviceTypeID, err := ResolveServiceType(ctx, client, req.ServiceName)
	if err != nil {
		return nil, err
	}

	eventID, err := ResolveEvent(ctx, client, req.EventName)
	if err != nil {
		return nil, err
	}

	locationID, found, err := ResolveLocation(ctx, client, eventID, req.LocationName)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &NotFoundError{Kind: "location", Name: req.LocationName}
	}

	logger.Debug("Resolved identifiers",
		zap.String("service_type_id", serviceTypeID),
		zap.String("event_id", eventID),
		zap.String("location_id", locationID))

	// Step 2: Load the latest event period
	period, err := client.GetLatestEventPeriod(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event period for event %s: %w", eventID, err)
	}
	if period == nil {
		return nil, fmt.Errorf("event %q: %w", req.EventName, ErrNoEventPeriod)
	}

	// Step 3: Find the plan with matching service times
	match, err := MatchPlan(ctx, client, serviceTypeID, period, req.FuturePlanAttempts, logger)
	if err != nil {
		return nil, err
	}

	// Step 4: Find the scheduled volunteers and build their check-ins
	volunteers, err := ExtractVolunteers(ctx, client, serviceTypeID, match, logger)
	if err != nil {
		return nil, err
	}

	records := BuildCheckInRecords(volunteers, locationID, eventID, period.ID)

	logger.Info("Prepared check-ins",
		zap.String("plan_id", match.PlanID),
		zap.String("event_period_id", period.ID),
		zap.Int("volunteers", len(volunteers)),
		zap.Int("records", len(records)))

	return &PreparedCheckIn{
		ServiceTypeID: serviceTypeID,
		EventID:       eventID,
		LocationID:    locationID,
		EventPeriodID: period.ID,
		Match:         match,
		Volunteers:    volunteers,
		Records:       records,
	}, nil
}

// CheckInVolunteers prepares the check-ins for the request and submits them through a
// session opened by auth. The session is only opened once there is something to submit.
func CheckInVolunteers(
	ctx context.Context,
	client CheckInClient,
	auth Authenticator,
	req CheckInRequest,
	logger *zap.Logger,
) (*CheckInResult, error) {
	ctx, span := tracer.Start(ctx, "CheckInVolunteers")
	defer span.End()

	prepared, err := PrepareCheckIns(ctx, client, req, logger)
	if err != nil {
		span.SetStatus(codes.Error, "failed to prepare check-ins")
		return nil, err
	}

	result := &CheckInResult{Prepared: prepared}

	if req.DryRun {
		logger.Info("Dry run, not submitting check-ins", zap.Int("records", len(prepared.Records)))
		return result, nil
	}

	if len(prepared.Records) == 0 {
		logger.Warn("No volunteers to check in", zap.String("plan_id", prepared.Match.PlanID))
		return result, nil
	}

	submitter, err := auth.Login(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to log in")
		return nil, fmt.Errorf("failed to log in to check-ins: %w", err)
	}

	result.Report = SubmitCheckIns(ctx, submitter, prepared.Records, logger)

	span.SetAttributes(
		attribute.Int("submitted", len(result.Report.Submitted)),
		attribute.Int("failed", len(result.Report.Failed)),
	)
	if len(result.Report.Failed) > 0 {
		span.SetStatus(codes.Error, "some check-ins failed")
	}

	return result, nil
}
