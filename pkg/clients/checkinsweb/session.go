package checkinsweb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/jakechorley/church-check-in/pkg/core/model"
)

const (
	checkInPrefix     = "bulk_check_in[check_ins_attributes][]"
	checkInTimePrefix = checkInPrefix + "[check_in_times_attributes][]"
)

// Session is a logged in check-ins web session. It is not modified after Login.
type Session struct {
	http      *resty.Client
	csrfToken string
	baseURL   string
	logger    *zap.Logger
}

// SubmitCheckIn posts a single check-in to the bulk check-in form of its event period
func (s *Session) SubmitCheckIn(ctx context.Context, record model.CheckInRecord) error {
	ctx, span := tracer.Start(ctx, "checkinsweb:SubmitCheckIn")
	defer span.End()
	span.SetAttributes(
		attribute.String("person_id", record.PersonID),
		attribute.String("event_time_id", record.EventTimeID),
	)

	submitURL := BulkCheckInURL(s.baseURL, record.EventPeriodID)

	res, err := s.http.R().
		SetContext(ctx).
		SetHeader("x-csrf-token", s.csrfToken).
		SetFormData(BulkCheckInForm(record)).
		Post(submitURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return fmt.Errorf("failed to post check-in: %w", err)
	}

	if res.StatusCode() != http.StatusOK {
		span.SetStatus(codes.Error, res.Status())
		return &StatusError{URL: submitURL, StatusCode: res.StatusCode()}
	}

	s.logger.Debug("Posted check-in",
		zap.String("person_id", record.PersonID),
		zap.String("event_time_id", record.EventTimeID))
	return nil
}

// BulkCheckInURL is the form endpoint check-ins for an event period are posted to
func BulkCheckInURL(baseURL, eventPeriodID string) string {
	return fmt.Sprintf("%s/event_periods/%s/bulk_check_ins",
		strings.TrimSuffix(baseURL, "/"), url.PathEscape(eventPeriodID))
}

// BulkCheckInForm encodes a record as the fields of the web app's bulk check-in form
func BulkCheckInForm(record model.CheckInRecord) map[string]string {
	return map[string]string{
		"check-in-kind": record.Kind,
		checkInPrefix + "[account_center_person_id]": record.PersonID,
		checkInTimePrefix + "[location_id]":          record.LocationID,
		checkInTimePrefix + "[event_time_id]":        record.EventTimeID,
		checkInTimePrefix + "[kind]":                 record.Kind,
		checkInPrefix + "[event_id]":                 record.EventID,
		checkInPrefix + "[event_period_id]":          record.EventPeriodID,
	}
}
