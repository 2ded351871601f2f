package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/church-check-in/pkg/core/model"
)

// CheckInSubmitter submits a single check-in
type CheckInSubmitter interface {
	SubmitCheckIn(ctx context.Context, record model.CheckInRecord) error
}

// SubmissionReport holds the outcome of every submitted record
type SubmissionReport struct {
	Submitted []model.CheckInRecord
	Failed    []*SubmissionError
}

// Total is the number of records attempted
func (r *SubmissionReport) Total() int {
	return len(r.Submitted) + len(r.Failed)
}

// SubmitCheckIns submits every record in order. A failed record is logged and collected
// and never stops the remaining records from being submitted.
func SubmitCheckIns(ctx context.Context, submitter CheckInSubmitter, records []model.CheckInRecord, logger *zap.Logger) *SubmissionReport {
	report := &SubmissionReport{
		Submitted: make([]model.CheckInRecord, 0, len(records)),
	}

	for _, record := range records {
		if err := submitter.SubmitCheckIn(ctx, record); err != nil {
			logger.Error("Failed to submit check-in",
				zap.String("person_id", record.PersonID),
				zap.String("event_time_id", record.EventTimeID),
				zap.String("location_id", record.LocationID),
				zap.Error(err))
			report.Failed = append(report.Failed, &SubmissionError{Record: record, Err: err})
			continue
		}

		logger.Debug("Checked in volunteer",
			zap.String("person_id", record.PersonID),
			zap.String("event_time_id", record.EventTimeID))
		report.Submitted = append(report.Submitted, record)
	}

	logger.Info("Submitted check-ins",
		zap.Int("submitted", len(report.Submitted)),
		zap.Int("failed", len(report.Failed)))

	return report
}
