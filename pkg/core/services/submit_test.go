package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/church-check-in/pkg/core/model"
)

func TestSubmitCheckIns_AllSucceed(t *testing.T) {
	records := []model.CheckInRecord{
		BuildCheckInRecord("alice", "loc-1", "et-9", "ev-1", "ep-1"),
		BuildCheckInRecord("bob", "loc-1", "et-9", "ev-1", "ep-1"),
	}
	submitter := &mockSubmitter{}

	report := SubmitCheckIns(context.Background(), submitter, records, zap.NewNop())

	assert.Equal(t, records, report.Submitted)
	assert.Empty(t, report.Failed)
	assert.Equal(t, 2, report.Total())
}

func TestSubmitCheckIns_FailureDoesNotStopBatch(t *testing.T) {
	records := []model.CheckInRecord{
		BuildCheckInRecord("alice", "loc-1", "et-9", "ev-1", "ep-1"),
		BuildCheckInRecord("bob", "loc-1", "et-9", "ev-1", "ep-1"),
		BuildCheckInRecord("carol", "loc-1", "et-9", "ev-1", "ep-1"),
		BuildCheckInRecord("dave", "loc-1", "et-11", "ev-1", "ep-1"),
	}
	submitter := &mockSubmitter{failFor: map[string]bool{"bob/et-9": true}}

	report := SubmitCheckIns(context.Background(), submitter, records, zap.NewNop())

	// every record was attempted in order
	assert.Equal(t, records, submitter.submitted)

	require.Len(t, report.Failed, 1)
	assert.Equal(t, "bob", report.Failed[0].Record.PersonID)
	assert.Contains(t, report.Failed[0].Error(), "unexpected status 422")

	require.Len(t, report.Submitted, 3)
	assert.Equal(t, "alice", report.Submitted[0].PersonID)
	assert.Equal(t, "carol", report.Submitted[1].PersonID)
	assert.Equal(t, "dave", report.Submitted[2].PersonID)
	assert.Equal(t, 4, report.Total())
}

func TestSubmitCheckIns_AllFail(t *testing.T) {
	records := []model.CheckInRecord{
		BuildCheckInRecord("alice", "loc-1", "et-9", "ev-1", "ep-1"),
		BuildCheckInRecord("alice", "loc-1", "et-11", "ev-1", "ep-1"),
	}
	submitter := &mockSubmitter{failFor: map[string]bool{"alice/et-9": true, "alice/et-11": true}}

	report := SubmitCheckIns(context.Background(), submitter, records, zap.NewNop())

	assert.Empty(t, report.Submitted)
	require.Len(t, report.Failed, 2)

	var submissionErr *SubmissionError
	require.True(t, errors.As(error(report.Failed[1]), &submissionErr))
	assert.Equal(t, "et-11", submissionErr.Record.EventTimeID)
}

func TestSubmitCheckIns_NoRecords(t *testing.T) {
	submitter := &mockSubmitter{}

	report := SubmitCheckIns(context.Background(), submitter, nil, zap.NewNop())

	assert.Empty(t, submitter.submitted)
	assert.Equal(t, 0, report.Total())
}
