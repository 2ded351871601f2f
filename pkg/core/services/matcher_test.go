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

func servicePlan(id string, startTimes ...string) model.Plan {
	plan := model.Plan{ID: id}
	for i, startsAt := range startTimes {
		plan.Times = append(plan.Times, model.PlanTime{
			ID:       id + "-pt-" + string(rune('a'+i)),
			StartsAt: startsAt,
			TimeType: model.TimeTypeService,
		})
	}
	return plan
}

func periodWithTimes(startTimes ...string) *model.EventPeriod {
	period := &model.EventPeriod{ID: "ep-1"}
	for i, startsAt := range startTimes {
		period.Times = append(period.Times, model.EventTime{
			ID:       "et-" + string(rune('a'+i)),
			StartsAt: startsAt,
		})
	}
	return period
}

func TestMatchPlan_SkipsPlanMissingEventTime(t *testing.T) {
	client := morningServiceClient()

	match, err := MatchPlan(context.Background(), client, "st-2", client.eventPeriod, 3, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "plan-1", match.PlanID)
	assert.Equal(t, "ep-1", match.EventPeriodID)
	assert.Equal(t, []int{0, 1}, client.planOffsets)

	// rehearsal times are not service times
	assert.Equal(t, map[string]string{
		"pt-9":  "2025-01-05T09:00:00Z",
		"pt-11": "2025-01-05T11:00:00Z",
		"pt-17": "2025-01-05T17:00:00Z",
	}, match.ServiceTimes)
	assert.Equal(t, map[string]string{
		"2025-01-05T09:00:00Z": "et-9",
		"2025-01-05T11:00:00Z": "et-11",
	}, match.EventTimes)
}

func TestMatchPlan_ReturnsEarliestMatchingPlan(t *testing.T) {
	client := &mockPCOClient{
		plans: []model.Plan{
			servicePlan("plan-a", "2025-01-05T09:00:00Z", "2025-01-05T11:00:00Z"),
			servicePlan("plan-b", "2025-01-05T09:00:00Z", "2025-01-05T11:00:00Z"),
		},
	}
	period := periodWithTimes("2025-01-05T09:00:00Z", "2025-01-05T11:00:00Z")

	match, err := MatchPlan(context.Background(), client, "st-1", period, 3, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "plan-a", match.PlanID)
	assert.Equal(t, []int{0}, client.planOffsets)
}

func TestMatchPlan_SupersetProperty(t *testing.T) {
	tests := []struct {
		name        string
		eventTimes  []string
		planTimes   []string
		shouldMatch bool
	}{
		{"equal sets", []string{"2025-01-05T09:00:00Z"}, []string{"2025-01-05T09:00:00Z"}, true},
		{"plan has extra times", []string{"2025-01-05T09:00:00Z"}, []string{"2025-01-05T09:00:00Z", "2025-01-05T18:00:00Z"}, true},
		{"plan missing one time", []string{"2025-01-05T09:00:00Z", "2025-01-05T11:00:00Z"}, []string{"2025-01-05T09:00:00Z"}, false},
		{"disjoint", []string{"2025-01-05T09:00:00Z"}, []string{"2025-01-12T09:00:00Z"}, false},
		{"one minute apart", []string{"2025-01-05T09:00:00Z"}, []string{"2025-01-05T09:01:00Z"}, false},
		{"same instant in another offset", []string{"2025-01-05T09:00:00Z"}, []string{"2025-01-05T10:00:00+01:00"}, true},
		{"plan has no service times", []string{"2025-01-05T09:00:00Z"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockPCOClient{
				plans: []model.Plan{servicePlan("plan-a", tt.planTimes...)},
			}
			period := periodWithTimes(tt.eventTimes...)

			match, err := MatchPlan(context.Background(), client, "st-1", period, 1, zap.NewNop())
			if tt.shouldMatch {
				require.NoError(t, err)
				assert.Equal(t, "plan-a", match.PlanID)
			} else {
				var notFound *MatchNotFoundError
				require.True(t, errors.As(err, &notFound), "expected MatchNotFoundError, got %v", err)
			}
		})
	}
}

func TestMatchPlan_Exhausted(t *testing.T) {
	client := &mockPCOClient{
		plans: []model.Plan{
			servicePlan("plan-a", "2025-01-05T09:00:00Z"),
			servicePlan("plan-b", "2025-01-12T09:00:00Z"),
			servicePlan("plan-c", "2025-01-19T09:00:00Z"),
			servicePlan("plan-d", "2025-01-26T10:30:00Z"),
		},
	}
	period := periodWithTimes("2025-01-26T10:30:00Z")

	_, err := MatchPlan(context.Background(), client, "st-1", period, 3, zap.NewNop())
	require.Error(t, err)

	var notFound *MatchNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, 3, notFound.Attempts)
	assert.Equal(t, map[string]string{"2025-01-26T10:30:00Z": "et-a"}, notFound.EventTimes)
	assert.Contains(t, err.Error(), "2025-01-26T10:30:00Z=et-a")
	assert.ErrorIs(t, err, ErrNoMatchingPlan)

	// the fourth plan is outside the attempt bound
	assert.Equal(t, []int{0, 1, 2}, client.planOffsets)
}

func TestMatchPlan_RunsOutOfPlans(t *testing.T) {
	client := &mockPCOClient{
		plans: []model.Plan{
			servicePlan("plan-a", "2025-01-05T09:00:00Z"),
		},
	}
	period := periodWithTimes("2025-01-05T11:00:00Z")

	_, err := MatchPlan(context.Background(), client, "st-1", period, 3, zap.NewNop())
	require.Error(t, err)

	var exhausted *ExhaustedCandidatesError
	require.True(t, errors.As(err, &exhausted))
	assert.Equal(t, 1, exhausted.Offset)
	assert.Equal(t, map[string]string{"2025-01-05T11:00:00Z": "et-a"}, exhausted.EventTimes)
	assert.ErrorIs(t, err, ErrNoMatchingPlan)

	// does not keep looking after the first missing plan
	assert.Equal(t, []int{0, 1}, client.planOffsets)
}

func TestMatchPlan_DefaultAttempts(t *testing.T) {
	client := &mockPCOClient{
		plans: []model.Plan{
			servicePlan("plan-a", "2025-01-05T09:00:00Z"),
			servicePlan("plan-b", "2025-01-12T09:00:00Z"),
			servicePlan("plan-c", "2025-01-19T09:00:00Z"),
			servicePlan("plan-d", "2025-01-26T09:00:00Z"),
		},
	}
	period := periodWithTimes("2025-02-02T09:00:00Z")

	_, err := MatchPlan(context.Background(), client, "st-1", period, 0, zap.NewNop())

	var notFound *MatchNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, DefaultFuturePlanAttempts, notFound.Attempts)
	assert.Len(t, client.planOffsets, DefaultFuturePlanAttempts)
}

func TestMatchPlan_NoEventTimes(t *testing.T) {
	client := &mockPCOClient{
		plans: []model.Plan{servicePlan("plan-a", "2025-01-05T09:00:00Z")},
	}

	_, err := MatchPlan(context.Background(), client, "st-1", periodWithTimes(), 3, zap.NewNop())
	assert.ErrorIs(t, err, ErrNoEventTimes)
	assert.Empty(t, client.planOffsets)
}

func TestMatchPlan_ClientError(t *testing.T) {
	client := &mockPCOClient{planErr: errAPI}

	_, err := MatchPlan(context.Background(), client, "st-1", periodWithTimes("2025-01-05T09:00:00Z"), 3, zap.NewNop())
	assert.ErrorIs(t, err, errAPI)
	assert.NotErrorIs(t, err, ErrNoMatchingPlan)
}

func TestServiceTimeIndex_OnlyServiceTimes(t *testing.T) {
	plan := &model.Plan{
		ID: "plan-1",
		Times: []model.PlanTime{
			{ID: "pt-1", StartsAt: "2025-01-05T08:00:00Z", TimeType: "rehearsal"},
			{ID: "pt-2", StartsAt: "2025-01-05T09:00:00Z", TimeType: "service"},
			{ID: "pt-3", StartsAt: "2025-01-05T10:00:00Z", TimeType: "other"},
		},
	}

	assert.Equal(t, map[string]string{"pt-2": "2025-01-05T09:00:00Z"}, ServiceTimeIndex(plan))
}

func TestNormalizeTimestamp(t *testing.T) {
	assert.Equal(t, "2025-01-05T09:00:00Z", normalizeTimestamp("2025-01-05T09:00:00Z"))
	assert.Equal(t, "2025-01-05T09:00:00Z", normalizeTimestamp("2025-01-05T04:00:00-05:00"))
	assert.Equal(t, "not a time", normalizeTimestamp("not a time"))
}
