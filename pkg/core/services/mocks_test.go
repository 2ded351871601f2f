package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jakechorley/church-check-in/pkg/core/model"
)

// mockPCOClient implements CheckInClient
type mockPCOClient struct {
	serviceTypes []model.ServiceType
	events       []model.Event
	locations    map[string][]model.Location // event id -> locations
	eventPeriod  *model.EventPeriod
	plans        []model.Plan // future plans in sort date order
	assignments  map[string][]model.TeamAssignment

	listServiceTypesErr error
	listEventsErr       error
	listLocationsErr    error
	eventPeriodErr      error
	planErr             error
	assignmentsErr      error

	// recorded calls
	planOffsets       []int
	serviceTypeCalls  int
	assignmentPlanIDs []string
}

func (m *mockPCOClient) ListServiceTypes(ctx context.Context) ([]model.ServiceType, error) {
	m.serviceTypeCalls++
	if m.listServiceTypesErr != nil {
		return nil, m.listServiceTypesErr
	}
	return m.serviceTypes, nil
}

func (m *mockPCOClient) ListEvents(ctx context.Context) ([]model.Event, error) {
	if m.listEventsErr != nil {
		return nil, m.listEventsErr
	}
	return m.events, nil
}

func (m *mockPCOClient) ListLocations(ctx context.Context, eventID string) ([]model.Location, error) {
	if m.listLocationsErr != nil {
		return nil, m.listLocationsErr
	}
	return m.locations[eventID], nil
}

func (m *mockPCOClient) GetLatestEventPeriod(ctx context.Context, eventID string) (*model.EventPeriod, error) {
	if m.eventPeriodErr != nil {
		return nil, m.eventPeriodErr
	}
	return m.eventPeriod, nil
}

func (m *mockPCOClient) GetFuturePlan(ctx context.Context, serviceTypeID string, offset int) (*model.Plan, error) {
	m.planOffsets = append(m.planOffsets, offset)
	if m.planErr != nil {
		return nil, m.planErr
	}
	if offset >= len(m.plans) {
		return nil, nil
	}
	plan := m.plans[offset]
	return &plan, nil
}

func (m *mockPCOClient) ListTeamAssignments(ctx context.Context, serviceTypeID, planID string) ([]model.TeamAssignment, error) {
	m.assignmentPlanIDs = append(m.assignmentPlanIDs, planID)
	if m.assignmentsErr != nil {
		return nil, m.assignmentsErr
	}
	return m.assignments[planID], nil
}

// mockSubmitter implements CheckInSubmitter and fails for the configured person/event time pairs
type mockSubmitter struct {
	failFor   map[string]bool // "personID/eventTimeID"
	submitted []model.CheckInRecord
}

func (m *mockSubmitter) SubmitCheckIn(ctx context.Context, record model.CheckInRecord) error {
	m.submitted = append(m.submitted, record)
	if m.failFor[record.PersonID+"/"+record.EventTimeID] {
		return fmt.Errorf("unexpected status 422")
	}
	return nil
}

// mockAuthenticator implements Authenticator
type mockAuthenticator struct {
	submitter *mockSubmitter
	err       error
	logins    int
}

func (m *mockAuthenticator) Login(ctx context.Context) (CheckInSubmitter, error) {
	m.logins++
	if m.err != nil {
		return nil, m.err
	}
	return m.submitter, nil
}

var errAPI = errors.New("api unavailable")

// morningServiceClient builds the standard scenario: an event period with 09:00 and 11:00
// event times, a first plan with only a 09:00 service and a second plan covering both
func morningServiceClient() *mockPCOClient {
	return &mockPCOClient{
		serviceTypes: []model.ServiceType{
			{ID: "st-1", Name: "Evening Service"},
			{ID: "st-2", Name: "Morning Service"},
		},
		events: []model.Event{
			{ID: "ev-1", Name: "Morning Service"},
			{ID: "ev-2", Name: "Kids Club"},
		},
		locations: map[string][]model.Location{
			"ev-1": {
				{ID: "loc-1", Name: "Main Hall"},
				{ID: "loc-2", Name: "Creche"},
			},
		},
		eventPeriod: &model.EventPeriod{
			ID:      "ep-1",
			EventID: "ev-1",
			Times: []model.EventTime{
				{ID: "et-9", StartsAt: "2025-01-05T09:00:00Z"},
				{ID: "et-11", StartsAt: "2025-01-05T11:00:00Z"},
			},
		},
		plans: []model.Plan{
			{
				ID:       "plan-0",
				SortDate: "2025-01-04T09:00:00Z",
				Times: []model.PlanTime{
					{ID: "pt-0-9", StartsAt: "2025-01-05T09:00:00Z", TimeType: "service"},
				},
			},
			{
				ID:       "plan-1",
				SortDate: "2025-01-05T09:00:00Z",
				Times: []model.PlanTime{
					{ID: "pt-rehearsal", StartsAt: "2025-01-05T08:00:00Z", TimeType: "rehearsal"},
					{ID: "pt-9", StartsAt: "2025-01-05T09:00:00Z", TimeType: "service"},
					{ID: "pt-11", StartsAt: "2025-01-05T11:00:00Z", TimeType: "service"},
					{ID: "pt-17", StartsAt: "2025-01-05T17:00:00Z", TimeType: "service"},
				},
			},
		},
		assignments: map[string][]model.TeamAssignment{
			"plan-1": {
				{ID: "tm-1", PersonID: "alice", Name: "Alice Smith", Status: model.StatusConfirmed, PlanTimeIDs: []string{"pt-9", "pt-11"}},
				{ID: "tm-2", PersonID: "bob", Name: "Bob Jones", Status: model.StatusUnconfirmed, PlanTimeIDs: []string{"pt-11"}},
				{ID: "tm-3", PersonID: "carol", Name: "Carol White", Status: model.StatusConfirmed, PlanTimeIDs: []string{"pt-17"}},
				{ID: "tm-4", PersonID: "dave", Name: "Dave Brown", Status: model.StatusDeclined, PlanTimeIDs: []string{"pt-9"}},
			},
		},
	}
}
