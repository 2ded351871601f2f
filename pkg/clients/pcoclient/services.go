package pcoclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jakechorley/church-check-in/pkg/core/model"
)

// teamMembersPageSize is the largest page the API serves. Only the first page is read.
const teamMembersPageSize = 100

// ListServiceTypes returns every service type
func (c *Client) ListServiceTypes(ctx context.Context) ([]model.ServiceType, error) {
	resources, err := c.listAll(ctx, "/services/v2/service_types", map[string]string{
		"per_page": "100",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list service types: %w", err)
	}

	serviceTypes := make([]model.ServiceType, 0, len(resources))
	for _, r := range resources {
		var attrs nameAttributes
		if err := r.decodeAttributes(&attrs); err != nil {
			return nil, err
		}
		serviceTypes = append(serviceTypes, model.ServiceType{ID: r.ID, Name: attrs.Name})
	}

	return serviceTypes, nil
}

// GetFuturePlan returns the upcoming plan at offset (0 is the next plan) in sort date order
// with its plan times. It returns nil if there are not that many future plans.
func (c *Client) GetFuturePlan(ctx context.Context, serviceTypeID string, offset int) (*model.Plan, error) {
	path := fmt.Sprintf("/services/v2/service_types/%s/plans", url.PathEscape(serviceTypeID))
	doc, err := c.getDocument(ctx, path, map[string]string{
		"filter":   "future",
		"order":    "sort_date",
		"per_page": "1",
		"include":  "plan_times",
		"offset":   strconv.Itoa(offset),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get future plan: %w", err)
	}

	if len(doc.Data) == 0 {
		return nil, nil
	}

	data := doc.Data[0]
	var attrs planAttributes
	if err := data.decodeAttributes(&attrs); err != nil {
		return nil, err
	}

	plan := &model.Plan{
		ID:            data.ID,
		ServiceTypeID: serviceTypeID,
		SortDate:      attrs.SortDate,
	}

	for _, r := range doc.includedOfType("PlanTime") {
		var timeAttrs timeAttributes
		if err := r.decodeAttributes(&timeAttrs); err != nil {
			return nil, err
		}
		plan.Times = append(plan.Times, model.PlanTime{
			ID:       r.ID,
			StartsAt: timeAttrs.StartsAt,
			TimeType: timeAttrs.TimeType,
		})
	}

	return plan, nil
}

// ListTeamAssignments returns the team members scheduled on a plan
func (c *Client) ListTeamAssignments(ctx context.Context, serviceTypeID, planID string) ([]model.TeamAssignment, error) {
	path := fmt.Sprintf("/services/v2/service_types/%s/plans/%s/team_members",
		url.PathEscape(serviceTypeID), url.PathEscape(planID))
	doc, err := c.getDocument(ctx, path, map[string]string{
		"per_page": strconv.Itoa(teamMembersPageSize),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}

	assignments := make([]model.TeamAssignment, 0, len(doc.Data))
	for _, r := range doc.Data {
		var attrs teamMemberAttributes
		if err := r.decodeAttributes(&attrs); err != nil {
			return nil, err
		}

		var personID string
		if ids := r.relatedIDs("person"); len(ids) > 0 {
			personID = ids[0]
		}

		assignments = append(assignments, model.TeamAssignment{
			ID:          r.ID,
			PersonID:    personID,
			Name:        attrs.Name,
			Status:      model.AssignmentStatus(attrs.Status),
			PlanTimeIDs: r.relatedIDs("times"),
		})
	}

	return assignments, nil
}
