package pcoclient

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jakechorley/church-check-in/pkg/core/model"
)

// ListEvents returns every check-in event
func (c *Client) ListEvents(ctx context.Context) ([]model.Event, error) {
	resources, err := c.listAll(ctx, "/check-ins/v2/events", map[string]string{
		"per_page": "100",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]model.Event, 0, len(resources))
	for _, r := range resources {
		var attrs nameAttributes
		if err := r.decodeAttributes(&attrs); err != nil {
			return nil, err
		}
		events = append(events, model.Event{ID: r.ID, Name: attrs.Name})
	}

	return events, nil
}

// ListLocations returns the locations of an event
func (c *Client) ListLocations(ctx context.Context, eventID string) ([]model.Location, error) {
	path := fmt.Sprintf("/check-ins/v2/events/%s/locations", url.PathEscape(eventID))
	resources, err := c.listAll(ctx, path, map[string]string{
		"per_page": "100",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	locations := make([]model.Location, 0, len(resources))
	for _, r := range resources {
		var attrs nameAttributes
		if err := r.decodeAttributes(&attrs); err != nil {
			return nil, err
		}
		locations = append(locations, model.Location{ID: r.ID, Name: attrs.Name})
	}

	return locations, nil
}

// GetLatestEventPeriod returns the first event period the API lists for the event (the most
// recent one) with its event times, or nil if the event has no periods
func (c *Client) GetLatestEventPeriod(ctx context.Context, eventID string) (*model.EventPeriod, error) {
	path := fmt.Sprintf("/check-ins/v2/events/%s/event_periods", url.PathEscape(eventID))
	doc, err := c.getDocument(ctx, path, map[string]string{
		"include":  "event_times",
		"per_page": "1",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get event period: %w", err)
	}

	if len(doc.Data) == 0 {
		return nil, nil
	}

	period := &model.EventPeriod{
		ID:      doc.Data[0].ID,
		EventID: eventID,
	}

	for _, r := range doc.includedOfType("EventTime") {
		var attrs timeAttributes
		if err := r.decodeAttributes(&attrs); err != nil {
			return nil, err
		}
		period.Times = append(period.Times, model.EventTime{
			ID:       r.ID,
			StartsAt: attrs.StartsAt,
		})
	}

	return period, nil
}
