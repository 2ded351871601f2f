package services

import (
	"context"
	"fmt"

	"github.com/jakechorley/church-check-in/pkg/core/model"
)

// DirectoryClient defines the lookups needed to resolve names to identifiers
type DirectoryClient interface {
	ListServiceTypes(ctx context.Context) ([]model.ServiceType, error)
	ListEvents(ctx context.Context) ([]model.Event, error)
	ListLocations(ctx context.Context, eventID string) ([]model.Location, error)
}

// ResolveServiceType returns the id of the service type with the given name
func ResolveServiceType(ctx context.Context, client DirectoryClient, name string) (string, error) {
	serviceTypes, err := client.ListServiceTypes(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list service types: %w", err)
	}

	nameToID := make(map[string]string, len(serviceTypes))
	for _, st := range serviceTypes {
		nameToID[st.Name] = st.ID
	}

	id, ok := nameToID[name]
	if !ok {
		return "", &NotFoundError{Kind: "service type", Name: name}
	}
	return id, nil
}

// ResolveEvent returns the id of the check-in event with the given name
func ResolveEvent(ctx context.Context, client DirectoryClient, name string) (string, error) {
	events, err := client.ListEvents(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list events: %w", err)
	}

	nameToID := make(map[string]string, len(events))
	for _, event := range events {
		nameToID[event.Name] = event.ID
	}

	id, ok := nameToID[name]
	if !ok {
		return "", &NotFoundError{Kind: "event", Name: name}
	}
	return id, nil
}

// ResolveLocation returns the id of the named location of an event.
// found is false when the event has no location with that name; deciding
// whether that is fatal is left to the caller.
func ResolveLocation(ctx context.Context, client DirectoryClient, eventID, name string) (id string, found bool, err error) {
	locations, err := client.ListLocations(ctx, eventID)
	if err != nil {
		return "", false, fmt.Errorf("failed to list locations for event %s: %w", eventID, err)
	}

	for _, location := range locations {
		if location.Name == name {
			id, found = location.ID, true
		}
	}
	return id, found, nil
}
