package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// VolunteerSlots is a scheduled volunteer and the event times they should be checked in for
type VolunteerSlots struct {
	PersonID     string
	Name         string
	EventTimeIDs []string // sorted
}

// ExtractVolunteers returns every confirmed or unconfirmed team member of the matched plan
// along with the event times their scheduled service times correspond to.
// Team members whose times don't correspond to any event time are left out.
func ExtractVolunteers(
	ctx context.Context,
	client PlanClient,
	serviceTypeID string,
	match *PlanMatch,
	logger *zap.Logger,
) ([]VolunteerSlots, error) {
	assignments, err := client.ListTeamAssignments(ctx, serviceTypeID, match.PlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch team members for plan %s: %w", match.PlanID, err)
	}

	logger.Debug("Fetched team members",
		zap.String("plan_id", match.PlanID),
		zap.Int("count", len(assignments)))

	volunteers := make([]VolunteerSlots, 0, len(assignments))
	for _, assignment := range assignments {
		if !assignment.Status.IsScheduled() {
			logger.Debug("Skipping team member",
				zap.String("person_id", assignment.PersonID),
				zap.String("status", string(assignment.Status)))
			continue
		}

		// plan time ids -> service start times; unknown ids and non-service times drop out
		times := make(map[string]bool)
		for _, planTimeID := range assignment.PlanTimeIDs {
			if startsAt, ok := match.ServiceTimes[planTimeID]; ok {
				times[startsAt] = true
			}
		}

		// service start times -> event time ids
		eventTimeIDs := make(map[string]bool)
		for startsAt := range times {
			if eventTimeID, ok := match.EventTimes[startsAt]; ok {
				eventTimeIDs[eventTimeID] = true
			}
		}

		if len(eventTimeIDs) == 0 {
			logger.Debug("Team member has no matching event times",
				zap.String("person_id", assignment.PersonID),
				zap.Strings("plan_time_ids", assignment.PlanTimeIDs))
			continue
		}

		ids := make([]string, 0, len(eventTimeIDs))
		for id := range eventTimeIDs {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		volunteers = append(volunteers, VolunteerSlots{
			PersonID:     assignment.PersonID,
			Name:         assignment.Name,
			EventTimeIDs: ids,
		})
	}

	logger.Info("Extracted volunteers",
		zap.String("plan_id", match.PlanID),
		zap.Int("team_members", len(assignments)),
		zap.Int("volunteers", len(volunteers)))

	return volunteers, nil
}
