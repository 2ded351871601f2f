package services

import "github.com/jakechorley/church-check-in/pkg/core/model"

// BuildCheckInRecord creates the volunteer check-in for one person at one event time
func BuildCheckInRecord(personID, locationID, eventTimeID, eventID, eventPeriodID string) model.CheckInRecord {
	return model.CheckInRecord{
		PersonID:      personID,
		LocationID:    locationID,
		EventTimeID:   eventTimeID,
		EventID:       eventID,
		EventPeriodID: eventPeriodID,
		Kind:          model.CheckInKindVolunteer,
	}
}

// BuildCheckInRecords expands each volunteer into one record per event time, keeping
// volunteer order and then event time order
func BuildCheckInRecords(volunteers []VolunteerSlots, locationID, eventID, eventPeriodID string) []model.CheckInRecord {
	records := make([]model.CheckInRecord, 0, len(volunteers))
	for _, v := range volunteers {
		for _, eventTimeID := range v.EventTimeIDs {
			records = append(records, BuildCheckInRecord(v.PersonID, locationID, eventTimeID, eventID, eventPeriodID))
		}
	}
	return records
}
