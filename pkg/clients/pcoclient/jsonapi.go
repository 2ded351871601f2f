package pcoclient

import (
	"encoding/json"
	"fmt"
)

// document is a JSON:API collection response
type document struct {
	Data     []resource `json:"data"`
	Included []resource `json:"included"`
	Links    struct {
		Next string `json:"next"`
	} `json:"links"`
}

type resource struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id"`
	Attributes    json.RawMessage         `json:"attributes"`
	Relationships map[string]relationship `json:"relationships"`
}

type resourceIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// relationship data is either a single identifier, a list of identifiers or null
type relationship struct {
	Data json.RawMessage `json:"data"`
}

func (r resource) decodeAttributes(v any) error {
	if len(r.Attributes) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Attributes, v); err != nil {
		return fmt.Errorf("failed to decode %s %s attributes: %w", r.Type, r.ID, err)
	}
	return nil
}

// relatedIDs returns the ids referenced by the named relationship
func (r resource) relatedIDs(name string) []string {
	rel, ok := r.Relationships[name]
	if !ok || len(rel.Data) == 0 || string(rel.Data) == "null" {
		return nil
	}

	var many []resourceIdentifier
	if err := json.Unmarshal(rel.Data, &many); err == nil {
		ids := make([]string, 0, len(many))
		for _, ri := range many {
			ids = append(ids, ri.ID)
		}
		return ids
	}

	var one resourceIdentifier
	if err := json.Unmarshal(rel.Data, &one); err == nil && one.ID != "" {
		return []string{one.ID}
	}

	return nil
}

// includedOfType filters the included resources of a document by type
func (d *document) includedOfType(resourceType string) []resource {
	var out []resource
	for _, r := range d.Included {
		if r.Type == resourceType {
			out = append(out, r)
		}
	}
	return out
}

type nameAttributes struct {
	Name string `json:"name"`
}

type timeAttributes struct {
	StartsAt string `json:"starts_at"`
	TimeType string `json:"time_type"`
}

type planAttributes struct {
	SortDate string `json:"sort_date"`
}

type teamMemberAttributes struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}
