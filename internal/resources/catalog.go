// Package resources holds the fixed registry of bookable community assets.
package resources

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"communityportal/pkg/model"
)

var ErrNotFound = errors.New("resource not found")

// Catalog is the immutable set of bookable resources, fixed at startup.
// Lookups are lock-free because nothing mutates the catalog after New.
type Catalog struct {
	ordered []model.Resource
	byID    map[string]model.Resource
}

func New(items []model.Resource) (*Catalog, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("resource catalog cannot be empty")
	}

	byID := make(map[string]model.Resource, len(items))
	for _, r := range items {
		if r.ID == "" {
			return nil, fmt.Errorf("resource with empty id in catalog")
		}
		if r.Capacity < 1 {
			return nil, fmt.Errorf("resource %s has non-positive capacity %d", r.ID, r.Capacity)
		}
		if _, dup := byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate resource id in catalog: %s", r.ID)
		}
		byID[r.ID] = r
	}

	ordered := make([]model.Resource, len(items))
	copy(ordered, items)

	return &Catalog{ordered: ordered, byID: byID}, nil
}

// Load reads the catalog from a JSON file when path is set, otherwise falls
// back to the built-in community defaults.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return New(defaultCatalog())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resource catalog %s: %w", path, err)
	}

	var items []model.Resource
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse resource catalog %s: %w", path, err)
	}

	return New(items)
}

// List returns the catalog in its configured order.
func (c *Catalog) List() []model.Resource {
	out := make([]model.Resource, len(c.ordered))
	copy(out, c.ordered)
	return out
}

func (c *Catalog) Get(id string) (model.Resource, error) {
	r, ok := c.byID[id]
	if !ok {
		return model.Resource{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, nil
}

func defaultCatalog() []model.Resource {
	return []model.Resource{
		{ID: "community-hall", Name: "Community Hall", Type: model.ResourceHall, Capacity: 150},
		{ID: "function-hall", Name: "Function Hall", Type: model.ResourceHall, Capacity: 80},
		{ID: "bbq-area", Name: "BBQ Area", Type: model.ResourceOutdoor, Capacity: 40},
		{ID: "tennis-court", Name: "Tennis Court", Type: model.ResourceOutdoor, Capacity: 8},
		{ID: "meeting-room-1", Name: "Meeting Room 1", Type: model.ResourceMeetingRoom, Capacity: 20},
		{ID: "meeting-room-2", Name: "Meeting Room 2", Type: model.ResourceMeetingRoom, Capacity: 12},
	}
}
