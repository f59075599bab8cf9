package domain

import "time"

type AttractionType string

const (
	TypeExtreme  AttractionType = "extreme"
	TypeFamily   AttractionType = "family"
	TypeChildren AttractionType = "children"
	TypeWater    AttractionType = "water"
)

func ParseAttractionType(s string) (AttractionType, bool) {
	switch AttractionType(s) {
	case TypeExtreme, TypeFamily, TypeChildren, TypeWater:
		return AttractionType(s), true
	default:
		return "", false
	}
}

// Details document keys.
const (
	DetailDuration    = "duration_seconds"
	DetailCapacity    = "capacity_per_cycle"
	DetailIntensity   = "intensity"
	DetailFeatures    = "features"
	DetailSchedule    = "schedule"
	DetailMaintenance = "maintenance"
)

type Attraction struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Type          AttractionType `json:"type"`
	MinHeight     int            `json:"min_height"`
	Active        bool           `json:"active"`
	InauguratedOn time.Time      `json:"inaugurated_on"`
	Details       Document       `json:"details"`
}

func (a *Attraction) Intensity() (int, bool) {
	return a.Details.Int(DetailIntensity)
}

func (a *Attraction) DurationSeconds() (int, bool) {
	return a.Details.Int(DetailDuration)
}

func (a *Attraction) CapacityPerCycle() (int, bool) {
	return a.Details.Int(DetailCapacity)
}

func (a *Attraction) Features() []string {
	return a.Details.StringSlice(DetailFeatures)
}

// MaintenanceWindows returns the scheduled maintenance entries, nil when the
// schedule or its maintenance list is absent.
func (a *Attraction) MaintenanceWindows() []Document {
	schedule := a.Details.Sub(DetailSchedule)
	if schedule == nil {
		return nil
	}
	raw, ok := schedule.Array(DetailMaintenance)
	if !ok {
		return nil
	}
	out := make([]Document, 0, len(raw))
	for _, e := range raw {
		switch m := e.(type) {
		case Document:
			out = append(out, m)
		case map[string]any:
			out = append(out, Document(m))
		}
	}
	return out
}

type CreateAttraction struct {
	Name      string         `json:"name"`
	Type      AttractionType `json:"type"`
	MinHeight int            `json:"min_height"`
	Details   Document       `json:"details,omitempty"`
}

type AttractionSales struct {
	Attraction
	TicketsSold int64 `json:"tickets_sold"`
}
