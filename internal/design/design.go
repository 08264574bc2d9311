package design

import (
	"strconv"
	"strings"
)

// Default planning values used when the optional block is left blank.
const (
	DefaultBedrooms      = 3
	DefaultBathrooms     = 2
	DefaultDoors         = 2
	DefaultWindows       = 8
	DefaultCeilingHeight = "Standard (8ft)"
	DefaultFloorMaterial = "Hardwood"
	NotSpecified         = "Not specified"
)

// Request carries everything a user submitted for one design run.
type Request struct {
	Style       string      `json:"style"`
	Size        string      `json:"size"`
	Rooms       string      `json:"rooms"`
	Details     Details     `json:"details"`
	Preferences Preferences `json:"preferences"`
}

// Details is the optional "detailed home planning" block.
type Details struct {
	Bedrooms               int          `json:"bedrooms" validate:"min=1,max=10"`
	Bathrooms              int          `json:"bathrooms" validate:"min=1,max=8"`
	Doors                  int          `json:"doors" validate:"min=1,max=10"`
	Windows                int          `json:"windows" validate:"min=1,max=30"`
	CeilingHeight          string       `json:"ceiling_height"`
	FloorMaterial          string       `json:"floor_material"`
	Rooms                  []RoomDetail `json:"rooms,omitempty" validate:"dive"`
	AdditionalRequirements string       `json:"additional_requirements,omitempty" validate:"max=2000"`
	Timeline               string       `json:"timeline"`
	Priority               string       `json:"priority"`
}

// RoomDetail describes one room tab of the planning block.
type RoomDetail struct {
	Name     string   `json:"name" validate:"required"`
	Size     string   `json:"size,omitempty"`
	Layout   string   `json:"layout,omitempty"`
	Features []string `json:"features,omitempty"`
}

// Preferences are the free "additional preferences" selects.
type Preferences struct {
	BudgetRange     string   `json:"budget_range,omitempty"`
	OutdoorSpace    string   `json:"outdoor_space,omitempty"`
	SpecialFeatures []string `json:"special_features,omitempty"`
	EcoFriendly     bool     `json:"eco_friendly,omitempty"`
}

// Normalize trims the free-text fields and fills unset planning values with
// their defaults. The receiver is not modified.
func (r Request) Normalize() Request {
	out := r
	out.Style = strings.TrimSpace(r.Style)
	out.Size = strings.TrimSpace(r.Size)
	out.Rooms = strings.TrimSpace(r.Rooms)

	d := &out.Details
	if d.Bedrooms == 0 {
		d.Bedrooms = DefaultBedrooms
	}
	if d.Bathrooms == 0 {
		d.Bathrooms = DefaultBathrooms
	}
	if d.Doors == 0 {
		d.Doors = DefaultDoors
	}
	if d.Windows == 0 {
		d.Windows = DefaultWindows
	}
	d.CeilingHeight = orDefault(d.CeilingHeight, DefaultCeilingHeight)
	d.FloorMaterial = orDefault(d.FloorMaterial, DefaultFloorMaterial)
	d.Timeline = orDefault(d.Timeline, NotSpecified)
	d.Priority = orDefault(d.Priority, NotSpecified)
	d.AdditionalRequirements = strings.TrimSpace(d.AdditionalRequirements)

	if len(r.Details.Rooms) > 0 {
		rooms := make([]RoomDetail, 0, len(r.Details.Rooms))
		for _, room := range r.Details.Rooms {
			room.Name = strings.TrimSpace(room.Name)
			room.Size = strings.TrimSpace(room.Size)
			room.Layout = strings.TrimSpace(room.Layout)
			room.Features = compact(room.Features)
			if room.Name == "" {
				continue
			}
			rooms = append(rooms, room)
		}
		d.Rooms = rooms
	}

	p := &out.Preferences
	p.BudgetRange = orDefault(p.BudgetRange, NotSpecified)
	p.OutdoorSpace = orDefault(p.OutdoorSpace, NotSpecified)
	p.SpecialFeatures = compact(p.SpecialFeatures)
	return out
}

// Room returns the detail record for name, if the user filled one in.
func (d Details) Room(name string) (RoomDetail, bool) {
	for _, room := range d.Rooms {
		if room.Name == name {
			return room, true
		}
	}
	return RoomDetail{}, false
}

// RoomCount parses the submitted room count.
func (r Request) RoomCount() (int, error) {
	return strconv.Atoi(strings.TrimSpace(r.Rooms))
}

// Slug converts a style into the download filename stem.
func Slug(style string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(style)), " ", "_")
}

// DownloadName is the plain-text export filename for a style.
func DownloadName(style string) string {
	return Slug(style) + "_home_design.txt"
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func compact(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
