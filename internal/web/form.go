package web

import (
	"net/http"
	"strconv"
	"strings"

	"homeDesignAi/internal/design"
	"homeDesignAi/internal/planner"
	"homeDesignAi/internal/vision"
)

const maxFormBytes = 1 << 20 // 1 MB

// parseSubmission reads the urlencoded design form. Room tabs the user left
// untouched are not included, and blank or non-numeric counts fall back to
// their defaults during normalisation.
func parseSubmission(w http.ResponseWriter, r *http.Request) (planner.Submission, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return planner.Submission{}, err
	}
	f := r.PostForm

	req := design.Request{
		Style: f.Get("style"),
		Size:  f.Get("size"),
		Rooms: f.Get("rooms"),
		Details: design.Details{
			Bedrooms:               number(f.Get("bedrooms")),
			Bathrooms:              number(f.Get("bathrooms")),
			Doors:                  number(f.Get("doors")),
			Windows:                number(f.Get("windows")),
			CeilingHeight:          f.Get("ceiling_height"),
			FloorMaterial:          f.Get("floor_material"),
			AdditionalRequirements: f.Get("additional_requirements"),
			Timeline:               f.Get("timeline"),
			Priority:               f.Get("priority"),
		},
		Preferences: design.Preferences{
			BudgetRange:     f.Get("budget_range"),
			OutdoorSpace:    f.Get("outdoor_space"),
			SpecialFeatures: f["special_features"],
			EcoFriendly:     checked(f.Get("eco_friendly")),
		},
	}

	for _, opt := range design.RoomOptions {
		room := design.RoomDetail{
			Name:     opt.Key,
			Size:     strings.TrimSpace(f.Get(opt.Key + "_size")),
			Layout:   strings.TrimSpace(f.Get(opt.Key + "_layout")),
			Features: f[opt.Key+"_features"],
		}
		if room.Size == "" && room.Layout == "" && len(room.Features) == 0 {
			continue
		}
		req.Details.Rooms = append(req.Details.Rooms, room)
	}

	return planner.Submission{
		Request:     req,
		ImageSource: vision.ParseMode(f.Get("image_source")),
	}, nil
}

func number(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

func checked(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
