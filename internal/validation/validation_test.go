package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"homeDesignAi/internal/design"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name               string
		style, size, rooms string
		want               []string
	}{
		{name: "valid", style: "Modern", size: "2000 sq ft", rooms: "4", want: []string{}},
		{name: "bounds inclusive low", style: "Zen", size: "Small", rooms: "1", want: []string{}},
		{name: "bounds inclusive high", style: "Zen", size: "Huge", rooms: " 50 ", want: []string{}},
		{name: "short style", style: " M ", size: "2000", rooms: "4", want: []string{msgStyle}},
		{name: "single accented letter", style: "é", size: "2000", rooms: "4", want: []string{msgStyle}},
		{name: "two letter non-ascii", style: "禅庭", size: "2000", rooms: "4", want: []string{}},
		{name: "blank size", style: "Modern", size: "   ", rooms: "4", want: []string{msgSize}},
		{name: "empty rooms", style: "Modern", size: "2000", rooms: "", want: []string{msgRooms}},
		{name: "non numeric rooms", style: "Modern", size: "2000", rooms: "four", want: []string{msgRoomsNumber}},
		{name: "decimal rooms", style: "Modern", size: "2000", rooms: "4.5", want: []string{msgRoomsNumber}},
		{name: "zero rooms", style: "Modern", size: "2000", rooms: "0", want: []string{msgRoomsRange}},
		{name: "too many rooms", style: "Modern", size: "2000", rooms: "51", want: []string{msgRoomsRange}},
		{name: "negative rooms", style: "Modern", size: "2000", rooms: "-3", want: []string{msgRoomsRange}},
		{name: "everything wrong", style: "", size: "", rooms: "", want: []string{msgStyle, msgSize, msgRooms}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.style, tt.size, tt.rooms))
		})
	}
}

func TestValidateZeroRoomsMentionsRange(t *testing.T) {
	errs := Validate("Modern", "2000 sq ft", "0")
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "between 1 and 50")
}

func TestValidateDetails(t *testing.T) {
	valid := design.Request{Style: "Modern"}.Normalize().Details
	assert.Empty(t, ValidateDetails(valid))

	bad := valid
	bad.Bedrooms = 11
	bad.Bathrooms = -1
	bad.Windows = 31
	bad.AdditionalRequirements = strings.Repeat("x", 2001)
	bad.Rooms = []design.RoomDetail{{Name: ""}, {Name: ""}}

	assert.Equal(t, []string{
		"Number of bedrooms must be between 1 and 10",
		"Number of bathrooms must be between 1 and 8",
		"Number of windows must be between 1 and 30",
		"Room name is required",
		"Additional requirements must be at most 2000 characters",
	}, ValidateDetails(bad))
}

func TestValidateRequest(t *testing.T) {
	req := design.Request{Style: "Modern", Size: "2000 sq ft", Rooms: "4", Details: design.Details{Doors: 12}}.Normalize()
	assert.Equal(t, []string{"Number of exterior doors must be between 1 and 10"}, ValidateRequest(req))

	req.Details.Doors = 3
	assert.Empty(t, ValidateRequest(req))
}
