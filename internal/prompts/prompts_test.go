package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"homeDesignAi/internal/design"
)

func TestBuildDesignPromptListsEveryField(t *testing.T) {
	req := design.Request{
		Style: "Craftsman",
		Size:  "2400 sq ft",
		Rooms: "7",
		Details: design.Details{
			Bedrooms:               4,
			Windows:                14,
			CeilingHeight:          "Vaulted",
			AdditionalRequirements: "Mudroom near the garage",
			Timeline:               "Short-term (3-6 months)",
			Priority:               "Sustainability",
			Rooms: []design.RoomDetail{
				{Name: design.RoomKitchen, Layout: "Galley", Features: []string{"Island", "Wine Storage"}},
			},
		},
		Preferences: design.Preferences{SpecialFeatures: []string{"Gym"}, EcoFriendly: true},
	}.Normalize()

	prompt := BuildDesignPrompt(req)

	for _, want := range []string{
		"Style: Craftsman",
		"Size: 2400 sq ft",
		"Number of Rooms: 7",
		"- Bedrooms: 4",
		"- Bathrooms: 2",
		"- Exterior Doors: 2",
		"- Windows: 14",
		"- Ceiling Height: Vaulted",
		"- Floor Material: Hardwood",
		"Kitchen:\n- Layout: Galley\n- Features: Island, Wine Storage",
		"Mudroom near the garage",
		"Project Timeline: Short-term (3-6 months)",
		"Design Priority: Sustainability",
		"- Special Features: Gym",
		"- Eco-friendly Design: Yes",
		"1. Overall layout and floor plan description",
		"15. Maintenance considerations",
	} {
		assert.Contains(t, prompt, want)
	}
}

func TestFormatRoomDetails(t *testing.T) {
	got := FormatRoomDetails([]design.RoomDetail{
		{Name: design.RoomLiving, Size: "300", Layout: "Open"},
		{Name: design.RoomMasterBedroom, Features: []string{"Balcony"}},
	})

	assert.Equal(t, "Living Room:\n- Size: 300\n- Layout: Open\n\nMaster Bedroom:\n- Features: Balcony", got)
	assert.Empty(t, FormatRoomDetails(nil))
}

func TestOutlineHasFifteenPoints(t *testing.T) {
	assert.Len(t, Outline, 15)
}

func TestImagePrompts(t *testing.T) {
	blueprint := BuildBlueprintPrompt("Modern", "2000 sq ft", "4")
	assert.True(t, strings.HasPrefix(blueprint, "a detailed architectural floor plan and layout of a Modern style home, 2000 sq ft with 4 rooms"))
	assert.Contains(t, blueprint, "technical blueprint style")

	assert.Equal(t, "Modern home design architecture interior", SearchQuery("Modern"))
}
