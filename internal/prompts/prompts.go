package prompts

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"homeDesignAi/internal/design"
)

const designPromptTemplate = `You are an expert home designer and architect. Create a comprehensive custom home design plan with the following specifications:

Style: %s
Size: %s
Number of Rooms: %s

Room Configuration:
- Bedrooms: %d
- Bathrooms: %d
- Exterior Doors: %d
- Windows: %d
- Ceiling Height: %s
- Floor Material: %s

Room Details:
%s

Additional Requirements:
%s

Project Timeline: %s
Design Priority: %s

Additional Preferences:
%s

Please provide a detailed design plan that includes:
%s

Format the response in clear, organized Markdown with headers and bullet points.
Make it detailed, practical, and tailored to the specified style and requirements.
Consider the project timeline and priority in your recommendations.`

// Outline lists the topics every generated plan must cover, in order.
var Outline = []string{
	"Overall layout and floor plan description",
	"Room-by-room breakdown with dimensions and purposes",
	"Architectural features and design elements",
	"Color scheme recommendations",
	"Material suggestions",
	"Lighting and electrical considerations",
	"Furniture and decor recommendations",
	"Outdoor space planning (if applicable)",
	"Energy efficiency considerations",
	"Estimated timeline and budget considerations",
	"Door and window placement strategy",
	"Storage solutions and organization",
	"Accessibility features",
	"Smart home integration recommendations",
	"Maintenance considerations",
}

// BuildDesignPrompt renders the single user turn sent to the text model.
func BuildDesignPrompt(req design.Request) string {
	d := req.Details
	return fmt.Sprintf(designPromptTemplate,
		req.Style, req.Size, req.Rooms,
		d.Bedrooms, d.Bathrooms, d.Doors, d.Windows,
		d.CeilingHeight, d.FloorMaterial,
		FormatRoomDetails(d.Rooms),
		d.AdditionalRequirements,
		d.Timeline, d.Priority,
		FormatPreferences(req.Preferences),
		numbered(Outline),
	)
}

// FormatRoomDetails renders per-room details as nested bullet text. Empty
// fields are skipped.
func FormatRoomDetails(rooms []design.RoomDetail) string {
	caser := cases.Title(language.English)

	blocks := make([]string, 0, len(rooms))
	for _, room := range rooms {
		var b strings.Builder
		fmt.Fprintf(&b, "%s:", caser.String(strings.ReplaceAll(room.Name, "_", " ")))
		if room.Size != "" {
			fmt.Fprintf(&b, "\n- Size: %s", room.Size)
		}
		if room.Layout != "" {
			fmt.Fprintf(&b, "\n- Layout: %s", room.Layout)
		}
		if len(room.Features) > 0 {
			fmt.Fprintf(&b, "\n- Features: %s", strings.Join(room.Features, ", "))
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// FormatPreferences renders the additional preference selects.
func FormatPreferences(p design.Preferences) string {
	features := "None"
	if len(p.SpecialFeatures) > 0 {
		features = strings.Join(p.SpecialFeatures, ", ")
	}
	eco := "No"
	if p.EcoFriendly {
		eco = "Yes"
	}
	return fmt.Sprintf("- Budget Range: %s\n- Outdoor Space: %s\n- Special Features: %s\n- Eco-friendly Design: %s",
		p.BudgetRange, p.OutdoorSpace, features, eco)
}

// BuildBlueprintPrompt describes the floor-plan render requested from the
// image model.
func BuildBlueprintPrompt(style, size, rooms string) string {
	return fmt.Sprintf("a detailed architectural floor plan and layout of a %s style home, %s with %s rooms, "+
		"technical blueprint style, showing room layouts, dimensions, and furniture placement, "+
		"professional architectural drawing, clean lines, precise measurements, "+
		"includes living areas, bedrooms, bathrooms, kitchen layout, "+
		"high resolution, technical drawing style, architectural plan view, "+
		"professional CAD-like rendering, with room labels and measurements", style, size, rooms)
}

// SearchQuery is the image-search query for a style.
func SearchQuery(style string) string {
	return fmt.Sprintf("%s home design architecture interior", style)
}

func numbered(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("%d. %s", i+1, item)
	}
	return strings.Join(lines, "\n")
}
