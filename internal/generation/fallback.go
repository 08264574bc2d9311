package generation

import (
	"fmt"
	"strings"

	"homeDesignAi/internal/design"
)

// Placeholder room sizes for rooms the user left blank.
const (
	defaultLivingSize  = "18ft x 15ft"
	defaultKitchenSize = "12ft x 10ft"
	defaultMasterSize  = "14ft x 16ft"
)

const fallbackTemplate = `# Mock Design Plan (due to API quota exhaustion or error)

## Your Custom Home Design Plan

### 1. Overall Layout and Floor Plan Description
This **%[1]s** home, approximately **%[2]s** with **%[3]s** rooms, features an open-concept layout designed for modern living and efficient space utilization. The main living areas flow seamlessly, promoting interaction and natural light.

### 2. Room-by-Room Breakdown

*   **Living Room:** %[4]s - Spacious and bright, ideal for entertaining.
*   **Kitchen:** %[5]s - Modern kitchen with island and ample storage.
*   **Master Bedroom:** %[6]s - Ensuite bathroom and walk-in closet.
*   **Additional Bedrooms:** %[7]d bedrooms of varying sizes
*   **Bathrooms:** %[8]d bathrooms, including master ensuite

### 3. Architectural Features and Design Elements
Clean lines, large windows (%[9]d total), and a minimalist aesthetic define the **%[1]s** style. Features include:
* %[10]s ceilings throughout
* %[11]s flooring
* %[12]d exterior doors strategically placed
* Large windows for natural light
* Open floor plan concept

### 4. Color Scheme Recommendations
Neutral palette with shades of gray, white, and beige. Accent colors like deep blues or forest greens can be introduced through decor.

### 5. Material Suggestions
* %[11]s for main living areas
* Natural stone accents
* High-quality cabinetry
* Durable countertops
* Energy-efficient windows

### 6. Lighting and Electrical Considerations
* Recessed LED lighting throughout
* Smart home integration
* Ample power outlets in all rooms
* Accent lighting for architectural features

### 7. Furniture and Decor Recommendations
* Minimalist furniture with clean lines
* Focus on functional pieces
* Large abstract art pieces
* Indoor plants for warmth

### 8. Outdoor Space Planning
%[13]s

### 9. Energy Efficiency Considerations
%[14]s

### 10. Project Timeline and Budget
* Timeline: %[15]s
* Priority Focus: %[16]s
* Budget Range: %[17]s
* Estimated completion: Based on %[15]s timeline
* Budget considerations aligned with %[16]s priority

### 11. Additional Features
%[18]s

This design plan provides a starting point; further customization and professional consultation are recommended.
`

// Fallback renders the canned plan for a normalized request.
func Fallback(req design.Request) string {
	d := req.Details
	p := req.Preferences

	additional := d.AdditionalRequirements
	if len(p.SpecialFeatures) > 0 {
		features := "* " + strings.Join(p.SpecialFeatures, "\n* ")
		if additional == "" {
			additional = features
		} else {
			additional = additional + "\n\n" + features
		}
	}

	return fmt.Sprintf(fallbackTemplate,
		req.Style, req.Size, req.Rooms,
		roomSize(d, design.RoomLiving, defaultLivingSize),
		roomSize(d, design.RoomKitchen, defaultKitchenSize),
		roomSize(d, design.RoomMasterBedroom, defaultMasterSize),
		max(d.Bedrooms-1, 0),
		d.Bathrooms,
		d.Windows,
		d.CeilingHeight,
		d.FloorMaterial,
		d.Doors,
		outdoorSection(p.OutdoorSpace),
		energySection(p.EcoFriendly),
		d.Timeline,
		d.Priority,
		p.BudgetRange,
		additional,
	)
}

func roomSize(d design.Details, name, placeholder string) string {
	if room, ok := d.Room(name); ok && room.Size != "" {
		return room.Size
	}
	return placeholder
}

func outdoorSection(space string) string {
	lines := []string{
		"* Spacious patio/deck",
		"* Landscaped garden area",
		"* Outdoor entertainment space",
		"* Storage for outdoor equipment",
	}
	if space != "" && space != design.NotSpecified {
		lines = append([]string{fmt.Sprintf("* Requested: %s", space)}, lines...)
	}
	return strings.Join(lines, "\n")
}

func energySection(eco bool) string {
	lines := []string{
		"* High-performance insulation",
		"* Energy-efficient windows",
		"* Smart thermostat",
		"* LED lighting throughout",
		"* Solar panel ready",
	}
	if eco {
		lines = append(lines, "* Sustainable, low-VOC materials and rainwater harvesting")
	}
	return strings.Join(lines, "\n")
}
