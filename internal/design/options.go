package design

// Room keys used by the planning tabs.
const (
	RoomLiving        = "living_room"
	RoomKitchen       = "kitchen"
	RoomMasterBedroom = "master_bedroom"
)

// RoomOption describes one planning tab and its selectable values.
type RoomOption struct {
	Key      string
	Label    string
	Layouts  []string
	Features []string
}

var (
	BudgetRanges    = []string{NotSpecified, "Budget-friendly", "Mid-range", "Luxury", "Ultra-luxury"}
	OutdoorSpaces   = []string{NotSpecified, "Small patio", "Large deck", "Garden", "Pool area", "Extensive landscaping"}
	SpecialFeatures = []string{"Home office", "Gym", "Library", "Wine cellar", "Home theater", "Guest suite", "Walk-in closet"}
	CeilingHeights  = []string{DefaultCeilingHeight, "High (9ft)", "Very High (10ft+)", "Vaulted", "Custom"}
	FloorMaterials  = []string{DefaultFloorMaterial, "Tile", "Carpet", "Concrete", "Mixed", "Other"}
	Timelines       = []string{NotSpecified, "Immediate (1-3 months)", "Short-term (3-6 months)", "Medium-term (6-12 months)", "Long-term (1+ year)"}
	Priorities      = []string{NotSpecified, "Functionality", "Aesthetics", "Cost-effectiveness", "Sustainability", "Resale Value"}
	StyleExamples   = []string{"Modern", "Traditional", "Contemporary", "Rustic", "Mediterranean", "Colonial", "Craftsman", "Victorian", "Minimalist", "Industrial"}

	RoomOptions = []RoomOption{
		{
			Key:      RoomLiving,
			Label:    "Living Room",
			Layouts:  []string{"Open", "Traditional", "Modern", "Minimalist"},
			Features: []string{"Fireplace", "Entertainment Center", "Reading Nook", "Bar Area"},
		},
		{
			Key:      RoomKitchen,
			Label:    "Kitchen",
			Layouts:  []string{"Open", "Galley", "L-shaped", "U-shaped", "Island"},
			Features: []string{"Island", "Breakfast Bar", "Walk-in Pantry", "Wine Storage"},
		},
		{
			Key:      RoomMasterBedroom,
			Label:    "Master Bedroom",
			Features: []string{"Walk-in Closet", "En-suite Bathroom", "Sitting Area", "Balcony"},
		},
	}
)
