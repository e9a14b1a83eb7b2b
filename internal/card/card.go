package card

// Face is one visual state of a physical card
type Face struct {
	Name       string // Printed name of this face
	Image      string // Image URL, may be empty
	OracleText string // Rules text
}

// Record is one line of a deck list
type Record struct {
	ID         string // Provider card id
	Name       string // Card name
	Quantity   int    // Number of physical copies, always >= 1
	Zone       string // Zone tag (e.g. main, ruler, stone)
	OracleText string // Rules text of the primary face
	Faces      []Face // Primary face first, alternates after
}

// Primary returns the first face and whether one exists
func (r Record) Primary() (Face, bool) {
	if len(r.Faces) == 0 {
		return Face{}, false
	}
	return r.Faces[0], true
}

// Instances returns the number of physical objects the record expands to
func (r Record) Instances() int {
	if r.Quantity < 1 {
		return 1
	}
	return r.Quantity
}

// DefaultZone is used for cards listed without a zone
const DefaultZone = "main"
