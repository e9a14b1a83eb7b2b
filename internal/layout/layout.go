// Package layout assigns every zone of a deck a fixed spot on the table.
package layout

import (
	"strings"

	"github.com/arcanaland/deckspawn/internal/card"
	"github.com/arcanaland/deckspawn/internal/host"
)

const (
	// DefaultStep is the distance between two zone anchors.
	DefaultStep = 3.0
	// faceUpMarker marks zones whose cards are spawned face up.
	faceUpMarker = "ruler"
)

// DefaultOrigin is the anchor of the first zone.
var DefaultOrigin = host.Vector{X: 0, Y: 1, Z: 0}

// Zone is where one zone's stack is built.
type Zone struct {
	Tag      string
	Index    int
	Anchor   host.Vector
	FaceDown bool
}

// Transform returns the transform of an object resting at the zone anchor.
// Y is up. A face-down zone turns its cards 180 degrees about Z, the long
// axis of a card lying flat, so the back faces up.
func (z Zone) Transform() host.Transform {
	t := host.Transform{
		Position: z.Anchor,
		Scale:    host.Vector{X: 1, Y: 1, Z: 1},
	}
	if z.FaceDown {
		t.Rotation.Z = 180
	}
	return t
}

// Plan maps zone tags to zones. It is read-only once built.
type Plan struct {
	zones []Zone
	byTag map[string]int
}

// Zones returns the zones in first-seen order.
func (p Plan) Zones() []Zone {
	return append([]Zone(nil), p.zones...)
}

// Lookup returns the zone for tag.
func (p Plan) Lookup(tag string) (Zone, bool) {
	i, ok := p.byTag[tag]
	if !ok {
		return Zone{}, false
	}
	return p.zones[i], true
}

// Len returns the number of zones.
func (p Plan) Len() int {
	return len(p.zones)
}

// Planner lays zones out along the negative X axis from Origin.
type Planner struct {
	Origin        host.Vector
	Step          float64
	ForceFaceDown bool
}

// NewPlanner returns a planner with the default origin and step.
func NewPlanner(forceFaceDown bool) Planner {
	return Planner{Origin: DefaultOrigin, Step: DefaultStep, ForceFaceDown: forceFaceDown}
}

// Plan assigns positions in a single pass over records.
func (pl Planner) Plan(records []card.Record) Plan {
	p := Plan{byTag: make(map[string]int)}
	for _, r := range records {
		if _, ok := p.byTag[r.Zone]; ok {
			continue
		}
		i := len(p.zones)
		anchor := pl.Origin
		anchor.X -= float64(i) * pl.Step
		p.byTag[r.Zone] = i
		p.zones = append(p.zones, Zone{
			Tag:      r.Zone,
			Index:    i,
			Anchor:   anchor,
			FaceDown: FaceDown(r.Zone, pl.ForceFaceDown),
		})
	}
	return p
}

// FaceDown reports whether cards of zone tag are spawned face down.
func FaceDown(tag string, force bool) bool {
	if force {
		return true
	}
	return !strings.Contains(strings.ToLower(tag), faceUpMarker)
}
