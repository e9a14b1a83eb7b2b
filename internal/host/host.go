// Package host describes the object API of the tabletop host that cards are spawned into.
package host

// Vector is a position, rotation or scale in table space.
type Vector struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Transform places an object on the table. Rotation is in degrees.
type Transform struct {
	Position Vector `json:"position" yaml:"position"`
	Rotation Vector `json:"rotation" yaml:"rotation"`
	Scale    Vector `json:"scale" yaml:"scale"`
}

// State is one visual state of a card object.
type State struct {
	Nickname    string `json:"nickname" yaml:"nickname"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Face is the front image URL.
	Face string `json:"face" yaml:"face"`
	// Back is the card back image URL.
	Back string `json:"back" yaml:"back"`
}

// Payload is everything the host needs to create one card object.
type Payload struct {
	State     `yaml:",inline"`
	Transform Transform `json:"transform" yaml:"transform"`
	// States holds alternate states, in order, linked to the primary one.
	States []State `json:"states,omitempty" yaml:"states,omitempty"`
}

// Handle references an object created by the host.
type Handle string

// Patch is applied to an existing object by Update.
type Patch struct {
	Nickname    string
	Description string
	Transform   Transform
}

// Host is the object creation API. Implementations must call done exactly
// once, asynchronously, after the object exists; Spawn itself never blocks on
// creation.
type Host interface {
	Spawn(p Payload, done func(Handle))
	// Combine stacks src onto dst and returns the handle of the resulting stack.
	// Both inputs are invalid afterwards unless returned.
	Combine(dst, src Handle) (Handle, error)
	Update(h Handle, p Patch) error
}
