// Package spawn turns card records into host creation calls, one per physical card.
package spawn

import (
	"log/slog"
	"strings"

	"github.com/arcanaland/deckspawn/internal/card"
	"github.com/arcanaland/deckspawn/internal/host"
	"github.com/arcanaland/deckspawn/internal/layout"
	"github.com/arcanaland/deckspawn/internal/logging"
)

const (
	// PlaceholderName is used when a card has no faces at all.
	PlaceholderName = "Unknown Card"
	// PlaceholderImage stands in for missing card art.
	PlaceholderImage = "https://assets.deckspawn.dev/cards/missing.png"
	// DefaultCardBack is the back image shared by every spawned card.
	DefaultCardBack = "https://assets.deckspawn.dev/cards/back.png"
)

// Request is one physical card to create.
type Request struct {
	Zone     string
	Card     card.Record
	Position host.Vector
	FaceDown bool
}

// Spawner builds payloads and hands them to the host.
type Spawner struct {
	host             host.Host
	logger           *slog.Logger
	cardBack         string
	placeholderImage string
}

// Option configures a Spawner.
type Option func(*Spawner)

// WithCardBack overrides the shared card back image.
func WithCardBack(url string) Option {
	return func(s *Spawner) {
		if strings.TrimSpace(url) != "" {
			s.cardBack = strings.TrimSpace(url)
		}
	}
}

// WithPlaceholderImage overrides the image used for missing art.
func WithPlaceholderImage(url string) Option {
	return func(s *Spawner) {
		if strings.TrimSpace(url) != "" {
			s.placeholderImage = strings.TrimSpace(url)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Spawner) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(h host.Host, opts ...Option) *Spawner {
	s := &Spawner{
		host:             h,
		logger:           logging.Discard(),
		cardBack:         DefaultCardBack,
		placeholderImage: PlaceholderImage,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Spawn issues exactly one creation call for req. done runs once the host
// confirms, never before Spawn returns.
func (s *Spawner) Spawn(req Request, done func(host.Handle)) {
	p := s.Payload(req)
	s.logger.Debug("spawn card",
		"zone", req.Zone,
		"name", p.Nickname,
		"states", 1+len(p.States),
		"face_down", req.FaceDown)
	s.host.Spawn(p, done)
}

// Payload builds the creation payload for req.
func (s *Spawner) Payload(req Request) host.Payload {
	zone := layout.Zone{Tag: req.Zone, Anchor: req.Position, FaceDown: req.FaceDown}
	primary, ok := req.Card.Primary()
	if !ok {
		primary = card.Face{Name: PlaceholderName}
	}
	p := host.Payload{
		State:     s.state(primary),
		Transform: zone.Transform(),
	}
	if ok {
		for _, f := range req.Card.Faces[1:] {
			p.States = append(p.States, s.state(f))
		}
	}
	return p
}

func (s *Spawner) state(f card.Face) host.State {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		name = PlaceholderName
	}
	img := strings.TrimSpace(f.Image)
	if img == "" {
		img = s.placeholderImage
	}
	return host.State{
		Nickname:    name,
		Description: f.OracleText,
		Face:        img,
		Back:        s.cardBack,
	}
}

// Expand creates one request per physical card, grouped by zone tag.
// Records whose zone is missing from plan are skipped.
func Expand(records []card.Record, plan layout.Plan) map[string][]Request {
	out := make(map[string][]Request, plan.Len())
	for _, r := range records {
		z, ok := plan.Lookup(r.Zone)
		if !ok {
			continue
		}
		for i := 0; i < r.Instances(); i++ {
			out[r.Zone] = append(out[r.Zone], Request{
				Zone:     r.Zone,
				Card:     r,
				Position: z.Anchor,
				FaceDown: z.FaceDown,
			})
		}
	}
	return out
}
