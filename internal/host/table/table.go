// Package table is an in-process host that keeps spawned objects in memory and
// confirms creation on its own goroutines after a configurable latency.
package table

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/arcanaland/deckspawn/internal/host"
	"github.com/arcanaland/deckspawn/internal/logging"
)

const (
	KindCard = "Card"
	KindDeck = "Deck"
)

// Object is a card or a stack of cards on the table.
type Object struct {
	GUID       host.Handle    `json:"guid" yaml:"guid"`
	Kind       string         `json:"kind" yaml:"kind"`
	host.State `yaml:",inline"`
	Transform  host.Transform `json:"transform" yaml:"transform"`
	States     []host.State   `json:"states,omitempty" yaml:"states,omitempty"`
	Contained  []Object       `json:"contained,omitempty" yaml:"contained,omitempty"`
}

// Save is the exported table.
type Save struct {
	SaveName string   `json:"saveName" yaml:"saveName"`
	Objects  []Object `json:"objects" yaml:"objects"`
}

// Latency decides how long a spawn takes to confirm. A negative duration means
// the confirmation never arrives.
type Latency func(p host.Payload) time.Duration

// Option configures a Table.
type Option func(*Table)

// WithLatency sets the confirmation latency model.
func WithLatency(l Latency) Option {
	return func(t *Table) { t.latency = l }
}

// WithJitter confirms each spawn after a random delay in [lo, hi).
func WithJitter(lo, hi time.Duration) Option {
	return WithLatency(func(host.Payload) time.Duration {
		if hi <= lo {
			return lo
		}
		return lo + rand.N(hi-lo)
	})
}

// Table implements host.Host.
type Table struct {
	logger  *slog.Logger
	latency Latency

	mu      sync.Mutex
	objects map[host.Handle]*Object
	order   []host.Handle
	spawned []host.Payload
	lost    int

	inflight sync.WaitGroup
}

var _ host.Host = (*Table)(nil)

func New(logger *slog.Logger, opts ...Option) *Table {
	if logger == nil {
		logger = logging.Discard()
	}
	t := &Table{
		logger:  logger,
		latency: func(host.Payload) time.Duration { return 0 },
		objects: make(map[host.Handle]*Object),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Spawn records the payload and confirms it on another goroutine.
func (t *Table) Spawn(p host.Payload, done func(host.Handle)) {
	delay := t.latency(p)

	t.mu.Lock()
	t.spawned = append(t.spawned, p)
	if delay < 0 {
		t.lost++
		t.mu.Unlock()
		t.logger.Debug("spawn confirmation dropped", "nickname", p.Nickname)
		return
	}
	t.mu.Unlock()

	t.inflight.Add(1)
	go func() {
		defer t.inflight.Done()
		if delay > 0 {
			time.Sleep(delay)
		}
		h := t.create(p)
		if done != nil {
			done(h)
		}
	}()
}

func (t *Table) create(p host.Payload) host.Handle {
	h := host.Handle(uuid.NewString())
	obj := &Object{
		GUID:      h,
		Kind:      KindCard,
		State:     p.State,
		Transform: p.Transform,
		States:    append([]host.State(nil), p.States...),
	}

	t.mu.Lock()
	t.objects[h] = obj
	t.order = append(t.order, h)
	t.mu.Unlock()

	t.logger.Debug("object created", "guid", h, "nickname", p.Nickname)
	return h
}

// Combine puts src on top of dst. A card dst is first wrapped in a new deck.
func (t *Table) Combine(dst, src host.Handle) (host.Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if dst == src {
		return "", fmt.Errorf("combine %s with itself", dst)
	}
	d, ok := t.objects[dst]
	if !ok {
		return "", fmt.Errorf("object not found: %s", dst)
	}
	s, ok := t.objects[src]
	if !ok {
		return "", fmt.Errorf("object not found: %s", src)
	}

	if d.Kind != KindDeck {
		stack := &Object{
			GUID:      host.Handle(uuid.NewString()),
			Kind:      KindDeck,
			Transform: d.Transform,
			Contained: []Object{*d},
		}
		t.replace(dst, stack)
		d = stack
	}

	if s.Kind == KindDeck {
		d.Contained = append(d.Contained, s.Contained...)
	} else {
		d.Contained = append(d.Contained, *s)
	}
	t.remove(src)

	return d.GUID, nil
}

// replace swaps the object at old for obj, keeping its position in order.
func (t *Table) replace(old host.Handle, obj *Object) {
	delete(t.objects, old)
	t.objects[obj.GUID] = obj
	for i, h := range t.order {
		if h == old {
			t.order[i] = obj.GUID
			return
		}
	}
}

func (t *Table) remove(h host.Handle) {
	delete(t.objects, h)
	for i, o := range t.order {
		if o == h {
			t.order = append(t.order[:i], t.order[i+1:]...)
			return
		}
	}
}

func (t *Table) Update(h host.Handle, p host.Patch) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	obj, ok := t.objects[h]
	if !ok {
		return fmt.Errorf("object not found: %s", h)
	}
	obj.Nickname = p.Nickname
	obj.Description = p.Description
	obj.Transform = p.Transform
	return nil
}

// Object returns a copy of the object behind h.
func (t *Table) Object(h host.Handle) (Object, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	obj, ok := t.objects[h]
	if !ok {
		return Object{}, false
	}
	return *obj, true
}

// Objects returns the top-level objects in creation order.
func (t *Table) Objects() []Object {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Object, 0, len(t.order))
	for _, h := range t.order {
		out = append(out, *t.objects[h])
	}
	return out
}

// Spawned returns every payload passed to Spawn, in call order.
func (t *Table) Spawned() []host.Payload {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]host.Payload(nil), t.spawned...)
}

// Lost returns how many spawns will never confirm.
func (t *Table) Lost() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lost
}

// Wait blocks until every pending confirmation has been delivered.
func (t *Table) Wait() {
	t.inflight.Wait()
}

// Export writes the table as json or yaml.
func (t *Table) Export(w io.Writer, name, format string) error {
	save := Save{SaveName: name, Objects: t.Objects()}

	switch format {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(save); err != nil {
			return fmt.Errorf("encode table: %w", err)
		}
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(save); err != nil {
			_ = enc.Close()
			return fmt.Errorf("encode table: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("finalize table: %w", err)
		}
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
	return nil
}
