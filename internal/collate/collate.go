// Package collate spawns the cards of one zone and gathers them into a single stack.
package collate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arcanaland/deckspawn/internal/host"
	"github.com/arcanaland/deckspawn/internal/layout"
	"github.com/arcanaland/deckspawn/internal/logging"
	"github.com/arcanaland/deckspawn/internal/spawn"
)

// DefaultTimeout bounds how long one zone waits for its spawns.
const DefaultTimeout = 20 * time.Second

// ErrEmptyZone is returned when a zone has nothing to spawn.
var ErrEmptyZone = errors.New("zone has no cards")

// ZoneTimeoutError means some spawns of a zone were not confirmed in time.
// It is scoped to the zone; other zones are unaffected.
type ZoneTimeoutError struct {
	Zone    string
	Pending int
	Total   int
	Timeout time.Duration
}

func (e *ZoneTimeoutError) Error() string {
	return fmt.Sprintf("zone %s: %d of %d cards not confirmed after %s", e.Zone, e.Pending, e.Total, e.Timeout)
}

// Spawner issues one asynchronous creation call per request.
type Spawner interface {
	Spawn(req spawn.Request, done func(host.Handle))
}

// Result is the object a zone was reduced to.
type Result struct {
	Zone   string
	Handle host.Handle
	Count  int
}

// Bundle tracks the outstanding spawns of one zone.
type Bundle struct {
	Zone    string
	total   int
	pending atomic.Int64
	results chan host.Handle
}

func newBundle(zone string, total int) *Bundle {
	return &Bundle{
		Zone:    zone,
		total:   total,
		results: make(chan host.Handle, total),
	}
}

// Outstanding returns the number of spawns not yet confirmed.
func (b *Bundle) Outstanding() int {
	return int(b.pending.Load())
}

// callback returns the completion function of one spawn. Only the first call
// counts; the buffered channel never blocks the host.
func (b *Bundle) callback() func(host.Handle) {
	var once sync.Once
	return func(h host.Handle) {
		once.Do(func() {
			b.pending.Add(-1)
			b.results <- h
		})
	}
}

type Collator struct {
	spawner Spawner
	host    host.Host
	timeout time.Duration
	logger  *slog.Logger
}

func New(spawner Spawner, h host.Host, timeout time.Duration, logger *slog.Logger) *Collator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Collator{
		spawner: spawner,
		host:    h,
		timeout: timeout,
		logger:  logger,
	}
}

// Collate spawns every request of zone and waits for all confirmations, the
// zone timeout, or ctx, whichever comes first. On success the objects are
// folded into one stack named after the zone and moved to its anchor. A single
// object is returned untouched. Confirmations arriving after a timeout are
// dropped.
func (c *Collator) Collate(ctx context.Context, zone layout.Zone, reqs []spawn.Request) (Result, error) {
	if len(reqs) == 0 {
		return Result{}, fmt.Errorf("zone %s: %w", zone.Tag, ErrEmptyZone)
	}

	b := newBundle(zone.Tag, len(reqs))
	for _, req := range reqs {
		b.pending.Add(1)
		c.spawner.Spawn(req, b.callback())
	}
	c.logger.Debug("zone spawns issued", "zone", zone.Tag, "count", b.total)

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	handles := make([]host.Handle, 0, b.total)
	for len(handles) < b.total {
		select {
		case h := <-b.results:
			handles = append(handles, h)
		case <-timer.C:
			c.logger.Warn("zone timed out",
				"zone", zone.Tag,
				"confirmed", len(handles),
				"outstanding", b.Outstanding())
			return Result{}, &ZoneTimeoutError{
				Zone:    zone.Tag,
				Pending: b.total - len(handles),
				Total:   b.total,
				Timeout: c.timeout,
			}
		case <-ctx.Done():
			return Result{}, fmt.Errorf("zone %s: %w", zone.Tag, ctx.Err())
		}
	}

	return c.assemble(zone, handles)
}

func (c *Collator) assemble(zone layout.Zone, handles []host.Handle) (Result, error) {
	res := Result{Zone: zone.Tag, Handle: handles[0], Count: len(handles)}
	if len(handles) == 1 {
		return res, nil
	}

	stack := handles[0]
	for _, h := range handles[1:] {
		next, err := c.host.Combine(stack, h)
		if err != nil {
			return Result{}, fmt.Errorf("zone %s: combine: %w", zone.Tag, err)
		}
		stack = next
	}

	err := c.host.Update(stack, host.Patch{
		Nickname:    zone.Tag,
		Description: zone.Tag,
		Transform:   zone.Transform(),
	})
	if err != nil {
		return Result{}, fmt.Errorf("zone %s: update stack: %w", zone.Tag, err)
	}

	c.logger.Debug("zone assembled", "zone", zone.Tag, "cards", len(handles), "guid", stack)
	res.Handle = stack
	return res, nil
}
