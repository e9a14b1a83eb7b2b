// Package importer drives a deck import from URL to assembled zone stacks.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arcanaland/deckspawn/internal/collate"
	"github.com/arcanaland/deckspawn/internal/deck"
	"github.com/arcanaland/deckspawn/internal/deckapi"
	"github.com/arcanaland/deckspawn/internal/host"
	"github.com/arcanaland/deckspawn/internal/layout"
	"github.com/arcanaland/deckspawn/internal/logging"
	"github.com/arcanaland/deckspawn/internal/notify"
	"github.com/arcanaland/deckspawn/internal/spawn"
	"github.com/arcanaland/deckspawn/internal/validator"
)

// DefaultTimeout bounds the spawning phase of a whole import.
const DefaultTimeout = 60 * time.Second

var (
	// ErrAlreadyImporting rejects an import while another one runs.
	ErrAlreadyImporting = errors.New("already importing")
	// ErrImportTimeout means the zones did not all finish in time.
	ErrImportTimeout = errors.New("deck import timed out")
	// ErrInvalidDeck means the service answered with a deck that cannot be spawned.
	ErrInvalidDeck = errors.New("invalid deck")
)

// Fetcher looks up a deck by id.
type Fetcher interface {
	FetchDeck(ctx context.Context, slug string) (*deckapi.Response, error)
}

// Config holds the settings shared by every import.
type Config struct {
	// SiteHost is the host deck URLs must point at. Empty accepts any host.
	SiteHost         string
	Origin           host.Vector
	ZoneStep         float64
	ZoneTimeout      time.Duration
	ImportTimeout    time.Duration
	CardBack         string
	PlaceholderImage string
	FaceDown         bool
}

// Session is one import request.
type Session struct {
	URL string
	// Requester receives error notices addressed to them.
	Requester string
	// FaceDown spawns every zone face down.
	FaceDown bool
	// CardBack overrides the configured card back for this import.
	CardBack string
}

// ZoneReport is the outcome of one zone.
type ZoneReport struct {
	Zone   string
	Cards  int
	Handle host.Handle
	Err    error
}

// Report summarizes a finished import.
type Report struct {
	Deck     *deck.Deck
	Plan     layout.Plan
	Zones    []ZoneReport
	Warnings []string
}

// Failed returns the zones that did not produce an object.
func (r *Report) Failed() []ZoneReport {
	var out []ZoneReport
	for _, z := range r.Zones {
		if z.Err != nil {
			out = append(out, z)
		}
	}
	return out
}

// Importer runs at most one import at a time.
type Importer struct {
	fetcher  Fetcher
	host     host.Host
	notifier notify.Notifier
	logger   *slog.Logger
	cfg      Config

	busy  atomic.Bool
	state atomic.Int32
}

func New(fetcher Fetcher, h host.Host, notifier notify.Notifier, logger *slog.Logger, cfg Config) *Importer {
	if notifier == nil {
		notifier = notify.Discard
	}
	if logger == nil {
		logger = logging.Discard()
	}
	if cfg.ZoneStep <= 0 {
		cfg.ZoneStep = layout.DefaultStep
	}
	if cfg.ZoneTimeout <= 0 {
		cfg.ZoneTimeout = collate.DefaultTimeout
	}
	if cfg.ImportTimeout <= 0 {
		cfg.ImportTimeout = DefaultTimeout
	}
	return &Importer{
		fetcher:  fetcher,
		host:     h,
		notifier: notifier,
		logger:   logger,
		cfg:      cfg,
	}
}

// State returns the current phase.
func (im *Importer) State() State {
	return State(im.state.Load())
}

// Busy reports whether an import is running.
func (im *Importer) Busy() bool {
	return im.busy.Load()
}

func (im *Importer) setState(s State) {
	prev := State(im.state.Swap(int32(s)))
	im.logger.Debug("import state", "from", prev, "to", s)
}

// Import fetches, lays out and spawns the deck at s.URL. Zone timeouts are
// reported but do not fail the import; ErrImportTimeout does.
func (im *Importer) Import(ctx context.Context, s Session) (*Report, error) {
	if !im.busy.CompareAndSwap(false, true) {
		im.tell(s, notify.LevelWarn, "Already importing a deck, please wait.")
		return nil, ErrAlreadyImporting
	}
	defer func() {
		im.setState(StateIdle)
		im.busy.Store(false)
	}()

	src, err := deck.ParseSource(s.URL, im.cfg.SiteHost)
	if err != nil {
		im.tell(s, notify.LevelError, "Please enter a valid deck URL.")
		return nil, err
	}

	im.setState(StateFetching)
	im.tell(s, notify.LevelInfo, fmt.Sprintf("Fetching deck %s...", src.Slug))
	resp, err := im.fetcher.FetchDeck(ctx, src.Slug)
	if err != nil {
		im.logger.Warn("deck fetch failed", "slug", src.Slug, "error", err)
		im.tell(s, notify.LevelError, fetchMessage(err))
		return nil, err
	}

	im.setState(StateNormalizing)
	results, err := validator.NewValidator(resp).Validate()
	if err != nil {
		im.tell(s, notify.LevelError, "Could not read deck data.")
		return nil, err
	}
	if !results.OK() {
		im.tell(s, notify.LevelError, fmt.Sprintf("Deck cannot be imported: %s.", strings.Join(results.Errors, ", ")))
		return nil, fmt.Errorf("%w: %s", ErrInvalidDeck, strings.Join(results.Errors, "; "))
	}
	for _, w := range results.Warnings {
		im.tell(s, notify.LevelWarn, w)
	}
	d := deck.Load(src, resp)

	im.setState(StateLayingOut)
	planner := layout.Planner{
		Origin:        im.cfg.Origin,
		Step:          im.cfg.ZoneStep,
		ForceFaceDown: s.FaceDown || im.cfg.FaceDown,
	}
	plan := planner.Plan(d.Cards)
	requests := spawn.Expand(d.Cards, plan)

	im.setState(StateSpawning)
	im.tell(s, notify.LevelInfo, fmt.Sprintf("Spawning %d cards in %d zones...", d.Count(), plan.Len()))
	report := &Report{Deck: d, Plan: plan, Warnings: results.Warnings}
	report.Zones, err = im.spawnZones(ctx, s, plan, requests)
	if err != nil {
		return report, err
	}

	im.setState(StateReporting)
	im.broadcast(notify.LevelSuccess, fmt.Sprintf("Imported deck %s.", d.Name))
	if failed := report.Failed(); len(failed) > 0 {
		im.tell(s, notify.LevelWarn, fmt.Sprintf("%d of %d zones could not be assembled.", len(failed), len(report.Zones)))
	}
	im.logger.Info("deck imported",
		"deck", d.Name,
		"slug", src.Slug,
		"cards", d.Count(),
		"zones", plan.Len(),
		"failed_zones", len(report.Failed()))
	return report, nil
}

// spawnZones collates every zone concurrently under the import deadline.
func (im *Importer) spawnZones(ctx context.Context, s Session, plan layout.Plan, requests map[string][]spawn.Request) ([]ZoneReport, error) {
	cardBack := im.cfg.CardBack
	if strings.TrimSpace(s.CardBack) != "" {
		cardBack = s.CardBack
	}
	spawner := spawn.New(im.host,
		spawn.WithCardBack(cardBack),
		spawn.WithPlaceholderImage(im.cfg.PlaceholderImage),
		spawn.WithLogger(im.logger))
	collator := collate.New(spawner, im.host, im.cfg.ZoneTimeout, im.logger)

	deadline, cancel := context.WithTimeout(ctx, im.cfg.ImportTimeout)
	defer cancel()

	zones := plan.Zones()
	reports := make([]ZoneReport, len(zones))

	// Zone-scoped failures stay in the reports. Only the import deadline or
	// the caller's cancellation come back through the group.
	var g errgroup.Group
	for i, z := range zones {
		g.Go(func() error {
			reqs := requests[z.Tag]
			res, err := collator.Collate(deadline, z, reqs)
			reports[i] = ZoneReport{Zone: z.Tag, Cards: len(reqs), Handle: res.Handle, Err: err}

			var zerr *collate.ZoneTimeoutError
			switch {
			case err == nil:
			case interrupted(err):
				return err
			case errors.As(err, &zerr):
				im.tell(s, notify.LevelWarn, fmt.Sprintf("Timed out assembling zone %s.", z.Tag))
			default:
				im.logger.Warn("zone failed", "zone", z.Tag, "error", err)
				im.tell(s, notify.LevelWarn, fmt.Sprintf("Could not assemble zone %s.", z.Tag))
			}
			return nil
		})
	}
	err := g.Wait()

	if ctx.Err() != nil {
		im.tell(s, notify.LevelError, "Deck import cancelled.")
		return reports, ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		im.logger.Warn("import timed out", "timeout", im.cfg.ImportTimeout)
		im.tell(s, notify.LevelError, "Deck import timed out.")
		return reports, ErrImportTimeout
	}
	return reports, err
}

func interrupted(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// tell addresses a notice to the requester.
func (im *Importer) tell(s Session, level notify.Level, text string) {
	im.notifier.Notify(notify.Notice{Level: level, To: s.Requester, Text: text})
}

func (im *Importer) broadcast(level notify.Level, text string) {
	im.notifier.Notify(notify.Notice{Level: level, Text: text})
}

func fetchMessage(err error) string {
	var apiErr *deckapi.Error
	if !errors.As(err, &apiErr) {
		return fmt.Sprintf("Error fetching deck: %v", err)
	}
	switch apiErr.Kind {
	case deckapi.KindNotFound:
		return "Deck not found. Is it public?"
	case deckapi.KindEmptyResponse:
		return "Deck service returned an empty response."
	case deckapi.KindMalformed:
		return "Could not read deck data."
	default:
		msg := apiErr.Msg
		if msg == "" {
			msg = apiErr.Kind.String()
		}
		return fmt.Sprintf("Error fetching deck: %s", msg)
	}
}
