package deck

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/arcanaland/deckspawn/internal/card"
	"github.com/arcanaland/deckspawn/internal/deckapi"
)

// ErrInvalidURL is returned for deck URLs that do not point at a deck list
var ErrInvalidURL = errors.New("invalid deck url")

const deckPathPattern = `/view_decklist/(\d+)/`

var (
	anyHostPattern = regexp.MustCompile(`[^/\s]+` + deckPathPattern)
	hostPatterns   sync.Map // host -> *regexp.Regexp
)

func hostPattern(host string) *regexp.Regexp {
	if host == "" {
		return anyHostPattern
	}
	if re, ok := hostPatterns.Load(host); ok {
		return re.(*regexp.Regexp)
	}
	re, _ := hostPatterns.LoadOrStore(host, regexp.MustCompile(regexp.QuoteMeta(host)+deckPathPattern))
	return re.(*regexp.Regexp)
}

// Source identifies a remote deck list
type Source struct {
	URL  string // URL as entered
	Slug string // Numeric deck id
}

// Deck is a normalized deck list
type Deck struct {
	Name   string
	Source Source
	Cards  []card.Record
}

// ParseSource extracts the deck id from a view_decklist URL on host.
// An empty host accepts any host.
func ParseSource(rawURL, host string) (Source, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return Source{}, fmt.Errorf("%w: empty", ErrInvalidURL)
	}

	m := hostPattern(host).FindStringSubmatch(rawURL)
	if m == nil {
		return Source{}, fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}

	return Source{URL: rawURL, Slug: m[1]}, nil
}

// Load builds a deck from a lookup response
func Load(src Source, resp *deckapi.Response) *Deck {
	return &Deck{
		Name:   strings.TrimSpace(resp.Name),
		Source: src,
		Cards:  Normalize(resp),
	}
}

// Normalize turns the response's cards into records, keeping response order
func Normalize(resp *deckapi.Response) []card.Record {
	if resp == nil {
		return nil
	}

	records := make([]card.Record, 0, len(resp.Cards))
	for _, entry := range resp.Cards {
		records = append(records, normalizeEntry(entry))
	}
	return records
}

func normalizeEntry(entry deckapi.CardEntry) card.Record {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		name = entry.Key
	}

	zone := strings.TrimSpace(entry.Zone)
	if zone == "" {
		zone = card.DefaultZone
	}

	quantity := entry.Quantity
	if quantity < 1 {
		quantity = 1
	}

	faces := make([]card.Face, 0, 1+len(entry.OtherFaces))
	faces = append(faces, card.Face{
		Name:       name,
		Image:      strings.TrimSpace(entry.Img),
		OracleText: entry.OracleText,
	})
	for _, f := range entry.OtherFaces {
		faces = append(faces, card.Face{
			Name:       strings.TrimSpace(f.Name),
			Image:      strings.TrimSpace(f.Img),
			OracleText: f.OracleText,
		})
	}

	return card.Record{
		ID:         entry.ID.String(),
		Name:       name,
		Quantity:   quantity,
		Zone:       zone,
		OracleText: entry.OracleText,
		Faces:      faces,
	}
}

// Count returns the number of physical cards in the deck
func (d *Deck) Count() int {
	n := 0
	for _, c := range d.Cards {
		n += c.Instances()
	}
	return n
}
