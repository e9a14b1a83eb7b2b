package deck

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arcanaland/deckspawn/internal/card"
	"github.com/arcanaland/deckspawn/internal/deckapi"
)

func TestParseSource(t *testing.T) {
	tests := []struct {
		name string
		url  string
		host string
		slug string
	}{
		{name: "plain", url: "https://decks.example.com/view_decklist/4821/", host: "decks.example.com", slug: "4821"},
		{name: "no scheme", url: "decks.example.com/view_decklist/7/", host: "decks.example.com", slug: "7"},
		{name: "trailing junk", url: "  https://decks.example.com/view_decklist/90210/?ref=share ", host: "decks.example.com", slug: "90210"},
		{name: "any host", url: "http://mirror.test/view_decklist/12/", host: "", slug: "12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := ParseSource(tt.url, tt.host)
			require.NoError(t, err)
			require.Equal(t, tt.slug, src.Slug)
		})
	}
}

func TestParseSourceRejects(t *testing.T) {
	for _, raw := range []string{
		"",
		"   ",
		"https://decks.example.com/view_decklist/abc/",
		"https://decks.example.com/view_decklist/12",
		"https://other.example.org/view_decklist/12/",
		"https://decks.example.com/decklist/12/",
	} {
		_, err := ParseSource(raw, "decks.example.com")
		require.True(t, errors.Is(err, ErrInvalidURL), "url %q", raw)
	}
}

func TestHostPatternCompiledOnce(t *testing.T) {
	require.Same(t, anyHostPattern, hostPattern(""))
	require.Same(t, hostPattern("decks.example.com"), hostPattern("decks.example.com"))
	require.NotSame(t, hostPattern("decks.example.com"), hostPattern("mirror.test"))
}

func TestNormalize(t *testing.T) {
	resp := &deckapi.Response{
		Name: "Test",
		Cards: deckapi.CardList{
			{Key: "Ruler", ID: deckapi.IntID(10), Name: "Ruler", Img: "r.png", OracleText: "front", Quantity: 1, Zone: "ruler",
				OtherFaces: []deckapi.FaceEntry{
					{Name: "J-Ruler", Img: "j.png", OracleText: "back"},
					{Name: "Third", Img: "t.png"},
				}},
			{Key: "NoArt", Name: "", Quantity: 0},
		},
	}

	records := Normalize(resp)
	require.Len(t, records, 2)

	require.Equal(t, card.Record{
		ID:         "10",
		Name:       "Ruler",
		Quantity:   1,
		Zone:       "ruler",
		OracleText: "front",
		Faces: []card.Face{
			{Name: "Ruler", Image: "r.png", OracleText: "front"},
			{Name: "J-Ruler", Image: "j.png", OracleText: "back"},
			{Name: "Third", Image: "t.png"},
		},
	}, records[0])

	// missing art is still emitted, zone and quantity defaulted
	require.Equal(t, "NoArt", records[1].Name)
	require.Equal(t, 1, records[1].Quantity)
	require.Equal(t, card.DefaultZone, records[1].Zone)
	require.Equal(t, "", records[1].Faces[0].Image)
}

func TestDeckCount(t *testing.T) {
	d := Load(Source{Slug: "1"}, &deckapi.Response{
		Name: " Deck ",
		Cards: deckapi.CardList{
			{Name: "A", Quantity: 4, Zone: "main"},
			{Name: "B", Quantity: 1, Zone: "ruler"},
			{Name: "C", Quantity: 2, Zone: "main"},
			{Name: "D", Quantity: 3, Zone: "stone"},
		},
	})

	require.Equal(t, "Deck", d.Name)
	require.Equal(t, 10, d.Count())
}
