package spawn

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/arcanaland/deckspawn/internal/card"
	"github.com/arcanaland/deckspawn/internal/host"
	"github.com/arcanaland/deckspawn/internal/host/table"
	"github.com/arcanaland/deckspawn/internal/layout"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPayloadPrimaryAndAlternates(t *testing.T) {
	s := New(table.New(nil), WithCardBack("back.png"))
	p := s.Payload(Request{
		Zone: "ruler",
		Card: card.Record{Name: "Ruler", Faces: []card.Face{
			{Name: "Ruler", Image: "r.png", OracleText: "front text"},
			{Name: "J-Ruler", Image: "j.png", OracleText: "back text"},
		}},
		Position: host.Vector{X: -3, Y: 1},
		FaceDown: false,
	})

	require.Equal(t, host.State{Nickname: "Ruler", Description: "front text", Face: "r.png", Back: "back.png"}, p.State)
	require.Equal(t, []host.State{{Nickname: "J-Ruler", Description: "back text", Face: "j.png", Back: "back.png"}}, p.States)
	require.Equal(t, host.Vector{X: -3, Y: 1}, p.Transform.Position)
	require.Equal(t, host.Vector{}, p.Transform.Rotation)
}

func TestPayloadFaceDownIsRotated(t *testing.T) {
	p := New(table.New(nil)).Payload(Request{Card: card.Record{Faces: []card.Face{{Name: "A", Image: "a.png"}}}, FaceDown: true})
	require.Equal(t, 180.0, p.Transform.Rotation.Z)
	require.Equal(t, DefaultCardBack, p.Back)
	require.Empty(t, p.States)
}

func TestPayloadPlaceholders(t *testing.T) {
	s := New(table.New(nil), WithPlaceholderImage("missing.png"))

	p := s.Payload(Request{})
	require.Equal(t, PlaceholderName, p.Nickname)
	require.Equal(t, "missing.png", p.Face)

	p = s.Payload(Request{Card: card.Record{Faces: []card.Face{{Name: "No Art"}, {Name: "Back"}}}})
	require.Equal(t, "No Art", p.Nickname)
	require.Equal(t, "missing.png", p.Face)
	require.Equal(t, "missing.png", p.States[0].Face)

	// empty overrides keep the defaults
	p = New(table.New(nil), WithCardBack(" "), WithPlaceholderImage("")).Payload(Request{})
	require.Equal(t, PlaceholderImage, p.Face)
	require.Equal(t, DefaultCardBack, p.Back)
}

func TestSpawnOneCallPerRequest(t *testing.T) {
	tb := table.New(nil, table.WithJitter(time.Millisecond, 3*time.Millisecond))
	s := New(tb)

	var confirmed atomic.Int32
	done := make(chan host.Handle, 3)
	for i := 0; i < 3; i++ {
		s.Spawn(Request{Card: card.Record{Faces: []card.Face{{Name: "A", Image: "a.png"}}}}, func(h host.Handle) {
			confirmed.Add(1)
			done <- h
		})
	}
	require.Len(t, tb.Spawned(), 3)

	for i := 0; i < 3; i++ {
		<-done
	}
	tb.Wait()
	require.Equal(t, int32(3), confirmed.Load())
}

func TestExpandQuantity(t *testing.T) {
	recs := []card.Record{
		{Name: "A", Quantity: 4, Zone: "main", Faces: []card.Face{{Name: "A"}}},
		{Name: "R", Quantity: 1, Zone: "ruler", Faces: []card.Face{{Name: "R"}}},
		{Name: "B", Quantity: 2, Zone: "main", Faces: []card.Face{{Name: "B"}}},
		{Name: "Z", Quantity: 0, Zone: "stone"},
	}
	plan := layout.NewPlanner(false).Plan(recs)
	reqs := Expand(recs, plan)

	require.Len(t, reqs["main"], 6)
	require.Len(t, reqs["ruler"], 1)
	require.Len(t, reqs["stone"], 1)

	counts := map[string]int{}
	for _, r := range reqs["main"] {
		counts[r.Card.Name]++
	}
	require.Equal(t, map[string]int{"A": 4, "B": 2}, counts)

	ruler, _ := plan.Lookup("ruler")
	require.Equal(t, ruler.Anchor, reqs["ruler"][0].Position)
	require.False(t, reqs["ruler"][0].FaceDown)
	require.True(t, reqs["main"][0].FaceDown)

	require.Empty(t, Expand(recs, layout.Plan{}))
}
