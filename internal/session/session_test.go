package session

import (
	"image"
	"math/rand"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/treedecor/internal/catalog"
	"github.com/ivlev/treedecor/internal/geometry"
	"github.com/ivlev/treedecor/internal/metrics"
)

type recorder struct {
	events []Event
}

func (r *recorder) notify(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) celebrations() int {
	n := 0
	for _, ev := range r.events {
		if ev.Kind == KindCelebration {
			n++
		}
	}
	return n
}

func newTestSession(t *testing.T, rec *recorder, opts ...Option) *Session {
	t.Helper()
	base := []Option{
		WithRand(rand.New(rand.NewSource(1))),
		WithNotifier(rec.notify),
		WithCombos(nil),
	}
	return New(catalog.Default(), geometry.DefaultRegion(), append(base, opts...)...)
}

func TestPlaceClampsAndAppends(t *testing.T) {
	s := newTestSession(t, &recorder{})

	p, err := s.Place("gift", -40, 500)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Count())
	assert.True(t, s.Region().Contains(p.X, p.Y))
	assert.Equal(t, "gift", p.Item.ID)
}

func TestPlaceUnknownItemLeavesSessionUntouched(t *testing.T) {
	rec := &recorder{}
	s := newTestSession(t, rec)
	_, err := s.Place("gift", 50, 50)
	require.NoError(t, err)

	_, err = s.Place("does-not-exist", 50, 50)
	assert.ErrorIs(t, err, ErrUnknownItem)
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, Armed, s.Celebration())
	assert.Empty(t, rec.events)
}

func TestPlacementIDsUniqueForRepeats(t *testing.T) {
	s := newTestSession(t, &recorder{})
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		p, err := s.Place("santa", 50, 50)
		require.NoError(t, err)
		require.False(t, seen[p.PlacementID], "duplicate id %s", p.PlacementID)
		seen[p.PlacementID] = true
	}

	s.Reset()
	p, err := s.Place("santa", 50, 50)
	require.NoError(t, err)
	assert.False(t, seen[p.PlacementID], "ids must stay unique across resets")
}

func TestCelebrationFiresOnceOneByOne(t *testing.T) {
	rec := &recorder{}
	s := newTestSession(t, rec)

	for _, id := range []string{"gift", "snowflake", "reindeer", "snowman"} {
		_, err := s.Place(id, 50, 50)
		require.NoError(t, err)
	}
	assert.Equal(t, Armed, s.Celebration())
	assert.Equal(t, 0, rec.celebrations())

	_, err := s.Place("santa", 50, 50)
	require.NoError(t, err)
	assert.Equal(t, Fired, s.Celebration())
	assert.Equal(t, 1, rec.celebrations())
	assert.Equal(t, 5, rec.events[0].Count)

	_, err = s.Place("stocking", 50, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.celebrations())
}

func TestCelebrationFiresOnceForBatch(t *testing.T) {
	rec := &recorder{}
	s := newTestSession(t, rec)

	_, err := s.Place("gift", 50, 50)
	require.NoError(t, err)

	placed, err := s.PlaceMany([]string{"santa", "santa", "alien", "diamond", "gift", "snowman"})
	require.NoError(t, err)
	assert.Len(t, placed, 6)
	assert.Equal(t, 7, s.Count())
	assert.Equal(t, 1, rec.celebrations())
	assert.Equal(t, 7, rec.events[0].Count)

	for _, p := range placed {
		assert.True(t, s.Region().Contains(p.X, p.Y))
	}
}

func TestPlaceManyDropsUnknownIDs(t *testing.T) {
	rec := &recorder{}
	reg := prometheus.NewRegistry()
	s := newTestSession(t, rec, WithThreshold(2), WithMetrics(metrics.New(reg)))

	placed, err := s.PlaceMany([]string{"gift", "nope", "santa"})
	assert.ErrorIs(t, err, ErrUnknownItem)
	assert.ErrorContains(t, err, `"nope"`)
	require.Len(t, placed, 2)
	assert.Equal(t, "gift", placed[0].Item.ID)
	assert.Equal(t, "santa", placed[1].Item.ID)
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, 1, rec.celebrations())

	families, err := reg.Gather()
	require.NoError(t, err)
	results := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "treedecor_placements_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			results[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 2.0, results["placed"])
	assert.Equal(t, 1.0, results["unknown_item"])
}

func TestPlaceManyOnlyUnknown(t *testing.T) {
	rec := &recorder{}
	s := newTestSession(t, rec, WithThreshold(1))

	placed, err := s.PlaceMany([]string{"nope", "nada"})
	assert.ErrorIs(t, err, ErrUnknownItem)
	assert.Empty(t, placed)
	assert.Equal(t, 0, s.Count())
	assert.Empty(t, rec.events)
	assert.Equal(t, Armed, s.Celebration())
}

func TestResetRearms(t *testing.T) {
	rec := &recorder{}
	s := newTestSession(t, rec, WithThreshold(2))

	_, err := s.PlaceMany([]string{"gift", "santa"})
	require.NoError(t, err)
	require.Equal(t, Fired, s.Celebration())

	s.Reset()
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, Armed, s.Celebration())

	_, err = s.PlaceMany([]string{"gift", "santa"})
	require.NoError(t, err)
	assert.Equal(t, 2, rec.celebrations())
}

func TestFillRandomDeterministic(t *testing.T) {
	a := newTestSession(t, &recorder{})
	b := newTestSession(t, &recorder{})

	pa, err := a.FillRandom(12)
	require.NoError(t, err)
	pb, err := b.FillRandom(12)
	require.NoError(t, err)

	require.Len(t, pa, 12)
	for i := range pa {
		assert.Equal(t, pa[i].Item.ID, pb[i].Item.ID)
		assert.Equal(t, pa[i].X, pb[i].X)
		assert.Equal(t, pa[i].Y, pb[i].Y)
	}
}

func TestPlaceDrop(t *testing.T) {
	s := newTestSession(t, &recorder{})
	box := geometry.Box{Left: 0, Top: 0, Width: 300, Height: 400}

	p, err := s.PlaceDrop(Drop{ItemID: "gift", ClientX: 150, ClientY: 200, Box: box})
	require.NoError(t, err)
	assert.InDelta(t, 50.0, p.X, 1e-9)
	assert.InDelta(t, 50.0, p.Y, 1e-9)

	_, err = s.PlaceDrop(Drop{ItemID: "gift", Box: geometry.Box{}})
	assert.ErrorIs(t, err, geometry.ErrEmptyBox)
	assert.Equal(t, 1, s.Count())
}

func TestItemsIsSnapshot(t *testing.T) {
	s := newTestSession(t, &recorder{})
	_, err := s.Place("gift", 50, 50)
	require.NoError(t, err)

	items := s.Items()
	_, err = s.Place("santa", 50, 50)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Len(t, s.Items(), 2)
	assert.Equal(t, "santa", s.Items()[1].Item.ID, "later placements draw on top")
}

func TestCombos(t *testing.T) {
	rec := &recorder{}
	cat := catalog.Default()
	s := New(cat, geometry.DefaultRegion(),
		WithRand(rand.New(rand.NewSource(3))),
		WithNotifier(rec.notify),
		WithThreshold(100),
	)

	_, err := s.Place("diamond", 50, 50)
	require.NoError(t, err)
	assert.Empty(t, rec.events)

	_, err = s.Place("diamond", 50, 50)
	require.NoError(t, err)
	require.Len(t, rec.events, 1)
	assert.Equal(t, KindCombo, rec.events[0].Kind)
	assert.Equal(t, "money-rain", rec.events[0].Name)

	_, err = s.Place("diamond", 50, 50)
	require.NoError(t, err)
	assert.Len(t, rec.events, 1)

	photo := catalog.ImportPhoto(image.NewRGBA(image.Rect(0, 0, 10, 10)), image.Rectangle{}, "me.png", "Me")
	require.NoError(t, cat.Append(photo))
	_, err = s.PlaceMany([]string{photo.ID, "alien"})
	require.NoError(t, err)
	assert.Equal(t, []string{"money-rain", "ufo-abduction"}, s.Combos())

	s.Reset()
	assert.Empty(t, s.Combos())
}

func TestTriggerStateMachine(t *testing.T) {
	tr := NewTrigger(3)
	assert.Equal(t, Armed, tr.State())
	assert.False(t, tr.Observe(2))
	assert.True(t, tr.Observe(4))
	assert.False(t, tr.Observe(5))
	assert.Equal(t, Fired, tr.State())
	tr.Reset()
	assert.Equal(t, Armed, tr.State())

	assert.Equal(t, DefaultThreshold, NewTrigger(0).Threshold())
}
