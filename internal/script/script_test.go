package script

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/treedecor/internal/catalog"
	"github.com/ivlev/treedecor/internal/geometry"
	"github.com/ivlev/treedecor/internal/session"
)

func TestReadWriteScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	in := &Script{
		Version: "1.0",
		Placements: []Placement{
			{Item: "gift", X: 50, Y: 50},
			{Item: "santa", Drop: &Drop{ClientX: 150, ClientY: 250, Box: geometry.Box{Left: 100, Top: 200, Width: 200, Height: 100}}},
		},
		Fill:        2,
		Night:       true,
		Caption:     "Merry",
		Mode:        ModeAnimated,
		Environment: Environment{CanShareFiles: true, SmallScreen: true},
	}
	require.NoError(t, WriteScript(in, path))

	out, err := ReadScript(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		s    Script
		want string
	}{
		{"mode", Script{Mode: "mp4"}, "unknown export mode"},
		{"fill", Script{Fill: -1}, "fill"},
		{"empty item", Script{Placements: []Placement{{}}}, "item is empty"},
		{"photo alias", Script{Placements: []Placement{{Item: PhotoAlias}}}, "without a photo"},
		{"photo path", Script{Photo: &Photo{}}, "photo path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorContains(t, tt.s.Validate(), tt.want)
		})
	}
	assert.NoError(t, (&Script{Mode: ModeStill}).Validate())
}

func TestApply(t *testing.T) {
	sess := session.New(catalog.Default(), geometry.DefaultRegion())
	s := &Script{
		Placements: []Placement{
			{Item: "gift", X: 50, Y: 50},
			{Item: "snowman", Drop: &Drop{ClientX: 200, ClientY: 250, Box: geometry.Box{Left: 100, Top: 200, Width: 200, Height: 100}}},
		},
		Fill: 3,
	}

	placed, skipped, err := s.Apply(sess, nil)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, placed, 5)
	assert.Equal(t, "gift", placed[0].Item.ID)
	assert.Equal(t, 50.0, placed[1].X)
	assert.Equal(t, 50.0, placed[1].Y)
	assert.Equal(t, 5, sess.Count())
	assert.Equal(t, session.Fired, sess.Celebration())
}

func TestApplySkipsUnknownItems(t *testing.T) {
	cat := catalog.Default()
	require.NoError(t, cat.Append(catalog.Item{ID: "photo-1", Label: "Me", Visual: catalog.Glyph{Text: "M"}}))
	sess := session.New(cat, geometry.DefaultRegion())

	s := &Script{Placements: []Placement{
		{Item: PhotoAlias, X: 50, Y: 40},
		{Item: "nope", X: 50, Y: 40},
		{Item: "santa", X: 45, Y: 60},
	}}
	placed, skipped, err := s.Apply(sess, map[string]string{PhotoAlias: "photo-1"})
	require.NoError(t, err)
	require.Len(t, placed, 2)
	assert.Equal(t, "photo-1", placed[0].Item.ID)
	assert.Equal(t, "santa", placed[1].Item.ID)

	require.Len(t, skipped, 1)
	assert.Equal(t, 2, skipped[0].Index)
	assert.Equal(t, "nope", skipped[0].Item)
	assert.ErrorIs(t, skipped[0].Err, session.ErrUnknownItem)
}

func TestApplyStopsOnEmptyDropBox(t *testing.T) {
	sess := session.New(catalog.Default(), geometry.DefaultRegion())
	s := &Script{Placements: []Placement{
		{Item: "gift", X: 50, Y: 50},
		{Item: "santa", Drop: &Drop{ClientX: 10, ClientY: 10}},
		{Item: "snowman", X: 50, Y: 50},
	}}

	placed, _, err := s.Apply(sess, nil)
	assert.ErrorIs(t, err, geometry.ErrEmptyBox)
	assert.ErrorContains(t, err, "placement 2")
	assert.Len(t, placed, 1)
	assert.Equal(t, 1, sess.Count())
}

func TestFromSession(t *testing.T) {
	cat := catalog.Default()
	require.NoError(t, cat.Append(catalog.Item{ID: "photo-1", Label: "Me", Visual: catalog.Glyph{Text: "M"}}))
	sess := session.New(cat, geometry.DefaultRegion())
	_, err := sess.Place("gift", 50, 50)
	require.NoError(t, err)
	_, err = sess.Place("photo-1", 45, 60)
	require.NoError(t, err)

	s := FromSession(sess, ModeStill)
	assert.Equal(t, []Placement{
		{Item: "gift", X: 50, Y: 50},
		{Item: PhotoAlias, X: 45, Y: 60},
	}, s.Placements)

	replay := session.New(cat, geometry.DefaultRegion())
	_, _, err = s.Apply(replay, map[string]string{PhotoAlias: "photo-1"})
	require.NoError(t, err)
	assert.Equal(t, len(sess.Items()), len(replay.Items()))
	for i, p := range replay.Items() {
		assert.Equal(t, sess.Items()[i].X, p.X)
		assert.Equal(t, sess.Items()[i].Y, p.Y)
	}
}
