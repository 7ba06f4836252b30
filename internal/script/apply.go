package script

import (
	"errors"
	"fmt"

	"github.com/ivlev/treedecor/internal/session"
)

// Skipped is a placement dropped because its item is not in the catalog.
type Skipped struct {
	Index int // 1-based position in Placements
	Item  string
	Err   error
}

// Apply replays the placements onto sess in order, then the random fill.
// aliases maps script ids such as PhotoAlias to catalog ids. Placements of
// unknown items are dropped and listed in skipped; any other failure stops
// the replay, leaving earlier placements on the tree.
func (s *Script) Apply(sess *session.Session, aliases map[string]string) (placed []session.PlacedItem, skipped []Skipped, err error) {
	for i, p := range s.Placements {
		id := p.Item
		if alias, ok := aliases[id]; ok {
			id = alias
		}

		var item session.PlacedItem
		if p.Drop != nil {
			item, err = sess.PlaceDrop(session.Drop{
				ItemID:  id,
				ClientX: p.Drop.ClientX,
				ClientY: p.Drop.ClientY,
				Box:     p.Drop.Box,
			})
		} else {
			item, err = sess.Place(id, p.X, p.Y)
		}
		switch {
		case errors.Is(err, session.ErrUnknownItem):
			skipped = append(skipped, Skipped{Index: i + 1, Item: p.Item, Err: err})
			continue
		case err != nil:
			return placed, skipped, fmt.Errorf("placement %d (%s): %w", i+1, p.Item, err)
		}
		placed = append(placed, item)
	}

	if s.Fill > 0 {
		more, err := sess.FillRandom(s.Fill)
		placed = append(placed, more...)
		if err != nil {
			return placed, skipped, fmt.Errorf("fill: %w", err)
		}
	}
	return placed, skipped, nil
}

// FromSession records the current ornaments of sess as a script that
// reproduces them with exact coordinates.
func FromSession(sess *session.Session, mode string) *Script {
	s := &Script{Version: "1.0", Mode: mode}
	for _, p := range sess.Items() {
		id := p.Item.ID
		if p.Item.Custom {
			id = PhotoAlias
		}
		s.Placements = append(s.Placements, Placement{Item: id, X: p.X, Y: p.Y})
	}
	return s
}
