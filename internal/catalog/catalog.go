package catalog

import (
	"fmt"
	"image"
	"sync"
)

// Visual is what an item looks like: either a text glyph or a picture.
// The set of implementations is closed; callers switch on the concrete type.
type Visual interface {
	isVisual()
}

// Glyph is a short piece of text (usually a single emoji).
type Glyph struct {
	Text string
}

// Image is a picture, kept both as its source reference and decoded pixels.
type Image struct {
	Ref    string
	Pixels image.Image
}

func (Glyph) isVisual() {}
func (Image) isVisual() {}

// Item is a placeable ornament definition
type Item struct {
	ID     string
	Label  string
	Visual Visual
	Custom bool // imported by the user rather than shipped
}

// Catalog is the ordered set of items a session may place.
// Built-in items are fixed; custom items may be appended at any time.
type Catalog struct {
	mu    sync.RWMutex
	items []Item
	index map[string]int
}

// New builds a catalog, rejecting duplicate or empty ids.
func New(items ...Item) (*Catalog, error) {
	c := &Catalog{index: make(map[string]int, len(items))}
	for _, it := range items {
		if err := c.add(it); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Default returns the ten ornaments of the decorating board.
func Default() *Catalog {
	c, err := New(
		Item{ID: "gift", Label: "Gift", Visual: Glyph{Text: "🎁"}},
		Item{ID: "snowflake", Label: "Snowflake", Visual: Glyph{Text: "❄️"}},
		Item{ID: "reindeer", Label: "Reindeer", Visual: Glyph{Text: "🦌"}},
		Item{ID: "snowman", Label: "Snowman", Visual: Glyph{Text: "⛄"}},
		Item{ID: "santa", Label: "Santa", Visual: Glyph{Text: "🎅"}},
		Item{ID: "stocking", Label: "Stocking", Visual: Glyph{Text: "🧦"}},
		Item{ID: "diamond", Label: "Diamond", Visual: Glyph{Text: "💎"}},
		Item{ID: "alien", Label: "Alien", Visual: Glyph{Text: "👽"}},
		Item{ID: "retro-game", Label: "Retro Game", Visual: Glyph{Text: "👾"}},
		Item{ID: "controller", Label: "Controller", Visual: Glyph{Text: "🎮"}},
	)
	if err != nil {
		panic(err) // static list
	}
	return c
}

func (c *Catalog) add(it Item) error {
	if it.ID == "" {
		return fmt.Errorf("item %q has empty id", it.Label)
	}
	if it.Visual == nil {
		return fmt.Errorf("item %q has no visual", it.ID)
	}
	if _, dup := c.index[it.ID]; dup {
		return fmt.Errorf("duplicate item id %q", it.ID)
	}
	c.index[it.ID] = len(c.items)
	c.items = append(c.items, it)
	return nil
}

// Append inserts a custom item at the end of the catalog.
func (c *Catalog) Append(it Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	it.Custom = true
	return c.add(it)
}

// Lookup finds an item by id.
func (c *Catalog) Lookup(id string) (Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// Items returns a copy of the catalog in order.
func (c *Catalog) Items() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
