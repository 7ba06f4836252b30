package session

import "sort"

// AnyCustom as an ingredient matches any user-imported item.
const AnyCustom = "@custom"

// Combo is a recipe of items that, once all placed, unlocks an effect.
// Repeated ingredients must be placed that many times.
type Combo struct {
	Name        string
	Ingredients []string
}

// DefaultCombos are the recipes hinted on the decorating board.
func DefaultCombos() []Combo {
	return []Combo{
		{Name: "snowstorm", Ingredients: []string{"snowflake", "snowman"}},
		{Name: "sleigh-ride", Ingredients: []string{"reindeer", "santa"}},
		{Name: "delivery", Ingredients: []string{"santa", "gift"}},
		{Name: "money-rain", Ingredients: []string{"diamond", "diamond"}},
		{Name: "space-invaders", Ingredients: []string{"retro-game", "controller"}},
		{Name: "ufo-abduction", Ingredients: []string{AnyCustom, "alien"}},
	}
}

// ComboWatcher fires each combo at most once until reset.
type ComboWatcher struct {
	combos []Combo
	fired  map[string]bool
}

func NewComboWatcher(combos []Combo) *ComboWatcher {
	return &ComboWatcher{combos: combos, fired: make(map[string]bool)}
}

// Observe returns the names of combos completed for the first time, in
// recipe order.
func (w *ComboWatcher) Observe(placed []PlacedItem) []string {
	if len(w.combos) == 0 {
		return nil
	}

	have := make(map[string]int)
	for _, p := range placed {
		have[p.Item.ID]++
		if p.Item.Custom {
			have[AnyCustom]++
		}
	}

	var fired []string
	for _, c := range w.combos {
		if w.fired[c.Name] || !covers(have, c.Ingredients) {
			continue
		}
		w.fired[c.Name] = true
		fired = append(fired, c.Name)
	}
	return fired
}

func covers(have map[string]int, ingredients []string) bool {
	need := make(map[string]int, len(ingredients))
	for _, id := range ingredients {
		need[id]++
	}
	for id, n := range need {
		if have[id] < n {
			return false
		}
	}
	return true
}

// Fired lists the combos already unlocked, sorted by name.
func (w *ComboWatcher) Fired() []string {
	out := make([]string, 0, len(w.fired))
	for name := range w.fired {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (w *ComboWatcher) Reset() {
	w.fired = make(map[string]bool)
}
