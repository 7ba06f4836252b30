package session

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/ivlev/treedecor/internal/catalog"
	"github.com/ivlev/treedecor/internal/geometry"
	"github.com/ivlev/treedecor/internal/metrics"
)

// ErrUnknownItem means the placement referenced an id absent from the catalog.
var ErrUnknownItem = errors.New("unknown item")

// PlacedItem is an item pinned to the tree. X and Y are percentages of the
// target box. Records are never modified after creation.
type PlacedItem struct {
	Item        catalog.Item
	PlacementID string
	X, Y        float64
}

// Drop is a pointer release over the tree, in device pixels.
type Drop struct {
	ItemID  string
	ClientX float64
	ClientY float64
	Box     geometry.Box
}

// Session holds the ornaments of one decorating board.
// Records are append-only; insertion order is draw order.
type Session struct {
	mu sync.RWMutex

	catalog *catalog.Catalog
	region  geometry.Region
	rng     *rand.Rand
	seq     uint64

	placed  []PlacedItem
	trigger *Trigger
	combos  *ComboWatcher

	notify  Notifier
	logger  *log.Logger
	metrics *metrics.Metrics
}

type Option func(*Session)

// WithRand injects the random source used for random placement and fill.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

func WithThreshold(n int) Option {
	return func(s *Session) { s.trigger = NewTrigger(n) }
}

func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notify = n }
}

func WithCombos(combos []Combo) Option {
	return func(s *Session) { s.combos = NewComboWatcher(combos) }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// New creates an empty session over the given catalog and region.
func New(cat *catalog.Catalog, region geometry.Region, opts ...Option) *Session {
	s := &Session{
		catalog: cat,
		region:  region,
		trigger: NewTrigger(DefaultThreshold),
		combos:  NewComboWatcher(DefaultCombos()),
		logger:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// Place pins an item at the nearest valid point to (rawX, rawY).
func (s *Session) Place(itemID string, rawX, rawY float64) (PlacedItem, error) {
	s.mu.Lock()
	it, ok := s.catalog.Lookup(itemID)
	if !ok {
		s.mu.Unlock()
		s.metrics.Unknown()
		return PlacedItem{}, fmt.Errorf("%w: %q", ErrUnknownItem, itemID)
	}

	x, y := s.region.ClampToRegion(rawX, rawY)
	p := s.appendLocked(it, x, y)
	events := s.evaluateLocked()
	s.mu.Unlock()

	s.metrics.Placed(1)
	s.emit(events)
	return p, nil
}

// PlaceDrop converts a drop event into the region's percentage space and
// places the item there.
func (s *Session) PlaceDrop(d Drop) (PlacedItem, error) {
	x, y, err := geometry.ToPercent(d.ClientX, d.ClientY, d.Box)
	if err != nil {
		return PlacedItem{}, err
	}
	return s.Place(d.ItemID, x, y)
}

// PlaceMany places every id at a random point inside the fill band.
// Unknown ids are dropped and reported in the returned error; every known
// item is still appended, and watchers are evaluated once for the batch.
func (s *Session) PlaceMany(ids []string) ([]PlacedItem, error) {
	var dropped []error

	s.mu.Lock()
	out := make([]PlacedItem, 0, len(ids))
	for _, id := range ids {
		it, ok := s.catalog.Lookup(id)
		if !ok {
			dropped = append(dropped, fmt.Errorf("%w: %q", ErrUnknownItem, id))
			continue
		}
		x, y := s.region.RandomPointInRegion(s.rng)
		out = append(out, s.appendLocked(it, x, y))
	}
	var events []Event
	if len(out) > 0 {
		events = s.evaluateLocked()
	}
	s.mu.Unlock()

	for range dropped {
		s.metrics.Unknown()
	}
	s.metrics.Placed(len(out))
	s.emit(events)
	return out, errors.Join(dropped...)
}

// FillRandom picks n catalog items at random and places them as one batch.
func (s *Session) FillRandom(n int) ([]PlacedItem, error) {
	items := s.catalog.Items()
	if n <= 0 || len(items) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	ids := make([]string, n)
	for i := range ids {
		ids[i] = items[s.rng.Intn(len(items))].ID
	}
	s.mu.Unlock()

	return s.PlaceMany(ids)
}

// Reset removes every ornament and re-arms the celebration and combos.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placed = nil
	s.trigger.Reset()
	s.combos.Reset()
	s.logger.Printf("[*] Session reset")
}

// Items returns a snapshot of the placed ornaments in draw order.
func (s *Session) Items() []PlacedItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PlacedItem, len(s.placed))
	copy(out, s.placed)
	return out
}

func (s *Session) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.placed)
}

// Celebration returns the state of the threshold trigger.
func (s *Session) Celebration() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trigger.State()
}

// Combos lists the combos unlocked since the last reset.
func (s *Session) Combos() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.combos.Fired()
}

func (s *Session) Region() geometry.Region { return s.region }

func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

func (s *Session) appendLocked(it catalog.Item, x, y float64) PlacedItem {
	s.seq++
	p := PlacedItem{
		Item:        it,
		PlacementID: fmt.Sprintf("%s-%d", it.ID, s.seq),
		X:           x,
		Y:           y,
	}
	s.placed = append(s.placed, p)
	return p
}

func (s *Session) evaluateLocked() []Event {
	var events []Event
	count := len(s.placed)
	if s.trigger.Observe(count) {
		events = append(events, Event{Kind: KindCelebration, Name: "celebration", Count: count})
	}
	for _, name := range s.combos.Observe(s.placed) {
		events = append(events, Event{Kind: KindCombo, Name: name, Count: count})
	}
	return events
}

// emit runs outside the lock so notifiers may read the session.
func (s *Session) emit(events []Event) {
	for _, ev := range events {
		switch ev.Kind {
		case KindCelebration:
			s.logger.Printf("[+++] Celebration at %d ornaments", ev.Count)
			s.metrics.Celebrated()
		case KindCombo:
			s.logger.Printf("[*] Combo unlocked: %s", ev.Name)
			s.metrics.Combo(ev.Name)
		}
		if s.notify != nil {
			s.notify(ev)
		}
	}
}
