package session

// State of a one-shot watcher
type State int

const (
	Armed State = iota
	Fired
)

func (s State) String() string {
	if s == Fired {
		return "fired"
	}
	return "armed"
}

// EventKind distinguishes the notifications a session emits
type EventKind int

const (
	KindCelebration EventKind = iota
	KindCombo
)

// Event is handed to the presentation layer when a watcher fires.
type Event struct {
	Kind  EventKind
	Name  string // combo name; "celebration" for the threshold
	Count int    // placed items at the time of firing
}

// Notifier receives events synchronously from Place/PlaceMany.
type Notifier func(Event)

// DefaultThreshold is the number of ornaments that triggers the celebration.
const DefaultThreshold = 5

// Trigger fires once when the placed count first reaches the threshold.
// Only Reset returns it to Armed.
type Trigger struct {
	threshold int
	state     State
}

func NewTrigger(threshold int) *Trigger {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Trigger{threshold: threshold}
}

// Observe reports whether this observation caused the Armed -> Fired transition.
func (t *Trigger) Observe(count int) bool {
	if t.state == Fired || count < t.threshold {
		return false
	}
	t.state = Fired
	return true
}

func (t *Trigger) Reset() { t.state = Armed }

func (t *Trigger) State() State { return t.state }

func (t *Trigger) Threshold() int { return t.threshold }
