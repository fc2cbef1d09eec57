// Package feast implements the cake-feeding mini-game: a draggable slice, a
// roster seated around the cake, and proximity-based feeding.
//
// The game owns no rendering state. Screen positions are read through a
// [Locator] at the moment a drag ends, and time only moves when the caller
// invokes [Game.Advance], so tests can step the clock frame by frame.
//
//	g := feast.New(feast.NewRoster("Vansh", "👦"), feast.Config{})
//	g.OnEvent = func(e feast.Event) { ... }
//	g.BeginDrag()
//	g.EndDrag(locator)
//	g.Advance(16 * time.Millisecond)
package feast

import (
	"fmt"
	"math"
	"time"
)

// State is the slice state machine position.
type State uint8

const (
	StateIdle     State = iota // slice sits on the cake, ready to be dragged
	StateDragging              // user holds the slice
	StateConsumed              // slice eaten, waiting to respawn
	StateLocked                // everyone fed; the slice never comes back
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateConsumed:
		return "consumed"
	case StateLocked:
		return "locked"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// FeedMode selects who gets fed when several avatars are within reach of the
// same drop point.
type FeedMode uint8

const (
	FeedNearest FeedMode = iota // only the closest unfed person in range
	FeedAll                     // every unfed person in range
)

// Defaults applied to zero Config fields.
const (
	DefaultThreshold    = 80.0
	DefaultCutDuration  = 800 * time.Millisecond
	DefaultRespawnDelay = 800 * time.Millisecond
)

// Config tunes the mini-game. Zero values take the defaults above.
type Config struct {
	// Threshold is the pixel distance below which a drop feeds a person.
	// Non-finite values take the default.
	Threshold    float64
	CutDuration  time.Duration
	RespawnDelay time.Duration
	Mode         FeedMode
}

func (c Config) withDefaults() Config {
	if !(c.Threshold > 0) || math.IsInf(c.Threshold, 0) {
		c.Threshold = DefaultThreshold
	}
	if c.CutDuration <= 0 {
		c.CutDuration = DefaultCutDuration
	}
	if c.RespawnDelay <= 0 {
		c.RespawnDelay = DefaultRespawnDelay
	}
	return c
}

// EventKind identifies a mini-game event.
type EventKind uint8

const (
	EventCut      EventKind = iota // a drag started; the knife goes in
	EventCutEnd                    // the cosmetic cutting flag cleared
	EventFed                       // Person was fed
	EventPop                       // a drop fed at least one person
	EventRespawn                   // a new slice is on the cake
	EventComplete                  // everyone, celebrant included, is fed
)

func (k EventKind) String() string {
	switch k {
	case EventCut:
		return "cut"
	case EventCutEnd:
		return "cut_end"
	case EventFed:
		return "fed"
	case EventPop:
		return "pop"
	case EventRespawn:
		return "respawn"
	case EventComplete:
		return "complete"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// Event is emitted through Game.OnEvent.
type Event struct {
	Kind   EventKind
	Person Person // set for EventFed
}

// Locator reports on-screen centers of the rendered slice and avatars. A false
// second return means the element is not on screen and cannot be matched.
type Locator interface {
	SliceCenter() (Point, bool)
	AvatarCenter(id int) (Point, bool)
}

type transition uint8

const (
	transitionCutEnd transition = iota
	transitionRespawn
)

type delayed struct {
	at   time.Duration
	kind transition
}

// Game is one CAKE scene session. It is not safe for concurrent use; the UI
// loop owns it.
type Game struct {
	cfg Config

	people       []Person
	state        State
	fedCount     int
	celebrantFed bool
	celebrant    string
	message      string
	cutting      bool
	completed    bool

	now     time.Duration
	pending []delayed

	// OnEvent is called synchronously for every event. Nil disables delivery.
	OnEvent func(Event)
}

const (
	startMessage = "Feed the cake to %s!"
	fedMessage   = "Yum! %s is happy!"
)

// New starts a mini-game over roster. The roster is copied.
func New(roster []Person, cfg Config) *Game {
	g := &Game{
		cfg:    cfg.withDefaults(),
		people: append([]Person(nil), roster...),
	}
	for _, p := range g.people {
		if p.IsCelebrant {
			g.celebrant = p.Name
			break
		}
	}
	g.message = fmt.Sprintf(startMessage, g.celebrant)
	return g
}

// BeginDrag picks up the slice. Returns false when no slice is available.
func (g *Game) BeginDrag() bool {
	if g.state != StateIdle {
		return false
	}
	g.state = StateDragging
	g.cutting = true
	g.schedule(g.cfg.CutDuration, transitionCutEnd)
	g.emit(Event{Kind: EventCut})
	return true
}

// EndDrag drops the slice and feeds whoever is in reach, returning the people
// fed by this gesture. Positions are read from loc fresh on every call. A drop
// that feeds nobody snaps the slice back without any other change.
func (g *Game) EndDrag(loc Locator) []Person {
	if g.state != StateDragging {
		return nil
	}
	hits := g.hitTest(loc)
	if len(hits) == 0 {
		g.state = StateIdle
		return nil
	}

	fed := make([]Person, 0, len(hits))
	for _, i := range hits {
		p := &g.people[i]
		p.Fed = true
		g.fedCount++
		g.message = fmt.Sprintf(fedMessage, p.Name)
		if p.IsCelebrant {
			g.celebrantFed = true
		}
		fed = append(fed, *p)
		g.emit(Event{Kind: EventFed, Person: *p})
	}
	g.emit(Event{Kind: EventPop})

	if g.terminal() {
		g.state = StateLocked
		if !g.completed {
			g.completed = true
			g.emit(Event{Kind: EventComplete})
		}
		return fed
	}
	g.state = StateConsumed
	g.schedule(g.cfg.RespawnDelay, transitionRespawn)
	return fed
}

// hitTest returns roster indices to feed, in roster order.
func (g *Game) hitTest(loc Locator) []int {
	if loc == nil {
		return nil
	}
	center, ok := loc.SliceCenter()
	if !ok {
		return nil
	}

	var hits []int
	nearest := -1
	nearestDist := 0.0
	for i := range g.people {
		p := &g.people[i]
		if p.Fed {
			continue
		}
		at, ok := loc.AvatarCenter(p.ID)
		if !ok {
			continue
		}
		d := center.Distance(at)
		if d >= g.cfg.Threshold {
			continue
		}
		if g.cfg.Mode == FeedAll {
			hits = append(hits, i)
			continue
		}
		if nearest < 0 || d < nearestDist {
			nearest = i
			nearestDist = d
		}
	}
	if nearest >= 0 {
		hits = append(hits, nearest)
	}
	return hits
}

// Advance moves the game clock forward and fires every delayed transition that
// has come due, oldest first.
func (g *Game) Advance(dt time.Duration) {
	if dt > 0 {
		g.now += dt
	}
	for len(g.pending) > 0 && g.pending[0].at <= g.now {
		d := g.pending[0]
		copy(g.pending, g.pending[1:])
		g.pending = g.pending[:len(g.pending)-1]
		g.fire(d.kind)
	}
}

func (g *Game) fire(kind transition) {
	switch kind {
	case transitionCutEnd:
		if g.cutting {
			g.cutting = false
			g.emit(Event{Kind: EventCutEnd})
		}
	case transitionRespawn:
		// A lock that landed after scheduling wins.
		if g.state != StateConsumed || g.terminal() {
			return
		}
		g.state = StateIdle
		g.emit(Event{Kind: EventRespawn})
	}
}

// schedule inserts a transition keeping pending sorted by due time. Equal due
// times keep insertion order.
func (g *Game) schedule(after time.Duration, kind transition) {
	d := delayed{at: g.now + after, kind: kind}
	i := len(g.pending)
	for i > 0 && g.pending[i-1].at > d.at {
		i--
	}
	g.pending = append(g.pending, delayed{})
	copy(g.pending[i+1:], g.pending[i:])
	g.pending[i] = d
}

func (g *Game) terminal() bool {
	return g.celebrantFed && g.fedCount == len(g.people)
}

func (g *Game) emit(e Event) {
	if g.OnEvent != nil {
		g.OnEvent(e)
	}
}

// --- Read accessors ---

// Roster returns a copy of the people in seating order.
func (g *Game) Roster() []Person {
	return append([]Person(nil), g.people...)
}

// Person returns the roster entry with the given ID.
func (g *Game) Person(id int) (Person, bool) {
	for _, p := range g.people {
		if p.ID == id {
			return p, true
		}
	}
	return Person{}, false
}

// State returns the slice state.
func (g *Game) State() State { return g.state }

// FedCount returns how many people have eaten.
func (g *Game) FedCount() int { return g.fedCount }

// CelebrantFed reports whether the celebrant has eaten.
func (g *Game) CelebrantFed() bool { return g.celebrantFed }

// Celebrant returns the celebrant's name.
func (g *Game) Celebrant() string { return g.celebrant }

// Message returns the status line shown above the cake.
func (g *Game) Message() string { return g.message }

// Cutting reports whether the knife animation flag is up. Purely cosmetic.
func (g *Game) Cutting() bool { return g.cutting }

// SliceVisible reports whether a slice is on screen (resting or dragged).
func (g *Game) SliceVisible() bool {
	return g.state == StateIdle || g.state == StateDragging
}

// Complete reports whether the terminal condition holds.
func (g *Game) Complete() bool { return g.completed }

// Config returns the effective configuration.
func (g *Game) Config() Config { return g.cfg }
