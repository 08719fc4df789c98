// Package manualroute implements step-by-step route construction driven by
// the user, one hop at a time, with undo.
package manualroute

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/vanshika/starroute/internal/domain"
)

// State is the builder's position in its two-state lifecycle.
type State int

const (
	Idle State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// Usage errors. None of them change builder state.
var (
	ErrNoActiveRoute   = errors.New("start a route first")
	ErrRouteInProgress = errors.New("a route is already in progress, finish or reset it first")
	ErrEmptyStar       = errors.New("star has no name")
	ErrRepeatedStar    = errors.New("star is already the end of the route")
)

const (
	defaultColor     = "#ffff00"
	defaultLineWidth = 0.5
)

// Listener receives routing status changes.
type Listener func(domain.RoutingStatus)

type subscription struct {
	id int
	fn Listener
}

// Builder assembles one manual route at a time. Every change between Idle
// and Active is published to subscribers exactly once, after the builder's
// lock has been released.
type Builder struct {
	mu        sync.Mutex
	state     State
	route     *domain.RouteShape
	color     string
	lineWidth float64
	logger    *slog.Logger

	subscribers []subscription
	nextID      int
}

// Option customizes a Builder.
type Option func(*Builder)

// WithColor sets the colour given to new routes.
func WithColor(color string) Option {
	return func(b *Builder) {
		if color != "" {
			b.color = color
		}
	}
}

// WithLineWidth sets the line width given to new routes.
func WithLineWidth(width float64) Option {
	return func(b *Builder) {
		if width > 0 {
			b.lineWidth = width
		}
	}
}

// WithLogger sets the builder logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New returns an Idle builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		color:     defaultColor,
		lineWidth: defaultLineWidth,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers fn for status notifications and returns a function
// that removes it.
func (b *Builder) Subscribe(fn Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subscribers = append(b.subscribers, subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subscribers {
			if s.id == id {
				b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
				return
			}
		}
	}
}

// State returns the current state.
func (b *Builder) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Current returns a copy of the route in progress.
func (b *Builder) Current() (domain.RouteShape, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != Active {
		return domain.RouteShape{}, false
	}
	return b.route.Clone(), true
}

// Start begins a new route at first. Starting while a route is in progress
// is rejected.
func (b *Builder) Start(first domain.StarNode) error {
	if first.IsZero() {
		return ErrEmptyStar
	}

	b.mu.Lock()
	if b.state == Active {
		b.mu.Unlock()
		return ErrRouteInProgress
	}
	route := domain.NewRouteShape(fmt.Sprintf("Manual route from %s", first.Name), b.color, b.lineWidth)
	_ = route.AddLink(first, 0)
	b.route = route
	listeners := b.transition(Active)
	b.mu.Unlock()

	b.logger.Debug("manual route started", "star", first.Name, "route_id", route.ID)
	b.publish(listeners, Active)
	return nil
}

// Continue extends the route in progress by one hop to next.
func (b *Builder) Continue(next domain.StarNode) error {
	if next.IsZero() {
		return ErrEmptyStar
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != Active {
		return ErrNoActiveRoute
	}
	return b.appendStar(next)
}

func (b *Builder) appendStar(next domain.StarNode) error {
	lastName, lastPos, _ := b.route.Last()
	if lastName == next.Name {
		return ErrRepeatedStar
	}
	if err := b.route.AddLink(next, lastPos.DistanceTo(next.Position)); err != nil {
		return err
	}
	b.logger.Debug("manual route extended", "star", next.Name, "segments", b.route.Segments())
	return nil
}

// Finish completes the route, optionally appending last first, and returns
// the frozen shape. The builder goes back to Idle.
func (b *Builder) Finish(last *domain.StarNode) (domain.RouteShape, error) {
	b.mu.Lock()
	if b.state != Active {
		b.mu.Unlock()
		return domain.RouteShape{}, ErrNoActiveRoute
	}
	if last != nil && !last.IsZero() {
		if name, _, _ := b.route.Last(); name != last.Name {
			if err := b.appendStar(*last); err != nil {
				b.mu.Unlock()
				return domain.RouteShape{}, err
			}
		}
	}

	route := b.route
	if first, ok := firstStar(route); ok {
		lastName, _, _ := route.Last()
		route.Name = fmt.Sprintf("Manual route %s to %s", first, lastName)
	}
	route.Freeze()
	b.route = nil
	listeners := b.transition(Idle)
	b.mu.Unlock()

	b.logger.Info("manual route finished", "route_id", route.ID, "stars", route.Len(), "length", route.TotalLength())
	b.publish(listeners, Idle)
	return *route, nil
}

// UndoLastSegment removes the most recent hop. Once only the seed star is
// left the route is abandoned and the builder returns to Idle.
func (b *Builder) UndoLastSegment() error {
	b.mu.Lock()
	if b.state != Active {
		b.mu.Unlock()
		return ErrNoActiveRoute
	}

	atSeed := b.route.Segments() == 0
	if !atSeed {
		var err error
		if atSeed, err = b.route.RemoveLast(); err != nil {
			b.mu.Unlock()
			return err
		}
	}
	var listeners []Listener
	if atSeed {
		b.route = nil
		listeners = b.transition(Idle)
	}
	b.mu.Unlock()

	b.publish(listeners, Idle)
	return nil
}

// Reset discards any route in progress without freezing it.
func (b *Builder) Reset() {
	b.mu.Lock()
	b.route = nil
	listeners := b.transition(Idle)
	b.mu.Unlock()

	b.publish(listeners, Idle)
}

// transition must be called with b.mu held. It returns the listeners to
// notify, which is empty when the state did not change.
func (b *Builder) transition(to State) []Listener {
	if b.state == to {
		return nil
	}
	b.state = to
	listeners := make([]Listener, 0, len(b.subscribers))
	for _, s := range b.subscribers {
		listeners = append(listeners, s.fn)
	}
	return listeners
}

func (b *Builder) publish(listeners []Listener, state State) {
	status := domain.RoutingStatus{Active: state == Active}
	for _, fn := range listeners {
		fn(status)
	}
}

func firstStar(route *domain.RouteShape) (string, bool) {
	if route.Len() == 0 {
		return "", false
	}
	return route.StarNames[0], true
}
