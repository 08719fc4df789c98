// Package routing is the entry point for automatic and manual routing. It
// tracks the routing mode and hands everything visual to a Display.
package routing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/vanshika/starroute/internal/domain"
	"github.com/vanshika/starroute/internal/manualroute"
)

// ErrDisplayNotAttached is the panic value raised when a display-bound
// operation runs before AttachDisplay.
var ErrDisplayNotAttached = errors.New("routing display not attached")

// ErrFinderRequired is the panic value raised by NewManager without a Finder.
var ErrFinderRequired = errors.New("routing manager requires a route finder")

// Finder runs automatic route searches.
type Finder interface {
	FindRoutes(ctx context.Context, query domain.RouteQuery, stars []domain.StarNode) domain.SearchResult
}

// Manager owns the routing mode and drives the route finder, the manual
// route builder and the attached display.
type Manager struct {
	mu      sync.Mutex
	mode    domain.RoutingMode
	display Display

	finder  Finder
	builder *manualroute.Builder
	logger  *slog.Logger
}

// NewManager creates a Manager in RoutingNone with no display attached. It
// panics with ErrFinderRequired when finder is nil.
func NewManager(finder Finder, builder *manualroute.Builder, logger *slog.Logger) *Manager {
	if finder == nil {
		panic(ErrFinderRequired)
	}
	if builder == nil {
		builder = manualroute.New()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		finder:  finder,
		builder: builder,
		logger:  logger,
	}
}

// SetMode changes the routing mode. It never needs a display.
func (m *Manager) SetMode(mode domain.RoutingMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode != mode {
		m.logger.Debug("routing mode changed", "from", m.mode.String(), "to", mode.String())
	}
	m.mode = mode
}

// Mode returns the current routing mode.
func (m *Manager) Mode() domain.RoutingMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// AttachDisplay sets the display that receives rendering calls.
func (m *Manager) AttachDisplay(d Display) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.display = d
}

// DisplayAttached reports whether a display has been attached.
func (m *Manager) DisplayAttached() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.display != nil
}

// Display returns the attached display, or nil.
func (m *Manager) Display() Display {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.display
}

// mustDisplay panics with ErrDisplayNotAttached when no display is attached.
func (m *Manager) mustDisplay() Display {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.display == nil {
		panic(ErrDisplayNotAttached)
	}
	return m.display
}

// SubscribeStatus registers fn for manual routing status changes.
func (m *Manager) SubscribeStatus(fn manualroute.Listener) func() {
	return m.builder.Subscribe(fn)
}

// ManualRoutingActive reports whether a manual route is in progress.
func (m *Manager) ManualRoutingActive() bool {
	return m.builder.State() == manualroute.Active
}

// CurrentRoute returns the manual route in progress.
func (m *Manager) CurrentRoute() (domain.RouteShape, bool) {
	return m.builder.Current()
}

// FindRoutes runs an automatic search without rendering anything.
func (m *Manager) FindRoutes(ctx context.Context, query domain.RouteQuery, stars []domain.StarNode) domain.SearchResult {
	return m.finder.FindRoutes(ctx, query, stars)
}

// FindAndPlot switches to automatic mode, runs the search and hands the
// ranked paths to the display. Failures are reported to the display as well.
func (m *Manager) FindAndPlot(ctx context.Context, query domain.RouteQuery, stars []domain.StarNode) domain.SearchResult {
	display := m.mustDisplay()
	m.SetMode(domain.RoutingAutomatic)

	result := m.finder.FindRoutes(ctx, query, stars)
	if !result.Success {
		display.ReportError("Route finding", errors.New(result.Message))
		return result
	}
	display.PlotRoutes(result.Paths)
	return result
}

// PlotRoutes hands already computed paths to the display.
func (m *Manager) PlotRoutes(paths []domain.RankedPath) {
	m.mustDisplay().PlotRoutes(paths)
}

// StartRoute begins a manual route at star.
func (m *Manager) StartRoute(star domain.StarNode) error {
	display := m.mustDisplay()
	m.SetMode(domain.RoutingManual)

	if err := m.builder.Start(star); err != nil {
		display.ReportError("Routing", err)
		return err
	}
	m.showCurrent(display)
	return nil
}

// ContinueRoute extends the manual route to star.
func (m *Manager) ContinueRoute(star domain.StarNode) error {
	display := m.mustDisplay()

	if err := m.builder.Continue(star); err != nil {
		display.ReportError("Routing", err)
		return err
	}
	m.showCurrent(display)
	return nil
}

// FinishRoute completes the manual route, optionally ending at last.
func (m *Manager) FinishRoute(last *domain.StarNode) (domain.RouteShape, error) {
	display := m.mustDisplay()

	shape, err := m.builder.Finish(last)
	if err != nil {
		display.ReportError("Routing", err)
		return domain.RouteShape{}, err
	}
	display.RouteCompleted(shape)
	return shape, nil
}

// UndoLastSegment removes the last hop of the manual route.
func (m *Manager) UndoLastSegment() error {
	display := m.mustDisplay()
	before, _ := m.builder.Current()

	if err := m.builder.UndoLastSegment(); err != nil {
		display.ReportError("Routing", err)
		return err
	}
	if _, ok := m.builder.Current(); !ok {
		display.RemoveRoute(before.ID)
		return nil
	}
	m.showCurrent(display)
	return nil
}

// ResetRoute abandons any manual route in progress.
func (m *Manager) ResetRoute() {
	display := m.mustDisplay()
	if current, ok := m.builder.Current(); ok {
		display.RemoveRoute(current.ID)
	}
	m.builder.Reset()
}

// ToggleRoutes shows or hides all routes.
func (m *Manager) ToggleRoutes(visible bool) {
	m.mustDisplay().ToggleRoutes(visible)
}

// ToggleRouteLengths shows or hides segment length labels.
func (m *Manager) ToggleRouteLengths(visible bool) {
	m.mustDisplay().ToggleRouteLengths(visible)
}

// ClearRoutes removes every plotted route from the display.
func (m *Manager) ClearRoutes() {
	m.mustDisplay().ClearRoutes()
}

func (m *Manager) showCurrent(display Display) {
	if current, ok := m.builder.Current(); ok {
		display.ShowRoute(current)
	}
}
