package routing

import (
	"sync"

	"github.com/google/uuid"

	"github.com/vanshika/starroute/internal/domain"
)

// Display renders routes on behalf of the Manager. Implementations must be
// safe for use from the goroutine that drives the Manager.
type Display interface {
	PlotRoutes(paths []domain.RankedPath)
	ShowRoute(shape domain.RouteShape)
	RouteCompleted(shape domain.RouteShape)
	RemoveRoute(id uuid.UUID)
	ClearRoutes()
	ToggleRoutes(visible bool)
	ToggleRouteLengths(visible bool)
	ReportError(title string, err error)
}

// Snapshot is the recorded state of a Recorder.
type Snapshot struct {
	Plotted        []domain.RankedPath
	InProgress     *domain.RouteShape
	Completed      []domain.RouteShape
	RoutesVisible  bool
	LengthsVisible bool
	Errors         []string
}

// Recorder is a Display that keeps what it was asked to render in memory.
type Recorder struct {
	mu    sync.Mutex
	state Snapshot
}

// NewRecorder returns a Recorder with routes and lengths visible.
func NewRecorder() *Recorder {
	return &Recorder{state: Snapshot{RoutesVisible: true, LengthsVisible: true}}
}

func (r *Recorder) PlotRoutes(paths []domain.RankedPath) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Plotted = append([]domain.RankedPath(nil), paths...)
}

func (r *Recorder) ShowRoute(shape domain.RouteShape) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.InProgress = &shape
}

func (r *Recorder) RouteCompleted(shape domain.RouteShape) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.InProgress = nil
	r.state.Completed = append(r.state.Completed, shape)
}

func (r *Recorder) RemoveRoute(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.InProgress != nil && r.state.InProgress.ID == id {
		r.state.InProgress = nil
	}
	kept := r.state.Completed[:0]
	for _, c := range r.state.Completed {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	r.state.Completed = kept
}

func (r *Recorder) ClearRoutes() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Plotted = nil
	r.state.InProgress = nil
	r.state.Completed = nil
}

func (r *Recorder) ToggleRoutes(visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.RoutesVisible = visible
}

func (r *Recorder) ToggleRouteLengths(visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.LengthsVisible = visible
}

func (r *Recorder) ReportError(title string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Errors = append(r.state.Errors, title+": "+err.Error())
}

// Snapshot returns a copy of everything recorded so far.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.state
	out.Plotted = append([]domain.RankedPath(nil), r.state.Plotted...)
	out.Completed = append([]domain.RouteShape(nil), r.state.Completed...)
	out.Errors = append([]string(nil), r.state.Errors...)
	if r.state.InProgress != nil {
		shape := r.state.InProgress.Clone()
		out.InProgress = &shape
	}
	return out
}
