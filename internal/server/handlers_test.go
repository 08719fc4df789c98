package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vanshika/starroute/internal/catalog"
	"github.com/vanshika/starroute/internal/manualroute"
	"github.com/vanshika/starroute/internal/metrics"
	"github.com/vanshika/starroute/internal/routecache"
	"github.com/vanshika/starroute/internal/routing"
	"github.com/vanshika/starroute/internal/service"
	"github.com/vanshika/starroute/internal/transit"
)

func testRouter(t *testing.T) (http.Handler, *routing.Recorder) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	stars := catalog.NewFile([]catalog.StarRecord{
		{ID: "1", Name: "Sol", SpectralClass: "G2V", Polity: "Terran"},
		{ID: "2", Name: "Alpha", X: 4, SpectralClass: "K1V", Polity: "Terran"},
		{ID: "3", Name: "Sirius", X: 8, SpectralClass: "A1V", Polity: "Terran"},
	})

	reg := prometheus.NewRegistry()
	m, err := metrics.NewRouting(reg)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	routes := service.NewRouteFindingService(transit.BruteForce{}, logger)
	routes.WithCache(routecache.New(10, routecache.WithMetrics(m)))
	routes.WithMetrics(m)

	manager := routing.NewManager(routes, manualroute.New(), logger)
	recorder := routing.NewRecorder()
	manager.AttachDisplay(recorder)
	api := NewAPIHandlers(logger, routes, service.NewBulkFinder(routes, 2), stars, manager, QueryDefaults{
		NumberOfPaths: 3,
		Color:         "#00ffff",
		LineWidth:     0.5,
	})

	return NewRouter(logger, RouterDependencies{
		Health:  CatalogHealthService{Catalog: stars},
		API:     api,
		Metrics: reg,
	}), recorder
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthz(t *testing.T) {
	h, _ := testRouter(t)
	rec := do(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestFindRoutes(t *testing.T) {
	h, recorder := testRouter(t)

	rec := do(t, h, http.MethodPost, "/routes/find",
		`{"origin":"Sol","destination":"Sirius","lowerBound":0.5,"upperBound":5,"plot":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	payload := decode[searchResponse](t, rec)
	if !payload.Success {
		t.Fatalf("expected success, got %q", payload.Message)
	}
	if len(payload.Paths) != 1 {
		t.Fatalf("expected 1 path, got %d", len(payload.Paths))
	}
	if got := payload.Paths[0].Description; got != "Sol -> Alpha -> Sirius" {
		t.Fatalf("unexpected path %q", got)
	}
	if payload.Paths[0].Shape.Color != "#00ffff" {
		t.Fatalf("expected default colour, got %q", payload.Paths[0].Shape.Color)
	}
	if len(recorder.Snapshot().Plotted) != 1 {
		t.Fatalf("expected plotted routes on the display")
	}
}

func TestFindRoutesFailureIsReportedInBody(t *testing.T) {
	h, _ := testRouter(t)

	rec := do(t, h, http.MethodPost, "/routes/find",
		`{"origin":"Sol","destination":"Sirius","lowerBound":0.5,"upperBound":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	payload := decode[searchResponse](t, rec)
	if payload.Success {
		t.Fatalf("expected failure")
	}
	if payload.Message != "no transits within bounds [0.50, 1.00]" {
		t.Fatalf("unexpected message %q", payload.Message)
	}
}

func TestFindRoutesRejectsUnknownFields(t *testing.T) {
	h, _ := testRouter(t)
	rec := do(t, h, http.MethodPost, "/routes/find", `{"origin":"Sol","bogus":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestBatchAndCacheEndpoints(t *testing.T) {
	h, _ := testRouter(t)

	body := `{"queries":[
		{"origin":"Sol","destination":"Sirius","lowerBound":0.5,"upperBound":5},
		{"origin":"Sol","destination":"Sirius","lowerBound":0.5,"upperBound":5},
		{"origin":"Sol","destination":"Nowhere","lowerBound":0.5,"upperBound":5}
	]}`
	rec := do(t, h, http.MethodPost, "/routes/batch", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	batch := decode[batchResponse](t, rec)
	if len(batch.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(batch.Results))
	}
	if !batch.Results[0].Success || !batch.Results[1].Success || batch.Results[2].Success {
		t.Fatalf("unexpected outcomes: %+v", batch.Results)
	}

	stats := decode[cacheResponse](t, do(t, h, http.MethodGet, "/routes/cache", ""))
	if !stats.Enabled || stats.Size != 1 {
		t.Fatalf("expected one cached entry, got %+v", stats)
	}
	if stats.Hits+stats.Misses == 0 {
		t.Fatalf("expected cache lookups to be counted")
	}

	stats = decode[cacheResponse](t, do(t, h, http.MethodPost, "/routes/cache/reset-stats", ""))
	if stats.Hits != 0 || stats.Misses != 0 || stats.Size != 1 {
		t.Fatalf("unexpected stats after reset: %+v", stats)
	}

	stats = decode[cacheResponse](t, do(t, h, http.MethodDelete, "/routes/cache", ""))
	if stats.Size != 0 {
		t.Fatalf("expected empty cache, got %+v", stats)
	}
}

func TestBatchRequiresQueries(t *testing.T) {
	h, _ := testRouter(t)
	rec := do(t, h, http.MethodPost, "/routes/batch", `{"queries":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRoutingMode(t *testing.T) {
	h, _ := testRouter(t)

	mode := decode[modePayload](t, do(t, h, http.MethodGet, "/routing/mode", ""))
	if mode.Mode != "none" {
		t.Fatalf("expected none, got %q", mode.Mode)
	}

	rec := do(t, h, http.MethodPut, "/routing/mode", `{"mode":"Manual"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := decode[modePayload](t, rec).Mode; got != "manual" {
		t.Fatalf("expected manual, got %q", got)
	}

	rec = do(t, h, http.MethodPut, "/routing/mode", `{"mode":"warp"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestManualRouteLifecycle(t *testing.T) {
	h, recorder := testRouter(t)

	rec := do(t, h, http.MethodPost, "/routing/manual/continue", `{"star":"Alpha"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/routing/manual/start", `{"star":"Sol"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	state := decode[manualResponse](t, rec)
	if !state.Active || state.Mode != "manual" || state.Route == nil {
		t.Fatalf("unexpected state after start: %+v", state)
	}

	rec = do(t, h, http.MethodPost, "/routing/manual/start", `{"star":"Alpha"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409 for second start, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/routing/manual/continue", `{"star":"Vega"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}

	do(t, h, http.MethodPost, "/routing/manual/continue", `{"star":"Alpha"}`)
	rec = do(t, h, http.MethodPost, "/routing/manual/finish", `{"star":"Sirius"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	state = decode[manualResponse](t, rec)
	if state.Active || state.Completed == nil {
		t.Fatalf("unexpected state after finish: %+v", state)
	}
	if got := strings.Join(state.Completed.StarNames, ","); got != "Sol,Alpha,Sirius" {
		t.Fatalf("unexpected completed route %q", got)
	}
	if state.Completed.TotalLength != 8 {
		t.Fatalf("expected length 8, got %v", state.Completed.TotalLength)
	}

	display := decode[displayResponse](t, do(t, h, http.MethodGet, "/routing/display", ""))
	if len(display.Completed) != 1 {
		t.Fatalf("expected completed route on display, got %d", len(display.Completed))
	}
	if len(recorder.Snapshot().Errors) != 2 {
		t.Fatalf("expected the two usage errors on the display, got %v", recorder.Snapshot().Errors)
	}
}

func TestManualUndoAndResetWithoutBody(t *testing.T) {
	h, _ := testRouter(t)

	do(t, h, http.MethodPost, "/routing/manual/start", `{"star":"Sol"}`)
	do(t, h, http.MethodPost, "/routing/manual/continue", `{"star":"Alpha"}`)
	do(t, h, http.MethodPost, "/routing/manual/continue", `{"star":"Sirius"}`)

	rec := do(t, h, http.MethodPost, "/routing/manual/undo", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	state := decode[manualResponse](t, rec)
	if state.Route == nil || len(state.Route.StarNames) != 2 {
		t.Fatalf("expected two stars after undo, got %+v", state.Route)
	}

	rec = do(t, h, http.MethodPost, "/routing/manual/reset", "")
	state = decode[manualResponse](t, rec)
	if state.Active || state.Route != nil {
		t.Fatalf("expected no route after reset, got %+v", state)
	}

	rec = do(t, h, http.MethodPost, "/routing/manual/teleport", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown action, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := testRouter(t)
	do(t, h, http.MethodPost, "/routes/find",
		`{"origin":"Sol","destination":"Sirius","lowerBound":0.5,"upperBound":5}`)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("starroute_")) {
		t.Fatalf("expected starroute metrics in exposition")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h, _ := testRouter(t)
	rec := do(t, h, http.MethodGet, "/routes/find", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := corsMiddleware([]string{"http://localhost:3000"}, true)(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodOptions, "/routes/find", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatalf("expected credentials header")
	}

	req = httptest.NewRequest(http.MethodOptions, "/routes/find", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

type blindDisplay struct{ routing.Display }

func TestDisplaySnapshotReadsAttachedDisplay(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	stars := catalog.NewFile([]catalog.StarRecord{{ID: "1", Name: "Sol"}})
	routes := service.NewRouteFindingService(transit.BruteForce{}, logger)

	manager := routing.NewManager(routes, manualroute.New(), logger)
	attached := routing.NewRecorder()
	attached.ToggleRoutes(false)
	manager.AttachDisplay(attached)

	api := NewAPIHandlers(logger, routes, service.NewBulkFinder(routes, 1), stars, manager, QueryDefaults{})
	h := NewRouter(logger, RouterDependencies{API: api})

	display := decode[displayResponse](t, do(t, h, http.MethodGet, "/routing/display", ""))
	if display.RoutesVisible {
		t.Fatalf("expected the snapshot of the display attached to the manager")
	}

	manager.AttachDisplay(blindDisplay{Display: attached})
	rec := do(t, h, http.MethodGet, "/routing/display", "")
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("expected status 501, got %d", rec.Code)
	}
}

func TestNewAPIHandlersAttachesRecorderWhenMissing(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	routes := service.NewRouteFindingService(transit.BruteForce{}, logger)
	manager := routing.NewManager(routes, manualroute.New(), logger)

	NewAPIHandlers(logger, routes, service.NewBulkFinder(routes, 1), catalog.NewFile(nil), manager, QueryDefaults{})

	if _, ok := manager.Display().(*routing.Recorder); !ok {
		t.Fatalf("expected a recorder to be attached, got %T", manager.Display())
	}
}
