package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/vanshika/starroute/internal/catalog"
	"github.com/vanshika/starroute/internal/domain"
	"github.com/vanshika/starroute/internal/manualroute"
	"github.com/vanshika/starroute/internal/routing"
	"github.com/vanshika/starroute/internal/service"
)

// QueryDefaults fills fields a request leaves empty.
type QueryDefaults struct {
	Dataset       string
	NumberOfPaths int
	Color         string
	LineWidth     float64
}

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger   *slog.Logger
	routes   *service.RouteFindingService
	bulk     *service.BulkFinder
	stars    service.StarSource
	manager  *routing.Manager
	defaults QueryDefaults
}

// snapshotter is implemented by displays that can report what they show,
// such as routing.Recorder.
type snapshotter interface {
	Snapshot() routing.Snapshot
}

// NewAPIHandlers constructs an APIHandlers instance. A routing.Recorder is
// attached to the manager when it has no display yet. /routing/display always
// reads the display attached to the manager.
func NewAPIHandlers(
	logger *slog.Logger,
	routes *service.RouteFindingService,
	bulk *service.BulkFinder,
	stars service.StarSource,
	manager *routing.Manager,
	defaults QueryDefaults,
) *APIHandlers {
	if !manager.DisplayAttached() {
		manager.AttachDisplay(routing.NewRecorder())
	}
	if defaults.NumberOfPaths <= 0 {
		defaults.NumberOfPaths = 3
	}
	return &APIHandlers{
		logger:   logger,
		routes:   routes,
		bulk:     bulk,
		stars:    stars,
		manager:  manager,
		defaults: defaults,
	}
}

func (h *APIHandlers) register(r *mux.Router) {
	r.HandleFunc("/routes/find", h.findRoutes).Methods(http.MethodPost)
	r.HandleFunc("/routes/batch", h.findBatch).Methods(http.MethodPost)
	r.HandleFunc("/routes/cache", h.cacheStatistics).Methods(http.MethodGet)
	r.HandleFunc("/routes/cache", h.clearCache).Methods(http.MethodDelete)
	r.HandleFunc("/routes/cache/reset-stats", h.resetCacheStatistics).Methods(http.MethodPost)

	r.HandleFunc("/routing/mode", h.getMode).Methods(http.MethodGet)
	r.HandleFunc("/routing/mode", h.setMode).Methods(http.MethodPut)
	r.HandleFunc("/routing/manual", h.currentRoute).Methods(http.MethodGet)
	r.HandleFunc("/routing/manual/{action:start|continue|finish|undo|reset}", h.manualAction).Methods(http.MethodPost)
	r.HandleFunc("/routing/display", h.displaySnapshot).Methods(http.MethodGet)
}

func (h *APIHandlers) findRoutes(w http.ResponseWriter, r *http.Request) {
	var req findRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stars, ok := h.loadStars(r.Context(), w, req.Dataset)
	if !ok {
		return
	}

	query := req.toQuery(h.defaults)
	var result domain.SearchResult
	if req.Plot {
		result = h.manager.FindAndPlot(r.Context(), query, stars)
	} else {
		result = h.manager.FindRoutes(r.Context(), query, stars)
	}
	respondJSON(w, http.StatusOK, toSearchResponse(result))
}

func (h *APIHandlers) findBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Queries) == 0 {
		writeError(w, http.StatusBadRequest, "queries are required")
		return
	}

	stars, ok := h.loadStars(r.Context(), w, req.Dataset)
	if !ok {
		return
	}

	queries := make([]domain.RouteQuery, len(req.Queries))
	for i, q := range req.Queries {
		queries[i] = q.toQuery(h.defaults)
	}

	results, err := h.bulk.FindAll(r.Context(), queries, stars)
	if err != nil {
		h.logger.Error("batch route search aborted", "error", err, "queries", len(queries))
		writeError(w, http.StatusServiceUnavailable, "batch route search aborted")
		return
	}

	response := batchResponse{Results: make([]searchResponse, 0, len(results))}
	for _, res := range results {
		response.Results = append(response.Results, toSearchResponse(res))
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *APIHandlers) cacheStatistics(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.cacheResponse())
}

func (h *APIHandlers) clearCache(w http.ResponseWriter, _ *http.Request) {
	h.routes.ClearCache()
	respondJSON(w, http.StatusOK, h.cacheResponse())
}

func (h *APIHandlers) resetCacheStatistics(w http.ResponseWriter, _ *http.Request) {
	h.routes.ResetCacheStatistics()
	respondJSON(w, http.StatusOK, h.cacheResponse())
}

func (h *APIHandlers) cacheResponse() cacheResponse {
	stats := h.routes.CacheStatistics()
	return cacheResponse{
		Enabled:  h.routes.CacheEnabled(),
		Size:     stats.Size,
		Capacity: stats.Capacity,
		Hits:     stats.Hits,
		Misses:   stats.Misses,
		HitRate:  stats.HitRate(),
		Summary:  stats.String(),
	}
}

func (h *APIHandlers) getMode(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, modePayload{Mode: h.manager.Mode().String()})
}

func (h *APIHandlers) setMode(w http.ResponseWriter, r *http.Request) {
	var req modePayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	mode, err := domain.ParseRoutingMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.manager.SetMode(mode)
	respondJSON(w, http.StatusOK, modePayload{Mode: mode.String()})
}

func (h *APIHandlers) currentRoute(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.manualResponse())
}

func (h *APIHandlers) manualAction(w http.ResponseWriter, r *http.Request) {
	action := mux.Vars(r)["action"]

	var req manualRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var star *domain.StarNode
	if name := strings.TrimSpace(req.Star); name != "" {
		found, err := h.lookupStar(r.Context(), req.Dataset, name)
		if err != nil {
			h.writeLookupError(w, err, name)
			return
		}
		star = &found
	}

	var err error
	var completed *domain.RouteShape
	switch action {
	case "start", "continue":
		if star == nil {
			writeError(w, http.StatusBadRequest, "star is required")
			return
		}
		if action == "start" {
			err = h.manager.StartRoute(*star)
		} else {
			err = h.manager.ContinueRoute(*star)
		}
	case "finish":
		var shape domain.RouteShape
		shape, err = h.manager.FinishRoute(star)
		if err == nil {
			completed = &shape
		}
	case "undo":
		err = h.manager.UndoLastSegment()
	case "reset":
		h.manager.ResetRoute()
	}
	if err != nil {
		writeError(w, manualErrorStatus(err), err.Error())
		return
	}

	response := h.manualResponse()
	if completed != nil {
		shape := toShapeResponse(*completed)
		response.Completed = &shape
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *APIHandlers) manualResponse() manualResponse {
	response := manualResponse{
		Mode:   h.manager.Mode().String(),
		Active: h.manager.ManualRoutingActive(),
	}
	if current, ok := h.manager.CurrentRoute(); ok {
		shape := toShapeResponse(current)
		response.Route = &shape
	}
	return response
}

func (h *APIHandlers) displaySnapshot(w http.ResponseWriter, _ *http.Request) {
	display, ok := h.manager.Display().(snapshotter)
	if !ok {
		writeError(w, http.StatusNotImplemented, "attached display does not support snapshots")
		return
	}
	respondJSON(w, http.StatusOK, toDisplayResponse(display.Snapshot()))
}

func (h *APIHandlers) loadStars(ctx context.Context, w http.ResponseWriter, dataset string) ([]domain.StarNode, bool) {
	if dataset == "" {
		dataset = h.defaults.Dataset
	}
	stars, err := h.stars.ListStars(ctx, dataset)
	if err != nil {
		h.logger.Error("failed to load stars", "error", err, "dataset", dataset)
		writeError(w, http.StatusBadGateway, "failed to load stars")
		return nil, false
	}
	return stars, true
}

func (h *APIHandlers) lookupStar(ctx context.Context, dataset, name string) (domain.StarNode, error) {
	if dataset == "" {
		dataset = h.defaults.Dataset
	}
	return h.stars.FindStar(ctx, dataset, name)
}

func (h *APIHandlers) writeLookupError(w http.ResponseWriter, err error, name string) {
	if errors.Is(err, catalog.ErrStarNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.logger.Error("failed to look up star", "error", err, "star", name)
	writeError(w, http.StatusBadGateway, "failed to look up star")
}

func manualErrorStatus(err error) int {
	switch {
	case errors.Is(err, manualroute.ErrNoActiveRoute), errors.Is(err, manualroute.ErrRouteInProgress):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
