package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vanshika/starroute/internal/domain"
	"github.com/vanshika/starroute/internal/routing"
)

type findRequest struct {
	Origin             string   `json:"origin"`
	Destination        string   `json:"destination"`
	LowerBound         float64  `json:"lowerBound"`
	UpperBound         float64  `json:"upperBound"`
	NumberOfPaths      int      `json:"numberOfPaths"`
	SpectralExclusions []string `json:"spectralExclusions"`
	PolityExclusions   []string `json:"polityExclusions"`
	Color              string   `json:"color"`
	LineWidth          float64  `json:"lineWidth"`
	Dataset            string   `json:"dataset"`
	Plot               bool     `json:"plot"`
}

func (req findRequest) toQuery(defaults QueryDefaults) domain.RouteQuery {
	query := domain.RouteQuery{
		Origin:             req.Origin,
		Destination:        req.Destination,
		LowerBound:         req.LowerBound,
		UpperBound:         req.UpperBound,
		NumberOfPaths:      req.NumberOfPaths,
		SpectralExclusions: req.SpectralExclusions,
		PolityExclusions:   req.PolityExclusions,
		Color:              req.Color,
		LineWidth:          req.LineWidth,
	}
	if query.NumberOfPaths == 0 {
		query.NumberOfPaths = defaults.NumberOfPaths
	}
	if query.Color == "" {
		query.Color = defaults.Color
	}
	if query.LineWidth == 0 {
		query.LineWidth = defaults.LineWidth
	}
	return query
}

type batchRequest struct {
	Dataset string        `json:"dataset"`
	Queries []findRequest `json:"queries"`
}

type searchResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Paths   []pathResponse `json:"paths"`
}

type pathResponse struct {
	Rank        int           `json:"rank"`
	Path        []string      `json:"path"`
	Description string        `json:"description"`
	TotalLength float64       `json:"totalLength"`
	Segments    int           `json:"segments"`
	Shape       shapeResponse `json:"shape"`
}

type batchResponse struct {
	Results []searchResponse `json:"results"`
}

type shapeResponse struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Notes          string       `json:"notes,omitempty"`
	Color          string       `json:"color"`
	LineWidth      float64      `json:"lineWidth"`
	Visibility     string       `json:"visibility"`
	StarIDs        []string     `json:"starIds"`
	StarNames      []string     `json:"starNames"`
	Coordinates    [][3]float64 `json:"coordinates"`
	SegmentLengths []float64    `json:"segmentLengths"`
	TotalLength    float64      `json:"totalLength"`
	Frozen         bool         `json:"frozen"`
}

type cacheResponse struct {
	Enabled  bool    `json:"enabled"`
	Size     int     `json:"size"`
	Capacity int     `json:"capacity"`
	Hits     uint64  `json:"hits"`
	Misses   uint64  `json:"misses"`
	HitRate  float64 `json:"hitRate"`
	Summary  string  `json:"summary"`
}

type modePayload struct {
	Mode string `json:"mode"`
}

type manualRequest struct {
	Star    string `json:"star"`
	Dataset string `json:"dataset"`
}

type manualResponse struct {
	Mode      string         `json:"mode"`
	Active    bool           `json:"active"`
	Route     *shapeResponse `json:"route,omitempty"`
	Completed *shapeResponse `json:"completed,omitempty"`
}

type displayResponse struct {
	Plotted        []pathResponse  `json:"plotted"`
	InProgress     *shapeResponse  `json:"inProgress,omitempty"`
	Completed      []shapeResponse `json:"completed"`
	RoutesVisible  bool            `json:"routesVisible"`
	LengthsVisible bool            `json:"lengthsVisible"`
	Errors         []string        `json:"errors"`
}

func toSearchResponse(result domain.SearchResult) searchResponse {
	response := searchResponse{
		Success: result.Success,
		Message: result.Message,
		Paths:   toPathResponses(result.Paths),
	}
	return response
}

func toPathResponses(paths []domain.RankedPath) []pathResponse {
	out := make([]pathResponse, 0, len(paths))
	for _, p := range paths {
		out = append(out, pathResponse{
			Rank:        p.Rank,
			Path:        p.Path,
			Description: p.Description(),
			TotalLength: p.TotalLength,
			Segments:    p.Segments,
			Shape:       toShapeResponse(p.Shape),
		})
	}
	return out
}

func toShapeResponse(shape domain.RouteShape) shapeResponse {
	coords := make([][3]float64, 0, len(shape.Coordinates))
	for _, c := range shape.Coordinates {
		coords = append(coords, [3]float64{c.X, c.Y, c.Z})
	}
	return shapeResponse{
		ID:             shape.ID.String(),
		Name:           shape.Name,
		Notes:          shape.Notes,
		Color:          shape.Color,
		LineWidth:      shape.LineWidth,
		Visibility:     string(shape.Visibility),
		StarIDs:        nonNil(shape.StarIDs),
		StarNames:      nonNil(shape.StarNames),
		Coordinates:    coords,
		SegmentLengths: nonNil(shape.SegmentLengths),
		TotalLength:    shape.TotalLength(),
		Frozen:         shape.Frozen,
	}
}

func toDisplayResponse(snap routing.Snapshot) displayResponse {
	response := displayResponse{
		Plotted:        toPathResponses(snap.Plotted),
		Completed:      make([]shapeResponse, 0, len(snap.Completed)),
		RoutesVisible:  snap.RoutesVisible,
		LengthsVisible: snap.LengthsVisible,
		Errors:         nonNil(snap.Errors),
	}
	if snap.InProgress != nil {
		shape := toShapeResponse(*snap.InProgress)
		response.InProgress = &shape
	}
	for _, c := range snap.Completed {
		response.Completed = append(response.Completed, toShapeResponse(c))
	}
	return response
}

func nonNil[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}
