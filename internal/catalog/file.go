package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/vanshika/starroute/internal/domain"
)

// StarRecord is the JSON form of a star in a catalog file.
type StarRecord struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Z             float64 `json:"z"`
	SpectralClass string  `json:"spectralClass,omitempty"`
	Polity        string  `json:"polity,omitempty"`
	Dataset       string  `json:"dataset,omitempty"`
}

// ToStar converts the record to a domain star.
func (r StarRecord) ToStar() domain.StarNode {
	return domain.StarNode{
		ID:            r.ID,
		Name:          r.Name,
		Position:      domain.Point3D{X: r.X, Y: r.Y, Z: r.Z},
		SpectralClass: r.SpectralClass,
		Polity:        r.Polity,
	}
}

// FromStar converts a domain star to its JSON form.
func FromStar(star domain.StarNode, dataset string) StarRecord {
	return StarRecord{
		ID:            star.ID,
		Name:          star.Name,
		X:             star.Position.X,
		Y:             star.Position.Y,
		Z:             star.Position.Z,
		SpectralClass: star.SpectralClass,
		Polity:        star.Polity,
		Dataset:       dataset,
	}
}

// File is an immutable catalog loaded from a JSON array of StarRecord.
type File struct {
	records []StarRecord
}

// LoadFile reads the catalog at path.
func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read star file %s: %w", path, err)
	}
	var records []StarRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode star file %s: %w", path, err)
	}
	return NewFile(records), nil
}

// NewFile wraps records that are already in memory.
func NewFile(records []StarRecord) *File {
	return &File{records: append([]StarRecord(nil), records...)}
}

// ListStars returns the stars of dataset, or all stars when dataset is empty.
func (f *File) ListStars(_ context.Context, dataset string) ([]domain.StarNode, error) {
	dataset = strings.TrimSpace(dataset)
	stars := make([]domain.StarNode, 0, len(f.records))
	for _, r := range f.records {
		if dataset != "" && r.Dataset != dataset {
			continue
		}
		stars = append(stars, r.ToStar())
	}
	return stars, nil
}

// FindStar returns the named star.
func (f *File) FindStar(ctx context.Context, dataset, name string) (domain.StarNode, error) {
	stars, err := f.ListStars(ctx, dataset)
	if err != nil {
		return domain.StarNode{}, err
	}
	if star, ok := domain.FindStar(stars, name); ok {
		return star, nil
	}
	return domain.StarNode{}, notFound(dataset, name)
}

// Probe always succeeds for file catalogs.
func (f *File) Probe(context.Context) error {
	return nil
}
