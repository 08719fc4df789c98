package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/vanshika/starroute/internal/domain"
	"github.com/vanshika/starroute/internal/graphdb"
)

const (
	listStarsCypher = `
MATCH (s:Star)
WHERE $dataset = '' OR s.dataset = $dataset
RETURN s.id AS id, s.name AS name, s.x AS x, s.y AS y, s.z AS z,
       s.spectralClass AS spectralClass, s.polity AS polity
ORDER BY s.name
`
	findStarCypher = `
MATCH (s:Star {name: $name})
WHERE $dataset = '' OR s.dataset = $dataset
RETURN s.id AS id, s.name AS name, s.x AS x, s.y AS y, s.z AS z,
       s.spectralClass AS spectralClass, s.polity AS polity
LIMIT 1
`
)

// Neo4j reads stars stored as (:Star) nodes. It never writes.
type Neo4j struct {
	client graphdb.Client
}

// NewNeo4j creates a catalog backed by client.
func NewNeo4j(client graphdb.Client) *Neo4j {
	return &Neo4j{client: client}
}

// ListStars returns every star in dataset, or every star when dataset is empty.
func (c *Neo4j) ListStars(ctx context.Context, dataset string) ([]domain.StarNode, error) {
	res, err := c.client.ExecuteRead(ctx, listStarsCypher, map[string]any{
		"dataset": strings.TrimSpace(dataset),
	})
	if err != nil {
		return nil, fmt.Errorf("list stars: %w", err)
	}

	stars := make([]domain.StarNode, 0, len(res.Records))
	for _, rec := range res.Records {
		stars = append(stars, starFromRecord(rec))
	}
	return stars, nil
}

// FindStar returns the named star.
func (c *Neo4j) FindStar(ctx context.Context, dataset, name string) (domain.StarNode, error) {
	res, err := c.client.ExecuteRead(ctx, findStarCypher, map[string]any{
		"dataset": strings.TrimSpace(dataset),
		"name":    strings.TrimSpace(name),
	})
	if err != nil {
		return domain.StarNode{}, fmt.Errorf("find star %q: %w", name, err)
	}
	if len(res.Records) == 0 {
		return domain.StarNode{}, notFound(dataset, name)
	}
	return starFromRecord(res.Records[0]), nil
}

// Probe checks database connectivity for health checks.
func (c *Neo4j) Probe(ctx context.Context) error {
	return c.client.VerifyConnectivity(ctx)
}

func starFromRecord(rec graphdb.Record) domain.StarNode {
	return domain.StarNode{
		ID:   rec.String("id"),
		Name: rec.String("name"),
		Position: domain.Point3D{
			X: rec.Float("x"),
			Y: rec.Float("y"),
			Z: rec.Float("z"),
		},
		SpectralClass: rec.String("spectralClass"),
		Polity:        rec.String("polity"),
	}
}
