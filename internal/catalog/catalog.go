// Package catalog supplies star lists to route searches from a graph
// database or a JSON file.
package catalog

import (
	"errors"
	"fmt"
)

// ErrStarNotFound is returned when a named star is not in the dataset.
var ErrStarNotFound = errors.New("star not found")

func notFound(dataset, name string) error {
	return fmt.Errorf("%w: %q in dataset %q", ErrStarNotFound, name, dataset)
}
