package service

import (
	"context"
	"sync"

	"github.com/vanshika/starroute/internal/domain"
)

// RouteFinder is the single-query search contract used by BulkFinder.
type RouteFinder interface {
	FindRoutes(ctx context.Context, query domain.RouteQuery, stars []domain.StarNode) domain.SearchResult
}

// BulkFinder runs many route queries over the same star set using a worker
// pool. Each query is still an ordinary single-threaded FindRoutes call.
type BulkFinder struct {
	finder  RouteFinder
	workers int
}

// NewBulkFinder creates a BulkFinder with the provided concurrency.
func NewBulkFinder(finder RouteFinder, workers int) *BulkFinder {
	if workers <= 0 {
		workers = 4
	}
	return &BulkFinder{
		finder:  finder,
		workers: workers,
	}
}

// FindAll returns one result per query, in query order. It stops handing out
// work when ctx is done and returns the context error.
func (bf *BulkFinder) FindAll(ctx context.Context, queries []domain.RouteQuery, stars []domain.StarNode) ([]domain.SearchResult, error) {
	results := make([]domain.SearchResult, len(queries))
	err := bf.run(ctx, len(queries), func(idx int) {
		results[idx] = bf.finder.FindRoutes(ctx, queries[idx], stars)
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (bf *BulkFinder) run(ctx context.Context, total int, workerFn func(idx int)) error {
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			workerFn(idx)
		}
	}

	workers := bf.workers
	if workers > total {
		workers = total
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()

	return ctx.Err()
}
