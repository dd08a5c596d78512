package store

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Preload fetches the public catalogues concurrently. Each fetch settles in
// its own container whatever happens to the others; the first failure is
// returned.
func (s *Store) Preload(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { _, err := s.FetchClinics(ctx); return err })
	g.Go(func() error { _, err := s.FetchDoctors(ctx); return err })
	g.Go(func() error { _, err := s.FetchProducts(ctx); return err })
	g.Go(func() error { _, err := s.FetchBlogs(ctx); return err })
	g.Go(func() error { _, err := s.FetchLabTests(ctx); return err })
	return g.Wait()
}
