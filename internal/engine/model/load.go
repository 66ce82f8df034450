package model

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// LoadAll loads several files concurrently. It fails as soon as any file
// fails; the result order matches paths.
func LoadAll(ctx context.Context, paths ...string) ([]*Model, error) {
	models := make([]*Model, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := Load(p)
			if err != nil {
				return err
			}
			models[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return models, nil
}
