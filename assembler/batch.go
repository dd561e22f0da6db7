package assembler

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/teranos/pyrust/ast"
	"github.com/teranos/pyrust/codegen"
	"github.com/teranos/pyrust/errors"
)

// TranslateAll translates modules concurrently with at most workers in
// flight (GOMAXPROCS when workers < 1). Results are in input order. The
// first failure cancels the remaining work and is returned wrapped with the
// module's path.
func TranslateAll(ctx context.Context, modules []*ast.Module, opts codegen.Options, workers int) ([]*Result, error) {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]*Result, len(modules))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, m := range modules {
		i, m := i, m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if m == nil {
				return errors.NewInvalidInputError("module %d is nil", i)
			}
			res, err := Translate(m, opts.ForFile(m.Path))
			if err != nil {
				return errors.Wrapf(err, "translating %s", m.Path)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
