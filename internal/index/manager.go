package index

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-sod/kdset/internal/logging"
	"github.com/go-sod/kdset/internal/metrics"
	"github.com/go-sod/kdset/pkg/container/kdtree"
	"github.com/go-sod/kdset/pkg/geom"
)

var ErrOutOfDomain = fmt.Errorf("point is outside the index domain")

// Contract for returning the Manager instance
type ProvideFn func() (Manager, error)

// Inserter accepts new points.
type Inserter interface {
	Insert(ctx context.Context, points ...geom.Point) (int, error)
}

// Querier answers read-only queries. Queries may run concurrently.
type Querier interface {
	Len() int
	Contains(ctx context.Context, p geom.Point) bool
	Range(ctx context.Context, r geom.Rect) ([]geom.Point, error)
	// Nearest reports found=false when the index is empty.
	Nearest(ctx context.Context, p geom.Point) (nearest geom.Point, found bool, err error)
}

// Manager owns a single kd-tree shared by writers and readers.
type Manager interface {
	Inserter
	Querier
	Domain() geom.Rect
}

type Options struct {
	domain geom.Rect
	seed   []geom.Point
}

type Option func(*manager)

func WithDomain(r geom.Rect) Option {
	return func(m *manager) {
		m.opts.domain = r
	}
}

// WithSeed bulk-loads points when the manager is created.
func WithSeed(points []geom.Point) Option {
	return func(m *manager) {
		m.opts.seed = points
	}
}

// New return manager
func New(ctx context.Context, opts ...Option) (*manager, error) {
	m := &manager{opts: Options{domain: geom.UnitSquare}}
	for _, f := range opts {
		f(m)
	}

	tree, err := kdtree.NewWithDomain(m.opts.domain)
	if err != nil {
		return nil, fmt.Errorf("unable create index: %w", err)
	}
	for _, p := range m.opts.seed {
		if p.IsValid() && !m.opts.domain.Contains(p) {
			return nil, fmt.Errorf("seed point %v: %w", p, ErrOutOfDomain)
		}
	}
	if err := tree.Build(m.opts.seed...); err != nil {
		return nil, fmt.Errorf("unable load seed points: %w", err)
	}
	m.tree = tree

	logging.FromContext(ctx).Infof("index created over %v with %d points, height %d",
		m.opts.domain, tree.Len(), tree.Height())
	metrics.RecordSize(ctx, tree.Len())
	return m, nil
}

// manager serializes insertions against queries: one writer or many readers.
type manager struct {
	opts Options
	mtx  sync.RWMutex
	tree *kdtree.Tree
}

func (m *manager) Domain() geom.Rect {
	return m.tree.Domain()
}

func (m *manager) Len() int {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return m.tree.Len()
}

// Insert adds the points in order and returns how many were new. Points are
// checked before the lock is taken, so an invalid batch inserts nothing.
func (m *manager) Insert(ctx context.Context, points ...geom.Point) (int, error) {
	start := time.Now()
	for _, p := range points {
		if !p.IsValid() {
			err := fmt.Errorf("insert %v: %w", p, kdtree.ErrInvalidPoint)
			metrics.RecordOp(ctx, metrics.OpInsert, start, 0, err)
			return 0, err
		}
		if !m.opts.domain.Contains(p) {
			err := fmt.Errorf("insert %v: %w", p, ErrOutOfDomain)
			metrics.RecordOp(ctx, metrics.OpInsert, start, 0, err)
			return 0, err
		}
	}

	m.mtx.Lock()
	before := m.tree.Len()
	for _, p := range points {
		if err := m.tree.Insert(p); err != nil {
			after := m.tree.Len()
			m.mtx.Unlock()
			metrics.RecordOp(ctx, metrics.OpInsert, start, after-before, err)
			return after - before, err
		}
	}
	size := m.tree.Len()
	m.mtx.Unlock()

	added := size - before
	metrics.RecordOp(ctx, metrics.OpInsert, start, added, nil)
	metrics.RecordSize(ctx, size)
	logging.FromContext(ctx).Debugf("inserted %d of %d points, index size %d", added, len(points), size)
	return added, nil
}

func (m *manager) Contains(ctx context.Context, p geom.Point) bool {
	start := time.Now()
	m.mtx.RLock()
	ok := m.tree.Contains(p)
	m.mtx.RUnlock()

	n := 0
	if ok {
		n = 1
	}
	metrics.RecordOp(ctx, metrics.OpContains, start, n, nil)
	return ok
}

func (m *manager) Range(ctx context.Context, r geom.Rect) ([]geom.Point, error) {
	start := time.Now()
	m.mtx.RLock()
	points, err := m.tree.Range(r)
	m.mtx.RUnlock()

	metrics.RecordOp(ctx, metrics.OpRange, start, len(points), err)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debugf("range %v matched %d points", r, len(points))
	return points, nil
}

func (m *manager) Nearest(ctx context.Context, p geom.Point) (geom.Point, bool, error) {
	start := time.Now()
	m.mtx.RLock()
	nearest, err := m.tree.Nearest(p)
	m.mtx.RUnlock()

	switch {
	case errors.Is(err, kdtree.ErrEmptyTree):
		metrics.RecordOp(ctx, metrics.OpNearest, start, 0, nil)
		return geom.Point{}, false, nil
	case err != nil:
		metrics.RecordOp(ctx, metrics.OpNearest, start, 0, err)
		return geom.Point{}, false, err
	}
	metrics.RecordOp(ctx, metrics.OpNearest, start, 1, nil)
	return nearest, true, nil
}
