package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"sort"
	"strconv"
	"time"

	"github.com/go-sod/kdset/internal/logging"
	"github.com/go-sod/kdset/internal/pointfile"
	"github.com/go-sod/kdset/internal/shutdown"
	"github.com/go-sod/kdset/pkg/container/kdtree"
	"github.com/go-sod/kdset/pkg/container/pointset"
	"github.com/go-sod/kdset/pkg/geom"
	"github.com/go-sod/kdset/pkg/rworker"
	"github.com/kelseyhightower/envconfig"
	"github.com/valyala/fastrand"
)

const usage = `usage:
  kdset size <file>
  kdset range <file> <xmin> <ymin> <xmax> <ymax>
  kdset nearest <file> <x> <y>
  kdset bench [-n points] [-q queries] [-workers n]

<file> holds a point count followed by that many "x y" pairs; "-" reads stdin.
`

var (
	errUsage    = errors.New("invalid arguments")
	errMismatch = errors.New("kd-tree and linear scan disagree")
)

type cliConfig struct {
	LogLevel string `envconfig:"KDSET_LOG_LEVEL" default:"warn"`
}

func main() {
	ctx, done := shutdown.New()
	var cfg cliConfig
	if err := envconfig.Process("", &cfg); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := logging.NewLogger(cfg.LogLevel, false)
	ctx = logging.WithLogger(ctx, logger)

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	done()
	_ = logger.Sync()
	switch {
	case errors.Is(err, errUsage):
		_, _ = fmt.Fprintf(os.Stderr, "%v\n%s", err, usage)
		os.Exit(2)
	case err != nil:
		logger.Error(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}
	switch args[0] {
	case "size":
		return size(ctx, args[1:], stdin, stdout)
	case "range":
		return rangeSearch(ctx, args[1:], stdin, stdout)
	case "nearest":
		return nearest(ctx, args[1:], stdin, stdout)
	case "bench":
		return bench(ctx, args[1:], stdout)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

// load builds a tree over the points of path, with a domain grown from the
// unit square to cover them.
func load(ctx context.Context, path string, stdin io.Reader) (*kdtree.Tree, error) {
	var (
		points []geom.Point
		err    error
	)
	if path == "-" {
		points, err = pointfile.Read(stdin)
	} else {
		points, err = pointfile.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	tree, err := kdtree.NewWithDomain(geom.UnitSquare.Extend(points...))
	if err != nil {
		return nil, err
	}
	if err := tree.Build(points...); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debugf("loaded %d points from %s over %v, %d distinct, height %d",
		len(points), path, tree.Domain(), tree.Len(), tree.Height())
	return tree, nil
}

func parseFloats(args []string) ([]float64, error) {
	values := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errUsage, err)
		}
		values[i] = v
	}
	return values, nil
}

func size(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: size takes a file", errUsage)
	}
	tree, err := load(ctx, args[0], stdin)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, tree.Len())
	return err
}

func rangeSearch(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) != 5 {
		return fmt.Errorf("%w: range takes a file and four bounds", errUsage)
	}
	bounds, err := parseFloats(args[1:])
	if err != nil {
		return err
	}
	r, err := geom.NewRect(bounds[0], bounds[1], bounds[2], bounds[3])
	if err != nil {
		return err
	}
	tree, err := load(ctx, args[0], stdin)
	if err != nil {
		return err
	}

	points, err := tree.Range(r)
	if err != nil {
		return err
	}
	sortPoints(points)
	for _, p := range points {
		if _, err := fmt.Fprintf(stdout, "%v %v\n", p.X, p.Y); err != nil {
			return err
		}
	}
	return nil
}

func nearest(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) != 3 {
		return fmt.Errorf("%w: nearest takes a file and a point", errUsage)
	}
	coords, err := parseFloats(args[1:])
	if err != nil {
		return err
	}
	tree, err := load(ctx, args[0], stdin)
	if err != nil {
		return err
	}

	p, err := tree.Nearest(geom.NewPoint(coords[0], coords[1]))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "%v %v\n", p.X, p.Y)
	return err
}

type benchResult struct {
	nearest []geom.Point
	ranges  [][]geom.Point
	elapsed time.Duration
}

// index is what bench times; both the kd-tree and the linear set satisfy it.
type index interface {
	Nearest(p geom.Point) (geom.Point, error)
	Range(r geom.Rect) ([]geom.Point, error)
}

func bench(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	fs.SetOutput(stdout)
	n := fs.Int("n", 100000, "number of random points")
	q := fs.Int("q", 1000, "number of nearest and range queries")
	workers := fs.Int("workers", runtime.NumCPU(), "queries running at once")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *n < 1 || *q < 1 {
		return fmt.Errorf("%w: -n and -q must be positive", errUsage)
	}
	logger := logging.FromContext(ctx)

	points := randomPoints(*n)
	start := time.Now()
	tree := kdtree.New()
	if err := tree.Build(points...); err != nil {
		return err
	}
	buildElapsed := time.Since(start)

	start = time.Now()
	set := pointset.New()
	if err := set.Build(points...); err != nil {
		return err
	}
	setElapsed := time.Since(start)
	logger.Debugf("indexed %d points, kd-tree height %d", tree.Len(), tree.Height())

	queries := randomPoints(*q)
	rects := randomRects(*q, 0.1)
	kd, err := runQueries(ctx, tree, queries, rects, *workers)
	if err != nil {
		return fmt.Errorf("kd-tree queries: %w", err)
	}
	linear, err := runQueries(ctx, set, queries, rects, *workers)
	if err != nil {
		return fmt.Errorf("linear queries: %w", err)
	}

	mismatches := 0
	for i := range queries {
		if queries[i].DistanceSquaredTo(kd.nearest[i]) != queries[i].DistanceSquaredTo(linear.nearest[i]) {
			logger.Warnf("nearest to %v: kd-tree %v, linear %v", queries[i], kd.nearest[i], linear.nearest[i])
			mismatches++
		}
		if !samePoints(kd.ranges[i], linear.ranges[i]) {
			logger.Warnf("range %v: kd-tree %d points, linear %d points", rects[i], len(kd.ranges[i]), len(linear.ranges[i]))
			mismatches++
		}
	}

	_, _ = fmt.Fprintf(stdout, "points: %d distinct of %d, kd-tree height %d\n", tree.Len(), *n, tree.Height())
	_, _ = fmt.Fprintf(stdout, "build:  kd-tree %v, linear %v\n", buildElapsed, setElapsed)
	_, _ = fmt.Fprintf(stdout, "query:  kd-tree %v, linear %v (%d nearest + %d range, %d workers)\n",
		kd.elapsed, linear.elapsed, *q, *q, *workers)
	if mismatches > 0 {
		return fmt.Errorf("%w: %d mismatches", errMismatch, mismatches)
	}
	_, _ = fmt.Fprintln(stdout, "results: match")
	return nil
}

func runQueries(ctx context.Context, idx index, queries []geom.Point, rects []geom.Rect, workers int) (*benchResult, error) {
	res := &benchResult{
		nearest: make([]geom.Point, len(queries)),
		ranges:  make([][]geom.Point, len(rects)),
	}
	pool := rworker.New(workers)
	start := time.Now()
	for i := range queries {
		i := i
		pool.Job(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := idx.Nearest(queries[i])
			if err != nil {
				return err
			}
			points, err := idx.Range(rects[i])
			if err != nil {
				return err
			}
			res.nearest[i] = p
			res.ranges[i] = points
			return nil
		})
	}
	if err := pool.Wait(); err != nil {
		return nil, err
	}
	res.elapsed = time.Since(start)
	return res, nil
}

func randomCoord() float64 {
	return float64(fastrand.Uint32()) / math.MaxUint32
}

func randomPoints(n int) []geom.Point {
	points := make([]geom.Point, n)
	for i := range points {
		points[i] = geom.NewPoint(randomCoord(), randomCoord())
	}
	return points
}

// randomRects returns rectangles inside the unit square with sides up to side.
func randomRects(n int, side float64) []geom.Rect {
	rects := make([]geom.Rect, n)
	for i := range rects {
		x, y := randomCoord()*(1-side), randomCoord()*(1-side)
		rects[i] = geom.Rect{XMin: x, YMin: y, XMax: x + randomCoord()*side, YMax: y + randomCoord()*side}
	}
	return rects
}

func sortPoints(points []geom.Point) {
	sort.Slice(points, func(i, j int) bool {
		return points[i].Compare(points[j]) < 0
	})
}

func samePoints(a, b []geom.Point) bool {
	if len(a) != len(b) {
		return false
	}
	a = append([]geom.Point(nil), a...)
	b = append([]geom.Point(nil), b...)
	sortPoints(a)
	sortPoints(b)
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
