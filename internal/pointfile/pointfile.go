// Package pointfile reads point lists: a count followed by that many
// whitespace-separated "x y" pairs.
package pointfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-sod/kdset/pkg/geom"
)

var (
	ErrMissingCount = fmt.Errorf("point count is missing")
	ErrShortInput   = fmt.Errorf("fewer points than announced")
	ErrTrailingData = fmt.Errorf("unexpected data after the last point")
)

const maxPrealloc = 1 << 16

func ReadFile(path string) ([]geom.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open point file: %w", err)
	}
	defer f.Close()

	points, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return points, nil
}

func Read(r io.Reader) ([]geom.Point, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	token := 0

	next := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		token++
		return scanner.Text(), true
	}

	word, ok := next()
	if !ok {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("scanning: %w", err)
		}
		return nil, ErrMissingCount
	}
	n, err := strconv.Atoi(word)
	if err != nil {
		return nil, fmt.Errorf("token %d: point count: %w", token, err)
	}
	if n < 0 {
		return nil, fmt.Errorf("token %d: negative point count %d", token, n)
	}

	// The count is not trusted for sizing until the points are actually read.
	capacity := n
	if capacity > maxPrealloc {
		capacity = maxPrealloc
	}
	points := make([]geom.Point, 0, capacity)
	var coords [2]float64
	for i := 0; i < n; i++ {
		for axis := range coords {
			word, ok := next()
			if !ok {
				if err := scanner.Err(); err != nil {
					return nil, fmt.Errorf("scanning: %w", err)
				}
				return nil, fmt.Errorf("%w: got %d of %d", ErrShortInput, i, n)
			}
			v, err := strconv.ParseFloat(word, 64)
			if err != nil {
				return nil, fmt.Errorf("token %d: point %d: %w", token, i, err)
			}
			coords[axis] = v
		}
		points = append(points, geom.Point{X: coords[0], Y: coords[1]})
	}

	if _, ok := next(); ok {
		return nil, fmt.Errorf("token %d: %w", token, ErrTrailingData)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning: %w", err)
	}
	return points, nil
}
