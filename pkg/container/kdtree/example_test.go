package kdtree_test

import (
	"fmt"

	"github.com/go-sod/kdset/pkg/container/kdtree"
	"github.com/go-sod/kdset/pkg/geom"
)

func Example() {
	tree := kdtree.New()
	for _, p := range []geom.Point{{X: 0.7, Y: 0.2}, {X: 0.5, Y: 0.4}, {X: 0.2, Y: 0.3}, {X: 0.4, Y: 0.7}, {X: 0.9, Y: 0.6}} {
		if err := tree.Insert(p); err != nil {
			panic(err)
		}
	}

	r, _ := geom.NewRect(0, 0, 0.5, 0.5)
	points, _ := tree.Range(r)
	nearest, _ := tree.Nearest(geom.NewPoint(0.55, 0.4))
	fmt.Println(tree.Len(), len(points), nearest)
	// Output: 5 2 (0.5, 0.4)
}
