package main

import (
	"fmt"
	"os"

	"alphawrap/internal/meshcheck"
	"alphawrap/internal/meshio"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: inspect <mesh.json>...")
		os.Exit(2)
	}

	failed := false
	for _, path := range os.Args[1:] {
		if err := inspect(path); err != nil {
			fmt.Printf("Error: %v\n", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func inspect(path string) error {
	m, err := meshio.Load(path)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", path)
	fmt.Printf("  Vertices: %d, Triangles: %d\n", m.VertexCount(), m.TriangleCount())
	if err := m.Validate(); err != nil {
		fmt.Printf("  Invalid: %v\n", err)
	}

	if lo, hi, ok := meshcheck.Bounds(m.Vertices); ok {
		fmt.Printf("  BBox: X[%.3f, %.3f] Y[%.3f, %.3f] Z[%.3f, %.3f]\n", lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
		fmt.Printf("  Size: %.3f x %.3f x %.3f\n", hi[0]-lo[0], hi[1]-lo[1], hi[2]-lo[2])
	}

	t := meshcheck.Edges(m.Indices)
	fmt.Printf("  Edges: %d (boundary %d, manifold %d, non-manifold %d)\n",
		t.Edges, t.Boundary, t.Manifold, t.NonManifold)
	if t.Degenerate > 0 {
		fmt.Printf("  Degenerate triangles: %d\n", t.Degenerate)
	}
	if t.Closed() {
		fmt.Println("  Closed: yes")
	} else {
		fmt.Println("  Closed: no")
	}
	return nil
}
