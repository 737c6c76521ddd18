// # internal/index/detect_test.go
package index

import (
	"reflect"
	"testing"
)

func TestCycles_Acyclic(t *testing.T) {
	g := NewGraph()
	g.SetDependencies("a.ts", []string{"b.ts"})
	g.SetDependencies("b.ts", []string{"c.ts"})

	if cycles := g.Cycles(); len(cycles) != 0 {
		t.Errorf("Cycles = %v, want none", cycles)
	}
}

func TestCycles_TwoNode(t *testing.T) {
	g := NewGraph()
	g.SetDependencies("a.ts", []string{"b.ts"})
	g.SetDependencies("b.ts", []string{"a.ts"})

	cycles := g.Cycles()
	if len(cycles) != 1 {
		t.Fatalf("got %d cycles, want 1: %v", len(cycles), cycles)
	}
	// Closed walk: first and last node are the same.
	if !reflect.DeepEqual(cycles[0], []string{"a.ts", "b.ts", "a.ts"}) {
		t.Errorf("cycle = %v", cycles[0])
	}
}

func TestCycles_ThreeNode(t *testing.T) {
	g := NewGraph()
	g.SetDependencies("a.ts", []string{"b.ts"})
	g.SetDependencies("b.ts", []string{"c.ts"})
	g.SetDependencies("c.ts", []string{"a.ts"})

	cycles := g.Cycles()
	if len(cycles) != 1 {
		t.Fatalf("got %d cycles, want 1: %v", len(cycles), cycles)
	}
	if len(cycles[0]) != 4 {
		t.Errorf("cycle length = %d, want 4: %v", len(cycles[0]), cycles[0])
	}
	if cycles[0][0] != cycles[0][len(cycles[0])-1] {
		t.Errorf("cycle not a closed walk: %v", cycles[0])
	}
}

func TestCycles_SelfImport(t *testing.T) {
	g := NewGraph()
	g.SetDependencies("a.ts", []string{"a.ts"})

	cycles := g.Cycles()
	if len(cycles) != 1 {
		t.Fatalf("got %d cycles, want 1: %v", len(cycles), cycles)
	}
	if !reflect.DeepEqual(cycles[0], []string{"a.ts", "a.ts"}) {
		t.Errorf("cycle = %v", cycles[0])
	}
}

func TestCycles_DisjointCyclesReportedOnce(t *testing.T) {
	g := NewGraph()
	g.SetDependencies("a.ts", []string{"b.ts"})
	g.SetDependencies("b.ts", []string{"a.ts"})
	g.SetDependencies("x.ts", []string{"y.ts"})
	g.SetDependencies("y.ts", []string{"x.ts"})

	cycles := g.Cycles()
	if len(cycles) != 2 {
		t.Fatalf("got %d cycles, want 2: %v", len(cycles), cycles)
	}
}
