package types

import "testing"

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 100, Height: 100}

	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"overlapping", Rect{X: 50, Y: 50, Width: 100, Height: 100}, true},
		{"contained", Rect{X: 10, Y: 10, Width: 20, Height: 20}, true},
		{"disjoint", Rect{X: 200, Y: 200, Width: 50, Height: 50}, false},
		{"touching edge", Rect{X: 100, Y: 0, Width: 50, Height: 50}, false},
		{"overlap on x only", Rect{X: 50, Y: 200, Width: 100, Height: 50}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.want {
				t.Fatalf("Intersects(%+v) = %v, want %v", tt.b, got, tt.want)
			}
			// Intersection is symmetric.
			if got := tt.b.Intersects(a); got != tt.want {
				t.Fatalf("reverse Intersects(%+v) = %v, want %v", tt.b, got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 100, Height: 100}

	if !a.Contains(Rect{X: 10, Y: 10, Width: 50, Height: 50}) {
		t.Fatal("inner rect should be contained")
	}
	if !a.Contains(a) {
		t.Fatal("a rect contains itself (edges inclusive)")
	}
	if a.Contains(Rect{X: 60, Y: 60, Width: 50, Height: 50}) {
		t.Fatal("straddling rect should not be contained")
	}
}

func TestRectUnionExpand(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 20, Y: 30, Width: 10, Height: 10}

	u := a.Union(b)
	want := Rect{X: 0, Y: 0, Width: 30, Height: 40}
	if u != want {
		t.Fatalf("Union = %+v, want %+v", u, want)
	}

	e := a.Expand(5)
	wantE := Rect{X: -5, Y: -5, Width: 20, Height: 20}
	if e != wantE {
		t.Fatalf("Expand = %+v, want %+v", e, wantE)
	}
}
