package viewport

import "testing"

func TestRect_ClampKeepsPointInside(t *testing.T) {
	r := R(10, 20, 110, 220)
	cases := []struct{ x, y, wx, wy float64 }{
		{0, 0, 10, 20},
		{50, 50, 50, 50},
		{500, 500, 110, 220},
		{-3, 300, 10, 220},
	}
	for _, c := range cases {
		x, y := r.Clamp(c.x, c.y)
		if x != c.wx || y != c.wy {
			t.Fatalf("Clamp(%v,%v) = (%v,%v), want (%v,%v)", c.x, c.y, x, y, c.wx, c.wy)
		}
	}
}

func TestRect_ScaleAboutFixesPivot(t *testing.T) {
	r := R(0, 0, 100, 50).ScaleAbout(25, 25, 2)
	if r != R(-25, -25, 175, 75) {
		t.Fatalf("unexpected scaled rect %v", r)
	}
}

func TestRect_UnionIntersect(t *testing.T) {
	a, b := R(0, 0, 10, 10), R(5, -5, 20, 8)
	if got := a.Union(b); got != R(0, -5, 20, 10) {
		t.Fatalf("union %v", got)
	}
	if got := a.Intersect(b); got != R(5, 0, 10, 8) {
		t.Fatalf("intersect %v", got)
	}
	if !R(0, 0, 1, 1).Intersect(R(2, 2, 3, 3)).Empty() {
		t.Fatalf("disjoint intersection should be empty")
	}
}

func TestRect_ContainsStrictExcludesEdges(t *testing.T) {
	r := R(0, 0, 10, 10)
	if r.ContainsStrict(0, 5) || r.ContainsStrict(10, 5) || r.ContainsStrict(5, 10) {
		t.Fatalf("edges must be outside")
	}
	if !r.ContainsStrict(0.01, 9.99) {
		t.Fatalf("interior point rejected")
	}
}
