package world

import (
	"math/rand"
	"testing"
)

func TestGroundY(t *testing.T) {
	g := NewGeometry(1920, 1040, 300, 300)

	if got := g.GroundY(); got != 740 {
		t.Errorf("GroundY() = %v, want 740", got)
	}
}

func TestOnGroundTolerance(t *testing.T) {
	g := NewGeometry(1000, 600, 100, 0)

	tests := []struct {
		y    float64
		want bool
	}{
		{600, true},
		{597, true},
		{604.9, true},
		{595, false}, // tolerance is strict
		{605, false},
		{550, false},
	}

	for _, tt := range tests {
		if got := g.OnGround(tt.y); got != tt.want {
			t.Errorf("OnGround(%v) = %v, want %v", tt.y, got, tt.want)
		}
	}
}

func TestStartIsCentredOnGround(t *testing.T) {
	g := NewGeometry(1921, 1040, 301, 300)

	x, y := g.Start()
	if x != 810 {
		t.Errorf("Start() x = %v, want 810", x)
	}
	if y != g.GroundY() {
		t.Errorf("Start() y = %v, want ground %v", y, g.GroundY())
	}
}

func TestMaxXNeverNegative(t *testing.T) {
	g := NewGeometry(100, 600, 300, 300)

	if got := g.MaxX(); got != 0 {
		t.Errorf("MaxX() = %v, want 0 for canvas wider than screen", got)
	}
}

func TestRandomFloorPointWithinBounds(t *testing.T) {
	g := NewGeometry(1920, 1040, 300, 300)
	rng := rand.New(rand.NewSource(12345))

	for i := 0; i < 100; i++ {
		x, y := g.RandomFloorPoint(rng)
		if x < 0 || x > g.MaxX() {
			t.Fatalf("RandomFloorPoint x = %v outside [0, %v]", x, g.MaxX())
		}
		if y != g.GroundY() {
			t.Fatalf("RandomFloorPoint y = %v, want ground %v", y, g.GroundY())
		}
	}
}

func TestRandomFloorPointReproducible(t *testing.T) {
	g := NewGeometry(1920, 1040, 300, 300)
	rng1 := rand.New(rand.NewSource(42))
	rng2 := rand.New(rand.NewSource(42))

	for i := 0; i < 10; i++ {
		x1, _ := g.RandomFloorPoint(rng1)
		x2, _ := g.RandomFloorPoint(rng2)
		if x1 != x2 {
			t.Fatalf("draw %d differs with same seed: %v != %v", i, x1, x2)
		}
	}
}

func TestClampX(t *testing.T) {
	g := NewGeometry(1000, 600, 200, 100)

	tests := []struct{ in, want float64 }{
		{-10, 0},
		{0, 0},
		{400, 400},
		{800, 800},
		{900, 800},
	}
	for _, tt := range tests {
		if got := g.ClampX(tt.in); got != tt.want {
			t.Errorf("ClampX(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
