package xpt2046

import (
	"math/rand"
	"sort"
	"testing"

	"touchcal-pico/calibrate"
)

func TestFilterMedian(t *testing.T) {
	b := Burst{
		{X: 900, Y: 10}, {X: 100, Y: 90}, {X: 500, Y: 50}, {X: 300, Y: 30}, {X: 700, Y: 70},
		{X: 200, Y: 20}, {X: 800, Y: 80}, {X: 400, Y: 40}, {X: 600, Y: 60}, {X: 1000, Y: 100},
	}
	// X: 500 と 600、Y: 50 と 60
	if got := Filter(b); got != (calibrate.RawPoint{X: 550, Y: 55}) {
		t.Errorf("expected (550,55) but got %v", got)
	}
}

func TestFilterTruncates(t *testing.T) {
	b := make(Burst, 10)
	for i := range b {
		b[i] = calibrate.RawPoint{X: 100, Y: 7}
	}
	b[5] = calibrate.RawPoint{X: 101, Y: 8}
	b[6] = calibrate.RawPoint{X: 101, Y: 8}
	b[7] = calibrate.RawPoint{X: 101, Y: 8}
	b[8] = calibrate.RawPoint{X: 101, Y: 8}
	b[9] = calibrate.RawPoint{X: 101, Y: 8}
	if got := Filter(b); got != (calibrate.RawPoint{X: 100, Y: 7}) {
		t.Errorf("expected (100,7) but got %v", got)
	}
}

func TestFilterIgnoresOutliers(t *testing.T) {
	b := Burst{
		{X: 4095, Y: 0}, {X: 0, Y: 4095}, {X: 1200, Y: 2200}, {X: 1202, Y: 2198}, {X: 1199, Y: 2201},
		{X: 1201, Y: 2199}, {X: 1200, Y: 2200}, {X: 4000, Y: 10}, {X: 3, Y: 4090}, {X: 1203, Y: 2202},
	}
	got := Filter(b)
	if got.X < 1199 || got.X > 1203 || got.Y < 2198 || got.Y > 2202 {
		t.Errorf("outliers leaked into median: %v", got)
	}
}

func TestFilterOrderIndependent(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for iter := 0; iter < 100; iter++ {
		b := make(Burst, 10)
		xs := make([]int, 10)
		ys := make([]int, 10)
		for i := range b {
			b[i] = calibrate.RawPoint{X: r.Intn(4096), Y: r.Intn(4096)}
			xs[i], ys[i] = b[i].X, b[i].Y
		}
		sort.Ints(xs)
		sort.Ints(ys)
		want := calibrate.RawPoint{X: (xs[4] + xs[5]) / 2, Y: (ys[4] + ys[5]) / 2}

		r.Shuffle(len(b), func(i, j int) { b[i], b[j] = b[j], b[i] })
		if got := Filter(b); got != want {
			t.Fatalf("iteration %d: expected %v but got %v", iter, want, got)
		}
	}
}

func TestFilterDoesNotModifyBurst(t *testing.T) {
	b := Burst{{X: 3, Y: 1}, {X: 1, Y: 3}, {X: 2, Y: 2}, {X: 5, Y: 0}}
	orig := append(Burst(nil), b...)
	Filter(b)
	for i := range b {
		if b[i] != orig[i] {
			t.Fatalf("burst modified at %d: %v", i, b)
		}
	}
}

func TestFilterOddLength(t *testing.T) {
	b := Burst{{X: 10, Y: 1}, {X: 30, Y: 3}, {X: 20, Y: 2}}
	if got := Filter(b); got != (calibrate.RawPoint{X: 20, Y: 2}) {
		t.Errorf("expected (20,2) but got %v", got)
	}
}
