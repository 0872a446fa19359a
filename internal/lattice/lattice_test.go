package lattice

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestNewRejectsInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1, -32} {
		_, err := New(size, rand.New(rand.NewSource(1)))
		if !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("size %d: expected ErrInvalidSize, got %v", size, err)
		}
	}
}

func TestNewCellsAreSpins(t *testing.T) {
	for _, size := range []int{1, 2, 3, 5, 16} {
		lat, err := New(size, rand.New(rand.NewSource(7)))
		if err != nil {
			t.Fatalf("new lattice size %d: %v", size, err)
		}
		for x := 0; x < size; x++ {
			for y := 0; y < size; y++ {
				if s := lat.At(x, y); s != 1 && s != -1 {
					t.Fatalf("size %d cell (%d,%d) = %d, want +1 or -1", size, x, y, s)
				}
			}
		}
	}
}

func TestMagnetizationParity(t *testing.T) {
	// The signed sum of n*n values in {-1,+1} always has the parity
	// of n*n.
	for _, size := range []int{1, 2, 3, 4, 7, 16} {
		for seed := int64(0); seed < 20; seed++ {
			lat, err := New(size, rand.New(rand.NewSource(seed)))
			if err != nil {
				t.Fatalf("new lattice: %v", err)
			}
			m := int(lat.Magnetization())
			if ((m%2)+2)%2 != (size*size)%2 {
				t.Fatalf("size %d seed %d: magnetization %d has wrong parity", size, seed, m)
			}
		}
	}
}

func TestEnergyIsDeterministic(t *testing.T) {
	lat, err := New(8, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("new lattice: %v", err)
	}
	first := lat.Energy()
	for i := 0; i < 5; i++ {
		if e := lat.Energy(); e != first {
			t.Fatalf("energy changed without mutation: %g then %g", first, e)
		}
	}
}

func TestEnergyKnownConfigurations(t *testing.T) {
	// All spins aligned: every one of the 2*n*n bonds contributes -1.
	lat := &Lattice{size: 4, spins: make([]int8, 16)}
	for i := range lat.spins {
		lat.spins[i] = 1
	}
	if e := lat.Energy(); e != -32 {
		t.Fatalf("aligned 4x4 energy = %g, want -32", e)
	}
	if m := lat.Magnetization(); m != 16 {
		t.Fatalf("aligned 4x4 magnetization = %g, want 16", m)
	}

	// Checkerboard: every bond frustrated.
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			if (x+y)%2 == 0 {
				lat.spins[x*4+y] = 1
			} else {
				lat.spins[x*4+y] = -1
			}
		}
	}
	if e := lat.Energy(); e != 32 {
		t.Fatalf("checkerboard 4x4 energy = %g, want 32", e)
	}
	if m := lat.Magnetization(); m != 0 {
		t.Fatalf("checkerboard 4x4 magnetization = %g, want 0", m)
	}
}

func TestFlipDeltaMatchesFullRecompute(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	checks := 0
	for _, size := range []int{2, 3, 4, 8, 16} {
		for trial := 0; trial < 30; trial++ {
			lat, err := New(size, rng)
			if err != nil {
				t.Fatalf("new lattice: %v", err)
			}
			x := rng.Intn(size)
			y := rng.Intn(size)

			before := lat.Energy()
			delta := lat.FlipDelta(x, y)
			lat.Flip(x, y)
			after := lat.Energy()
			lat.Flip(x, y)

			if math.Abs((after-before)-delta) > 1e-9 {
				t.Fatalf("size %d site (%d,%d): recompute delta %g, FlipDelta %g", size, x, y, after-before, delta)
			}
			if e := lat.Energy(); e != before {
				t.Fatalf("double flip did not restore energy: %g vs %g", e, before)
			}
			checks++
		}
	}
	if checks < 100 {
		t.Fatalf("expected at least 100 delta checks, did %d", checks)
	}
}

func TestFlipDeltaPeriodicIndices(t *testing.T) {
	lat, err := New(5, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("new lattice: %v", err)
	}
	if d1, d2 := lat.FlipDelta(-1, -1), lat.FlipDelta(4, 4); d1 != d2 {
		t.Fatalf("periodic index mismatch: %g vs %g", d1, d2)
	}
	if s1, s2 := lat.At(7, 3), lat.At(2, 3); s1 != s2 {
		t.Fatalf("periodic At mismatch: %d vs %d", s1, s2)
	}
}
