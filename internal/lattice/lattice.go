package lattice

import (
	"errors"
	"fmt"
	"math/rand"
)

var ErrInvalidSize = errors.New("lattice size must be >= 1")

// Lattice is a periodic n x n grid of classical spins with values in
// {-1, +1} and nearest-neighbor coupling J = +1.
type Lattice struct {
	size  int
	spins []int8
}

// New builds a size x size lattice with every spin drawn independently
// as +1 or -1 with equal probability. It consumes exactly size*size
// draws from rng, in row-major order.
func New(size int, rng *rand.Rand) (*Lattice, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}

	spins := make([]int8, size*size)
	for i := range spins {
		spins[i] = int8(2*rng.Intn(2) - 1)
	}
	return &Lattice{size: size, spins: spins}, nil
}

func (l *Lattice) Size() int {
	return l.size
}

// At returns the spin at (x, y). Coordinates are taken modulo the
// lattice size, so callers may pass neighbor indices directly.
func (l *Lattice) At(x, y int) int8 {
	n := l.size
	return l.spins[mod(x, n)*n+mod(y, n)]
}

// Flip negates the spin at (x, y).
func (l *Lattice) Flip(x, y int) {
	n := l.size
	l.spins[mod(x, n)*n+mod(y, n)] *= -1
}

// Energy returns H = -sum s[x,y]*(s[x+1,y] + s[x,y+1]) over all sites
// with periodic indices. Counting only the right and down neighbor of
// each site visits every bond exactly once.
func (l *Lattice) Energy() float64 {
	n := l.size
	energy := 0
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			s := int(l.spins[x*n+y])
			energy -= s * int(l.spins[((x+1)%n)*n+y])
			energy -= s * int(l.spins[x*n+(y+1)%n])
		}
	}
	return float64(energy)
}

// Magnetization returns the signed sum of all spins.
func (l *Lattice) Magnetization() float64 {
	total := 0
	for _, s := range l.spins {
		total += int(s)
	}
	return float64(total)
}

// FlipDelta returns the energy change that flipping the spin at (x, y)
// would cause, from the four periodic neighbors in O(1):
//
//	dE = 2*s[x,y]*(s[x-1,y] + s[x+1,y] + s[x,y-1] + s[x,y+1])
func (l *Lattice) FlipDelta(x, y int) float64 {
	n := l.size
	x = mod(x, n)
	y = mod(y, n)
	s := int(l.spins[x*n+y])
	neighbors := int(l.spins[((x+n-1)%n)*n+y]) +
		int(l.spins[((x+1)%n)*n+y]) +
		int(l.spins[x*n+(y+n-1)%n]) +
		int(l.spins[x*n+(y+1)%n])
	return float64(2 * s * neighbors)
}

func mod(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
