package trip

import (
	"context"
	"math/rand/v2"
	"sync"
)

// RandomDistance is a stand-in estimator returning a distance between 50 and 550 km.
// TODO: replace with a routing provider once one is chosen for origin/destination geocoding.
type RandomDistance struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomDistance creates a RandomDistance seeded with seed.
func NewRandomDistance(seed uint64) *RandomDistance {
	return &RandomDistance{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Estimate ignores its arguments.
func (d *RandomDistance) Estimate(ctx context.Context, _, _ string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return 50 + d.rnd.Float64()*500, nil
}

// FixedDistance always returns the same distance.
type FixedDistance float64

// Estimate returns d.
func (d FixedDistance) Estimate(context.Context, string, string) (float64, error) {
	return float64(d), nil
}
