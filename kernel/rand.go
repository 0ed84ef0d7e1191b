package kernel

// Rand is the linear congruential generator the lottery policy uses to
// draw a winning ticket (spec.md C7/LBS). It is seeded from the tick
// counter so that ticket draws are reproducible given a fixed scenario
// and schedule, which is what the fairness property test (spec.md §8)
// relies on.
//
// DESIGN NOTES / Open Question: the source kernel's srand only reseeds
// when the caller passes 0, which is backwards — a caller asking to
// reseed with a non-zero value silently gets ignored, and the RNG can
// never be explicitly reset to the "unseeded" state. Rand.Seed fixes
// this by reseeding whenever seed is non-zero, matching every caller's
// actual intent (lottery.go reseeds with the current tick at the start of
// every PickNext).
type Rand struct {
	state uint64
}

func newRand() *Rand { return &Rand{state: 1} }

// NewRand constructs a Rand with the same default seed newRand uses
// internally. Exported so scheduling policies outside this package (the
// lottery policy in particular) can keep their own independent draw
// sequence rather than reaching into the kernel's.
func NewRand() *Rand { return newRand() }

// Seed reseeds the generator. A zero seed is a no-op, matching the
// convention that "no entropy available yet" should not stomp the
// existing state.
func (r *Rand) Seed(seed uint64) {
	if seed != 0 {
		r.state = seed
	}
}

// Next returns the next pseudo-random value in [0, 32768), the same
// range and LCG constants (1103515245, 12345) as the source kernel's
// rand(), draining the same sequence per seed so scenario replays are
// deterministic.
func (r *Rand) Next() int {
	r.state = r.state*1103515245 + 12345
	return int((r.state / 65536) % 32768)
}

// Intn returns a pseudo-random value in [0, n). n must be > 0.
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		panic("kernel: Intn requires n > 0")
	}
	return r.Next() % n
}
