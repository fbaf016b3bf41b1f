package bot

import (
	"math/rand/v2"
	"sync"
)

// dice is the random source behind RandomStrategy. With no seed it draws
// from the runtime-seeded global generator.
var dice struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// SeedBotRng makes strategy draws reproducible for seed.
func SeedBotRng(seed int64) {
	dice.mu.Lock()
	defer dice.mu.Unlock()
	dice.rng = rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>32|1))
}

// ResetBotRng returns to unseeded draws.
func ResetBotRng() {
	dice.mu.Lock()
	defer dice.mu.Unlock()
	dice.rng = nil
}

// coinFlip reports true half of the time.
func coinFlip() bool {
	return draw(2) == 1
}

// share picks a troop count in 1..surplus.
func share(surplus int) int {
	return 1 + draw(surplus)
}

// shuffled returns the indices 0..n-1 in random order.
func shuffled(n int) []int {
	dice.mu.Lock()
	defer dice.mu.Unlock()
	if dice.rng == nil {
		return rand.Perm(n)
	}
	return dice.rng.Perm(n)
}

func draw(n int) int {
	dice.mu.Lock()
	defer dice.mu.Unlock()
	if dice.rng == nil {
		return rand.IntN(n)
	}
	return dice.rng.IntN(n)
}
