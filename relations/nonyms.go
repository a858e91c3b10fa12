package relations

import (
	"errors"
	"fmt"
	"math/rand"
)

// DefaultNonymSeed keeps generated lists reproducible.
const DefaultNonymSeed = 3

var ErrSampleTooLarge = errors.New("sample larger than population")

// GenerateNonyms combines the first word of every known pair with the first
// word of a randomly drawn known pair, keeps the combinations that are not
// known pairs themselves, and returns a random sample of n of them. Both
// random steps start from seed.
func GenerateNonyms(known [][2]string, seed int64, n int) ([][2]string, error) {
	if len(known) == 0 {
		return nil, fmt.Errorf("%w: no known pairs", ErrSampleTooLarge)
	}
	knownSet := make(map[[2]string]bool, len(known))
	for _, pair := range known {
		knownSet[pair] = true
	}

	rng := rand.New(rand.NewSource(seed))
	var candidates [][2]string
	for _, pair := range known {
		drawn := known[rng.Intn(len(known))]
		candidate := [2]string{pair[0], drawn[0]}
		if !knownSet[candidate] {
			candidates = append(candidates, candidate)
		}
	}

	return sample(rand.New(rand.NewSource(seed)), candidates, n)
}

// sample draws n distinct elements without replacement.
func sample[T any](rng *rand.Rand, population []T, n int) ([]T, error) {
	if n < 0 || n > len(population) {
		return nil, fmt.Errorf("%w: %d of %d", ErrSampleTooLarge, n, len(population))
	}
	pool := make([]T, len(population))
	copy(pool, population)
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n], nil
}
