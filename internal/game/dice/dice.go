// Package dice provides the randomness abstraction used by board generation,
// deck building, events and probabilistic abilities.
package dice

// Source is the randomness provider.
//
// Implementations used by concurrent simulations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Chance reports whether a percent-probability check succeeds.
//
// Postcondition: Returns false when percent <= 0 and true when percent >= 100.
func Chance(src Source, percent int) bool {
	if percent <= 0 {
		return false
	}
	if percent >= 100 {
		return true
	}
	return src.Intn(100) < percent
}

// Shuffle permutes n elements in place with a Fisher-Yates pass, calling swap
// for each exchange.
//
// Precondition: n >= 0; swap must be non-nil.
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		swap(i, j)
	}
}

// Sample returns k distinct indices drawn uniformly from [0, n), in draw order.
//
// Postcondition: len(result) == min(k, n); no index repeats.
func Sample(src Source, n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	out := make([]int, 0, k)
	for len(out) < k {
		idx := src.Intn(len(pool))
		out = append(out, pool[idx])
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return out
}
