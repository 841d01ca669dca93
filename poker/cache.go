package poker

import (
	"sort"

	lru "github.com/hashicorp/golang-lru"
)

// EvalCache memoizes hand evaluations. Showdowns re-evaluate the same
// board-plus-hole sets when split pots are compared, so the cache sits in
// front of Evaluate. Inputs are never mutated and cached results are
// returned by value.
type EvalCache struct {
	cache *lru.Cache
}

func NewEvalCache(size int) (*EvalCache, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &EvalCache{cache: cache}, nil
}

// Evaluate returns the same result as the package-level Evaluate, serving
// repeats from the cache.
func (ec *EvalCache) Evaluate(cards []Card) HandEvaluation {
	key := cacheKey(cards)
	if cached, ok := ec.cache.Get(key); ok {
		return cached.(HandEvaluation)
	}
	eval := Evaluate(cards)
	ec.cache.Add(key, eval)
	return eval
}

// cacheKey is order-insensitive: permuted-but-identical card sets share an
// entry.
func cacheKey(cards []Card) string {
	bytes := make([]byte, len(cards))
	for i, c := range cards {
		bytes[i] = c.GetByte()
	}
	sort.Slice(bytes, func(i, j int) bool { return bytes[i] < bytes[j] })
	return string(bytes)
}
