package random

import (
	crypto_rand "crypto/rand"
	"encoding/binary"
	"math/rand"

	"github.com/db47h/rand64/v3/xoshiro"
)

// NewSeed returns a cryptographically random seed value.
func NewSeed() int64 {
	var b [8]byte
	_, err := crypto_rand.Read(b[:])
	if err != nil {
		panic("cannot seed the shuffle source with a cryptographically secure random number")
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// NewSource returns a crypto-seeded xoshiro256** source for shuffling.
func NewSource() rand.Source {
	return NewSeededSource(NewSeed())
}

// NewSeededSource returns a xoshiro256** source with a fixed seed so dealt
// card sequences can be replayed exactly.
func NewSeededSource(seed int64) rand.Source {
	src := &xoshiro.Rng256SS{}
	src.Seed(seed)
	return src
}
