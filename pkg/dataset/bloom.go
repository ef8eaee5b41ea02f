package dataset

import (
	"hash/fnv"
	"math"
)

// bloomFilter answers "definitely absent" for normalized plates before the
// index is consulted. It is rebuilt on every Load and never mutated after,
// so it needs no lock of its own.
type bloomFilter struct {
	bits  []uint64
	k     uint32
	m     uint32
	count int
}

func newBloomFilter(n int, p float64) *bloomFilter {
	if n < 1 {
		n = 1
	}
	// 理论最佳公式
	// m = - (n * ln(p)) / (ln(2)^2)
	// k = (m / n) * ln(2)
	m := uint32(math.Ceil(-float64(n) * math.Log(p) / (math.Ln2 * math.Ln2)))
	if m < 64 {
		m = 64
	}
	k := uint32(math.Ceil(float64(m) / float64(n) * math.Ln2))
	return &bloomFilter{
		bits: make([]uint64, (m+63)/64),
		k:    k,
		m:    m,
	}
}

func (bf *bloomFilter) add(key string) {
	h1, h2 := hashes(key)
	for i := uint32(0); i < bf.k; i++ {
		pos := (h1 + i*h2) % bf.m
		bf.bits[pos/64] |= 1 << (pos % 64)
	}
	bf.count++
}

func (bf *bloomFilter) mayContain(key string) bool {
	h1, h2 := hashes(key)
	for i := uint32(0); i < bf.k; i++ {
		pos := (h1 + i*h2) % bf.m
		if bf.bits[pos/64]&(1<<(pos%64)) == 0 {
			return false
		}
	}
	return true
}

// hashes splits one 64-bit FNV-1a hash into the two halves used for
// double hashing.
func hashes(key string) (uint32, uint32) {
	h := fnv.New64a()
	h.Write([]byte(key))
	sum := h.Sum64()
	return uint32(sum), uint32(sum>>32) | 1
}
