package features

import "hash/fnv"

// HashedVectorSize is the bucket count of the legacy hashed encoding.
const HashedVectorSize = 128

// EncodeHashed is the legacy bag-of-words encoding kept for compatibility
// with pre-keyword model generations: each normalized token is FNV-hashed
// into one of a fixed number of buckets and the bucket counts are squashed
// into [0,1]. Deterministic for identical input, like Encode.
func EncodeHashed(d *FieldDescriptor) []float32 {
	vec := make([]float32, HashedVectorSize)
	if d == nil {
		return vec
	}
	for _, word := range NormalizeWords(d.FullContext()) {
		h := fnv.New32a()
		h.Write([]byte(word))
		bucket := h.Sum32() % HashedVectorSize
		if vec[bucket] < 1 {
			vec[bucket] += 0.5
		}
	}
	return vec
}
