package simd

import "math/bits"

// ==============================================================================
// Bit array kernels
// ==============================================================================
//
// All kernels operate on equal-length []uint64 slices. Callers guarantee
// len(dst) == len(src); the loops are bounded by len(dst).

// OrWords performs dst[i] |= src[i] for all words.
func OrWords(dst, src []uint64) {
	src = src[:len(dst)]
	i := 0
	for ; i+4 <= len(dst); i += 4 {
		dst[i] |= src[i]
		dst[i+1] |= src[i+1]
		dst[i+2] |= src[i+2]
		dst[i+3] |= src[i+3]
	}
	for ; i < len(dst); i++ {
		dst[i] |= src[i]
	}
}

// OrWordsChanged performs dst[i] |= src[i] and reports whether any word of
// dst gained a bit.
func OrWordsChanged(dst, src []uint64) bool {
	src = src[:len(dst)]
	var diff uint64
	i := 0
	for ; i+4 <= len(dst); i += 4 {
		diff |= src[i] &^ dst[i]
		diff |= src[i+1] &^ dst[i+1]
		diff |= src[i+2] &^ dst[i+2]
		diff |= src[i+3] &^ dst[i+3]
		dst[i] |= src[i]
		dst[i+1] |= src[i+1]
		dst[i+2] |= src[i+2]
		dst[i+3] |= src[i+3]
	}
	for ; i < len(dst); i++ {
		diff |= src[i] &^ dst[i]
		dst[i] |= src[i]
	}
	return diff != 0
}

// AndAny reports whether a and b share at least one set bit.
func AndAny(a, b []uint64) bool {
	b = b[:len(a)]
	for i := range a {
		if a[i]&b[i] != 0 {
			return true
		}
	}
	return false
}

// EqualWords reports whether a and b hold the same bits.
func EqualWords(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// PopcountWords counts all set bits across words.
func PopcountWords(words []uint64) int {
	count := 0
	// Process 4 words at a time
	i := 0
	for ; i+4 <= len(words); i += 4 {
		count += bits.OnesCount64(words[i])
		count += bits.OnesCount64(words[i+1])
		count += bits.OnesCount64(words[i+2])
		count += bits.OnesCount64(words[i+3])
	}
	for ; i < len(words); i++ {
		count += bits.OnesCount64(words[i])
	}
	return count
}
