package bitmatrix

import (
	"errors"
	"math/bits"

	"github.com/hupe1980/owlgo/internal/mem"
	"github.com/hupe1980/owlgo/internal/simd"
)

// WordBits is the number of bits per word.
const WordBits = 64

// ErrSizeMismatch is returned when two matrices cannot be combined.
var ErrSizeMismatch = errors.New("bitmatrix: size mismatch")

// Matrix is a dense n×n bit matrix.
type Matrix struct {
	// words is the backing storage, row-major, stride words per row.
	words []uint64

	// n is the number of rows (and columns).
	n uint32

	// stride is the number of words per row.
	stride int
}

// Stride returns the number of words needed per row for n columns.
func Stride(n uint32) int {
	return int((uint64(n) + WordBits - 1) / WordBits)
}

// MemoryBytes returns the number of bytes a Matrix of size n allocates.
func MemoryBytes(n uint32) uint64 {
	return uint64(n) * uint64(Stride(n)) * 8
}

// New allocates a zeroed n×n matrix starting on a cache line.
func New(n uint32) *Matrix {
	stride := Stride(n)
	return &Matrix{
		words:  mem.AllocAlignedWords(int(n) * stride),
		n:      n,
		stride: stride,
	}
}

// Size returns the number of rows.
func (m *Matrix) Size() uint32 {
	return m.n
}

// Stride returns the number of words per row.
func (m *Matrix) Stride() int {
	return m.stride
}

// Test reports whether bit (i, j) is set. Out-of-range coordinates return false.
func (m *Matrix) Test(i, j uint32) bool {
	if i >= m.n || j >= m.n {
		return false
	}
	return m.words[int(i)*m.stride+int(j>>6)]&(1<<(j&63)) != 0
}

// Set sets bit (i, j) and reports whether it was previously unset.
// Out-of-range coordinates are ignored.
func (m *Matrix) Set(i, j uint32) bool {
	if i >= m.n || j >= m.n {
		return false
	}
	idx := int(i)*m.stride + int(j>>6)
	mask := uint64(1) << (j & 63)
	if m.words[idx]&mask != 0 {
		return false
	}
	m.words[idx] |= mask
	return true
}

// SetSymmetric sets (i, j) and (j, i) and reports whether either was unset.
func (m *Matrix) SetSymmetric(i, j uint32) bool {
	a := m.Set(i, j)
	b := m.Set(j, i)
	return a || b
}

// Clear unsets bit (i, j).
func (m *Matrix) Clear(i, j uint32) {
	if i >= m.n || j >= m.n {
		return
	}
	m.words[int(i)*m.stride+int(j>>6)] &^= 1 << (j & 63)
}

// Row returns the words of row i. The slice aliases the matrix; callers
// must not retain it across mutations they do not own.
func (m *Matrix) Row(i uint32) []uint64 {
	start := int(i) * m.stride
	return m.words[start : start+m.stride : start+m.stride]
}

// OrRow ORs row src into row dst and reports whether dst changed.
func (m *Matrix) OrRow(dst, src uint32) bool {
	if dst >= m.n || src >= m.n || dst == src {
		return false
	}
	return simd.OrWordsChanged(m.Row(dst), m.Row(src))
}

// OrRowExcept ORs row src into row dst without setting column skip, unless it
// was already set in dst. It reports whether dst gained any bit.
func (m *Matrix) OrRowExcept(dst, src, skip uint32) bool {
	if dst >= m.n || src >= m.n || dst == src {
		return false
	}
	d, s := m.Row(dst), m.Row(src)
	if skip >= m.n {
		return simd.OrWordsChanged(d, s)
	}
	wi := int(skip >> 6)
	changed := simd.OrWordsChanged(d[:wi], s[:wi])
	add := s[wi] &^ d[wi] &^ (1 << (skip & 63))
	d[wi] |= add
	if simd.OrWordsChanged(d[wi+1:], s[wi+1:]) {
		changed = true
	}
	return changed || add != 0
}

// OrRowFrom ORs row src of other into row dst of m. Both matrices must have
// the same size.
func (m *Matrix) OrRowFrom(dst uint32, other *Matrix, src uint32) bool {
	if dst >= m.n || src >= other.n || m.stride != other.stride {
		return false
	}
	return simd.OrWordsChanged(m.Row(dst), other.Row(src))
}

// RowIntersects reports whether row i of m and row j of other share a bit.
func (m *Matrix) RowIntersects(i uint32, other *Matrix, j uint32) bool {
	if i >= m.n || j >= other.n || m.stride != other.stride {
		return false
	}
	return simd.AndAny(m.Row(i), other.Row(j))
}

// RowIntersectsWords reports whether row i shares a bit with mask, a vector
// of Stride() words.
func (m *Matrix) RowIntersectsWords(i uint32, mask []uint64) bool {
	if i >= m.n || len(mask) != m.stride {
		return false
	}
	return simd.AndAny(m.Row(i), mask)
}

// Popcount returns the number of set bits in row i.
func (m *Matrix) Popcount(i uint32) int {
	if i >= m.n {
		return 0
	}
	return simd.PopcountWords(m.Row(i))
}

// Count returns the number of set bits in the whole matrix.
func (m *Matrix) Count() int {
	return simd.PopcountWords(m.words)
}

// ForEachInRow calls fn for every set column of row i in ascending order.
// The word is re-read after each call, so bits fn sets at higher columns of
// the same row are visited too. Iteration stops when fn returns false.
func (m *Matrix) ForEachInRow(i uint32, fn func(j uint32) bool) {
	if i >= m.n {
		return
	}
	row := m.Row(i)
	for w := range row {
		var seen uint64
		for {
			pending := row[w] &^ seen
			if pending == 0 {
				break
			}
			bit := uint64(bits.TrailingZeros64(pending))
			seen |= 1 << bit
			if !fn(uint32(w)*WordBits + uint32(bit)) {
				return
			}
		}
	}
}

// Equal reports whether m and other hold identical bits.
func (m *Matrix) Equal(other *Matrix) bool {
	if other == nil || m.n != other.n {
		return false
	}
	return simd.EqualWords(m.words, other.words)
}

// IsSubsetOf reports whether every bit of m is also set in other.
func (m *Matrix) IsSubsetOf(other *Matrix) bool {
	if other == nil || m.n != other.n {
		return false
	}
	for i, w := range m.words {
		if w&^other.words[i] != 0 {
			return false
		}
	}
	return true
}

// FirstAsymmetry returns the first (i, j) with bit (i, j) set and (j, i)
// unset. ok is false when the matrix is symmetric.
func (m *Matrix) FirstAsymmetry() (i, j uint32, ok bool) {
	for r := uint32(0); r < m.n; r++ {
		m.ForEachInRow(r, func(c uint32) bool {
			if !m.Test(c, r) {
				i, j, ok = r, c, true
				return false
			}
			return true
		})
		if ok {
			return i, j, true
		}
	}
	return 0, 0, false
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	words := mem.AllocAlignedWords(len(m.words))
	copy(words, m.words)
	return &Matrix{words: words, n: m.n, stride: m.stride}
}

// CopyInto copies every bit of m into dst, which must be at least as large.
func (m *Matrix) CopyInto(dst *Matrix) error {
	if dst == nil || dst.n < m.n {
		return ErrSizeMismatch
	}
	for i := uint32(0); i < m.n; i++ {
		copy(dst.Row(i), m.Row(i))
	}
	return nil
}

// Release drops the backing storage. Every later Test returns false.
func (m *Matrix) Release() {
	m.words = nil
	m.n = 0
	m.stride = 0
}
