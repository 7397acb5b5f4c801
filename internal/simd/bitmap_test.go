package simd

import (
	"math/bits"
	"math/rand"
	"strings"
	"testing"
)

func TestOrWords(t *testing.T) {
	tests := []struct {
		name string
		dst  []uint64
		src  []uint64
		want []uint64
	}{
		{
			name: "Empty",
			dst:  []uint64{},
			src:  []uint64{},
			want: []uint64{},
		},
		{
			name: "Single word",
			dst:  []uint64{0xFF00FF00FF00FF00},
			src:  []uint64{0x0F0F0F0F0F0F0F0F},
			want: []uint64{0xFF0FFF0FFF0FFF0F},
		},
		{
			name: "4 words (unroll boundary)",
			dst:  []uint64{0x01, 0x02, 0x04, 0x08},
			src:  []uint64{0x10, 0x20, 0x40, 0x80},
			want: []uint64{0x11, 0x22, 0x44, 0x88},
		},
		{
			name: "5 words (unroll + tail)",
			dst:  []uint64{0, 0, 0, 0, 0x1},
			src:  []uint64{0, 0, 0, 0, 0x2},
			want: []uint64{0, 0, 0, 0, 0x3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]uint64, len(tt.dst))
			copy(dst, tt.dst)
			OrWords(dst, tt.src)
			for i := range dst {
				if dst[i] != tt.want[i] {
					t.Errorf("word %d: got %#x, want %#x", i, dst[i], tt.want[i])
				}
			}
		})
	}
}

func TestOrWordsChanged(t *testing.T) {
	dst := []uint64{0x1, 0, 0, 0, 0, 0x3}
	src := []uint64{0x1, 0, 0, 0, 0, 0x1}
	if OrWordsChanged(dst, src) {
		t.Errorf("expected no change when src is a subset of dst")
	}

	src[5] = 0x4
	if !OrWordsChanged(dst, src) {
		t.Errorf("expected change when src adds a bit in the tail")
	}
	if dst[5] != 0x7 {
		t.Errorf("got %#x, want 0x7", dst[5])
	}

	src[2] = 0x8
	if !OrWordsChanged(dst, src) {
		t.Errorf("expected change when src adds a bit in the unrolled body")
	}
	if OrWordsChanged(dst, src) {
		t.Errorf("second OR of the same src must not report a change")
	}
}

func TestAndAny(t *testing.T) {
	a := []uint64{0x1, 0, 0x80}
	b := []uint64{0x2, 0, 0x01}
	if AndAny(a, b) {
		t.Errorf("expected disjoint words")
	}
	b[2] = 0x80
	if !AndAny(a, b) {
		t.Errorf("expected shared bit in word 2")
	}
}

func TestEqualWords(t *testing.T) {
	if !EqualWords([]uint64{1, 2}, []uint64{1, 2}) {
		t.Errorf("expected equal")
	}
	if EqualWords([]uint64{1, 2}, []uint64{1, 3}) {
		t.Errorf("expected different")
	}
	if EqualWords([]uint64{1}, []uint64{1, 0}) {
		t.Errorf("different lengths must not compare equal")
	}
}

func TestPopcountWords(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, n := range []int{0, 1, 3, 4, 7, 16, 33} {
		words := make([]uint64, n)
		want := 0
		for i := range words {
			words[i] = rng.Uint64()
			want += bits.OnesCount64(words[i])
		}
		if got := PopcountWords(words); got != want {
			t.Errorf("n=%d: got %d, want %d", n, got, want)
		}
	}
}

func TestDetect(t *testing.T) {
	f := Detect()
	if f.Arch == "" {
		t.Fatalf("expected arch to be set")
	}
	if !strings.HasPrefix(f.String(), f.Arch+"/"+f.ISA.String()) {
		t.Errorf("unexpected feature string %q", f.String())
	}
}
