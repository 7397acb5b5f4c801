//go:build amd64 && !purego

package cycles

const source = "rdtsc"

// rdtsc is implemented in cycles_amd64.s.
//
//go:noescape
func rdtsc() uint64

func now() uint64 {
	return rdtsc()
}
