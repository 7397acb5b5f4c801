//go:build !amd64 || purego

package cycles

import "time"

const source = "monotonic"

var epoch = time.Now()

func now() uint64 {
	return uint64(float64(time.Since(epoch).Nanoseconds()) * NominalGHz)
}
