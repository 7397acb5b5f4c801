package simd

import (
	"runtime"
	"strings"
)

// ISA represents the widest SIMD instruction set the host offers.
type ISA uint8

const (
	// Generic represents a CPU without any of the tracked extensions.
	Generic ISA = iota
	// NEON represents ARM64 NEON (ASIMD).
	NEON
	// SVE2 represents ARM64 SVE2.
	SVE2
	// AVX2 represents x86-64 AVX2 with FMA.
	AVX2
	// AVX512 represents x86-64 AVX-512 (F+BW).
	AVX512
)

// String returns the string representation of an ISA.
func (i ISA) String() string {
	switch i {
	case Generic:
		return "generic"
	case NEON:
		return "neon"
	case SVE2:
		return "sve2"
	case AVX2:
		return "avx2"
	case AVX512:
		return "avx512"
	default:
		return "unknown"
	}
}

// Features is a snapshot of the CPU capabilities relevant to bit kernels.
type Features struct {
	Arch   string
	ISA    ISA
	POPCNT bool
	BMI2   bool
}

// String renders the feature set as "arch/isa+ext,ext".
func (f Features) String() string {
	var ext []string
	if f.POPCNT {
		ext = append(ext, "popcnt")
	}
	if f.BMI2 {
		ext = append(ext, "bmi2")
	}
	s := f.Arch + "/" + f.ISA.String()
	if len(ext) > 0 {
		s += "+" + strings.Join(ext, ",")
	}
	return s
}

// Package-level state - initialized once at package init.
var (
	hasASIMD    bool
	hasSVE2     bool
	hasAVX2     bool
	hasAVX512F  bool
	hasAVX512BW bool
	hasPOPCNT   bool
	hasBMI2     bool
)

// Detect returns the capabilities detected at init.
func Detect() Features {
	return Features{
		Arch:   runtime.GOARCH,
		ISA:    selectBestISA(),
		POPCNT: hasPOPCNT,
		BMI2:   hasBMI2,
	}
}

// selectBestISA chooses the widest ISA for the current platform.
func selectBestISA() ISA {
	switch runtime.GOARCH {
	case "arm64":
		if hasSVE2 {
			return SVE2
		}
		if hasASIMD {
			return NEON
		}
	case "amd64":
		if hasAVX512F && hasAVX512BW {
			return AVX512
		}
		if hasAVX2 {
			return AVX2
		}
	}
	return Generic
}
