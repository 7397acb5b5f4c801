// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Bit matrices are allocated on 64-byte boundaries so that a row whose
// stride is a multiple of eight words never straddles a cache line.
package mem
