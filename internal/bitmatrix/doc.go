// Package bitmatrix provides a dense, fixed-size square bit matrix.
//
// # Memory Layout
//
// A Matrix of size n stores n rows of stride = ⌈n/64⌉ uint64 words in a single
// contiguous slice:
//
//	┌──────────────────────────┬──────────────────────────┬─────┐
//	│  row 0 (stride words)    │  row 1 (stride words)    │ ... │
//	│  bit j = relation(0, j)  │  bit j = relation(1, j)  │     │
//	└──────────────────────────┴──────────────────────────┴─────┘
//
// Memory cost is n·stride·8 bytes (≈ n²/8) and is paid once in New. Nothing in
// this package grows a matrix; migrating to a larger size means allocating a
// new Matrix and calling CopyInto.
//
// # Complexity
//
//   - Test, Set, Clear: O(1), one word access
//   - OrRow, OrRowExcept: O(n/64)
//   - Popcount(row): O(n/64)
//   - Count, Equal, IsSubsetOf: O(n²/64)
//
// Matrix is not safe for concurrent mutation. Concurrent Test calls are safe
// while no writer is active.
package bitmatrix
