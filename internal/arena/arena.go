// Package arena provides a bump allocator that owns the AST node structs
// the parser produces during a single compilation; slice backing arrays
// and generated Batch text are ordinary Go allocations.
// It is modeled on the bump realloc in the reference compiler
// (std/Allocator.c's bumpRealloc): a single fixed-size backing buffer is
// allocated up front, and every value handed out is carved out of it by
// advancing a monotonic cursor, rather than by independent heap
// allocations with a counter bolted on the side. Freeing is honored only
// as a stack pop of the most recent allocation via Mark/Release;
// everything else wastes space until the whole arena is reset or
// discarded.
package arena

import (
	"errors"
	"unsafe"
)

// ErrArenaExhausted is returned by New and NewSlice when an allocation
// would grow the arena past its configured limit. It is the only error
// the arena returns.
var ErrArenaExhausted = errors.New("arena: exhausted")

// DefaultLimit is used by New when no explicit limit is given. A
// single-pass compilation of even a large bb source file stays well
// under this.
const DefaultLimit = 64 << 20 // 64 MiB

// Arena is a bump allocator over a single backing buffer. The zero
// value is not usable; use New.
type Arena struct {
	buf   []byte
	used  uint64
	marks []uint64
}

// New creates an Arena backed by a single buffer of limit bytes,
// signaling ErrArenaExhausted once that buffer is full. A limit of 0
// selects DefaultLimit.
func New(limit uint64) *Arena {
	if limit == 0 {
		limit = DefaultLimit
	}
	return &Arena{buf: make([]byte, limit)}
}

// Used reports the number of bytes bumped so far.
func (a *Arena) Used() uint64 { return a.used }

// bump reserves n bytes aligned to align, rounding the cursor up to the
// next multiple of align before carving out the region, matching the
// reference allocator's own alignment of its cursor ahead of each
// allocation. It returns the byte offset of the reserved region within
// buf.
func (a *Arena) bump(n, align uint64) (uint64, error) {
	offset := (a.used + align - 1) &^ (align - 1)
	if offset+n > uint64(len(a.buf)) {
		return 0, ErrArenaExhausted
	}
	a.used = offset + n
	return offset, nil
}

// Mark records the current cursor so a later Release can pop every
// allocation made since, matching the reference allocator's
// stack-discipline free.
func (a *Arena) Mark() { a.marks = append(a.marks, a.used) }

// Release pops the cursor back to the most recent Mark. Releasing
// without a matching Mark is a no-op: the reference allocator treats
// any free that isn't the top-most allocation as wasted memory rather
// than a usable operation, and Release never makes that situation
// worse.
func (a *Arena) Release() {
	if len(a.marks) == 0 {
		return
	}
	last := len(a.marks) - 1
	a.used = a.marks[last]
	a.marks = a.marks[:last]
}

// Reset returns the arena to empty, as if newly created. The driver
// does not call it: each command creates its own arena and drops it
// when the process exits.
func (a *Arena) Reset() {
	a.used = 0
	a.marks = a.marks[:0]
}

// New carves a zero-valued T out of a's backing buffer and returns a
// pointer into it, accounting its size and alignment against the
// arena's limit. The carved region is explicitly cleared before use,
// since Mark/Release can hand back memory a prior allocation left
// dirty.
//
// Every node reachable only through a pointer carved this way is kept
// alive by the Arena's own buf field, not by the pointer itself — the
// garbage collector never needs to trace through bytes it considers
// opaque, because the whole backing buffer is one reachable allocation
// for as long as the Arena (or a slice derived from it) is reachable.
// String fields borrowed from the original source buffer remain valid
// for the same reason any other borrowed slice would: the caller that
// owns the source text keeps it alive for the duration of the
// compilation.
func New[T any](a *Arena) (*T, error) {
	var zero T
	size := uint64(unsafe.Sizeof(zero))
	align := uint64(unsafe.Alignof(zero))
	offset, err := a.bump(size, align)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return new(T), nil
	}
	clear(a.buf[offset : offset+size])
	return (*T)(unsafe.Pointer(&a.buf[offset])), nil
}

// NewSlice carves n contiguous T values out of a's backing buffer,
// accounting the total size against the arena's limit.
func NewSlice[T any](a *Arena, n int) ([]T, error) {
	var zero T
	size := uint64(unsafe.Sizeof(zero))
	align := uint64(unsafe.Alignof(zero))
	total := size * uint64(n)
	offset, err := a.bump(total, align)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return make([]T, n), nil
	}
	clear(a.buf[offset : offset+total])
	return unsafe.Slice((*T)(unsafe.Pointer(&a.buf[offset])), n), nil
}
