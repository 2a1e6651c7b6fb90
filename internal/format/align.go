package format

// Alignment utilities for page and object addresses. Pages must start on
// boundaries equal to their own size, and object addresses must satisfy the
// alignment of the layout they were allocated under.

// IsPowerOfTwo reports whether v is a power of two. Zero is not.
//
// Example:
//
//	IsPowerOfTwo(1)    = true
//	IsPowerOfTwo(8192) = true
//	IsPowerOfTwo(96)   = false
func IsPowerOfTwo(v uintptr) bool {
	return v != 0 && v&(v-1) == 0
}

// IsAligned reports whether v is a multiple of align.
// align must be a power of two.
//
// Example:
//
//	IsAligned(8192, 8192) = true
//	IsAligned(8256, 8192) = false
//	IsAligned(0, 8)       = true
func IsAligned(v, align uintptr) bool {
	return v&(align-1) == 0
}

// AlignUp returns v rounded up to the next multiple of align.
// align must be a power of two.
//
// Example:
//
//	AlignUp(1, 8)       = 8
//	AlignUp(8, 8)       = 8
//	AlignUp(4097, 4096) = 8192
func AlignUp(v, align uintptr) uintptr {
	return (v + align - 1) & ^(align - 1)
}

// AlignDown returns v rounded down to the previous multiple of align.
// align must be a power of two. Applied to any in-page address with the
// page size, it recovers the page base.
//
// Example:
//
//	AlignDown(8191, 8192) = 0
//	AlignDown(8192, 8192) = 8192
//	AlignDown(12345, 8192) = 8192
func AlignDown(v, align uintptr) uintptr {
	return v & ^(align - 1)
}
