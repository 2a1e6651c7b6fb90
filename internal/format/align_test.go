package format

import "testing"

func TestIsPowerOfTwo(t *testing.T) {
	for _, v := range []uintptr{1, 2, 8, 64, 4096, PageSize8K, PageSize2M} {
		if !IsPowerOfTwo(v) {
			t.Fatalf("IsPowerOfTwo(%d) = false", v)
		}
	}
	for _, v := range []uintptr{0, 3, 96, 112, PageSize8K - 1} {
		if IsPowerOfTwo(v) {
			t.Fatalf("IsPowerOfTwo(%d) = true", v)
		}
	}
}

func TestIsAligned(t *testing.T) {
	cases := []struct {
		v, align uintptr
		want     bool
	}{
		{0, 8, true},
		{8, 8, true},
		{12, 8, false},
		{PageSize8K, PageSize8K, true},
		{PageSize8K + 64, PageSize8K, false},
		{3 * PageSize2M, PageSize2M, true},
	}
	for _, c := range cases {
		if got := IsAligned(c.v, c.align); got != c.want {
			t.Fatalf("IsAligned(%d, %d) = %v, want %v", c.v, c.align, got, c.want)
		}
	}
}

func TestAlignUpDown(t *testing.T) {
	if got := AlignUp(1, 8); got != 8 {
		t.Fatalf("AlignUp(1, 8) = %d", got)
	}
	if got := AlignUp(8, 8); got != 8 {
		t.Fatalf("AlignUp(8, 8) = %d", got)
	}
	if got := AlignUp(4097, 4096); got != 8192 {
		t.Fatalf("AlignUp(4097, 4096) = %d", got)
	}
	if got := AlignDown(8191, 8192); got != 0 {
		t.Fatalf("AlignDown(8191, 8192) = %d", got)
	}
	if got := AlignDown(12345, 8192); got != 8192 {
		t.Fatalf("AlignDown(12345, 8192) = %d", got)
	}
	// Round-tripping any in-page address through AlignDown recovers the base.
	base := uintptr(7 * PageSize8K)
	for _, off := range []uintptr{0, 1, 64, PageSize8K - 1} {
		if got := AlignDown(base+off, PageSize8K); got != base {
			t.Fatalf("AlignDown(%#x, 8192) = %#x, want %#x", base+off, got, base)
		}
	}
}
