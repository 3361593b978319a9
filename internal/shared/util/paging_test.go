package util

import "testing"

func TestPage(t *testing.T) {
	cases := []struct {
		limit, offset         string
		wantLimit, wantOffset int
	}{
		{"", "", DefaultPageLimit, 0},
		{"5", "10", 5, 10},
		{"500", "-3", MaxPageLimit, 0},
		{"abc", "x", DefaultPageLimit, 0},
		{"0", "0", DefaultPageLimit, 0},
	}
	for _, tc := range cases {
		l, o := Page(tc.limit, tc.offset)
		if l != tc.wantLimit || o != tc.wantOffset {
			t.Fatalf("Page(%q, %q) = %d, %d; want %d, %d", tc.limit, tc.offset, l, o, tc.wantLimit, tc.wantOffset)
		}
	}
}

func TestWindow(t *testing.T) {
	if s, e := Window(10, 3, 2); s != 2 || e != 5 {
		t.Fatalf("got %d,%d", s, e)
	}
	if s, e := Window(10, 0, 8); s != 8 || e != 10 {
		t.Fatalf("got %d,%d", s, e)
	}
	if s, e := Window(3, 5, 7); s != 3 || e != 3 {
		t.Fatalf("got %d,%d", s, e)
	}
}
