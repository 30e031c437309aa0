package api

import "testing"

func TestNormalizeLimitOffset(t *testing.T) {
	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", limit: 0, offset: 0, wantLimit: 100, wantOffset: 0},
		{name: "negative offset", limit: 25, offset: -5, wantLimit: 25, wantOffset: 0},
		{name: "negative limit", limit: -1, offset: 3, wantLimit: 100, wantOffset: 3},
		{name: "pass through", limit: 10, offset: 2, wantLimit: 10, wantOffset: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := normalizeLimitOffset(tt.limit, tt.offset)
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Fatalf("expected (%d, %d), got (%d, %d)", tt.wantLimit, tt.wantOffset, limit, offset)
			}
		})
	}
}

func TestParseIndex(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{in: "0", want: 0, ok: true},
		{in: "12", want: 12, ok: true},
		{in: "-1", ok: false},
		{in: "abc", ok: false},
		{in: "", ok: false},
	}
	for _, tt := range tests {
		got, ok := parseIndex(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("parseIndex(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseIntDefault(t *testing.T) {
	if got := parseIntDefault("", 6); got != 6 {
		t.Fatalf("expected fallback, got %d", got)
	}
	if got := parseIntDefault("x", 6); got != 6 {
		t.Fatalf("expected fallback for junk, got %d", got)
	}
	if got := parseIntDefault("12", 6); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
}
