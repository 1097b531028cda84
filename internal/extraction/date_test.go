package extraction

import (
	"testing"
	"time"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"canonical is idempotent", "2024-03-15", "2024-03-15", true},
		{"year first with slashes", "2024/3/5", "2024-03-05", true},
		{"year first with dots", "2024.12.01", "2024-12-01", true},
		{"day month year", "15-03-2024", "2024-03-15", true},
		{"day month two digit year", "15.03.24", "2024-03-15", true},
		{"day first even when ambiguous", "03/10/2024", "2024-10-03", true},
		{"single digit parts padded", "5/6/2024", "2024-06-05", true},
		{"impossible month", "13/13/2024", "", false},
		{"two parts only", "15-03", "", false},
		{"not a date", "soon", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := normalizeDate(tt.raw)
			if ok != tt.ok {
				t.Fatalf("normalizeDate(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if !tt.ok {
				return
			}
			want, err := time.Parse("2006-01-02", tt.want)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(want) {
				t.Errorf("normalizeDate(%q) = %s, want %s", tt.raw, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestNormalizeDateIdempotent(t *testing.T) {
	first, ok := normalizeDate("7-4-2023")
	if !ok {
		t.Fatal("first normalization failed")
	}
	second, ok := normalizeDate(first.Format("2006-01-02"))
	if !ok {
		t.Fatal("re-normalizing canonical output failed")
	}
	if !first.Equal(second) {
		t.Errorf("normalization not idempotent: %s vs %s", first, second)
	}
}
