package conv

import (
	"math"
	"testing"
)

func TestAppendUint(t *testing.T) {
	for _, c := range []struct {
		n    uint64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{800, "800"},
		{math.MaxUint64, "18446744073709551615"},
	} {
		if got := string(AppendUint(nil, c.n)); got != c.want {
			t.Fatalf("AppendUint(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestAppendInt(t *testing.T) {
	for _, c := range []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{-1, "-1"},
		{5000, "5000"},
		{math.MinInt64, "-9223372036854775808"},
	} {
		if got := string(AppendInt([]byte("x="), c.n)); got != "x="+c.want {
			t.Fatalf("AppendInt(%d) = %q, want %q", c.n, got, "x="+c.want)
		}
	}
}
