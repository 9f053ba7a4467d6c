package workers

import (
	"runtime"
	"testing"
)

func TestCount(t *testing.T) {
	available := runtime.GOMAXPROCS(0)

	tests := []struct {
		name       string
		multiplier float64
		limit      int
		want       int
	}{
		{"One per CPU", 1.0, 0, available},
		{"Capped", 1.0, 1, 1},
		{"Never below one", 0.0001, 0, 1},
		{"Half", 0.5, 0, max(1, available/2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.multiplier, tt.limit); got != tt.want {
				t.Errorf("Count(%v, %d) = %d, want %d", tt.multiplier, tt.limit, got, tt.want)
			}
		})
	}
}

func TestDefaultsArePositive(t *testing.T) {
	if got := ForVideo(0); got < 1 {
		t.Errorf("ForVideo(0) = %d, want >= 1", got)
	}
	if got := ForImages(0); got < 1 {
		t.Errorf("ForImages(0) = %d, want >= 1", got)
	}
	if got := ForVideo(2); got > 2 {
		t.Errorf("ForVideo(2) = %d, want <= 2", got)
	}
}
