package theme

import (
	"image/color"
	"testing"
)

func TestScoreBands(t *testing.T) {
	tests := []struct {
		score float64
		want  color.Color
	}{
		{100, Success},
		{80, Success},
		{79.9, Warning},
		{60, Warning},
		{59.99, Error},
		{0, Error},
	}
	for _, tt := range tests {
		if got := Score(tt.score).GetForeground(); got != tt.want {
			t.Errorf("Score(%v) foreground = %v, want %v", tt.score, got, tt.want)
		}
	}
}
