package color

import (
	"math"
	"testing"
)

func TestSRGBToLinear_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"black", 0, 0},
		{"white", 1, 1},
		{"linear segment", 0.04, 0.04 / 12.92},
		{"mid gray", 0.5, 0.21404114048223255},
		{"negative mirrors", -0.5, -0.21404114048223255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SRGBToLinear(tt.in)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SRGBToLinear(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for i := -20; i <= 140; i++ {
		s := float64(i) / 100
		got := LinearToSRGB(SRGBToLinear(s))
		if math.Abs(got-s) > 1e-9 {
			t.Errorf("round trip %v -> %v", s, got)
		}
	}
}

func TestRGB_Conversions(t *testing.T) {
	c := RGB{0.9, 0.4, 0.3}
	back := c.ToLinear().ToSRGB()
	for i := range c {
		if math.Abs(back[i]-c[i]) > 1e-9 {
			t.Errorf("channel %d: got %v, want %v", i, back[i], c[i])
		}
	}
	lin := c.ToLinear()
	for i := range lin {
		if lin[i] > c[i] {
			t.Errorf("channel %d: linear %v should not exceed sRGB %v", i, lin[i], c[i])
		}
	}
}

func BenchmarkSRGBToLinear(b *testing.B) {
	var sink float64
	for i := 0; i < b.N; i++ {
		sink += SRGBToLinear(float64(i&255) / 255)
	}
	_ = sink
}
