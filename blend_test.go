package meshgradient

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestBlendSpaceString(t *testing.T) {
	tests := []struct {
		s    BlendSpace
		want string
	}{
		{BlendSRGB, "srgb"},
		{BlendLinear, "linear"},
		{BlendOkLab, "oklab"},
		{BlendSpace(9), "BlendSpace(9)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseBlendSpace(t *testing.T) {
	for _, s := range []BlendSpace{BlendSRGB, BlendLinear, BlendOkLab} {
		got, err := ParseBlendSpace(" " + s.String() + " ")
		if err != nil || got != s {
			t.Errorf("ParseBlendSpace(%q) = %v, %v", s.String(), got, err)
		}
	}
	if got, err := ParseBlendSpace("OkLab"); err != nil || got != BlendOkLab {
		t.Errorf("ParseBlendSpace(\"OkLab\") = %v, %v, want oklab", got, err)
	}
	if _, err := ParseBlendSpace("hsv"); err == nil {
		t.Error("expected error for unknown blend space")
	}
}

func TestBlendSpaceRoundTrip(t *testing.T) {
	approx := cmpopts.EquateApprox(0, 1e-6)
	colors := []Color{Peach, Purple, Teal, Gold, RGB(0, 0, 0), RGB(1, 1, 1)}
	for _, s := range []BlendSpace{BlendSRGB, BlendLinear, BlendOkLab} {
		for _, c := range colors {
			if got := s.fromWorking(s.toWorking(c)); !cmp.Equal(got, c, approx) {
				t.Errorf("%v round trip of %v = %v", s, c, got)
			}
		}
	}
}

func TestBlendSpacesDifferAtMidpoint(t *testing.T) {
	// Halfway between red and blue the spaces disagree on brightness.
	mid := func(s BlendSpace) Color {
		a, b := s.toWorking(RGB(1, 0, 0)), s.toWorking(RGB(0, 0, 1))
		return s.fromWorking([3]float64{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2, (a[2] + b[2]) / 2})
	}
	srgb, linear := mid(BlendSRGB), mid(BlendLinear)
	if srgb.R != 0.5 {
		t.Errorf("sRGB midpoint R = %v, want 0.5", srgb.R)
	}
	if linear.R <= srgb.R {
		t.Errorf("linear midpoint R = %v should be brighter than sRGB %v", linear.R, srgb.R)
	}
}
