package texture

import "testing"

func TestNewCheckerAlternates(t *testing.T) {
	white := Texel{1, 1, 1, 1}
	black := Texel{0, 0, 0, 1}
	tex := NewChecker(4, 4, 1, white, black)

	if got := tex.GetTexel(0, 0); got != white {
		t.Errorf("(0,0) = %v, want white", got)
	}
	if got := tex.GetTexel(1, 0); got != black {
		t.Errorf("(1,0) = %v, want black", got)
	}
}

func TestSampleNearestClampsEdges(t *testing.T) {
	tex := New(2, 2)
	tex.WrapU, tex.WrapV = WrapClamp, WrapClamp
	tex.SetTexel(1, 1, Texel{1, 0, 0, 1}) // image bottom-right

	c := tex.SampleScalar(1.5, -0.5)
	if c.R != 1 {
		t.Errorf("expected red texel near (1,1), got %v", c)
	}
}

func TestWrapRepeat(t *testing.T) {
	tex := New(1, 1)
	tex.SetTexel(0, 0, Texel{0.5, 0.5, 0.5, 1})

	c := tex.SampleScalar(1.5, 1.5)
	if c.R != 0.5 {
		t.Errorf("repeat wrap should land on the single texel, got %v", c)
	}
}

func TestGetTexelOutOfBounds(t *testing.T) {
	tex := New(2, 2)
	if got := tex.GetTexel(-1, 0); got != (Texel{}) {
		t.Errorf("out-of-bounds GetTexel should return zero value, got %v", got)
	}
}
