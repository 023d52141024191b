package geo

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestFieldTypeTags(t *testing.T) {
	if tag, ok := FieldReal.TypeTag(); !ok || tag != "Double" {
		t.Errorf("unexpected tag for FieldReal: %v", tag)
	}
	if _, ok := FieldInteger64.TypeTag(); ok {
		t.Errorf("FieldInteger64 must have no schema mapping")
	}
	if FieldInteger64.String() != "Integer64" {
		t.Errorf("unexpected string for FieldInteger64: %v", FieldInteger64)
	}
}

func TestTransformBound(t *testing.T) {
	// A transform that flips both axes still yields an ordered bound.
	flip := func(srcProj, dstProj string, pts []orb.Point) ([]orb.Point, error) {
		out := make([]orb.Point, len(pts))
		for i, pt := range pts {
			out[i] = orb.Point{-pt[0], -pt[1]}
		}
		return out, nil
	}

	in := orb.Bound{Min: orb.Point{10, 20}, Max: orb.Point{30, 40}}
	out, err := TransformBound("src", "dst", in, flip)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := orb.Bound{Min: orb.Point{-30, -40}, Max: orb.Point{-10, -20}}
	if out != want {
		t.Errorf("expected %v, actual %v", want, out)
	}
}
