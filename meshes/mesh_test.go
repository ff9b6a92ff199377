package meshes

import (
	"testing"

	"github.com/bloeys/gglm/gglm"
)

func TestInterleave(t *testing.T) {

	positions := []gglm.Vec3{
		{Data: [3]float32{1, 2, 3}},
		{Data: [3]float32{4, 5, 6}},
	}
	uvs := []gglm.Vec2{
		{Data: [2]float32{0.1, 0.2}},
		{Data: [2]float32{0.3, 0.4}},
	}

	got := interleave(arrToInterleave{V3s: positions}, arrToInterleave{V2s: uvs})

	want := []float32{
		1, 2, 3, 0.1, 0.2,
		4, 5, 6, 0.3, 0.4,
	}

	if len(got) != len(want) {
		t.Fatalf("interleaved length = %d, want %d", len(got), len(want))
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("interleaved[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestV3sToV2sDropsZ(t *testing.T) {

	v3s := []gglm.Vec3{
		{Data: [3]float32{1, 2, 99}},
		{Data: [3]float32{3, 4, 99}},
	}

	v2s := v3sToV2s(v3s)
	if len(v2s) != 2 {
		t.Fatalf("len = %d, want 2", len(v2s))
	}

	if v2s[0].Data != [2]float32{1, 2} || v2s[1].Data != [2]float32{3, 4} {
		t.Fatalf("unexpected conversion: %+v", v2s)
	}
}
