package feature

import (
	"fmt"

	"github.com/anthony94polson/smart-toolpath-ai/geometry"
	"github.com/anthony94polson/smart-toolpath-ai/tensor"
)

// Feature is one detected machining feature instance.
type Feature struct {
	// Class is the winning canonical class. Never Stock.
	Class Class

	// Confidence is the summed winning-class logit divided by the
	// group size. It is a relative score over raw logits, not a
	// probability, and may fall outside [0, 1].
	Confidence float32

	// Position is the centroid of the member face centroids.
	Position geometry.Vec3

	// Normal is the normalized mean of the member face normals, or
	// +Z when the member normals cancel out.
	Normal geometry.Vec3

	// Dimension is the largest extent among the member faces and
	// feeds the dimension and machining parameter policies.
	Dimension float32

	// Faces lists the member face ids, ascending.
	Faces []int

	// Bottoms lists the member faces the bottom head flags, a subset
	// of Faces.
	Bottoms []int
}

// Assemble scores each proposal against the class logits and emits
// one Feature per proposal whose winning class is not background.
// Proposals that argmax to background are dropped: they are stock,
// not features. Ties on the summed logits resolve to the lowest
// class index.
func Assemble(faces []geometry.Face, proposals [][]int, classLogits tensor.Matrix, bottomLogits []float32) []Feature {
	if classLogits.Rows != len(faces) || (classLogits.Rows > 0 && classLogits.Cols != NumClasses) {
		panic(fmt.Sprintf("feature: class logits %dx%d for %d faces, want %dx%d",
			classLogits.Rows, classLogits.Cols, len(faces), len(faces), NumClasses))
	}

	var out []Feature
	for _, members := range proposals {
		if len(members) == 0 {
			continue
		}

		summed := make([]float32, NumClasses)
		for _, m := range members {
			for c, v := range classLogits.Row(m) {
				summed[c] += v
			}
		}

		win := 0
		for c := 1; c < NumClasses; c++ {
			if summed[c] > summed[win] {
				win = c
			}
		}
		if Class(win) == Background {
			continue
		}

		f := Feature{
			Class:      Class(win),
			Confidence: summed[win] / float32(len(members)),
			Faces:      members,
		}

		var center, normal geometry.Vec3
		for _, m := range members {
			center = center.Add(faces[m].Center)
			normal = normal.Add(faces[m].Normal)
			if faces[m].Extent > f.Dimension {
				f.Dimension = faces[m].Extent
			}
			if tensor.Sigmoid(bottomLogits[m]) > 0.5 {
				f.Bottoms = append(f.Bottoms, m)
			}
		}
		f.Position = center.Scale(1 / float32(len(members)))
		if n, ok := normal.Normalized(1e-12); ok {
			f.Normal = n
		} else {
			f.Normal = geometry.Vec3{0, 0, 1}
		}

		out = append(out, f)
	}
	return out
}
