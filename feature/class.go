package feature

import "fmt"

// Class is one of the canonical machining feature classes the
// segmentation head scores. The set is closed; Stock is the reserved
// background class and is never emitted as a feature.
type Class uint8

const (
	Chamfer Class = iota
	ThroughHole
	TriangularPassage
	RectangularPassage
	SixSidesPassage
	TriangularThroughSlot
	RectangularThroughSlot
	CircularThroughSlot
	RectangularThroughStep
	TwoSidesThroughStep
	SlantedThroughStep
	ORing
	BlindHole
	TriangularPocket
	RectangularPocket
	SixSidesPocket
	CircularEndPocket
	RectangularBlindSlot
	VCircularEndBlindSlot
	HCircularEndBlindSlot
	TriangularBlindStep
	CircularBlindStep
	RectangularBlindStep
	Round
	Boss
	Stock
)

// Background is the class representing unmachined material.
const Background = Stock

// NumClasses is the width of the segmentation head output, background
// included.
const NumClasses = int(Stock) + 1

var classNames = [NumClasses]string{
	"chamfer",
	"through_hole",
	"triangular_passage",
	"rectangular_passage",
	"six_sides_passage",
	"triangular_through_slot",
	"rectangular_through_slot",
	"circular_through_slot",
	"rectangular_through_step",
	"two_sides_through_step",
	"slanted_through_step",
	"oring",
	"blind_hole",
	"triangular_pocket",
	"rectangular_pocket",
	"six_sides_pocket",
	"circular_end_pocket",
	"rectangular_blind_slot",
	"v_circular_end_blind_slot",
	"h_circular_end_blind_slot",
	"triangular_blind_step",
	"circular_blind_step",
	"rectangular_blind_step",
	"round",
	"boss",
	"stock",
}

// String returns the canonical snake_case name of the class.
func (c Class) String() string {
	if int(c) >= NumClasses {
		return fmt.Sprintf("class(%d)", uint8(c))
	}
	return classNames[c]
}

// ParseClass resolves a canonical class name.
func ParseClass(name string) (Class, bool) {
	for i, n := range classNames {
		if n == name {
			return Class(i), true
		}
	}
	return 0, false
}
