package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassNames(t *testing.T) {
	assert.Equal(t, 26, NumClasses)
	assert.Equal(t, "stock", Background.String())
	assert.Equal(t, "through_hole", ThroughHole.String())
	assert.Equal(t, "v_circular_end_blind_slot", VCircularEndBlindSlot.String())

	seen := map[string]bool{}
	for c := Class(0); int(c) < NumClasses; c++ {
		name := c.String()
		assert.False(t, seen[name], "duplicate name %q", name)
		seen[name] = true

		parsed, ok := ParseClass(name)
		assert.True(t, ok)
		assert.Equal(t, c, parsed)
	}

	_, ok := ParseClass("warp_core")
	assert.False(t, ok)
}

func TestMachiningBuckets(t *testing.T) {
	tests := []struct {
		class Class
		want  Bucket
	}{
		{ThroughHole, BucketHole},
		{BlindHole, BucketHole},
		{TriangularPocket, BucketPocket},
		{RectangularPocket, BucketPocket},
		{SixSidesPocket, BucketPocket},
		{CircularEndPocket, BucketPocket},
		{TriangularThroughSlot, BucketSlot},
		{RectangularThroughSlot, BucketSlot},
		{CircularThroughSlot, BucketSlot},
		{RectangularBlindSlot, BucketSlot},
		{VCircularEndBlindSlot, BucketSlot},
		{HCircularEndBlindSlot, BucketSlot},
		{Chamfer, BucketDefault},
		{Round, BucketDefault},
		{ORing, BucketDefault},
		{Boss, BucketDefault},
		{SlantedThroughStep, BucketDefault},
		{Stock, BucketDefault},
	}
	for _, tt := range tests {
		t.Run(tt.class.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.class.MachiningBucket())
		})
	}
}

func TestMachiningParams(t *testing.T) {
	hole := ThroughHole.Machining(10)
	assert.Equal(t, "drill", hole.ToolType)
	assert.InDelta(t, 9.0, hole.ToolDiameter, 1e-9)
	assert.Equal(t, 1200, hole.Speed)
	assert.InDelta(t, 0.1, hole.FeedRate, 1e-9)
	assert.InDelta(t, 0.05, hole.PlungeRate, 1e-9)
	assert.Zero(t, hole.StepOver)
	assert.Zero(t, hole.StepDown)

	pocket := RectangularPocket.Machining(10)
	assert.Equal(t, "end_mill", pocket.ToolType)
	assert.InDelta(t, 3.0, pocket.ToolDiameter, 1e-9)
	assert.Equal(t, 800, pocket.Speed)
	assert.InDelta(t, 0.6, pocket.StepOver, 1e-9)
	assert.InDelta(t, 0.5, pocket.StepDown, 1e-9)
	assert.Zero(t, pocket.PlungeRate)

	slot := CircularThroughSlot.Machining(10)
	assert.InDelta(t, 8.0, slot.ToolDiameter, 1e-9)
	assert.Equal(t, 1000, slot.Speed)
	assert.InDelta(t, 0.3, slot.StepDown, 1e-9)
	assert.Zero(t, slot.StepOver)

	chamfer := Chamfer.Machining(10)
	assert.Equal(t, "end_mill", chamfer.ToolType)
	assert.InDelta(t, 5.0, chamfer.ToolDiameter, 1e-9)
	assert.Equal(t, 1000, chamfer.Speed)
	assert.InDelta(t, 0.1, chamfer.FeedRate, 1e-9)
}
