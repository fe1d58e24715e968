package feature

// Bucket selects one of the four machining parameter policies.
type Bucket uint8

const (
	BucketDefault Bucket = iota
	BucketHole
	BucketPocket
	BucketSlot
)

func (b Bucket) String() string {
	switch b {
	case BucketHole:
		return "hole"
	case BucketPocket:
		return "pocket"
	case BucketSlot:
		return "slot"
	default:
		return "default"
	}
}

// MachiningBucket maps a class to its parameter bucket. The mapping
// is a pure function of the class: holes are drilled, pockets and
// slots are milled with bucket-specific stepping, everything else
// falls back to the default milling policy.
func (c Class) MachiningBucket() Bucket {
	switch c {
	case ThroughHole, BlindHole:
		return BucketHole
	case TriangularPocket, RectangularPocket, SixSidesPocket, CircularEndPocket:
		return BucketPocket
	case TriangularThroughSlot, RectangularThroughSlot, CircularThroughSlot,
		RectangularBlindSlot, VCircularEndBlindSlot, HCircularEndBlindSlot:
		return BucketSlot
	default:
		return BucketDefault
	}
}

// MachiningParams is the tool and feed policy attached to a detected
// feature. The zero-valued extras are omitted from the serialized
// form so each bucket keeps its own field set.
type MachiningParams struct {
	ToolType     string  `json:"tool_type"`
	ToolDiameter float64 `json:"tool_diameter"`
	Speed        int     `json:"speed"`
	FeedRate     float64 `json:"feed_rate"`
	PlungeRate   float64 `json:"plunge_rate,omitempty"`
	StepOver     float64 `json:"step_over,omitempty"`
	StepDown     float64 `json:"step_down,omitempty"`
}

// Machining derives the parameter set for a class from the feature's
// representative dimension.
func (c Class) Machining(dimension float64) MachiningParams {
	switch c.MachiningBucket() {
	case BucketHole:
		return MachiningParams{
			ToolType:     "drill",
			ToolDiameter: dimension * 0.9,
			Speed:        1200,
			FeedRate:     0.1,
			PlungeRate:   0.05,
		}
	case BucketPocket:
		return MachiningParams{
			ToolType:     "end_mill",
			ToolDiameter: dimension * 0.3,
			Speed:        800,
			FeedRate:     0.2,
			StepOver:     0.6,
			StepDown:     0.5,
		}
	case BucketSlot:
		return MachiningParams{
			ToolType:     "end_mill",
			ToolDiameter: dimension * 0.8,
			Speed:        1000,
			FeedRate:     0.15,
			StepDown:     0.3,
		}
	default:
		return MachiningParams{
			ToolType:     "end_mill",
			ToolDiameter: dimension * 0.5,
			Speed:        1000,
			FeedRate:     0.1,
		}
	}
}
