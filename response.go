package aagnet

import (
	"fmt"
	"sort"
	"time"

	"github.com/anthony94polson/smart-toolpath-ai/feature"
	"github.com/anthony94polson/smart-toolpath-ai/geometry"
)

// Response status values.
const (
	StatusCompleted = "completed"
	StatusError     = "error"
)

const (
	modelType       = "AAGNet"
	inferenceEngine = "go-native"
)

// AnalyzeRequest carries one part to analyze. GeometryData is the
// base64-encoded binary STL payload. AnalysisParams is an opaque
// key/value map passed through by callers; the recognizer ignores it.
type AnalyzeRequest struct {
	GeometryData   string         `json:"geometry_data"`
	FileName       string         `json:"file_name"`
	AnalysisParams map[string]any `json:"analysis_params,omitempty"`
}

// Dimensions summarizes the estimated feature geometry. Diameter is
// set only for hole-bucket features and serializes as null otherwise.
type Dimensions struct {
	Diameter *float64 `json:"diameter"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	Depth    float64  `json:"depth"`
}

// DetectedFeature is the serialized form of one detected machining
// feature.
type DetectedFeature struct {
	ID              string                  `json:"id"`
	Type            string                  `json:"type"`
	Confidence      float64                 `json:"confidence"`
	Position        [3]float64              `json:"position"`
	Dimensions      Dimensions              `json:"dimensions"`
	Normal          [3]float64              `json:"normal"`
	MachiningParams feature.MachiningParams `json:"machining_params"`
	Faces           []int                   `json:"faces"`
	Bottoms         []int                   `json:"bottoms"`
}

// Metadata describes how an analysis was produced.
type Metadata struct {
	ModelType        string `json:"model_type"`
	InferenceEngine  string `json:"inference_engine"`
	TotalFaces       int    `json:"total_faces"`
	DetectedFeatures int    `json:"detected_features"`
	ProcessingTime   string `json:"processing_time"`
}

// Statistics aggregates the detected feature list.
type Statistics struct {
	TotalFeatures     int      `json:"total_features"`
	FeatureTypes      []string `json:"feature_types"`
	AverageConfidence float64  `json:"average_confidence"`
}

// AnalyzeResponse is the success envelope of one analysis.
type AnalyzeResponse struct {
	AnalysisID string            `json:"analysis_id"`
	Status     string            `json:"status"`
	Features   []DetectedFeature `json:"features"`
	Metadata   Metadata          `json:"metadata"`
	Statistics Statistics        `json:"statistics"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

// NewErrorResponse wraps an error into the failure envelope.
func NewErrorResponse(err error) ErrorResponse {
	return ErrorResponse{Error: err.Error(), Status: StatusError}
}

func vec64(v geometry.Vec3) [3]float64 {
	return [3]float64{float64(v[0]), float64(v[1]), float64(v[2])}
}

func newDetectedFeature(i int, f feature.Feature) DetectedFeature {
	dim := float64(f.Dimension)

	df := DetectedFeature{
		ID:         fmt.Sprintf("aagnet_feature_%d", i),
		Type:       f.Class.String(),
		Confidence: float64(f.Confidence),
		Position:   vec64(f.Position),
		Dimensions: Dimensions{
			Width:  dim,
			Height: dim,
			Depth:  dim * 0.5,
		},
		Normal:          vec64(f.Normal),
		MachiningParams: f.Class.Machining(dim),
		Faces:           f.Faces,
		Bottoms:         f.Bottoms,
	}
	if f.Class.MachiningBucket() == feature.BucketHole {
		df.Dimensions.Diameter = &dim
	}
	if df.Bottoms == nil {
		df.Bottoms = []int{}
	}
	return df
}

func newAnalyzeResponse(id string, feats []feature.Feature, totalFaces int, elapsed time.Duration) *AnalyzeResponse {
	resp := &AnalyzeResponse{
		AnalysisID: id,
		Status:     StatusCompleted,
		Features:   make([]DetectedFeature, 0, len(feats)),
		Metadata: Metadata{
			ModelType:        modelType,
			InferenceEngine:  inferenceEngine,
			TotalFaces:       totalFaces,
			DetectedFeatures: len(feats),
			ProcessingTime:   elapsed.String(),
		},
	}

	types := map[string]bool{}
	var confidence float64
	for i, f := range feats {
		df := newDetectedFeature(i, f)
		resp.Features = append(resp.Features, df)
		types[df.Type] = true
		confidence += df.Confidence
	}

	resp.Statistics = Statistics{
		TotalFeatures: len(feats),
		FeatureTypes:  make([]string, 0, len(types)),
	}
	for t := range types {
		resp.Statistics.FeatureTypes = append(resp.Statistics.FeatureTypes, t)
	}
	sort.Strings(resp.Statistics.FeatureTypes)
	if len(feats) > 0 {
		resp.Statistics.AverageConfidence = confidence / float64(len(feats))
	}
	return resp
}
