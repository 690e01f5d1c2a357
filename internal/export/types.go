package export

import (
	"encoding/json"
	"fmt"
	"strings"
)

// LabelFormat selects the class-file flavor of the export.
type LabelFormat string

const (
	LabelFormatYoloV4 LabelFormat = "YOLO_V4"
	LabelFormatYoloV5 LabelFormat = "YOLO_V5"
)

// ExportType selects between the latest label per asset and all labels.
type ExportType string

const (
	ExportTypeLatest ExportType = "LATEST"
	ExportTypeNormal ExportType = "NORMAL"
)

// Layout selects the output folder topology.
type Layout string

const (
	LayoutMerged Layout = "MERGED_FOLDER"
	LayoutSplit  Layout = "SPLIT_FOLDER"
)

// ParseLabelFormat maps a user-supplied format name to a LabelFormat.
func ParseLabelFormat(value string) (LabelFormat, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "YOLO_V4", "YOLOV4":
		return LabelFormatYoloV4, nil
	case "YOLO_V5", "YOLOV5":
		return LabelFormatYoloV5, nil
	default:
		return "", fmt.Errorf("unsupported label format %q", value)
	}
}

// ParseLayout maps a user-supplied layout name to a Layout.
func ParseLayout(value string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "merged", "merged_folder":
		return LayoutMerged, nil
	case "split", "split_folder":
		return LayoutSplit, nil
	default:
		return "", fmt.Errorf("unsupported layout %q", value)
	}
}

// ParseExportType maps a user-supplied export type to an ExportType.
func ParseExportType(value string) (ExportType, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "LATEST":
		return ExportTypeLatest, nil
	case "NORMAL", "ALL":
		return ExportTypeNormal, nil
	default:
		return "", fmt.Errorf("unsupported export type %q", value)
	}
}

// Author identifies the user who produced a label.
type Author struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Name      string `json:"name,omitempty"`
}

// Label is one labeling pass over an asset. JSONResponse is either a mapping
// job id -> job response (single frame) or a mapping frame index -> the
// former shape (video frame group); FramesFromAsset decides which.
type Label struct {
	Author       *Author         `json:"author,omitempty"`
	CreatedAt    string          `json:"createdAt,omitempty"`
	LabelType    string          `json:"labelType,omitempty"`
	ModelName    string          `json:"modelName,omitempty"`
	JSONResponse json.RawMessage `json:"jsonResponse,omitempty"`
}

// ProcessingParameters carries the platform's video ingestion settings.
type ProcessingParameters struct {
	FramesPlayedPerSecond float64 `json:"framesPlayedPerSecond,omitempty"`
}

// AssetMetadata is the jsonMetadata blob attached to an asset.
type AssetMetadata struct {
	ProcessingParameters *ProcessingParameters `json:"processingParameters,omitempty"`
}

// Asset is one labeled item of the project.
type Asset struct {
	ID           string         `json:"id"`
	ExternalID   string         `json:"externalId"`
	Content      string         `json:"content"`
	JSONContent  string         `json:"jsonContent"`
	JSONMetadata *AssetMetadata `json:"jsonMetadata,omitempty"`
	LatestLabel  *Label         `json:"latestLabel,omitempty"`
	Labels       []Label        `json:"labels,omitempty"`
}

// FrameRate returns the declared ingestion frame rate, or 0 when the asset
// metadata does not carry one.
func (a *Asset) FrameRate() float64 {
	if a.JSONMetadata == nil || a.JSONMetadata.ProcessingParameters == nil {
		return 0
	}
	return a.JSONMetadata.ProcessingParameters.FramesPlayedPerSecond
}

// JobResponse is the per-job slice of a frame's json response.
type JobResponse struct {
	Annotations []RawAnnotation `json:"annotations"`
}

// RawAnnotation is one annotation as produced by the labeling tool.
type RawAnnotation struct {
	Categories   []AnnotationCategory `json:"categories"`
	BoundingPoly []BoundingPoly       `json:"boundingPoly"`
	MID          string               `json:"mid,omitempty"`
	Type         string               `json:"type,omitempty"`
}

// AnnotationCategory names the category assigned to an annotation.
type AnnotationCategory struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence,omitempty"`
}

// BoundingPoly is one polygon ring of an annotation.
type BoundingPoly struct {
	NormalizedVertices []Vertex `json:"normalizedVertices"`
}

// Vertex is a polygon vertex in normalized [0,1] image coordinates.
type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FrameResponse is the json response of a single frame: job id -> annotations.
type FrameResponse map[string]JobResponse

// Project carries the metadata the export needs from the project record.
type Project struct {
	ID          string
	Title       string
	Description string
	Interface   *ProjectInterface
}
