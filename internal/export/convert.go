package export

import (
	"fmt"
)

// Annotation is a normalized bounding-box record: category id plus center and
// extent in [0,1] coordinates.
type Annotation struct {
	CategoryID int
	XCenter    float64
	YCenter    float64
	Width      float64
	Height     float64
}

// LookupError reports an annotation whose category is absent from the derived
// category scope, which indicates interface/label drift. It is fatal for the
// asset being converted but not for the whole export.
type LookupError struct {
	JobID    string
	Category string
}

func (e *LookupError) Error() string {
	if e.Category == "" {
		return fmt.Sprintf("job %q: annotation has no category", e.JobID)
	}
	return fmt.Sprintf("job %q: category %q not found in export scope", e.JobID, e.Category)
}

// ConvertAnnotations reduces one job's raw annotations of a frame to
// normalized bounding-box records. Regardless of tool type, shapes collapse
// to the axis-aligned bounding box of the first polygon ring's vertices.
// Annotations without a polygon or without vertices on the first ring are
// skipped; an unknown category aborts with a *LookupError.
func ConvertAnnotations(jobID string, frame FrameResponse, categories *CategoryIndex) ([]Annotation, error) {
	if frame == nil {
		return nil, nil
	}
	job, ok := frame[jobID]
	if !ok || job.Annotations == nil {
		return nil, nil
	}

	var converted []Annotation
	for _, raw := range job.Annotations {
		if len(raw.Categories) == 0 {
			return nil, &LookupError{JobID: jobID}
		}
		name := raw.Categories[0].Name
		category, ok := categories.Get(CategoryFullName(jobID, name))
		if !ok {
			return nil, &LookupError{JobID: jobID, Category: name}
		}

		if len(raw.BoundingPoly) == 0 {
			continue
		}
		vertices := raw.BoundingPoly[0].NormalizedVertices
		if len(vertices) == 0 {
			continue
		}

		xMin, xMax := vertices[0].X, vertices[0].X
		yMin, yMax := vertices[0].Y, vertices[0].Y
		for _, v := range vertices[1:] {
			if v.X < xMin {
				xMin = v.X
			}
			if v.X > xMax {
				xMax = v.X
			}
			if v.Y < yMin {
				yMin = v.Y
			}
			if v.Y > yMax {
				yMax = v.Y
			}
		}

		converted = append(converted, Annotation{
			CategoryID: category.ID,
			XCenter:    (xMax + xMin) / 2,
			YCenter:    (yMax + yMin) / 2,
			Width:      xMax - xMin,
			Height:     yMax - yMin,
		})
	}
	return converted, nil
}

// frameAnnotations unions the converted annotations of every job in the
// category scope for one frame.
func frameAnnotations(frame FrameResponse, jobIDs []string, categories *CategoryIndex) ([]Annotation, error) {
	var annotations []Annotation
	for _, jobID := range jobIDs {
		converted, err := ConvertAnnotations(jobID, frame, categories)
		if err != nil {
			return nil, err
		}
		annotations = append(annotations, converted...)
	}
	return annotations, nil
}
