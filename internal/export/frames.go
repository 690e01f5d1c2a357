package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// LabelFrames is the uniform frame view over an asset's latest label. A video
// label maps consecutive frame indices ("0", "1", ...) to per-frame
// responses; anything else is treated as a single synthetic frame at index
// -1 spanning the whole asset.
type LabelFrames struct {
	// Frames holds the retained frames: only group members where at least one
	// relevant job has annotations survive. Never empty; the synthetic -1
	// frame stands in when nothing else does.
	Frames map[int]FrameResponse
	// NumberOfFrames is the declared frame count, which drives zero padding
	// even when frames were dropped.
	NumberOfFrames int
	IsGroup        bool
	ExternalID     string
}

// FramesFromAsset classifies the asset's latest label as a frame group or a
// single frame and retains only the frames that carry annotations for at
// least one of jobIDs.
func FramesFromAsset(asset *Asset, jobIDs []string) *LabelFrames {
	frames := make(map[int]FrameResponse)
	numberOfFrames := 0
	isGroup := false

	if asset.LatestLabel != nil && len(asset.LatestLabel.JSONResponse) > 0 {
		var keyed map[string]json.RawMessage
		if err := json.Unmarshal(asset.LatestLabel.JSONResponse, &keyed); err == nil {
			numberOfFrames = len(keyed)
			for idx := 0; idx < numberOfFrames; idx++ {
				raw, ok := keyed[strconv.Itoa(idx)]
				if !ok {
					continue
				}
				isGroup = true
				var frame FrameResponse
				if err := json.Unmarshal(raw, &frame); err != nil {
					continue
				}
				for _, jobID := range jobIDs {
					if job, ok := frame[jobID]; ok && len(job.Annotations) > 0 {
						frames[idx] = frame
						break
					}
				}
			}
		}
	}

	if len(frames) == 0 {
		frames[-1] = singleFrameResponse(asset.LatestLabel)
	}

	return &LabelFrames{
		Frames:         frames,
		NumberOfFrames: numberOfFrames,
		IsGroup:        isGroup,
		ExternalID:     asset.ExternalID,
	}
}

// singleFrameResponse reads the label's json response as a plain job mapping.
// Malformed or absent responses yield nil, which converts to no annotations.
func singleFrameResponse(label *Label) FrameResponse {
	if label == nil || len(label.JSONResponse) == 0 {
		return nil
	}
	var frame FrameResponse
	if err := json.Unmarshal(label.JSONResponse, &frame); err != nil {
		return nil
	}
	return frame
}

// Indices returns the retained frame indices in ascending order.
func (lf *LabelFrames) Indices() []int {
	indices := make([]int, 0, len(lf.Frames))
	for idx := range lf.Frames {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}

// LeadingZeros returns the digit width of the declared frame count, used to
// left-pad frame numbers so lexical and numeric order coincide.
func (lf *LabelFrames) LeadingZeros() int {
	return len(strconv.Itoa(lf.NumberOfFrames))
}

// LabelFilename returns the padded file stem for a group member.
func (lf *LabelFrames) LabelFilename(idx int) string {
	return fmt.Sprintf("%s_%0*d", lf.ExternalID, lf.LeadingZeros(), idx+1)
}

// Filename returns the file stem for the frame at idx: padded for group
// members, the external id verbatim for the synthetic single frame.
func (lf *LabelFrames) Filename(idx int) string {
	if lf.IsGroup {
		return lf.LabelFilename(idx)
	}
	return lf.ExternalID
}
