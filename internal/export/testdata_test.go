package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"
)

// jobResponseJSON is a single-frame json response with one rectangle for
// JOB_0; the vertex values mirror a real platform payload.
const jobResponseJSON = `{
    "JOB_0": {
        "annotations": [
            {
                "categories": [{"confidence": 100, "name": "OBJECT_A"}],
                "jobName": "JOB_0",
                "mid": "2022040515434712-7532",
                "mlTask": "OBJECT_DETECTION",
                "boundingPoly": [
                    {
                        "normalizedVertices": [
                            {"x": 0.16504140348233334, "y": 0.7986938935103378},
                            {"x": 0.16504140348233334, "y": 0.2605618833516984},
                            {"x": 0.8377886490672706, "y": 0.2605618833516984},
                            {"x": 0.8377886490672706, "y": 0.7986938935103378}
                        ]
                    }
                ],
                "type": "rectangle"
            }
        ]
    }
}`

func singleFrameAsset(t *testing.T) *Asset {
	t.Helper()
	return &Asset{
		ID:         "asset-1",
		ExternalID: "car_1",
		Content:    "https://storage.googleapis.com/label-public-staging/car/car_1.jpg",
		LatestLabel: &Label{
			Author:       &Author{Firstname: "Jean-Pierre", Lastname: "Dupont"},
			JSONResponse: json.RawMessage(jobResponseJSON),
		},
	}
}

func frameGroupAsset(t *testing.T, frames int) *Asset {
	t.Helper()
	keyed := make(map[string]json.RawMessage, frames)
	for i := 0; i < frames; i++ {
		keyed[fmt.Sprintf("%d", i)] = json.RawMessage(jobResponseJSON)
	}
	raw, err := json.Marshal(keyed)
	if err != nil {
		t.Fatalf("marshal frame group: %v", err)
	}
	return &Asset{
		ID:          "asset-2",
		ExternalID:  "video_1",
		Content:     "https://storage.googleapis.com/label-public-staging/video1/video1.mp4",
		LatestLabel: &Label{JSONResponse: raw},
	}
}

// testInterface builds a json interface with count identical object
// detection jobs JOB_0..JOB_{count-1}, each declaring OBJECT_A and OBJECT_B.
func testInterface(t *testing.T, count int) *ProjectInterface {
	t.Helper()
	var jobs []string
	for i := 0; i < count; i++ {
		jobs = append(jobs, fmt.Sprintf(`"JOB_%d": {
            "mlTask": "OBJECT_DETECTION",
            "tools": ["rectangle"],
            "content": {
                "categories": {
                    "OBJECT_A": {"name": "OBJECT A"},
                    "OBJECT_B": {"name": "OBJECT B"}
                },
                "input": "radio"
            }
        }`, i))
	}
	raw := `{"jobs": {` + strings.Join(jobs, ",") + `}}`
	iface, err := ParseInterface([]byte(raw))
	if err != nil {
		t.Fatalf("parse test interface: %v", err)
	}
	return iface
}

// fakeRepository serves frame indexes and media content from memory.
type fakeRepository struct {
	frames       map[string][]string
	content      map[string]string
	failStreams  bool
	streamedURLs []string
}

func (f *fakeRepository) Frames(ctx context.Context, contentURL string) ([]string, error) {
	return f.frames[contentURL], nil
}

func (f *fakeRepository) ContentStream(ctx context.Context, url string) (io.ReadCloser, error) {
	f.streamedURLs = append(f.streamedURLs, url)
	if f.failStreams {
		return nil, &DownloadError{URL: url, Status: 404}
	}
	body, ok := f.content[url]
	if !ok {
		return nil, &DownloadError{URL: url, Status: 404}
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

// fakeCutter records cut requests instead of running ffmpeg.
type fakeCutter struct {
	requests []CutRequest
	err      error
}

func (f *fakeCutter) Cut(ctx context.Context, req CutRequest) error {
	f.requests = append(f.requests, req)
	return f.err
}
