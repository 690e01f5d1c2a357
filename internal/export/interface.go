package export

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MLTaskObjectDetection and ToolRectangle select the jobs this export covers.
const (
	MLTaskObjectDetection = "OBJECT_DETECTION"
	ToolRectangle         = "rectangle"
)

// Job is one entry of the project's json interface.
type Job struct {
	ID         string
	MLTask     string
	Tools      []string
	IsModel    bool
	Categories []string
}

// ProjectInterface is the ordered job list of a project. Category ids depend
// on declaration order, so jobs and categories keep the order of the raw
// interface document rather than Go map order.
type ProjectInterface struct {
	Jobs []Job
}

// Qualifies reports whether the job participates in a YOLO export: an object
// detection job using the rectangle tool, excluding model-predicted jobs.
func (j Job) Qualifies() bool {
	if j.MLTask != MLTaskObjectDetection || j.IsModel {
		return false
	}
	for _, tool := range j.Tools {
		if tool == ToolRectangle {
			return true
		}
	}
	return false
}

type rawJob struct {
	MLTask  string   `json:"mlTask"`
	Tools   []string `json:"tools"`
	IsModel bool     `json:"isModel"`
	Content struct {
		Categories json.RawMessage `json:"categories"`
	} `json:"content"`
}

// ParseInterface decodes a json interface document preserving job and
// category declaration order.
func ParseInterface(raw []byte) (*ProjectInterface, error) {
	if len(raw) == 0 {
		return &ProjectInterface{}, nil
	}
	var top struct {
		Jobs json.RawMessage `json:"jobs"`
	}
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("parse interface: %w", err)
	}
	if len(top.Jobs) == 0 {
		return &ProjectInterface{}, nil
	}

	jobIDs, jobValues, err := orderedObject(top.Jobs)
	if err != nil {
		return nil, fmt.Errorf("parse interface jobs: %w", err)
	}

	iface := &ProjectInterface{Jobs: make([]Job, 0, len(jobIDs))}
	for i, jobID := range jobIDs {
		var decoded rawJob
		if err := json.Unmarshal(jobValues[i], &decoded); err != nil {
			return nil, fmt.Errorf("parse interface job %q: %w", jobID, err)
		}
		job := Job{
			ID:      jobID,
			MLTask:  decoded.MLTask,
			Tools:   decoded.Tools,
			IsModel: decoded.IsModel,
		}
		if len(decoded.Content.Categories) > 0 {
			names, _, err := orderedObject(decoded.Content.Categories)
			if err != nil {
				return nil, fmt.Errorf("parse interface job %q categories: %w", jobID, err)
			}
			job.Categories = names
		}
		iface.Jobs = append(iface.Jobs, job)
	}
	return iface, nil
}

// orderedObject returns the keys of a JSON object in document order along
// with their raw values. encoding/json maps lose key order, so the object is
// walked token by token instead.
func orderedObject(raw json.RawMessage) ([]string, []json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	var keys []string
	var values []json.RawMessage
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		values = append(values, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, values, nil
}
