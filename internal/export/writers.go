package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// writeClassFile emits the category list in the consuming trainer's expected
// format: classes.txt for YOLOv4, data.yaml for YOLOv5. The byte layout is an
// external contract; do not reformat.
func writeClassFile(dir string, categories *CategoryIndex, format LabelFormat) error {
	switch format {
	case LabelFormatYoloV4:
		var b strings.Builder
		for _, category := range categories.Categories() {
			fmt.Fprintf(&b, "%d %s\n", category.ID, category.CategoryName)
		}
		return os.WriteFile(filepath.Join(dir, "classes.txt"), []byte(b.String()), 0o644)
	case LabelFormatYoloV5:
		var names strings.Builder
		for _, category := range categories.Categories() {
			fmt.Fprintf(&names, "'%s', ", category.CategoryName)
		}
		content := fmt.Sprintf("nc: %d\nnames: [%s]\n", categories.Len(), strings.TrimSuffix(names.String(), ", "))
		return os.WriteFile(filepath.Join(dir, "data.yaml"), []byte(content), 0o644)
	default:
		return fmt.Errorf("unsupported label format %q", format)
	}
}

// writeLabelFile emits one annotation per line: class id and the normalized
// center/extent, space separated, floats in shortest round-trip form.
func writeLabelFile(labelsDir, filename string, annotations []Annotation) error {
	var b strings.Builder
	for _, a := range annotations {
		b.WriteString(strconv.Itoa(a.CategoryID))
		for _, value := range []float64{a.XCenter, a.YCenter, a.Width, a.Height} {
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(value, 'g', -1, 64))
		}
		b.WriteByte('\n')
	}
	return os.WriteFile(filepath.Join(labelsDir, filename+".txt"), []byte(b.String()), 0o644)
}

// writeRemoteManifest records remotely-hosted assets next to the images they
// stand in for.
func writeRemoteManifest(imagesDir string, refs []RemoteReference) error {
	file, err := os.Create(filepath.Join(imagesDir, "remote_assets.csv"))
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"external id", "url", "label file"}); err != nil {
		return err
	}
	for _, ref := range refs {
		if err := writer.Write([]string{ref.ExternalID, ref.URL, ref.LabelFile}); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}

// writeVideoMeta maps each video asset to its ordered frame file stems.
// External ids may contain &, < or >, which must land in the file verbatim.
func writeVideoMeta(dir string, videoMetadata map[string][]string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(videoMetadata); err != nil {
		return err
	}
	payload := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	return os.WriteFile(filepath.Join(dir, "video_meta.json"), payload, 0o644)
}

// writeReadme summarizes the export next to the label folders.
func writeReadme(projectDir string, project *Project, format LabelFormat, exportType ExportType, now time.Time) error {
	var b strings.Builder
	b.WriteString("Exported Labels from KILI\n=========================\n\n")
	fmt.Fprintf(&b, "- Project name: %s\n", project.Title)
	fmt.Fprintf(&b, "- Project identifier: %s\n", project.ID)
	fmt.Fprintf(&b, "- Project description: %s\n", project.Description)
	fmt.Fprintf(&b, "- Export date: %s\n", now.Format("20060102-150405"))
	fmt.Fprintf(&b, "- Exported format: %s\n", format)
	fmt.Fprintf(&b, "- Exported labels: %s\n", exportType)
	return os.WriteFile(filepath.Join(projectDir, "README.kili.txt"), []byte(b.String()), 0o644)
}
