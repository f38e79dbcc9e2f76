package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Report is the serialized form of a batch run.
type Report struct {
	Images []*ImageResult `json:"images" yaml:"images"`
}

// FormatResults renders the batch results in the given format.
func (r *Result) FormatResults(format string) (string, error) {
	return FormatImages(r.Images, format)
}

// WriteResults writes the batch results to path, or to w when path is empty.
func (r *Result) WriteResults(w io.Writer, path, format string) error {
	out, err := r.FormatResults(format)
	if err != nil {
		return err
	}
	return WriteOutput(w, path, out)
}

// FormatImages renders image results as text, json, csv or yaml.
func FormatImages(images []*ImageResult, format string) (string, error) {
	switch format {
	case "json":
		return formatJSON(images)
	case "yaml":
		return formatYAML(images)
	case "csv":
		return formatCSV(images)
	case "", "text":
		return formatText(images), nil
	default:
		return "", fmt.Errorf("unsupported output format %q", format)
	}
}

// WriteOutput writes content to path, creating parent directories, or to w
// when path is empty.
func WriteOutput(w io.Writer, path, content string) error {
	if path == "" {
		_, err := io.WriteString(w, content)
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func formatJSON(images []*ImageResult) (string, error) {
	bts, err := json.MarshalIndent(Report{Images: images}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bts) + "\n", nil
}

func formatYAML(images []*ImageResult) (string, error) {
	bts, err := yaml.Marshal(Report{Images: images})
	return string(bts), err
}

// formatCSV writes one row per concave point. Contours without points and
// failed images still get a row so every input shows up.
func formatCSV(images []*ImageResult) (string, error) {
	var output strings.Builder
	writer := csv.NewWriter(&output)
	rows := [][]string{{"file", "contour", "point", "x", "y", "original_index", "error"}}

	for _, img := range images {
		if img == nil {
			continue
		}
		if img.Error != "" || len(img.Contours) == 0 {
			rows = append(rows, []string{img.File, "", "", "", "", "", img.Error})
			continue
		}
		for _, c := range img.Contours {
			ci := strconv.Itoa(c.Index)
			if len(c.Points) == 0 {
				rows = append(rows, []string{img.File, ci, "", "", "", "", c.Error})
				continue
			}
			for j, p := range c.Points {
				rows = append(rows, []string{
					img.File, ci, strconv.Itoa(j),
					strconv.Itoa(p.X), strconv.Itoa(p.Y),
					strconv.Itoa(c.OriginalIndices[j]), "",
				})
			}
		}
	}

	if err := writer.WriteAll(rows); err != nil {
		return "", err
	}
	return output.String(), nil
}

func formatText(images []*ImageResult) string {
	var b strings.Builder
	for i, img := range images {
		if img == nil {
			continue
		}
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "# %s\n", img.File)
		if img.Error != "" {
			fmt.Fprintf(&b, "error: %s\n", img.Error)
			continue
		}
		fmt.Fprintf(&b, "size %dx%d, threshold %d, %d contours, %d concave points\n",
			img.Width, img.Height, img.Threshold, len(img.Contours), img.PointCount())
		for _, c := range img.Contours {
			writeContourText(&b, c)
		}
	}
	return b.String()
}

func writeContourText(b *strings.Builder, c ContourResult) {
	fmt.Fprintf(b, "contour %d: area=%d box=(%d,%d %dx%d) length=%d",
		c.Index, c.Area, c.Box.X, c.Box.Y, c.Box.W, c.Box.H, c.ContourLength)
	if c.Error != "" {
		fmt.Fprintf(b, " error: %s\n", c.Error)
		return
	}
	fmt.Fprintf(b, " points=%d\n", len(c.Points))
	for j, p := range c.Points {
		fmt.Fprintf(b, "  (%d, %d) idx=%d\n", p.X, p.Y, c.OriginalIndices[j])
	}
}
