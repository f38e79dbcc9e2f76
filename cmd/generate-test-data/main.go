package main

import (
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MeKo-Tech/concave/internal/contour"
	"github.com/MeKo-Tech/concave/internal/testutil"
	"github.com/MeKo-Tech/concave/internal/utils"
)

// fixture is a synthetic blob image, optionally with its outline.
type fixture struct {
	name    string
	size    image.Point
	shapes  [][]image.Point
	invert  bool
	outline []image.Point
}

func fixtures() []fixture {
	notch := testutil.NotchVertices()

	var grid [][]image.Point
	for y := 5; y < 100; y += 30 {
		for x := 5; x < 100; x += 30 {
			grid = append(grid, testutil.SquareVertices(x, y, 20))
		}
	}

	return []fixture{
		{name: "notch", size: testutil.NotchSize, shapes: [][]image.Point{notch}, outline: testutil.DenseRing(notch)},
		{name: "notch_inverted", size: testutil.NotchSize, shapes: [][]image.Point{notch}, invert: true},
		{name: "two_discs", size: testutil.TwoDiscsSize, shapes: [][]image.Point{
			testutil.Circle(image.Pt(30, 30), 20, 96),
			testutil.Circle(image.Pt(62, 30), 20, 96),
		}},
		{name: "square", size: image.Pt(40, 40), shapes: [][]image.Point{testutil.SquareVertices(10, 10, 20)}},
		{name: "grid", size: image.Pt(100, 100), shapes: grid},
	}
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		outDir = flag.String("out", "", "output directory (default: <project root>/testdata)")
		help   = flag.Bool("h", false, "Show help")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Generate synthetic blob images and contours for concave testing.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	dir := *outDir
	if dir == "" {
		root, err := testutil.GetProjectRoot()
		if err != nil {
			slog.Error("Failed to find project root", "error", err)
			os.Exit(1)
		}
		dir = filepath.Join(root, "testdata")
	}

	if err := generate(dir); err != nil {
		slog.Error("Failed to generate test data", "error", err)
		os.Exit(1)
	}
	slog.Info("Generated test data", "dir", dir)
}

func generate(dir string) error {
	for _, f := range fixtures() {
		img := testutil.FillPolygons(f.size, f.shapes...)
		if f.invert {
			img = testutil.Invert(img)
		}
		path := filepath.Join(dir, "images", f.name+".png")
		if err := utils.SaveImage(img, path); err != nil {
			return err
		}
		slog.Info("Wrote image", "path", path)

		if f.outline == nil {
			continue
		}
		if err := writeOutline(filepath.Join(dir, "contours", f.name+".json"), f.outline); err != nil {
			return err
		}
	}
	return nil
}

func writeOutline(path string, pts []image.Point) error {
	if err := testutil.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	out, err := os.Create(path) //nolint:gosec // path is built from the -out flag
	if err != nil {
		return err
	}
	if err := contour.WriteJSON(out, pts); err != nil {
		_ = out.Close()
		return err
	}
	slog.Info("Wrote contour", "path", path)
	return out.Close()
}
