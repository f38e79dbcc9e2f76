package support

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/MeKo-Tech/concave/internal/contour"
	"github.com/MeKo-Tech/concave/internal/testutil"
	"github.com/MeKo-Tech/concave/internal/utils"
	"github.com/cucumber/godog"
)

// fixtureImages are the synthetic images written by "the test images are
// available".
var fixtureImages = map[string]func() image.Image{
	"notch.png": func() image.Image {
		return testutil.FillPolygons(testutil.NotchSize, testutil.NotchVertices())
	},
	"discs.png": func() image.Image {
		return testutil.TwoDiscs()
	},
	"square.bmp": func() image.Image {
		return testutil.FillPolygons(image.Pt(40, 40), testutil.SquareVertices(10, 10, 20))
	},
	"dark/notch-inverted.jpg": func() image.Image {
		return testutil.Invert(testutil.FillPolygons(testutil.NotchSize, testutil.NotchVertices()))
	},
}

// theTestImagesAreAvailable renders the fixture images into {images}.
func (testCtx *TestContext) theTestImagesAreAvailable() error {
	for name, render := range fixtureImages {
		if err := utils.SaveImage(render(), filepath.Join(testCtx.ImagesDir, name)); err != nil {
			return fmt.Errorf("failed to write fixture %s: %w", name, err)
		}
	}
	return nil
}

// aContourFileExists writes the densified notch outline to {tmp}/<name>.
func (testCtx *TestContext) aContourFileExists(name string) error {
	path := filepath.Join(testCtx.TempDir, name)
	f, err := os.Create(path) //nolint:gosec // path is inside the scenario temp dir
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return contour.WriteJSON(f, testutil.DenseRing(testutil.NotchVertices()))
}

// aFileContaining writes arbitrary content to {tmp}/<name>.
func (testCtx *TestContext) aFileContaining(name string, content *godog.DocString) error {
	path := filepath.Join(testCtx.TempDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content.Content), 0o600)
}

// theEnvironmentVariableIsSetTo sets a variable for the following commands.
func (testCtx *TestContext) theEnvironmentVariableIsSetTo(name, value string) error {
	testCtx.AddEnvVar(name, value)
	return nil
}

// RegisterFixtureSteps registers the steps that prepare inputs.
func (testCtx *TestContext) RegisterFixtureSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the test images are available$`, testCtx.theTestImagesAreAvailable)
	sc.Step(`^a contour file "([^"]*)" exists$`, testCtx.aContourFileExists)
	sc.Step(`^a file "([^"]*)" containing:$`, testCtx.aFileContaining)
	sc.Step(`^the environment variable "([^"]*)" is set to "([^"]*)"$`, testCtx.theEnvironmentVariableIsSetTo)
}
