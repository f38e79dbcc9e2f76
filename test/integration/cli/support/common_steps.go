package support

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/concave/internal/batch"
)

// iRunCommand executes a command and stores its result.
func (testCtx *TestContext) iRunCommand(command string) error {
	command = testCtx.substituteCommandVariables(command)

	testCtx.LastCommand = command
	testCtx.LastStartTime = time.Now()

	parts := strings.Fields(command)
	if len(parts) == 0 {
		return errors.New("empty command")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...) //nolint:gosec // commands come from feature files
	cmd.Dir = testCtx.TempDir
	cmd.Env = append(os.Environ(), "HOME="+testCtx.TempDir, "XDG_CONFIG_HOME="+testCtx.TempDir)
	cmd.Env = append(cmd.Env, testCtx.EnvVars...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	testCtx.LastStdout = stdout.String()
	testCtx.LastStderr = stderr.String()
	testCtx.LastError = err
	testCtx.LastDuration = time.Since(testCtx.LastStartTime)

	if err != nil {
		exitError := &exec.ExitError{}
		if errors.As(err, &exitError) {
			testCtx.LastExitCode = exitError.ExitCode()
		} else {
			testCtx.LastExitCode = -1
		}
	} else {
		testCtx.LastExitCode = 0
	}

	return nil
}

// theCommandShouldSucceed verifies the command succeeded.
func (testCtx *TestContext) theCommandShouldSucceed() error {
	if testCtx.LastExitCode != 0 {
		return fmt.Errorf("command failed with exit code %d: %w\nOutput: %s",
			testCtx.LastExitCode, testCtx.LastError, testCtx.Output())
	}
	return nil
}

// theCommandShouldFail verifies the command failed.
func (testCtx *TestContext) theCommandShouldFail() error {
	if testCtx.LastExitCode == 0 {
		return fmt.Errorf("command succeeded when it should have failed\nOutput: %s", testCtx.Output())
	}
	return nil
}

// theOutputShouldContain verifies stdout or stderr contains the text.
func (testCtx *TestContext) theOutputShouldContain(expectedText string) error {
	if !strings.Contains(testCtx.Output(), expectedText) {
		return fmt.Errorf("output does not contain '%s'\nActual output: %s", expectedText, testCtx.Output())
	}
	return nil
}

// theErrorShouldMention verifies stderr mentions the text, ignoring case.
func (testCtx *TestContext) theErrorShouldMention(errorText string) error {
	if !strings.Contains(strings.ToLower(testCtx.LastStderr), strings.ToLower(errorText)) {
		return fmt.Errorf("error output does not mention '%s'\nActual stderr: %s", errorText, testCtx.LastStderr)
	}
	return nil
}

// theStdoutShouldBeEmpty verifies nothing but logs was printed.
func (testCtx *TestContext) theStdoutShouldBeEmpty() error {
	if strings.TrimSpace(testCtx.LastStdout) != "" {
		return fmt.Errorf("expected empty stdout, got: %s", testCtx.LastStdout)
	}
	return nil
}

// parseReport decodes a json or yaml report from stdout, or from a file.
func parseReport(data []byte, format string) (*batch.Report, error) {
	var report batch.Report
	var err error
	switch format {
	case "json":
		err = json.Unmarshal(data, &report)
	case "yaml":
		err = yaml.Unmarshal(data, &report)
	default:
		return nil, fmt.Errorf("cannot parse %s reports", format)
	}
	if err != nil {
		return nil, fmt.Errorf("output is not a valid %s report: %w\n%s", format, err, data)
	}
	return &report, nil
}

// theOutputShouldBeAValidReportWithImages checks the number of images in a
// json or yaml report on stdout.
func (testCtx *TestContext) theOutputShouldBeAValidReportWithImages(format string, n int) error {
	report, err := parseReport([]byte(testCtx.LastStdout), format)
	if err != nil {
		return err
	}
	if len(report.Images) != n {
		return fmt.Errorf("expected %d images, got %d", n, len(report.Images))
	}
	return nil
}

// everyImageShouldHaveContours checks that no image failed and each has at
// least one contour.
func (testCtx *TestContext) everyImageShouldHaveContours() error {
	report, err := parseReport([]byte(testCtx.LastStdout), "json")
	if err != nil {
		return err
	}
	for _, img := range report.Images {
		if img.Error != "" {
			return fmt.Errorf("image %s failed: %s", img.File, img.Error)
		}
		if len(img.Contours) == 0 {
			return fmt.Errorf("image %s has no contours", img.File)
		}
	}
	return nil
}

// theOutputShouldBeValidCSVWithHeader verifies stdout is CSV with the
// expected first column names.
func (testCtx *TestContext) theOutputShouldBeValidCSVWithHeader(header string) error {
	records, err := csv.NewReader(strings.NewReader(testCtx.LastStdout)).ReadAll()
	if err != nil {
		return fmt.Errorf("output is not valid CSV: %w", err)
	}
	if len(records) == 0 {
		return errors.New("CSV has no records")
	}
	if got := strings.Join(records[0], ","); got != header {
		return fmt.Errorf("unexpected CSV header %q, want %q", got, header)
	}
	return nil
}

// theFileShouldExist checks a file below {tmp}.
func (testCtx *TestContext) theFileShouldExist(name string) error {
	path := filepath.Join(testCtx.TempDir, testCtx.substituteCommandVariables(name))
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file %s does not exist: %w", path, err)
	}
	return nil
}

// theFileShouldContain checks the content of a file below {tmp}.
func (testCtx *TestContext) theFileShouldContain(name, expected string) error {
	path := filepath.Join(testCtx.TempDir, name)
	data, err := os.ReadFile(path) //nolint:gosec // path is inside the scenario temp dir
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !strings.Contains(string(data), expected) {
		return fmt.Errorf("file %s does not contain '%s'\nContent: %s", name, expected, data)
	}
	return nil
}

// theLogsShouldBeJSON checks every stderr line before the cobra error is a
// JSON object.
func (testCtx *TestContext) theLogsShouldBeJSON() error {
	lines := strings.Split(strings.TrimSpace(testCtx.LastStderr), "\n")
	seen := 0
	for _, line := range lines {
		if !strings.HasPrefix(line, "{") {
			continue
		}
		if !json.Valid([]byte(line)) {
			return fmt.Errorf("log line is not valid JSON: %s", line)
		}
		seen++
	}
	if seen == 0 {
		return fmt.Errorf("no JSON log lines on stderr: %s", testCtx.LastStderr)
	}
	return nil
}

// RegisterCommonSteps registers command and output step definitions.
func (testCtx *TestContext) RegisterCommonSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I run "([^"]*)"$`, testCtx.iRunCommand)
	sc.Step(`^the command should succeed$`, testCtx.theCommandShouldSucceed)
	sc.Step(`^the command should fail$`, testCtx.theCommandShouldFail)
	sc.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
	sc.Step(`^the error should mention "([^"]*)"$`, testCtx.theErrorShouldMention)
	sc.Step(`^stdout should be empty$`, testCtx.theStdoutShouldBeEmpty)
	sc.Step(`^the output should be a valid (json|yaml) report with (\d+) images?$`,
		testCtx.theOutputShouldBeAValidReportWithImages)
	sc.Step(`^every image should have contours$`, testCtx.everyImageShouldHaveContours)
	sc.Step(`^the output should be valid CSV with header "([^"]*)"$`, testCtx.theOutputShouldBeValidCSVWithHeader)
	sc.Step(`^the file "([^"]*)" should exist$`, testCtx.theFileShouldExist)
	sc.Step(`^the file "([^"]*)" should contain "([^"]*)"$`, testCtx.theFileShouldContain)
	sc.Step(`^the logs should be JSON$`, testCtx.theLogsShouldBeJSON)
}
