package cli

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pc "github.com/setanarut/prettycolors"
	"github.com/setanarut/prettycolors/utils"
)

// execute runs the root command with args and returns stdout, the log
// output and the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), logs.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGenerateToStdoutIsDeterministic(t *testing.T) {
	args := []string{"generate", "-W", "8", "-H", "8", "--seed", "3"}
	first, logs, err := execute(t, args...)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first, "P3"))
	assert.Contains(t, first, "seed: 3")
	assert.Contains(t, logs, "seed=3")

	second, _, err := execute(t, args...)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateFiles(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.png")
	swatch := filepath.Join(dir, "swatch.png")
	plot := filepath.Join(dir, "scores.png")

	stdout, _, err := execute(t, "generate", "-W", "16", "-H", "12", "--seed", "11",
		"--center", "--format", "png", "-o", out, "--swatch", swatch, "--score-plot", plot)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	img, err := utils.ReadImage(out)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 12), img.Bounds())
	for _, p := range []string{swatch, plot} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
}

func TestGenerateTemplateLevel(t *testing.T) {
	mask := writeFile(t, "block.pgm", "P2\n4 4\n1\n1 1 0 0\n1 1 0 0\n0 0 0 0\n0 0 0 0\n")
	stdout, logs, err := execute(t, "generate", "-W", "4", "-H", "4", "--seed", "5",
		"--start", "1,1", "--template", mask)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "P3"))
	assert.Contains(t, logs, "template:"+mask)
}

func TestGenerateTemplateMismatch(t *testing.T) {
	mask := writeFile(t, "narrow.pgm", "P2\n3 2\n255\n0 1 0\n0 0 9\n")
	out := filepath.Join(t.TempDir(), "out.ppm")

	stdout, _, err := execute(t, "generate", "-W", "4", "-H", "4", "--seed", "1",
		"--template", mask, "-o", out)
	require.Error(t, err)
	assert.Equal(t, ExitTemplate, ExitCode(err))
	assert.ErrorContains(t, err, "width must be 4, not 3")
	assert.Empty(t, stdout)
	_, statErr := os.Stat(out)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "no image may be written")
}

func TestGenerateSidecarFailureEmitsNoImage(t *testing.T) {
	missingDir := filepath.Join(t.TempDir(), "missing")
	tests := []struct {
		name string
		args []string
	}{
		{"swatch", []string{"--swatch", filepath.Join(missingDir, "swatch.png")}},
		{"score plot", []string{"--score-plot", filepath.Join(missingDir, "scores.png")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"generate", "-W", "8", "-H", "8", "--seed", "2"}, tt.args...)
			stdout, _, err := execute(t, args...)
			require.Error(t, err)
			assert.Equal(t, ExitOutput, ExitCode(err))
			assert.Empty(t, stdout)
		})
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unparsable width", []string{"--width", "abc"}, ExitConfig},
		{"zero width", []string{"--width", "0"}, ExitConfig},
		{"bad step", []string{"--step", "300"}, ExitConfig},
		{"bad order", []string{"--order", "random"}, ExitConfig},
		{"bad format", []string{"--format", "jpeg"}, ExitConfig},
		{"bad start", []string{"--start", "1;2"}, ExitConfig},
		{"start outside grid", []string{"--start", "9,9"}, ExitConfig},
		{"missing template", []string{"--template", "does-not-exist.pgm"}, ExitTemplate},
		{"grid over budget", []string{"--budget", "10"}, ExitAllocGrid},
		{"palette over budget", []string{"--budget", "400"}, ExitAllocPalette},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"generate", "-W", "8", "-H", "8", "--seed", "1"}, tt.args...)
			stdout, _, err := execute(t, args...)
			require.Error(t, err)
			assert.Equal(t, tt.want, ExitCode(err))
			assert.Empty(t, stdout)
		})
	}
}

func TestGenerateConfig(t *testing.T) {
	cfg := writeFile(t, "run.toml", `
width = 3
height = 3
seed = 9
starts = [[1, 1]]
format = "ppm"
palette = ["#000000", "#101010", "#202020", "#303030", "#404040",
           "#505050", "#606060", "#707070", "#808080"]
mystery = true
`)
	stdout, logs, err := execute(t, "generate", "--config", cfg, "--format", "ppm-raw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "P6"), "flags override the config")
	assert.Contains(t, logs, "seed=9")
	assert.Contains(t, logs, "mystery")
}

func TestGenerateConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", "width = = 3"},
		{"bad start", "starts = [[1, 2, 3]]"},
		{"bad color", `palette = ["#zzzzzz"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := writeFile(t, "run.toml", tt.content)
			_, _, err := execute(t, "generate", "--config", cfg)
			require.Error(t, err)
			assert.Equal(t, ExitConfig, ExitCode(err))
		})
	}
}

func TestConfigTemplatesRelativeToFile(t *testing.T) {
	cfgPath := writeFile(t, "run.toml", `templates = ["masks/a.pgm", "/abs/b.pgm"]`)
	cfg, err := loadConfig(cfgPath, log.New(&bytes.Buffer{}))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(filepath.Dir(cfgPath), "masks", "a.pgm"), "/abs/b.pgm"}, cfg.Templates)
}

func TestInspect(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := range 16 {
		for x := range 16 {
			c := color.RGBA{R: 220, G: 40, B: 40, A: 255}
			if y >= 8 {
				c = color.RGBA{R: 40, G: 40, B: 220, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	path := filepath.Join(t.TempDir(), "in.png")
	require.NoError(t, utils.SaveImage(img, path))
	swatch := filepath.Join(t.TempDir(), "swatch.png")

	stdout, _, err := execute(t, "inspect", path, "-k", "2", "--swatch", swatch)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.NotEmpty(t, lines)
	assert.LessOrEqual(t, len(lines), 2)
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, "#"), l)
	}
	_, err = os.Stat(swatch)
	assert.NoError(t, err)
}

func TestInspectTable(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := range 8 {
		for x := range 8 {
			img.SetRGBA(x, y, color.RGBA{R: 200, G: 60, B: 40, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "solid.png")
	require.NoError(t, utils.SaveImage(img, path))

	stdout, _, err := execute(t, "inspect", path, "-k", "1", "--table")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Color")
	assert.Contains(t, stdout, "Weight")
	assert.Contains(t, stdout, "#")
}

func TestInspectErrors(t *testing.T) {
	_, _, err := execute(t, "inspect", filepath.Join(t.TempDir(), "missing.png"))
	assert.Equal(t, ExitConfig, ExitCode(err))

	_, _, err = execute(t, "inspect", "x.png", "-k", "0")
	assert.Equal(t, ExitConfig, ExitCode(err))

	_, _, err = execute(t, "inspect", "x.png", "--method", "median-cut")
	assert.Equal(t, ExitConfig, ExitCode(err))
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "prettycolors version "+Version)
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in      string
		want    pc.Position
		wantErr bool
	}{
		{in: "3,4", want: pc.Position{Row: 3, Col: 4}},
		{in: " 0 , 12 ", want: pc.Position{Row: 0, Col: 12}},
		{in: "3", wantErr: true},
		{in: "a,1", wantErr: true},
		{in: "1,b", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePosition(tt.in)
			if tt.wantErr {
				assert.True(t, pc.IsCode(err, pc.ErrCodeConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{errors.New("plain"), ExitFailure},
		{pc.Errorf(pc.ErrCodeInternal, "x"), ExitFailure},
		{pc.Errorf(pc.ErrCodeConfig, "x"), ExitConfig},
		{pc.Errorf(pc.ErrCodeTemplate, "x"), ExitTemplate},
		{pc.Errorf(pc.ErrCodeAllocGrid, "x"), ExitAllocGrid},
		{pc.Errorf(pc.ErrCodeAllocPalette, "x"), ExitAllocPalette},
		{pc.Errorf(pc.ErrCodeAllocMask, "x"), ExitAllocMask},
		{pc.Wrapf(pc.ErrCodeOutput, errors.New("disk full"), "write"), ExitOutput},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExitCode(tt.err), "%v", tt.err)
	}
}
