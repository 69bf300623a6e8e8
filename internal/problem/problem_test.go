package problem

import (
	"os"
	"path/filepath"
	"testing"

	"multilat/internal/multilat"
	"multilat/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
version: 1
name: pair
circles:
  - center: {x: 5, y: 5}
    radius: 2
    label: north
  - center: {x: 8, y: 5}
    radius: 3
config:
  opt_trials: 4
  method: lbfgs
  xlim: {min: 0, max: 12}
  ylim: {min: 0, max: 12}
plot_dir: plots
`

func TestDecodeYAML(t *testing.T) {
	p, err := Decode([]byte(sampleYAML), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "pair", p.Name)
	require.Len(t, p.Circles, 2)
	assert.Equal(t, geometry.NewPoint2D(5, 5), p.Circles[0].Center)
	assert.Equal(t, "north", p.Circles[0].Label)
	assert.Equal(t, 3.0, p.Circles[1].Radius)
	assert.Equal(t, 4, p.Config.OptTrials)
	assert.Equal(t, multilat.MethodLBFGS, p.Config.Method)
	require.NotNil(t, p.Config.XLim)
	assert.Equal(t, geometry.NewLimits(0, 12), *p.Config.XLim)
}

func TestDecodeJSON(t *testing.T) {
	data := `{"name": "one", "circles": [{"center": {"x": 3, "y": 3}, "radius": 2}]}`
	p, err := Decode([]byte(data), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "one", p.Name)
	assert.Len(t, p.Circles, 1)
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no circles", `{"name": "empty", "circles": []}`},
		{"negative radius", `{"circles": [{"center": {"x": 0, "y": 0}, "radius": -1}]}`},
		{"xlim alone", `{"circles": [{"center": {"x": 0, "y": 0}, "radius": 1}], "config": {"xlim": {"min": 0, "max": 1}}}`},
		{"bad method", `{"circles": [{"center": {"x": 0, "y": 0}, "radius": 1}], "config": {"method": "newton"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), FormatJSON)
			assert.ErrorIs(t, err, multilat.ErrInvalidInput)
		})
	}
}

func TestFormatOf(t *testing.T) {
	f, err := FormatOf("a/b.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = FormatOf("b.json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = FormatOf("b.toml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	orig := New("pair", []geometry.Circle{geometry.NewCircle(5, 5, 2), geometry.NewCircle(8, 5, 3)})
	orig.Config.Seed = 7

	for _, name := range []string{"p.yaml", "p.json"} {
		path := filepath.Join(dir, name)
		require.NoError(t, orig.Save(path))

		got, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, orig.Circles, got.Circles)
		assert.Equal(t, int64(7), got.Config.Seed)
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("missing.toml")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGetPlotDir(t *testing.T) {
	p := &File{}
	assert.Equal(t, filepath.Join("data"), p.GetPlotDir(filepath.Join("data", "p.yaml")))

	p.PlotDir = "plots"
	assert.Equal(t, filepath.Join("data", "plots"), p.GetPlotDir(filepath.Join("data", "p.yaml")))

	abs := filepath.Join(string(filepath.Separator), "tmp", "plots")
	p.PlotDir = abs
	assert.Equal(t, abs, p.GetPlotDir("p.yaml"))
}
