package digit

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perceptron/neuralnet"
)

// glyph draws a vertical bar of width w starting at column x.
func glyph(x, w int) []string {
	rows := make([]string, Height)
	for y := range rows {
		if y < 4 || y >= Height-4 {
			continue
		}
		rows[y] = strings.Repeat(" ", x) + strings.Repeat("+", w)
	}
	return rows
}

func TestParse(t *testing.T) {
	rows := glyph(3, 2)
	d, err := Parse(rows)
	require.NoError(t, err)

	assert.Equal(t, Width*Height, d.Size())
	assert.Equal(t, Classes, d.NumOutputClasses())
	assert.True(t, d.On(10, 3))
	assert.True(t, d.On(10, 4))
	assert.False(t, d.On(10, 5))
	assert.False(t, d.On(0, 3))
	assert.False(t, d.On(Height, 0), "out of range reads as off")

	flat := d.Flatten()
	require.Len(t, flat, Width*Height)
	var on int
	for _, v := range flat {
		assert.True(t, v == 0 || v == 1)
		if v == 1 {
			on++
		}
	}
	assert.Equal(t, 2*(Height-8), on)
	assert.Equal(t, 1.0, flat[10*Width+3])
}

func TestParseRejectsBadShapes(t *testing.T) {
	_, err := Parse(make([]string, Height-1))
	assert.Error(t, err)

	rows := make([]string, Height)
	rows[5] = strings.Repeat("#", Width+1)
	_, err = Parse(rows)
	assert.Error(t, err)
}

func TestFlattenReturnsCopy(t *testing.T) {
	d, err := Parse(glyph(0, 1))
	require.NoError(t, err)

	flat := d.Flatten()
	flat[4*Width] = 42
	assert.Equal(t, 1.0, d.Flatten()[4*Width])
}

func TestStringRoundTrip(t *testing.T) {
	d, err := Parse(glyph(7, 3))
	require.NoError(t, err)

	again := MustParse(d.String())
	assert.Equal(t, d.Flatten(), again.Flatten())
}

func TestDigitIsSample(t *testing.T) {
	var _ neuralnet.Sample = Digit{}
}

func TestReadImages(t *testing.T) {
	var sb strings.Builder
	for _, x := range []int{1, 5, 9} {
		sb.WriteString(strings.Join(glyph(x, 2), "\n"))
		sb.WriteString("\n")
	}
	sb.WriteString("\n\n")

	digits, err := ReadImages(strings.NewReader(sb.String()))
	require.NoError(t, err)
	require.Len(t, digits, 3)
	assert.True(t, digits[1].On(6, 5))
	assert.False(t, digits[1].On(6, 1))
}

func TestReadImagesTruncated(t *testing.T) {
	art := strings.Join(glyph(1, 2), "\n") + "\n" + "  ++\n"
	_, err := ReadImages(strings.NewReader(art))
	assert.Error(t, err)
}

func TestReadLabels(t *testing.T) {
	labels, err := ReadLabels(strings.NewReader("5\n0\n4\n1\n9\n"))
	require.NoError(t, err)
	assert.Equal(t, []int{5, 0, 4, 1, 9}, labels)

	_, err = ReadLabels(strings.NewReader("5\nx\n"))
	assert.Error(t, err)
}

func writePartition(t *testing.T, dir string, files Files, xs []int) {
	t.Helper()
	var images, labels strings.Builder
	for i, x := range xs {
		images.WriteString(strings.Join(glyph(x, 2), "\n"))
		images.WriteString("\n")
		labels.WriteString(string(rune('0' + i%Classes)))
		labels.WriteString("\n")
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, files.Images), []byte(images.String()), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, files.Labels), []byte(labels.String()), 0o644))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writePartition(t, dir, DefaultFiles[neuralnet.Train], []int{0, 2, 4, 6})
	writePartition(t, dir, DefaultFiles[neuralnet.Test], []int{1, 3})
	writePartition(t, dir, DefaultFiles[neuralnet.Validation], []int{5})

	data, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 4, data.Len(neuralnet.Train))
	assert.Equal(t, 2, data.Len(neuralnet.Test))
	assert.Equal(t, 1, data.Len(neuralnet.Validation))
	assert.Equal(t, []int{0, 1, 2, 3}, data.Labels[neuralnet.Train])

	nn, err := neuralnet.NewNeuralNetwork(data, 1, []int{15}, neuralnet.Params{
		Epochs: 1, LearningRate: 0.01, FractionStep: 1, InitRange: 0.1, Seed: 1, Score: neuralnet.Test,
	})
	require.NoError(t, err)
	assert.Equal(t, Width*Height, nn.NumInput())
	assert.Equal(t, Classes, nn.NumOutput())
}

func TestLoadMismatchedLabels(t *testing.T) {
	dir := t.TempDir()
	writePartition(t, dir, DefaultFiles[neuralnet.Train], []int{0, 2})
	writePartition(t, dir, DefaultFiles[neuralnet.Test], []int{1})
	writePartition(t, dir, DefaultFiles[neuralnet.Validation], []int{5})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "testlabels"), []byte("1\n2\n"), 0o644))

	_, err := Load(dir)
	assert.ErrorContains(t, err, "test")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.ErrorContains(t, err, "train: open images")
}
