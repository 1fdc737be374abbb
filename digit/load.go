package digit

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"perceptron/neuralnet"
)

// Files names the image and label file of one partition.
type Files struct {
	Images string
	Labels string
}

// DefaultFiles are the file names of the digit data directory, indexed by
// partition.
var DefaultFiles = [3]Files{
	neuralnet.Train:      {Images: "trainingimages", Labels: "traininglabels"},
	neuralnet.Test:       {Images: "testimages", Labels: "testlabels"},
	neuralnet.Validation: {Images: "validationimages", Labels: "validationlabels"},
}

// ReadImages splits r into blocks of Height lines and parses each block. A
// trailing block made only of blank lines is ignored.
func ReadImages(r io.Reader) ([]Digit, error) {
	var (
		digits []Digit
		block  = make([]string, 0, Height)
	)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		block = append(block, scanner.Text())
		if len(block) < Height {
			continue
		}
		d, err := Parse(block)
		if err != nil {
			return nil, errors.Wrapf(err, "image %d", len(digits))
		}
		digits = append(digits, d)
		block = block[:0]
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan images")
	}
	for _, line := range block {
		if strings.TrimSpace(line) != "" {
			return nil, errors.Errorf("image %d: truncated after %d rows", len(digits), len(block))
		}
	}
	return digits, nil
}

// ReadLabels reads one ASCII digit per sample. Whitespace between labels is
// skipped.
func ReadLabels(r io.Reader) ([]int, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read labels")
	}
	var labels []int
	for i, c := range string(raw) {
		switch {
		case unicode.IsSpace(c):
		case c >= '0' && c <= '9':
			labels = append(labels, int(c-'0'))
		default:
			return nil, errors.Errorf("offset %d: %q is not a label", i, c)
		}
	}
	return labels, nil
}

// LoadImages reads the image file at path.
func LoadImages(path string) ([]Digit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open images")
	}
	defer f.Close()

	digits, err := ReadImages(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return digits, nil
}

// LoadLabels reads the label file at path.
func LoadLabels(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open labels")
	}
	defer f.Close()

	labels, err := ReadLabels(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return labels, nil
}

// Load reads all three partitions from dir using DefaultFiles.
func Load(dir string) (neuralnet.Dataset, error) {
	var data neuralnet.Dataset
	for p, files := range DefaultFiles {
		partition := neuralnet.Partition(p)
		digits, err := LoadImages(filepath.Join(dir, files.Images))
		if err != nil {
			return neuralnet.Dataset{}, errors.Wrapf(err, "%s", partition)
		}
		labels, err := LoadLabels(filepath.Join(dir, files.Labels))
		if err != nil {
			return neuralnet.Dataset{}, errors.Wrapf(err, "%s", partition)
		}
		if len(digits) != len(labels) {
			return neuralnet.Dataset{}, errors.Errorf("%s: %d images but %d labels", partition, len(digits), len(labels))
		}

		data.Samples[p] = make([]neuralnet.Sample, len(digits))
		for i, d := range digits {
			data.Samples[p][i] = d
		}
		data.Labels[p] = labels
	}
	return data, nil
}
