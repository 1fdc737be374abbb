// Package digit reads the ASCII-art digit images and labels the network
// trains on.
package digit

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

const (
	Width   = 28
	Height  = 28
	Classes = 10
)

// Digit is one Height x Width pixel grid. A pixel is on when its character is
// not whitespace.
type Digit struct {
	pixels *tensor.Dense
}

// Parse builds a Digit from exactly Height rows. Rows shorter than Width are
// padded with blank pixels.
func Parse(rows []string) (Digit, error) {
	if len(rows) != Height {
		return Digit{}, errors.Errorf("digit has %d rows, want %d", len(rows), Height)
	}
	backing := make([]float64, Width*Height)
	for y, row := range rows {
		runes := []rune(strings.TrimRight(row, "\r"))
		if len(runes) > Width {
			return Digit{}, errors.Errorf("row %d has %d columns, want at most %d", y, len(runes), Width)
		}
		for x, r := range runes {
			if !unicode.IsSpace(r) {
				backing[y*Width+x] = 1
			}
		}
	}
	return Digit{
		pixels: tensor.New(tensor.Of(tensor.Float64), tensor.WithShape(Height, Width), tensor.WithBacking(backing)),
	}, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(art string) Digit {
	d, err := Parse(strings.Split(strings.TrimSuffix(art, "\n"), "\n"))
	if err != nil {
		panic(err)
	}
	return d
}

func (d Digit) Size() int             { return Width * Height }
func (d Digit) NumOutputClasses() int { return Classes }

// Flatten returns the pixels row by row as 0.0 (off) or 1.0 (on).
func (d Digit) Flatten() []float64 {
	return append([]float64(nil), d.pixels.Data().([]float64)...)
}

// On reports whether the pixel at row y, column x is set.
func (d Digit) On(y, x int) bool {
	v, err := d.pixels.At(y, x)
	if err != nil {
		return false
	}
	return v.(float64) != 0
}

// String renders the digit back as ASCII art, '#' for on pixels.
func (d Digit) String() string {
	var sb strings.Builder
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if d.On(y, x) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
