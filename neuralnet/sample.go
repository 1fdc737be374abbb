package neuralnet

import (
	"errors"
	"fmt"
	"strings"
)

// Sample is anything the network can consume: a fixed-size input that
// flattens to a dense feature vector. Implementations must be immutable.
type Sample interface {
	// Size is the length of the flattened feature vector.
	Size() int
	// NumOutputClasses is the number of classes the sample can be labeled with.
	NumOutputClasses() int
	// Flatten returns a fresh feature vector of length Size.
	Flatten() []float64
}

// Partition indexes one of the three sample sequences of a Dataset.
type Partition int

const (
	Train Partition = iota
	Test
	Validation

	numPartitions = 3
)

var partitionNames = [numPartitions]string{"train", "test", "validation"}

func (p Partition) String() string {
	if p < 0 || p >= numPartitions {
		return fmt.Sprintf("Partition(%d)", int(p))
	}
	return partitionNames[p]
}

// ParsePartition maps "train", "test" or "validation" to its Partition.
func ParsePartition(s string) (Partition, error) {
	for i, name := range partitionNames {
		if strings.EqualFold(s, name) {
			return Partition(i), nil
		}
	}
	return 0, fmt.Errorf("unknown partition %q", s)
}

// Dataset holds the train, test and validation partitions and their labels.
type Dataset struct {
	Samples [numPartitions][]Sample
	Labels  [numPartitions][]int
}

// Len returns the number of samples in partition p.
func (d *Dataset) Len(p Partition) int {
	return len(d.Samples[p])
}

// validate checks the partition shapes and returns the input and output
// sizes shared by every sample.
func (d *Dataset) validate() (numInput, numOutput int, err error) {
	for p := Partition(0); p < numPartitions; p++ {
		if len(d.Samples[p]) == 0 {
			return 0, 0, fmt.Errorf("%s partition is empty", p)
		}
		if len(d.Labels[p]) != len(d.Samples[p]) {
			return 0, 0, fmt.Errorf("%s partition has %d samples but %d labels", p, len(d.Samples[p]), len(d.Labels[p]))
		}
	}

	first := d.Samples[Train][0]
	if first == nil {
		return 0, 0, errors.New("train partition starts with a nil sample")
	}
	numInput, numOutput = first.Size(), first.NumOutputClasses()
	if numInput <= 0 {
		return 0, 0, fmt.Errorf("sample size must be > 0 (got %d)", numInput)
	}
	if numOutput <= 0 {
		return 0, 0, fmt.Errorf("sample output classes must be > 0 (got %d)", numOutput)
	}

	for p := Partition(0); p < numPartitions; p++ {
		for i, s := range d.Samples[p] {
			if s == nil {
				return 0, 0, fmt.Errorf("%s sample %d is nil", p, i)
			}
			if s.Size() != numInput || s.NumOutputClasses() != numOutput {
				return 0, 0, fmt.Errorf("%s sample %d has shape %d->%d, want %d->%d",
					p, i, s.Size(), s.NumOutputClasses(), numInput, numOutput)
			}
			if l := d.Labels[p][i]; l < 0 || l >= numOutput {
				return 0, 0, fmt.Errorf("%s label %d is %d, want [0, %d)", p, i, l, numOutput)
			}
		}
	}
	return numInput, numOutput, nil
}
