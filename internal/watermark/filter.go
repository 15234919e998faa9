package watermark

import "fmt"

// Filter is one of the fixed bias grids XORed into a channel before the
// forward transform.
type Filter int

const (
	Mask0 Filter = iota
	Mask15
	Mask16
	Mask31
)

// Filters lists every filter in search order.
var Filters = []Filter{Mask0, Mask15, Mask16, Mask31}

var filterBias = [...]uint8{0, 15, 16, 31}

// Bias returns the constant XORed into every sample.
func (f Filter) Bias() uint8 {
	return filterBias[f]
}

func (f Filter) Valid() bool {
	return f >= Mask0 && f <= Mask31
}

func (f Filter) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Filter(%d)", int(f))
	}
	return fmt.Sprintf("mask%d", f.Bias())
}

// Channel selects one colour plane.
type Channel int

const (
	R Channel = iota
	G
	B
)

func (c Channel) Valid() bool {
	return c >= R && c <= B
}

func (c Channel) String() string {
	switch c {
	case R:
		return "R"
	case G:
		return "G"
	case B:
		return "B"
	}
	return fmt.Sprintf("Channel(%d)", int(c))
}

// Target is a (filter, channel) pair the embedder searches over.
type Target struct {
	Filter  Filter
	Channel Channel
}

// Targets returns the searched pairs in selection order: mask0 on every
// channel, then every other filter on R only.
func Targets() []Target {
	targets := []Target{{Mask0, R}, {Mask0, G}, {Mask0, B}}
	for _, f := range Filters[1:] {
		targets = append(targets, Target{f, R})
	}
	return targets
}
