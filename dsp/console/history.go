package console

import "fmt"

// History is a fixed-depth record of recent samples, newest first. Push
// overwrites the oldest entry; At(0) is the newest. The backing array is
// allocated once at construction.
type History struct {
	buf    []float64
	cursor int
}

// NewHistory creates a history of depth zeroed samples.
func NewHistory(depth int) (*History, error) {
	if depth < 1 {
		return nil, fmt.Errorf("history depth must be >= 1: %d", depth)
	}

	return &History{buf: make([]float64, depth)}, nil
}

// Push records v as the newest sample, evicting the oldest.
func (h *History) Push(v float64) {
	h.cursor--
	if h.cursor < 0 {
		h.cursor = len(h.buf) - 1
	}

	h.buf[h.cursor] = v
}

// At returns the i-th newest sample; At(0) is the newest. Indices outside
// [0, Len) return 0.
func (h *History) At(i int) float64 {
	if i < 0 || i >= len(h.buf) {
		return 0
	}

	idx := h.cursor + i
	if idx >= len(h.buf) {
		idx -= len(h.buf)
	}

	return h.buf[idx]
}

// Len returns the history depth.
func (h *History) Len() int { return len(h.buf) }

// Reset zeroes all entries.
func (h *History) Reset() {
	for i := range h.buf {
		h.buf[i] = 0
	}

	h.cursor = 0
}
