// Package chunk splits document text into overlapping fixed-size windows,
// the unit of embedding and retrieval.
package chunk

import "errors"

var (
	// ErrInvalidSize is returned when the window size is not positive.
	ErrInvalidSize = errors.New("chunk size must be positive")
	// ErrInvalidOverlap is returned when the overlap is negative or not
	// smaller than the window size. An overlap >= size would never advance
	// the window.
	ErrInvalidOverlap = errors.New("chunk overlap must be non-negative and smaller than chunk size")
)

// Split cuts text into windows of size runes, each starting size-overlap
// runes after the previous one. The last window may be shorter. Empty text
// yields no windows. Splitting is purely positional; it does not respect
// token or sentence boundaries.
func Split(text string, size, overlap int) ([]string, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	if overlap < 0 || overlap >= size {
		return nil, ErrInvalidOverlap
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	step := size - overlap
	chunks := make([]string, 0, (len(runes)+step-1)/step)
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks, nil
}
