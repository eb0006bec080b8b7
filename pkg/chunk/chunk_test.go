package chunk

import (
	"errors"
	"strings"
	"testing"
)

func TestSplit_Windows(t *testing.T) {
	chunks, err := Split("abcdefghij", 4, 1)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	want := []string{"abcd", "defg", "ghij", "j"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %v", len(want), len(chunks), chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], chunks[i])
		}
	}
}

func TestSplit_Reconstructs(t *testing.T) {
	cases := []struct {
		text    string
		size    int
		overlap int
	}{
		{"the quick brown fox jumps over the lazy dog", 10, 3},
		{strings.Repeat("x", 1000), 128, 32},
		{"short", 100, 10},
		{"exact", 5, 0},
		{"héllo wörld grüße", 4, 2},
	}

	for _, tc := range cases {
		chunks, err := Split(tc.text, tc.size, tc.overlap)
		if err != nil {
			t.Fatalf("Split(%q, %d, %d) failed: %v", tc.text, tc.size, tc.overlap, err)
		}

		var b strings.Builder
		for i, c := range chunks {
			runes := []rune(c)
			if i == 0 {
				b.WriteString(c)
				continue
			}
			if len(runes) > tc.overlap {
				b.WriteString(string(runes[tc.overlap:]))
			}
		}
		if b.String() != tc.text {
			t.Errorf("size=%d overlap=%d: reconstruction mismatch:\nwant %q\ngot  %q",
				tc.size, tc.overlap, tc.text, b.String())
		}
	}
}

func TestSplit_EmptyText(t *testing.T) {
	chunks, err := Split("", 100, 10)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected no chunks for empty text, got %d", len(chunks))
	}
}

func TestSplit_RejectsBadArguments(t *testing.T) {
	if _, err := Split("text", 0, 0); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("size=0: expected ErrInvalidSize, got %v", err)
	}
	if _, err := Split("text", -5, 0); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("size=-5: expected ErrInvalidSize, got %v", err)
	}
	if _, err := Split("text", 10, 10); !errors.Is(err, ErrInvalidOverlap) {
		t.Errorf("overlap==size: expected ErrInvalidOverlap, got %v", err)
	}
	if _, err := Split("text", 10, 11); !errors.Is(err, ErrInvalidOverlap) {
		t.Errorf("overlap>size: expected ErrInvalidOverlap, got %v", err)
	}
	if _, err := Split("text", 10, -1); !errors.Is(err, ErrInvalidOverlap) {
		t.Errorf("overlap<0: expected ErrInvalidOverlap, got %v", err)
	}
}

func TestSplit_LastChunkShorter(t *testing.T) {
	chunks, err := Split(strings.Repeat("a", 25), 10, 0)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if len(chunks[2]) != 5 {
		t.Errorf("expected final chunk of 5 runes, got %d", len(chunks[2]))
	}
}
