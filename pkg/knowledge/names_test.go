package knowledge

import (
	"errors"
	"testing"
)

func TestNormaliseLevel(t *testing.T) {
	cases := map[string]string{
		"UG":                    "ug",
		"ug":                    "ug",
		"Undergraduate":         "ug",
		"postgraduate_taught":   "pgt",
		"PG_ReSearch":           "pgr",
		"Postgraduate_Research": "pgr",
		"  UG ":                 "ug",
	}

	for input, want := range cases {
		got, err := NormaliseLevel(input)
		if err != nil {
			t.Errorf("NormaliseLevel(%q) failed: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("NormaliseLevel(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormaliseLevel_Idempotent(t *testing.T) {
	for _, input := range []string{"UG", "Undergraduate", "pg_research", "mystery"} {
		once, err := NormaliseLevel(input)
		if err != nil {
			t.Fatalf("NormaliseLevel(%q) failed: %v", input, err)
		}
		twice, err := NormaliseLevel(once)
		if err != nil {
			t.Fatalf("NormaliseLevel(%q) failed: %v", once, err)
		}
		if once != twice {
			t.Errorf("not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestNormaliseLevel_UnknownPassesThrough(t *testing.T) {
	got, err := NormaliseLevel("Mystery")
	if err != nil {
		t.Fatalf("NormaliseLevel failed: %v", err)
	}
	if got != "mystery" {
		t.Errorf("expected lower-cased pass-through, got %q", got)
	}
}

func TestNormaliseLevel_EmptyRejected(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		if _, err := NormaliseLevel(input); !errors.Is(err, ErrLevelEmpty) {
			t.Errorf("NormaliseLevel(%q): expected ErrLevelEmpty, got %v", input, err)
		}
	}
}

func TestCollectionName_Handbook(t *testing.T) {
	cases := []struct {
		docType, level, want string
	}{
		{"handbook", "UG", "handbook_ug"},
		{"Handbook", "ug", "handbook_ug"},
		{"handbook", " UG ", "handbook_ug"},
		{"handbook", "pgt", "handbook_pgt"},
		{"handbook", "Postgraduate_Research", "handbook_pgr"},
	}

	for _, tc := range cases {
		got, err := CollectionName(tc.docType, tc.level)
		if err != nil {
			t.Errorf("CollectionName(%q, %q) failed: %v", tc.docType, tc.level, err)
			continue
		}
		if got != tc.want {
			t.Errorf("CollectionName(%q, %q) = %q, want %q", tc.docType, tc.level, got, tc.want)
		}
	}
}

func TestCollectionName_HandbookRequiresLevel(t *testing.T) {
	for _, level := range []string{"", "   "} {
		if _, err := CollectionName("handbook", level); !errors.Is(err, ErrLevelRequired) {
			t.Errorf("CollectionName(handbook, %q): expected ErrLevelRequired, got %v", level, err)
		}
	}
}

func TestCollectionName_OtherDocTypes(t *testing.T) {
	got, err := CollectionName("academic_integrity", "")
	if err != nil {
		t.Fatalf("CollectionName failed: %v", err)
	}
	if got != "academic_integrity" {
		t.Errorf("got %q", got)
	}

	// Level is ignored, doc type is trimmed and lower-cased.
	got, err = CollectionName("  Academic_Integrity ", "UG")
	if err != nil {
		t.Fatalf("CollectionName failed: %v", err)
	}
	if got != "academic_integrity" {
		t.Errorf("got %q", got)
	}
}
