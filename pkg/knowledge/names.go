package knowledge

import (
	"errors"
	"strings"
)

// Known document types. Other doc types are accepted as-is; each maps to
// its own collection.
const (
	DocTypeHandbook          = "handbook"
	DocTypeAcademicIntegrity = "academic_integrity"
)

var (
	// ErrLevelEmpty is returned when a level is empty or whitespace-only.
	ErrLevelEmpty = errors.New("level must not be empty")
	// ErrLevelRequired is returned when a handbook collection is requested
	// without a level.
	ErrLevelRequired = errors.New("level is required for handbook documents")
)

// levelAliases maps long-form level names to their canonical tokens.
// Unknown levels pass through lower-cased so new levels can be introduced
// without code changes.
var levelAliases = map[string]string{
	"undergraduate":         "ug",
	"postgraduate_taught":   "pgt",
	"pg_taught":             "pgt",
	"postgraduate_research": "pgr",
	"pg_research":           "pgr",
}

// NormaliseLevel maps a level string to its canonical token. Matching is
// case- and whitespace-insensitive. Idempotent.
func NormaliseLevel(level string) (string, error) {
	l := strings.ToLower(strings.TrimSpace(level))
	if l == "" {
		return "", ErrLevelEmpty
	}
	if canonical, ok := levelAliases[l]; ok {
		return canonical, nil
	}
	return l, nil
}

// CollectionName resolves the canonical collection for a document type and
// level. Handbooks are partitioned per level (handbook_ug, handbook_pgt,
// handbook_pgr); every other doc type maps to one collection named after
// the lower-cased, trimmed doc type, and the level is ignored.
func CollectionName(docType, level string) (string, error) {
	dt := strings.ToLower(strings.TrimSpace(docType))
	if dt != DocTypeHandbook {
		return dt, nil
	}

	lvl, err := NormaliseLevel(level)
	if err != nil {
		return "", ErrLevelRequired
	}
	return dt + "_" + lvl, nil
}
