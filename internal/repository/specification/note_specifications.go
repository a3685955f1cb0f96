package specification

import (
	"strings"

	"gorm.io/gorm"
)

// ByKeyword matches the keyword anywhere in title or body, case-insensitively.
type ByKeyword struct {
	Keyword string
}

func (s ByKeyword) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + escapeLike(strings.TrimSpace(s.Keyword)) + "%"
	return db.Where("(notes.title ILIKE ? OR notes.body ILIKE ?)", pattern, pattern)
}

// ByTag matches notes carrying the tag, case-insensitively.
type ByTag struct {
	Tag string
}

func (s ByTag) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(
		"EXISTS (SELECT 1 FROM jsonb_array_elements_text(notes.tags) AS t(tag) WHERE lower(t.tag) = lower(?))",
		strings.TrimSpace(s.Tag),
	)
}

// ForFilter translates the non-empty fields of a note filter into specifications.
func ForFilter(keyword, tag string, limit int) []Specification {
	specs := []Specification{}
	if strings.TrimSpace(keyword) != "" {
		specs = append(specs, ByKeyword{Keyword: keyword})
	}
	if strings.TrimSpace(tag) != "" {
		specs = append(specs, ByTag{Tag: tag})
	}
	specs = append(specs, OrderBy{Field: "notes.created_at", Desc: true}, Pagination{Limit: limit})
	return specs
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
