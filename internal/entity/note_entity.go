package entity

import (
	"strings"
	"time"
)

// Note is a stored note as seen by the rest of the application, independent
// of which backing store produced it. Id is empty until the store assigns one.
type Note struct {
	Id        string
	Title     string
	Body      string
	Tags      []string
	CreatedAt time.Time
}

// HasTag reports whether the note carries tag, ignoring case.
func (n Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if strings.EqualFold(strings.TrimSpace(t), strings.TrimSpace(tag)) {
			return true
		}
	}
	return false
}
