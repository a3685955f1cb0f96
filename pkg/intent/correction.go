package intent

import (
	"regexp"
	"strings"
)

type correctionPattern struct {
	name    string
	pattern *regexp.Regexp
	extract func(match []string) []string
}

var tagSeparator = regexp.MustCompile(`(?i)\s*(?:,|\by\b)\s*`)

// correctionPatterns are tried in order; the first one that matches decides.
var correctionPatterns = []correctionPattern{
	{
		name:    "cambia_etiqueta_a",
		pattern: regexp.MustCompile(`(?i)\bc[aá]mbi\S*\b.*?\betiquetas?\b.*?\s(?:a|por)\s+(.+)$`),
		extract: splitTagList,
	},
	{
		name:    "deberia_ser",
		pattern: regexp.MustCompile(`(?i)\bdeber[ií]a\s+ser\s+(.+)$`),
		extract: splitTagList,
	},
	{
		name:    "etiqueta",
		pattern: regexp.MustCompile(`(?i)\betiquetas?\b[\s:=]+(?:(?:es|son|ser[ií]a|ser[ií]an|debe\s+ser|a|por|como)\s+)?(.+)$`),
		extract: splitTagList,
	},
	{
		name:    "categoria",
		pattern: regexp.MustCompile(`(?i)\bcategor[ií]as?\b[\s:=]+(?:(?:es|son|ser[ií]a|a|por|como)\s+)?(.+)$`),
		extract: splitTagList,
	},
}

// ParseTagCorrection extracts a new tag list from a free-text correction such
// as "cambia la etiqueta a Recetas, Ideas". It reports false when the text is
// not a correction or names no usable tag.
func ParseTagCorrection(text, noteTitleHint string) (TagCorrection, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return TagCorrection{}, false
	}

	for _, p := range correctionPatterns {
		m := p.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		tags := p.extract(m)
		if len(tags) == 0 {
			return TagCorrection{}, false
		}
		return TagCorrection{NewTags: tags, NoteTitle: noteTitleHint}, true
	}
	return TagCorrection{}, false
}

func splitTagList(match []string) []string {
	if len(match) < 2 {
		return nil
	}

	var tags []string
	for _, piece := range tagSeparator.Split(match[1], -1) {
		piece = strings.Trim(strings.TrimSpace(piece), `"'“”«».!¡?¿;`)
		piece = strings.TrimSpace(piece)
		if piece != "" {
			tags = append(tags, piece)
		}
	}
	return tags
}
