package reply

import (
	"fmt"
	"sort"
	"strings"

	"ai-notes-bot/internal/entity"
	"ai-notes-bot/pkg/search"
)

const (
	Apology = "Lo siento, tuve un problema procesando tu mensaje. Inténtalo de nuevo en un momento."

	NothingToCorrect = "No tengo ninguna nota reciente a la que cambiarle las etiquetas. Guarda una nota primero."
)

// maxSnippet caps note bodies shown in listings.
const maxSnippet = 120

func NoteSaved(title string, tags, suggested []string, offerCorrection bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ Nota guardada: \"%s\"", title)
	if len(tags) > 0 {
		fmt.Fprintf(&sb, "\n🏷️ Etiquetas: %s", strings.Join(tags, ", "))
	} else {
		sb.WriteString("\n🏷️ Sin etiquetas")
	}
	if extra := notAssigned(suggested, tags); len(extra) > 0 {
		fmt.Fprintf(&sb, "\n💡 Notas parecidas usan: %s", strings.Join(extra, ", "))
	}
	if offerCorrection {
		sb.WriteString("\n\n¿Quieres cambiar las etiquetas? Dime, por ejemplo: \"cambia la etiqueta a Ideas\".")
	}
	return sb.String()
}

// notAssigned drops suggestions the note already carries, ignoring case.
func notAssigned(suggested, tags []string) []string {
	var out []string
	for _, s := range suggested {
		dup := false
		for _, t := range tags {
			if strings.EqualFold(s, t) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, s)
		}
	}
	return out
}

func TagsUpdated(title string, tags []string) string {
	if title == "" {
		return fmt.Sprintf("🏷️ Etiquetas actualizadas: %s", strings.Join(tags, ", "))
	}
	return fmt.Sprintf("🏷️ Etiquetas de \"%s\" actualizadas: %s", title, strings.Join(tags, ", "))
}

func TagsUpdateFailed(title string) string {
	if title == "" {
		return "No pude actualizar las etiquetas. La nota quedó como estaba."
	}
	return fmt.Sprintf("No pude actualizar las etiquetas de \"%s\". La nota quedó como estaba.", title)
}

// SearchResults words the reply according to how the notes were found.
func SearchResults(query string, res search.Result, limit int) string {
	if res.Empty() {
		return fmt.Sprintf("🔍 No encontré notas sobre \"%s\". Prueba con una palabra más general.", query)
	}

	var header string
	switch res.Tier {
	case search.TierExact:
		header = fmt.Sprintf("🔍 Encontré %s sobre \"%s\":", plural(len(res.Notes), "nota", "notas"), query)
	case search.TierSynonym:
		header = fmt.Sprintf("🔍 No encontré \"%s\" tal cual, pero hay %s:", query, plural(len(res.Notes), "nota relacionada", "notas relacionadas"))
	default:
		header = fmt.Sprintf("🔍 Nada exacto sobre \"%s\", pero quizá te interese:", query)
	}

	var sb strings.Builder
	sb.WriteString(header)
	for i, n := range res.Top(limit) {
		fmt.Fprintf(&sb, "\n\n%d. %s", i+1, formatNote(n.Note))
		if len(n.MatchReasons) > 0 {
			fmt.Fprintf(&sb, "\n   ↳ %s", n.MatchReasons[0])
		}
	}
	if hidden := len(res.Notes) - len(res.Top(limit)); hidden > 0 {
		fmt.Fprintf(&sb, "\n\n…y %s más.", plural(hidden, "nota", "notas"))
	}
	return sb.String()
}

func NotesByTag(tag string, notes []entity.Note, limit int) string {
	if len(notes) == 0 {
		return fmt.Sprintf("🏷️ No tienes notas con la etiqueta \"%s\".", tag)
	}
	return listing(fmt.Sprintf("🏷️ Notas con la etiqueta \"%s\" (%d):", tag, len(notes)), notes, limit)
}

func RecentNotes(notes []entity.Note, limit int) string {
	if len(notes) == 0 {
		return "📭 Todavía no tienes notas guardadas."
	}
	return listing("🕒 Tus notas más recientes:", notes, limit)
}

// TagCounts answers a count question, for one tag when tag is non-empty.
func TagCounts(total int, counts map[string]int, tag string) string {
	if tag != "" {
		n := 0
		for t, c := range counts {
			if strings.EqualFold(t, tag) {
				n += c
			}
		}
		return fmt.Sprintf("📊 Tienes %s con la etiqueta \"%s\".", plural(n, "nota", "notas"), tag)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Tienes %s en total.", plural(total, "nota", "notas"))
	if len(counts) == 0 {
		return sb.String()
	}

	tags := make([]string, 0, len(counts))
	for t := range counts {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	for _, t := range tags {
		fmt.Fprintf(&sb, "\n• %s: %d", t, counts[t])
	}
	return sb.String()
}

func listing(header string, notes []entity.Note, limit int) string {
	shown := notes
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	var sb strings.Builder
	sb.WriteString(header)
	for i, n := range shown {
		fmt.Fprintf(&sb, "\n\n%d. %s", i+1, formatNote(n))
	}
	if hidden := len(notes) - len(shown); hidden > 0 {
		fmt.Fprintf(&sb, "\n\n…y %s más.", plural(hidden, "nota", "notas"))
	}
	return sb.String()
}

func formatNote(n entity.Note) string {
	var sb strings.Builder
	sb.WriteString(n.Title)
	if len(n.Tags) > 0 {
		fmt.Fprintf(&sb, " [%s]", strings.Join(n.Tags, ", "))
	}
	if body := snippet(n.Body); body != "" {
		fmt.Fprintf(&sb, "\n   %s", body)
	}
	return sb.String()
}

func snippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= maxSnippet {
		return s
	}
	return strings.TrimSpace(string(r[:maxSnippet])) + "…"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
