package reply

import (
	"strings"
	"testing"

	"ai-notes-bot/internal/entity"
	"ai-notes-bot/pkg/search"

	"github.com/stretchr/testify/assert"
)

func scored(titles ...string) []search.ScoredNote {
	out := make([]search.ScoredNote, 0, len(titles))
	for _, t := range titles {
		out = append(out, search.ScoredNote{Note: entity.Note{Title: t}, MatchReasons: []string{"razón de " + t}})
	}
	return out
}

func TestNoteSaved(t *testing.T) {
	msg := NoteSaved("Pasta", []string{"Recetas"}, []string{"Cocina"}, true)

	assert.Contains(t, msg, `✅ Nota guardada: "Pasta"`)
	assert.Contains(t, msg, "Etiquetas: Recetas")
	assert.Contains(t, msg, "Notas parecidas usan: Cocina")
	assert.Contains(t, msg, "¿Quieres cambiar las etiquetas?")

	plain := NoteSaved("Pasta", nil, nil, false)
	assert.Contains(t, plain, "Sin etiquetas")
	assert.NotContains(t, plain, "parecidas")
	assert.NotContains(t, plain, "¿Quieres")
}

func TestNoteSaved_HidesSuggestionsAlreadyAssigned(t *testing.T) {
	msg := NoteSaved("Pasta", []string{"recetas"}, []string{"Recetas", "Italiana"}, true)
	assert.Contains(t, msg, "Notas parecidas usan: Italiana")
	assert.NotContains(t, msg, "usan: Recetas")

	all := NoteSaved("Pasta", []string{"Recetas"}, []string{"recetas"}, true)
	assert.NotContains(t, all, "parecidas")
	assert.Contains(t, all, "¿Quieres cambiar las etiquetas?")
}

func TestTagsUpdated(t *testing.T) {
	assert.Equal(t, `🏷️ Etiquetas de "Pasta" actualizadas: Cocina, Italiana`, TagsUpdated("Pasta", []string{"Cocina", "Italiana"}))
	assert.Equal(t, "🏷️ Etiquetas actualizadas: Cocina", TagsUpdated("", []string{"Cocina"}))
	assert.Contains(t, TagsUpdateFailed("Pasta"), `"Pasta"`)
}

func TestSearchResults_PhrasingPerTier(t *testing.T) {
	tests := []struct {
		name string
		res  search.Result
		want string
	}{
		{"exact", search.Result{Tier: search.TierExact, Notes: scored("A", "B")}, `Encontré 2 notas sobre "pasta"`},
		{"synonym single", search.Result{Tier: search.TierSynonym, Notes: scored("A")}, `No encontré "pasta" tal cual, pero hay 1 nota relacionada:`},
		{"synonym many", search.Result{Tier: search.TierSynonym, Notes: scored("A", "B")}, "2 notas relacionadas"},
		{"fuzzy", search.Result{Tier: search.TierFuzzy, Notes: scored("A")}, "quizá te interese"},
		{"none", search.Result{Tier: search.TierNone}, `No encontré notas sobre "pasta"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, SearchResults("pasta", tt.res, 5), tt.want)
		})
	}
}

func TestSearchResults_LimitAndReasons(t *testing.T) {
	msg := SearchResults("x", search.Result{Tier: search.TierExact, Notes: scored("A", "B", "C")}, 2)

	assert.Contains(t, msg, "1. A")
	assert.Contains(t, msg, "2. B")
	assert.NotContains(t, msg, "3. C")
	assert.Contains(t, msg, "↳ razón de A")
	assert.Contains(t, msg, "…y 1 nota más.")
}

func TestNotesByTagAndRecent(t *testing.T) {
	notes := []entity.Note{{Title: "A", Tags: []string{"Recetas"}, Body: "cuerpo"}}

	assert.Contains(t, NotesByTag("Recetas", notes, 5), `Notas con la etiqueta "Recetas" (1):`)
	assert.Contains(t, NotesByTag("Recetas", notes, 5), "1. A [Recetas]\n   cuerpo")
	assert.Contains(t, NotesByTag("Viajes", nil, 5), `No tienes notas con la etiqueta "Viajes"`)
	assert.Equal(t, "📭 Todavía no tienes notas guardadas.", RecentNotes(nil, 5))
}

func TestTagCounts(t *testing.T) {
	counts := map[string]int{"Recetas": 3, "Viajes": 1, "Ideas": 3}

	msg := TagCounts(5, counts, "")
	assert.True(t, strings.HasPrefix(msg, "📊 Tienes 5 notas en total."))
	assert.Less(t, strings.Index(msg, "Ideas"), strings.Index(msg, "Recetas"))
	assert.Less(t, strings.Index(msg, "Recetas"), strings.Index(msg, "Viajes"))

	assert.Equal(t, `📊 Tienes 3 notas con la etiqueta "recetas".`, TagCounts(5, counts, "recetas"))
	assert.Equal(t, `📊 Tienes 0 notas con la etiqueta "Nada".`, TagCounts(5, counts, "Nada"))
	assert.Equal(t, "📊 Tienes 1 nota en total.", TagCounts(1, nil, ""))
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "a b", snippet("  a \n b "))

	long := strings.Repeat("ñ", maxSnippet+10)
	got := snippet(long)
	assert.Equal(t, maxSnippet+1, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))
}
