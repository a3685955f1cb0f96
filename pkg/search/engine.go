package search

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"ai-notes-bot/internal/entity"
)

// Tier says which matching strategy produced a result.
type Tier int

const (
	TierNone Tier = iota
	TierExact
	TierSynonym
	TierFuzzy
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierSynonym:
		return "synonym"
	case TierFuzzy:
		return "fuzzy"
	default:
		return "none"
	}
}

const (
	phraseTitleScore = 30
	phraseBodyScore  = 25
	phraseTagsScore  = 20

	tokenTitleScore = 15
	tokenBodyScore  = 12
	tokenTagsScore  = 10

	synonymTitleScore = 5
	synonymBodyScore  = 3
	synonymTagsScore  = 4

	fuzzyScore     = 1
	fuzzyPrefixLen = 4
)

// ScoredNote is a note ranked by one Search call.
type ScoredNote struct {
	entity.Note
	Relevance    int
	MatchReasons []string
}

type Result struct {
	Tier  Tier
	Notes []ScoredNote
}

func (r Result) Empty() bool {
	return len(r.Notes) == 0
}

// Top returns at most n notes, or all of them when n <= 0.
func (r Result) Top(n int) []ScoredNote {
	if n <= 0 || n >= len(r.Notes) {
		return r.Notes
	}
	return r.Notes[:n]
}

type Option func(*Engine)

func WithSynonyms(s Synonyms) Option {
	return func(e *Engine) {
		e.synonyms = s
	}
}

func WithStopWords(words []string) Option {
	return func(e *Engine) {
		e.stopWords = toSet(words)
	}
}

// Engine ranks candidate notes against a free-text query using three
// successively more permissive tiers. It holds no mutable state.
type Engine struct {
	synonyms  Synonyms
	stopWords map[string]struct{}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		synonyms:  defaultSynonyms,
		stopWords: toSet(defaultStopWords),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// fields is a note lowered once for matching.
type fields struct {
	title string
	body  string
	tags  string
}

func lowerFields(n entity.Note) fields {
	return fields{
		title: strings.ToLower(n.Title),
		body:  strings.ToLower(n.Body),
		tags:  strings.ToLower(strings.Join(n.Tags, ", ")),
	}
}

// Search never fails. An empty query or an empty candidate set produce an
// empty TierNone result. A query whose words are all too short or stop words
// is still matched as a whole phrase.
func (e *Engine) Search(candidates []entity.Note, query string) Result {
	q := Normalize(query)
	if q == "" || len(candidates) == 0 {
		return Result{Tier: TierNone}
	}

	tokens := Tokenize(q, e.stopWords)

	lowered := make([]fields, len(candidates))
	for i, n := range candidates {
		lowered[i] = lowerFields(n)
	}

	tiers := []struct {
		tier  Tier
		score func(fields) (int, []string)
	}{
		{TierExact, func(f fields) (int, []string) { return scoreExact(f, q, tokens) }},
		{TierSynonym, func(f fields) (int, []string) { return e.scoreSynonyms(f, tokens) }},
		{TierFuzzy, func(f fields) (int, []string) { return scoreFuzzy(f, tokens) }},
	}

	for _, t := range tiers {
		if notes := rank(candidates, lowered, t.score); len(notes) > 0 {
			return Result{Tier: t.tier, Notes: notes}
		}
	}
	return Result{Tier: TierNone}
}

func rank(candidates []entity.Note, lowered []fields, score func(fields) (int, []string)) []ScoredNote {
	var out []ScoredNote
	for i, n := range candidates {
		relevance, reasons := score(lowered[i])
		if relevance <= 0 {
			continue
		}
		out = append(out, ScoredNote{Note: n, Relevance: relevance, MatchReasons: reasons})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Relevance > out[j].Relevance
	})
	return out
}

func scoreExact(f fields, q string, tokens []string) (int, []string) {
	score := 0
	var reasons []string

	if strings.Contains(f.title, q) {
		score += phraseTitleScore
		reasons = append(reasons, fmt.Sprintf("Título contiene exactamente \"%s\"", q))
	}
	if strings.Contains(f.body, q) {
		score += phraseBodyScore
		reasons = append(reasons, fmt.Sprintf("Contenido contiene exactamente \"%s\"", q))
	}
	if strings.Contains(f.tags, q) {
		score += phraseTagsScore
		reasons = append(reasons, fmt.Sprintf("Etiquetas contienen exactamente \"%s\"", q))
	}
	if score > 0 {
		return score, reasons
	}

	for _, tok := range tokens {
		if strings.Contains(f.title, tok) {
			score += tokenTitleScore
			reasons = append(reasons, fmt.Sprintf("Título contiene \"%s\"", tok))
		}
		if strings.Contains(f.body, tok) {
			score += tokenBodyScore
			reasons = append(reasons, fmt.Sprintf("Contenido contiene \"%s\"", tok))
		}
		if strings.Contains(f.tags, tok) {
			score += tokenTagsScore
			reasons = append(reasons, fmt.Sprintf("Etiqueta contiene \"%s\"", tok))
		}
	}
	return score, reasons
}

// scoreSynonyms credits each related term once, in the first field it appears.
func (e *Engine) scoreSynonyms(f fields, tokens []string) (int, []string) {
	score := 0
	var reasons []string

	for _, tok := range tokens {
		for _, syn := range e.synonyms.lookup(tok) {
			syn = strings.ToLower(syn)
			switch {
			case strings.Contains(f.title, syn):
				score += synonymTitleScore
				reasons = append(reasons, fmt.Sprintf("Relacionado: %s → %s (título)", tok, syn))
			case strings.Contains(f.body, syn):
				score += synonymBodyScore
				reasons = append(reasons, fmt.Sprintf("Relacionado: %s → %s (contenido)", tok, syn))
			case strings.Contains(f.tags, syn):
				score += synonymTagsScore
				reasons = append(reasons, fmt.Sprintf("Relacionado: %s → %s (etiquetas)", tok, syn))
			}
		}
	}
	return score, reasons
}

func scoreFuzzy(f fields, tokens []string) (int, []string) {
	score := 0
	var reasons []string

	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) <= fuzzyPrefixLen {
			continue
		}
		p := prefix(tok, fuzzyPrefixLen)
		if strings.Contains(f.title, p) || strings.Contains(f.body, p) {
			score += fuzzyScore
			reasons = append(reasons, fmt.Sprintf("Coincidencia parcial con \"%s\"", p))
		}
	}
	return score, reasons
}
