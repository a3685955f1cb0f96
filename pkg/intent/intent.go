package intent

// Kind names an intent variant for logging and metrics.
type Kind string

const (
	KindSaveNote      Kind = "save_note"
	KindQuery         Kind = "query"
	KindConversation  Kind = "conversation"
	KindUnclear       Kind = "unclear"
	KindTagCorrection Kind = "tag_correction"
)

// Intent is one of SaveNote, Query, Conversation, Unclear or TagCorrection.
type Intent interface {
	Kind() Kind
	isIntent()
}

type SaveNote struct {
	Title         string
	Body          string
	Tags          []string
	SuggestedTags []string
}

type QueryType string

const (
	QueryByTag     QueryType = "by_tag"
	QueryByKeyword QueryType = "by_keyword"
	QueryRecent    QueryType = "recent"
	QueryCount     QueryType = "count"
)

// Query.Parameter is required for by_tag and by_keyword and optional otherwise.
type Query struct {
	QueryType QueryType
	Parameter string
}

type Conversation struct {
	Reply string
}

type Unclear struct {
	ClarifyingQuestion string
}

// TagCorrection replaces the tags of the most recently saved note.
// NoteTitle only shapes the reply wording.
type TagCorrection struct {
	NewTags   []string
	NoteTitle string
}

func (SaveNote) Kind() Kind      { return KindSaveNote }
func (Query) Kind() Kind         { return KindQuery }
func (Conversation) Kind() Kind  { return KindConversation }
func (Unclear) Kind() Kind       { return KindUnclear }
func (TagCorrection) Kind() Kind { return KindTagCorrection }

func (SaveNote) isIntent()      {}
func (Query) isIntent()         {}
func (Conversation) isIntent()  {}
func (Unclear) isIntent()       {}
func (TagCorrection) isIntent() {}
