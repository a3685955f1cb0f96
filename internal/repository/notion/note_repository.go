package notion

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"ai-notes-bot/internal/entity"
	"ai-notes-bot/internal/mapper"
	"ai-notes-bot/internal/repository/contract"

	"github.com/jomei/notionapi"
	"github.com/m-mizutani/goerr/v2"
)

// Notion caps a single rich text object at 2000 characters.
const richTextChunk = 2000

// Schema names the database properties holding each note field.
type Schema struct {
	TitleProp string
	BodyProp  string
	TagsProp  string
}

type NoteRepository struct {
	api        *notionapi.Client
	databaseID notionapi.DatabaseID
	schema     Schema
	pageCap    int
}

func NewNoteRepository(token, databaseID string, schema Schema, maxRetries, pageCap int) (contract.NoteRepository, error) {
	if token == "" {
		return nil, goerr.New("Notion API token is required")
	}
	if databaseID == "" {
		return nil, goerr.New("Notion database id is required")
	}
	if pageCap <= 0 {
		pageCap = 10
	}

	return &NoteRepository{
		api: notionapi.NewClient(
			notionapi.Token(token),
			notionapi.WithRetry(maxRetries),
		),
		databaseID: notionapi.DatabaseID(databaseID),
		schema:     schema,
		pageCap:    pageCap,
	}, nil
}

func (r *NoteRepository) Create(ctx context.Context, title, body string, tags []string) (string, error) {
	page, err := r.api.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: r.databaseID,
		},
		Properties: r.schema.properties(title, body, tags),
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to create page", goerr.V("title", title))
	}
	return page.ID.String(), nil
}

func (r *NoteRepository) Query(ctx context.Context, filter contract.NoteFilter) ([]entity.Note, error) {
	pageSize := 100
	if filter.Limit > 0 && filter.Limit < pageSize {
		pageSize = filter.Limit
	}

	notes := []entity.Note{}
	var cursor notionapi.Cursor

	for fetched := 0; fetched < r.pageCap; fetched++ {
		resp, err := r.api.Database.Query(ctx, r.databaseID, &notionapi.DatabaseQueryRequest{
			Filter: r.schema.filter(filter),
			Sorts: []notionapi.SortObject{{
				Timestamp: notionapi.TimestampCreated,
				Direction: notionapi.SortOrderDESC,
			}},
			StartCursor: cursor,
			PageSize:    pageSize,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to query database",
				goerr.V("keyword", filter.Keyword), goerr.V("tag", filter.Tag))
		}

		for _, page := range resp.Results {
			notes = append(notes, r.schema.toNote(page))
			if filter.Limit > 0 && len(notes) >= filter.Limit {
				return notes, nil
			}
		}

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return notes, nil
}

func (r *NoteRepository) UpdateTags(ctx context.Context, id string, tags []string) error {
	_, err := r.api.Page.Update(ctx, notionapi.PageID(id), &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{
			r.schema.TagsProp: notionapi.MultiSelectProperty{MultiSelect: toOptions(tags)},
		},
	})
	if err != nil {
		var apiErr *notionapi.Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return goerr.Wrap(contract.ErrNoteNotFound, "page not found", goerr.V("pageID", id))
		}
		return goerr.Wrap(err, "failed to update page tags", goerr.V("pageID", id))
	}
	return nil
}

func (r *NoteRepository) ListTagCounts(ctx context.Context) (map[string]int, error) {
	notes, err := r.Query(ctx, contract.NoteFilter{})
	if err != nil {
		return nil, err
	}
	return CountTags(notes), nil
}

// ListTagVocabulary prefers the options declared on the multi-select property,
// which include tags no page uses yet.
func (r *NoteRepository) ListTagVocabulary(ctx context.Context) ([]string, error) {
	db, err := r.api.Database.Get(ctx, r.databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get database", goerr.V("databaseID", r.databaseID))
	}

	if cfg, ok := db.Properties[r.schema.TagsProp].(*notionapi.MultiSelectPropertyConfig); ok {
		tags := make([]string, 0, len(cfg.MultiSelect.Options))
		for _, opt := range cfg.MultiSelect.Options {
			tags = append(tags, opt.Name)
		}
		return mapper.CleanTags(tags), nil
	}

	counts, err := r.ListTagCounts(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.SortedVocabulary(counts), nil
}

// CountTags counts how many notes carry each tag.
func CountTags(notes []entity.Note) map[string]int {
	counts := map[string]int{}
	for _, n := range notes {
		for _, tag := range n.Tags {
			counts[tag]++
		}
	}
	return counts
}

func (s Schema) properties(title, body string, tags []string) notionapi.Properties {
	return notionapi.Properties{
		s.TitleProp: notionapi.TitleProperty{Title: toRichText(title)},
		s.BodyProp:  notionapi.RichTextProperty{RichText: toRichText(body)},
		s.TagsProp:  notionapi.MultiSelectProperty{MultiSelect: toOptions(tags)},
	}
}

func (s Schema) filter(f contract.NoteFilter) notionapi.Filter {
	var filters notionapi.AndCompoundFilter

	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		filters = append(filters, notionapi.OrCompoundFilter{
			notionapi.PropertyFilter{Property: s.TitleProp, RichText: &notionapi.TextFilterCondition{Contains: kw}},
			notionapi.PropertyFilter{Property: s.BodyProp, RichText: &notionapi.TextFilterCondition{Contains: kw}},
		})
	}
	if tag := strings.TrimSpace(f.Tag); tag != "" {
		filters = append(filters, notionapi.PropertyFilter{
			Property:    s.TagsProp,
			MultiSelect: &notionapi.MultiSelectFilterCondition{Contains: tag},
		})
	}

	switch len(filters) {
	case 0:
		return nil
	case 1:
		return filters[0]
	default:
		return filters
	}
}

func (s Schema) toNote(page notionapi.Page) entity.Note {
	note := entity.Note{
		Id:        page.ID.String(),
		Tags:      []string{},
		CreatedAt: time.Time(page.CreatedTime),
	}

	for name, prop := range page.Properties {
		switch name {
		case s.TitleProp:
			note.Title = propertyText(prop)
		case s.BodyProp:
			note.Body = propertyText(prop)
		case s.TagsProp:
			note.Tags = propertyOptions(prop)
		}
	}
	return note
}

func propertyText(prop notionapi.Property) string {
	switch p := prop.(type) {
	case *notionapi.TitleProperty:
		return plainText(p.Title)
	case notionapi.TitleProperty:
		return plainText(p.Title)
	case *notionapi.RichTextProperty:
		return plainText(p.RichText)
	case notionapi.RichTextProperty:
		return plainText(p.RichText)
	}
	return ""
}

func propertyOptions(prop notionapi.Property) []string {
	var opts []notionapi.Option
	switch p := prop.(type) {
	case *notionapi.MultiSelectProperty:
		opts = p.MultiSelect
	case notionapi.MultiSelectProperty:
		opts = p.MultiSelect
	}

	tags := make([]string, 0, len(opts))
	for _, o := range opts {
		tags = append(tags, o.Name)
	}
	return mapper.CleanTags(tags)
}

func plainText(parts []notionapi.RichText) string {
	var sb strings.Builder
	for _, rt := range parts {
		if rt.PlainText != "" {
			sb.WriteString(rt.PlainText)
		} else if rt.Text != nil {
			sb.WriteString(rt.Text.Content)
		}
	}
	return sb.String()
}

func toRichText(s string) []notionapi.RichText {
	runes := []rune(s)
	parts := []notionapi.RichText{}
	for start := 0; start < len(runes); start += richTextChunk {
		end := start + richTextChunk
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, notionapi.RichText{
			Text: &notionapi.Text{Content: string(runes[start:end])},
		})
	}
	return parts
}

// Notion rejects commas inside select option names.
func toOptions(tags []string) []notionapi.Option {
	cleaned := mapper.CleanTags(tags)
	opts := make([]notionapi.Option, 0, len(cleaned))
	for _, t := range cleaned {
		opts = append(opts, notionapi.Option{Name: strings.ReplaceAll(t, ",", " ")})
	}
	return opts
}
