package implementation

import (
	"context"
	"fmt"

	"ai-notes-bot/internal/entity"
	"ai-notes-bot/internal/mapper"
	"ai-notes-bot/internal/model"
	"ai-notes-bot/internal/repository/contract"
	"ai-notes-bot/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteMapper
}

func NewNoteRepository(db *gorm.DB) contract.NoteRepository {
	return &NoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteMapper(),
	}
}

func (r *NoteRepositoryImpl) Create(ctx context.Context, title, body string, tags []string) (string, error) {
	m := r.mapper.ToModel(&entity.Note{Title: title, Body: body, Tags: tags})
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return "", fmt.Errorf("create note: %w", err)
	}
	return m.Id.String(), nil
}

func (r *NoteRepositoryImpl) Query(ctx context.Context, filter contract.NoteFilter) ([]entity.Note, error) {
	var models []*model.Note
	specs := specification.ForFilter(filter.Keyword, filter.Tag, filter.Limit)
	query := specification.ApplyAll(r.db.WithContext(ctx).Model(&model.Note{}), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NoteRepositoryImpl) UpdateTags(ctx context.Context, id string, tags []string) error {
	noteID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("update tags of %q: %w", id, contract.ErrNoteNotFound)
	}

	result := specification.ApplyAll(r.db.WithContext(ctx).Model(&model.Note{}), specification.ByID{ID: noteID.String()}).
		Update("tags", datatypes.NewJSONSlice(mapper.CleanTags(tags)))
	if result.Error != nil {
		return fmt.Errorf("update tags of %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update tags of %s: %w", id, contract.ErrNoteNotFound)
	}
	return nil
}

type tagCountRow struct {
	Tag   string
	Count int
}

func (r *NoteRepositoryImpl) ListTagCounts(ctx context.Context) (map[string]int, error) {
	var rows []tagCountRow
	err := r.db.WithContext(ctx).
		Raw(`SELECT t.tag AS tag, COUNT(*) AS count
			FROM notes, jsonb_array_elements_text(notes.tags) AS t(tag)
			WHERE notes.deleted_at IS NULL
			GROUP BY t.tag`).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count tags: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Tag] += row.Count
	}
	return counts, nil
}

func (r *NoteRepositoryImpl) ListTagVocabulary(ctx context.Context) ([]string, error) {
	counts, err := r.ListTagCounts(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.SortedVocabulary(counts), nil
}
