package mapper

import (
	"ai-notes-bot/internal/entity"
	"ai-notes-bot/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	return &entity.Note{
		Id:        n.Id.String(),
		Title:     n.Title,
		Body:      n.Body,
		Tags:      CleanTags(n.Tags),
		CreatedAt: n.CreatedAt,
	}
}

// ToModel leaves Id as uuid.Nil when the entity id is empty or not a UUID,
// so the database default generates one.
func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	id, err := uuid.Parse(n.Id)
	if err != nil {
		id = uuid.Nil
	}

	return &model.Note{
		Id:        id,
		Title:     n.Title,
		Body:      n.Body,
		Tags:      datatypes.NewJSONSlice(CleanTags(n.Tags)),
		CreatedAt: n.CreatedAt,
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []entity.Note {
	entities := make([]entity.Note, 0, len(notes))
	for _, n := range notes {
		if e := m.ToEntity(n); e != nil {
			entities = append(entities, *e)
		}
	}
	return entities
}
