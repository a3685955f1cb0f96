package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-notes-bot/internal/entity"
	"ai-notes-bot/internal/mapper"
	"ai-notes-bot/internal/repository/contract"

	"github.com/google/uuid"
)

type NoteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewNoteRepository(db *sql.DB) contract.NoteRepository {
	return &NoteRepository{db: db, now: time.Now}
}

func (r *NoteRepository) Create(ctx context.Context, title, body string, tags []string) (string, error) {
	encoded, err := json.Marshal(mapper.CleanTags(tags))
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}

	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO notes (id, title, body, tags, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, title, body, string(encoded), r.now().UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("create note: %w", err)
	}
	return id, nil
}

func (r *NoteRepository) Query(ctx context.Context, filter contract.NoteFilter) ([]entity.Note, error) {
	where := []string{}
	args := []any{}

	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		// LIKE is ASCII case-insensitive in SQLite
		pattern := "%" + kw + "%"
		where = append(where, "(title LIKE ? OR body LIKE ?)")
		args = append(args, pattern, pattern)
	}
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		where = append(where, "EXISTS (SELECT 1 FROM json_each(notes.tags) WHERE lower(json_each.value) = lower(?))")
		args = append(args, tag)
	}

	query := "SELECT id, title, body, tags, created_at FROM notes"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := []entity.Note{}
	for rows.Next() {
		var (
			n       entity.Note
			rawTags string
			created int64
		)
		if err := rows.Scan(&n.Id, &n.Title, &n.Body, &rawTags, &created); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		n.Tags = decodeTags(rawTags)
		n.CreatedAt = time.Unix(0, created)
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}

func (r *NoteRepository) UpdateTags(ctx context.Context, id string, tags []string) error {
	encoded, err := json.Marshal(mapper.CleanTags(tags))
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `UPDATE notes SET tags = ? WHERE id = ?`, string(encoded), id)
	if err != nil {
		return fmt.Errorf("update tags of %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update tags of %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("update tags of %s: %w", id, contract.ErrNoteNotFound)
	}
	return nil
}

func (r *NoteRepository) ListTagCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT json_each.value, COUNT(*) FROM notes, json_each(notes.tags) GROUP BY json_each.value`)
	if err != nil {
		return nil, fmt.Errorf("count tags: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var (
			tag   string
			count int
		)
		if err := rows.Scan(&tag, &count); err != nil {
			return nil, fmt.Errorf("scan tag count: %w", err)
		}
		counts[tag] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tag counts: %w", err)
	}
	return counts, nil
}

func (r *NoteRepository) ListTagVocabulary(ctx context.Context) ([]string, error) {
	counts, err := r.ListTagCounts(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.SortedVocabulary(counts), nil
}

func decodeTags(raw string) []string {
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return []string{}
	}
	return mapper.CleanTags(tags)
}
