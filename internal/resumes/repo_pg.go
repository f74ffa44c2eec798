package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, record Record) error {
	data, err := json.Marshal(record.ResumeData)
	if err != nil {
		return fmt.Errorf("encode resume data: %w", err)
	}
	const query = `
INSERT INTO resumes (
    id, user_id, file_name, download_url, public_id, full_name, email, template, size_bytes, page_count, resume_data, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = r.DB.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		record.FileName,
		record.DownloadURL,
		record.PublicID,
		record.FullName,
		nullableString(record.Email),
		record.Template,
		record.SizeBytes,
		record.PageCount,
		data,
		record.CreatedAt,
	)
	return err
}

const selectRecord = `
SELECT id, user_id, file_name, download_url, public_id, full_name, email, template, size_bytes, page_count, resume_data, created_at
FROM resumes`

func (r *PGRepo) GetByID(ctx context.Context, userID, id string) (Record, error) {
	row := r.DB.QueryRowContext(ctx, selectRecord+"\nWHERE id = $1\nLIMIT 1", id)
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	if record.UserID != userID {
		return Record{}, ErrForbidden
	}
	return record, nil
}

// ListByUser lists records ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Record, error) {
	limit, offset = clampPage(limit, offset)
	rows, err := r.DB.QueryContext(ctx, selectRecord+`
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (Record, error) {
	var record Record
	var email sql.NullString
	var data []byte
	err := s.Scan(
		&record.ID,
		&record.UserID,
		&record.FileName,
		&record.DownloadURL,
		&record.PublicID,
		&record.FullName,
		&email,
		&record.Template,
		&record.SizeBytes,
		&record.PageCount,
		&data,
		&record.CreatedAt,
	)
	if err != nil {
		return Record{}, err
	}
	record.Email = email.String
	if len(data) > 0 {
		if err := json.Unmarshal(data, &record.ResumeData); err != nil {
			return Record{}, fmt.Errorf("decode resume data: %w", err)
		}
	}
	return record, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
