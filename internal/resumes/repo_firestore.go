package resumes

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const collection = "resumes"

// FirestoreRepo keeps records in the resumes collection, one document per
// export, with the field names the web client reads.
type FirestoreRepo struct {
	Client *firestore.Client
}

func (r *FirestoreRepo) Create(ctx context.Context, record Record) error {
	doc, err := toDocument(record)
	if err != nil {
		return err
	}
	_, err = r.Client.Collection(collection).Doc(record.ID).Create(ctx, doc)
	return err
}

func (r *FirestoreRepo) GetByID(ctx context.Context, userID, id string) (Record, error) {
	snap, err := r.Client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	record, err := fromDocument(snap)
	if err != nil {
		return Record{}, err
	}
	if record.UserID != userID {
		return Record{}, ErrForbidden
	}
	return record, nil
}

func (r *FirestoreRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Record, error) {
	limit, offset = clampPage(limit, offset)
	iter := r.Client.Collection(collection).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Offset(offset).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	out := []Record{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		record, err := fromDocument(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

// toDocument stores resumeData under its JSON field names; createdAt stays a
// native timestamp so the collection can be ordered on it.
func toDocument(record Record) (map[string]any, error) {
	raw, err := json.Marshal(record.ResumeData)
	if err != nil {
		return nil, fmt.Errorf("encode resume data: %w", err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("encode resume data: %w", err)
	}
	doc := map[string]any{
		"fileName":    record.FileName,
		"downloadURL": record.DownloadURL,
		"publicId":    record.PublicID,
		"fullName":    record.FullName,
		"template":    record.Template,
		"userId":      record.UserID,
		"sizeBytes":   record.SizeBytes,
		"pageCount":   record.PageCount,
		"createdAt":   record.CreatedAt,
		"resumeData":  data,
	}
	if record.Email != "" {
		doc["email"] = record.Email
	} else {
		doc["email"] = nil
	}
	return doc, nil
}

func fromDocument(snap *firestore.DocumentSnapshot) (Record, error) {
	fields := snap.Data()
	record := Record{
		ID:          snap.Ref.ID,
		FileName:    stringField(fields, "fileName"),
		DownloadURL: stringField(fields, "downloadURL"),
		PublicID:    stringField(fields, "publicId"),
		FullName:    stringField(fields, "fullName"),
		Email:       stringField(fields, "email"),
		Template:    stringField(fields, "template"),
		UserID:      stringField(fields, "userId"),
		SizeBytes:   intField(fields, "sizeBytes"),
		PageCount:   int(intField(fields, "pageCount")),
	}
	if ts, ok := fields["createdAt"].(time.Time); ok {
		record.CreatedAt = ts
	}
	if data, ok := fields["resumeData"]; ok && data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return Record{}, fmt.Errorf("decode resume data: %w", err)
		}
		if err := json.Unmarshal(raw, &record.ResumeData); err != nil {
			return Record{}, fmt.Errorf("decode resume data: %w", err)
		}
	}
	return record, nil
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

func intField(fields map[string]any, key string) int64 {
	switch v := fields[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

var _ Repo = (*FirestoreRepo)(nil)
