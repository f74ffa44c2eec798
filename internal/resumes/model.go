package resumes

import (
	"strings"
	"time"

	"resume-builder/resume/model"
)

// Record describes one exported resume. Records are append-only.
type Record struct {
	ID          string     `json:"id"`
	FileName    string     `json:"fileName"`
	DownloadURL string     `json:"downloadURL"`
	PublicID    string     `json:"publicId"`
	FullName    string     `json:"fullName"`
	Email       string     `json:"email,omitempty"`
	Template    string     `json:"template"`
	UserID      string     `json:"userId"`
	SizeBytes   int64      `json:"sizeBytes"`
	PageCount   int        `json:"pageCount"`
	CreatedAt   time.Time  `json:"createdAt"`
	ResumeData  ResumeData `json:"resumeData"`
}

// ResumeData is the subset of the draft kept alongside the file.
type ResumeData struct {
	Personal   model.Personal     `json:"personal"`
	Experience []model.Experience `json:"experience"`
	Education  []model.Education  `json:"education"`
	Skills     []string           `json:"skills"`
}

// Upload is what object storage reported for the exported file.
type Upload struct {
	FileName    string
	DownloadURL string
	PublicID    string
	SizeBytes   int64
	PageCount   int
}

// NewRecord snapshots the draft for the history list.
func NewRecord(id, userID, template string, draft model.ResumeDraft, up Upload, now time.Time) Record {
	d := draft.Clone()
	d.Normalize()
	fullName := strings.TrimSpace(d.Personal.FullName)
	if fullName == "" {
		fullName = "Unknown"
	}
	return Record{
		ID:          id,
		FileName:    up.FileName,
		DownloadURL: up.DownloadURL,
		PublicID:    up.PublicID,
		FullName:    fullName,
		Email:       strings.TrimSpace(d.Personal.Email),
		Template:    template,
		UserID:      userID,
		SizeBytes:   up.SizeBytes,
		PageCount:   up.PageCount,
		CreatedAt:   now,
		ResumeData: ResumeData{
			Personal:   d.Personal,
			Experience: d.Experience,
			Education:  d.Education,
			Skills:     d.Skills,
		},
	}
}
