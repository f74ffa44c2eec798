// Package export turns a draft into a downloadable PDF and, for signed-in
// owners, keeps a copy in object storage with a history record.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"resume-builder/internal/extract"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/shared/util"
	"resume-builder/resume/model"
	"resume-builder/resume/render"
	"resume-builder/resume/templates"
)

// Sub-steps that may fail without failing the export.
const (
	StepInspect = "inspect"
	StepUpload  = "upload"
	StepRecord  = "record"
	StepCounter = "counter"
)

const contentTypePDF = "application/pdf"

// Recorder writes the history entry of an uploaded export.
type Recorder interface {
	Record(ctx context.Context, userID, template string, draft model.ResumeDraft, up resumes.Upload) (resumes.Record, error)
}

// Counter bumps the owner's exported resume count.
type Counter interface {
	IncrementResumeCount(ctx context.Context, uid string) error
}

// User is the signed-in owner of an export.
type User struct {
	ID    string
	Email string
}

type Request struct {
	Draft    model.ResumeDraft
	Template templates.ID
	Palette  templates.Palette
	User     *User
}

// Warning reports a sub-step that failed after the PDF was produced.
type Warning struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

type Result struct {
	FileName    string
	PDF         []byte
	Template    templates.ID
	Pages       int
	DownloadURL string
	Record      *resumes.Record
	Warnings    []Warning
}

type Service struct {
	Engine  render.Engine
	Store   object.Store
	Records Recorder
	Counter Counter

	now func() time.Time
}

func NewService(engine render.Engine, store object.Store, records Recorder, counter Counter) *Service {
	return &Service{Engine: engine, Store: store, Records: records, Counter: counter, now: time.Now}
}

// Export renders the print representation. Only a render failure is
// returned as an error; storage problems end up in Result.Warnings.
func (s *Service) Export(ctx context.Context, req Request) (Result, error) {
	if s == nil || s.Engine == nil {
		return Result{}, errors.New("export service not configured")
	}
	start := time.Now()
	metrics.IncExport()
	defer func() { metrics.ObserveExportDurationMs(metrics.SinceMillis(start)) }()

	tpl := templates.Resolve(req.Template).ID()
	data, err := s.Engine.PDF(ctx, render.Request{Draft: req.Draft, Template: tpl, Palette: req.Palette})
	if err != nil {
		metrics.IncExportFailed()
		telemetry.Error("export.render_failed", map[string]any{"template": string(tpl), "engine": s.Engine.Name(), "error": err.Error()})
		return Result{}, fmt.Errorf("render pdf: %w", err)
	}

	res := Result{FileName: FileName(req.Draft.Personal.FullName), PDF: data, Template: tpl}
	if info, err := extract.Inspect(ctx, data); err != nil {
		res.warn(StepInspect, "Could not read back the generated PDF", err)
	} else {
		res.Pages = info.Pages
	}

	if req.User == nil || strings.TrimSpace(req.User.ID) == "" {
		return res, nil
	}
	s.keep(ctx, req, &res)
	return res, nil
}

// keep runs upload, then record, then counter. A failed step skips the
// steps that depend on it.
func (s *Service) keep(ctx context.Context, req Request, res *Result) {
	uid := req.User.ID
	if s.Store == nil {
		res.warn(StepUpload, "Resume downloaded but cloud storage is not configured", errors.New("no object store"))
		metrics.IncExportUploadFailed()
		return
	}

	key := object.ResumeKey(uid, object.ResumeFileName(req.Draft.Personal.FullName, s.now()))
	obj, err := s.Store.Put(ctx, key, contentTypePDF, bytes.NewReader(res.PDF))
	if err == nil {
		res.DownloadURL, err = s.Store.URL(ctx, obj.Key)
	}
	if err != nil {
		metrics.IncExportUploadFailed()
		res.warn(StepUpload, "Resume downloaded but could not be saved to your account", err)
		return
	}

	if s.Records == nil {
		res.warn(StepRecord, "Resume saved but could not be added to your history", errors.New("no history store"))
		return
	}
	rec, err := s.Records.Record(ctx, uid, string(res.Template), req.Draft, resumes.Upload{
		FileName:    path.Base(obj.Key),
		DownloadURL: res.DownloadURL,
		PublicID:    obj.Key,
		SizeBytes:   obj.SizeBytes,
		PageCount:   res.Pages,
	})
	if err != nil {
		res.warn(StepRecord, "Resume saved but could not be added to your history", err)
		return
	}
	res.Record = &rec
	metrics.IncExportRecorded()

	if s.Counter == nil {
		return
	}
	if err := s.Counter.IncrementResumeCount(ctx, uid); err != nil {
		res.warn(StepCounter, "Resume saved but your resume count was not updated", err)
	}
}

func (r *Result) warn(step, message string, err error) {
	r.Warnings = append(r.Warnings, Warning{Step: step, Message: message})
	telemetry.Warn("export."+step+"_failed", map[string]any{"template": string(r.Template), "error": err.Error()})
}

// FileName is the download name: the full name with whitespace runs and
// path separators replaced by underscores, or "resume" when blank, plus
// "_resume.pdf".
func FileName(fullName string) string {
	return util.Slug(fullName, "resume") + "_resume.pdf"
}
