package draft

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/forms"
	"resume-builder/internal/navigator"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/summarize"
	"resume-builder/resume/model"
	"resume-builder/resume/render"
	"resume-builder/resume/templates"
)

const maxDraftBody = 2 << 20

// Handler exposes the owner's draft session over HTTP.
type Handler struct {
	Sessions   *Registry
	Summarizer summarize.Summarizer
}

func NewHandler(sessions *Registry, summarizer summarize.Summarizer) *Handler {
	return &Handler{Sessions: sessions, Summarizer: summarizer}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/draft", h.get)
	rg.PUT("/draft", h.replace)
	rg.PATCH("/draft/:section", h.patch)
	rg.POST("/draft/skills", h.addSkill)
	rg.DELETE("/draft/skills/:skill", h.removeSkill)
	rg.PUT("/draft/template", h.selectTemplate)
	rg.PUT("/draft/colors/:template", h.setColors)
	rg.POST("/draft/reset", h.reset)
	rg.GET("/draft/step", h.step)
	rg.POST("/draft/step", h.moveStep)
	rg.GET("/draft/preview", h.preview)
	rg.POST("/draft/summary", h.summary)
}

type draftResponse struct {
	Draft     model.ResumeDraft  `json:"draft"`
	Template  templates.ID       `json:"template"`
	Palette   templates.Palette  `json:"palette"`
	Colors    templates.Palettes `json:"colors"`
	Step      int                `json:"step"`
	StepTitle string             `json:"stepTitle"`
	Warnings  []Warning          `json:"warnings,omitempty"`
}

func toResponse(s Snapshot, step navigator.Step, warnings []Warning) draftResponse {
	return draftResponse{
		Draft:     s.Draft,
		Template:  s.Template,
		Palette:   s.Palette(),
		Colors:    s.Colors,
		Step:      int(step),
		StepTitle: step.String(),
		Warnings:  warnings,
	}
}

func (h *Handler) session(c *gin.Context) (*Session, []Warning) {
	return h.Sessions.Session(c.Request.Context(), middleware.UserIDFromContext(c))
}

func (h *Handler) write(c *gin.Context, sess *Session, ch Change, extra []Warning) {
	c.Set(middleware.TemplateKey, string(ch.Snapshot.Template))
	respond.OK(c, toResponse(ch.Snapshot, sess.Nav.Current(), append(extra, ch.Warnings...)))
}

func (h *Handler) get(c *gin.Context) {
	sess, warnings := h.session(c)
	h.write(c, sess, Change{Snapshot: sess.Store.Get()}, warnings)
}

func (h *Handler) replace(c *gin.Context) {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxDraftBody))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read body", nil)
		return
	}
	if err := model.ValidateJSON(raw); err != nil {
		var schemaErr *model.SchemaError
		if errors.As(err, &schemaErr) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "draft does not match schema", schemaErr.Fields)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}
	var d model.ResumeDraft
	if err := json.Unmarshal(raw, &d); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}
	sess, warnings := h.session(c)
	h.write(c, sess, sess.Store.Replace(c.Request.Context(), d), warnings)
}

func (h *Handler) patch(c *gin.Context) {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxDraftBody))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read body", nil)
		return
	}
	sess, warnings := h.session(c)
	ch, err := sess.Store.Update(c.Request.Context(), c.Param("section"), raw)
	if err != nil {
		h.editError(c, err)
		return
	}
	h.write(c, sess, ch, warnings)
}

type skillRequest struct {
	Skill string `json:"skill"`
}

func (h *Handler) addSkill(c *gin.Context) {
	var req skillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	sess, warnings := h.session(c)
	ch, err := sess.Store.AddSkill(c.Request.Context(), req.Skill)
	if err != nil {
		h.editError(c, err)
		return
	}
	h.write(c, sess, ch, warnings)
}

func (h *Handler) removeSkill(c *gin.Context) {
	sess, warnings := h.session(c)
	h.write(c, sess, sess.Store.RemoveSkill(c.Request.Context(), c.Param("skill")), warnings)
}

type templateRequest struct {
	Template string `json:"template"`
}

func (h *Handler) selectTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	sess, warnings := h.session(c)
	h.write(c, sess, Change{Snapshot: sess.Store.SelectTemplate(req.Template)}, warnings)
}

func (h *Handler) setColors(c *gin.Context) {
	var patch templates.Palette
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	sess, warnings := h.session(c)
	ch, err := sess.Store.SetColors(c.Request.Context(), templates.Parse(c.Param("template")), patch)
	if err != nil {
		h.editError(c, err)
		return
	}
	h.write(c, sess, ch, warnings)
}

func (h *Handler) reset(c *gin.Context) {
	sess, warnings := h.session(c)
	h.write(c, sess, sess.Reset(c.Request.Context()), warnings)
}

func (h *Handler) step(c *gin.Context) {
	sess, _ := h.session(c)
	cur := sess.Nav.Current()
	respond.OK(c, gin.H{"step": int(cur), "title": cur.String()})
}

type stepRequest struct {
	Action string `json:"action"`
	Step   *int   `json:"step"`
}

func (h *Handler) moveStep(c *gin.Context) {
	var req stepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	sess, _ := h.session(c)
	var cur navigator.Step
	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case "next":
		cur = sess.Nav.Next()
	case "previous", "prev", "back":
		cur = sess.Nav.Previous()
	case "jump":
		if req.Step == nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "step is required for jump", nil)
			return
		}
		cur = sess.Nav.JumpTo(*req.Step)
	default:
		respond.Error(c, http.StatusBadRequest, "validation_error", "action must be next, previous or jump", nil)
		return
	}
	respond.OK(c, gin.H{"step": int(cur), "title": cur.String()})
}

func (h *Handler) preview(c *gin.Context) {
	sess, _ := h.session(c)
	snap := sess.Store.Get()
	id := snap.Template
	if q := c.Query("template"); q != "" {
		id = templates.Parse(q)
	}
	c.Set(middleware.TemplateKey, string(id))
	html, err := render.Preview(render.Request{Draft: snap.Draft, Template: id, Palette: snap.Colors.For(id)})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to render preview", nil)
		return
	}
	respond.HTML(c, html)
}

func (h *Handler) summary(c *gin.Context) {
	if h.Summarizer == nil {
		respond.Error(c, http.StatusServiceUnavailable, "unavailable", "summary generation is not configured", nil)
		return
	}
	sess, warnings := h.session(c)
	res, more := forms.GenerateSummary[Warning](c.Request.Context(), sess.Store, h.Summarizer)
	snap := sess.Store.Get()
	resp := toResponse(snap, sess.Nav.Current(), append(warnings, more...))
	respond.OK(c, gin.H{
		"outcome": res.Outcome.String(),
		"summary": res.Text,
		"state":   resp,
	})
}

func (h *Handler) editError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnknownSection):
		respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, ErrDuplicateSkill):
		respond.Error(c, http.StatusConflict, "duplicate_skill", err.Error(), nil)
	case errors.Is(err, ErrInvalidPatch), errors.Is(err, ErrInvalidColor):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to update draft", nil)
	}
}
