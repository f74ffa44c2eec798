package export

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"resume-builder/internal/draft"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/resume/templates"
)

type Handler struct {
	Svc      *Service
	Sessions *draft.Registry
}

func NewHandler(svc *Service, sessions *draft.Registry) *Handler {
	registerBindings()
	return &Handler{Svc: svc, Sessions: sessions}
}

var registerBindings = sync.OnceFunc(func() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := templates.RegisterColorRule(v); err != nil {
			panic(err)
		}
	}
})

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/export", h.export)
}

type paletteBody struct {
	Primary       string `json:"primary" binding:"omitempty,rgbhex"`
	Secondary     string `json:"secondary" binding:"omitempty,rgbhex"`
	Accent        string `json:"accent" binding:"omitempty,rgbhex"`
	Text          string `json:"text" binding:"omitempty,rgbhex"`
	TextSecondary string `json:"textSecondary" binding:"omitempty,rgbhex"`
}

type exportRequest struct {
	Template string       `json:"template"`
	Palette  *paletteBody `json:"palette"`
}

func (h *Handler) export(c *gin.Context) {
	if h.Svc == nil || h.Sessions == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	var req exportRequest
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 64<<10)
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respond.Validation(c, err)
		return
	}

	ctx := c.Request.Context()
	sess, _ := h.Sessions.Session(ctx, middleware.UserIDFromContext(c))
	snap := sess.Store.Get()

	tpl := snap.Template
	if req.Template != "" {
		tpl = templates.Parse(req.Template)
	}
	palette := snap.Colors.For(tpl)
	if req.Palette != nil {
		palette = palette.Merge(templates.Palette(*req.Palette))
	}

	var user *User
	if !middleware.IsGuest(c) {
		user = &User{ID: middleware.UserIDFromContext(c), Email: middleware.UserEmailFromContext(c)}
	}

	res, err := h.Svc.Export(ctx, Request{Draft: snap.Draft, Template: tpl, Palette: palette, User: user})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "export_failed", "Failed to generate PDF", nil)
		return
	}

	c.Set(middleware.TemplateKey, string(res.Template))
	header := c.Writer.Header()
	if res.Pages > 0 {
		header.Set("X-Page-Count", strconv.Itoa(res.Pages))
	}
	for _, w := range res.Warnings {
		header.Add("X-Export-Warning", w.Step+": "+w.Message)
	}
	if res.Record != nil {
		c.Set(middleware.ResumeIDKey, res.Record.ID)
		header.Set("X-Resume-Id", res.Record.ID)
	}
	respond.File(c, respond.Attachment, res.FileName, contentTypePDF, res.PDF)
}
