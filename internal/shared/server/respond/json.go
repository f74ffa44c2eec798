package respond

import (
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
)

func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

func Created(c *gin.Context, payload any) {
	JSON(c, http.StatusCreated, payload)
}

// HTML writes a rendered page.
func HTML(c *gin.Context, page string) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// Disposition is how a browser should treat a binary body.
type Disposition string

const (
	Attachment Disposition = "attachment"
	Inline     Disposition = "inline"
)

// File writes a binary body named fileName. The name is quoted and escaped
// the way RFC 6266 expects.
func File(c *gin.Context, d Disposition, fileName, contentType string, data []byte) {
	c.Header("Content-Disposition", mime.FormatMediaType(string(d), map[string]string{"filename": fileName}))
	c.Data(http.StatusOK, contentType, data)
}

// Stream is File for bodies read from storage.
func Stream(c *gin.Context, d Disposition, fileName, contentType string, r io.Reader) {
	c.Header("Content-Disposition", mime.FormatMediaType(string(d), map[string]string{"filename": fileName}))
	c.DataFromReader(http.StatusOK, -1, contentType, r, nil)
}
