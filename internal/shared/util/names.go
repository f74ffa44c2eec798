// Package util holds the naming rules shared by object storage, the draft
// registry and the export download name.
package util

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// OwnerKey is the storage form of an owner id such as "guest:abc" or
// "google:123". Raw ids never appear in object keys or kv namespaces.
func OwnerKey(owner string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(owner)))
	return hex.EncodeToString(sum[:])
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	separators    = strings.NewReplacer("/", "_", `\`, "_")
)

// Slug turns a display name into a file name stem: whitespace runs and path
// separators become "_". Blank or dot-only names give fallback.
func Slug(name, fallback string) string {
	s := strings.TrimSpace(name)
	s = separators.Replace(whitespaceRun.ReplaceAllString(s, "_"))
	if strings.Trim(s, ".") == "" {
		return fallback
	}
	return s
}
