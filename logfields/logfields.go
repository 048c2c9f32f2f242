// Package logfields holds the canonical slog attribute keys shared by the
// build packages so log lines stay greppable across components.
package logfields

import (
	"io"
	"log/slog"
)

const (
	KeyBuildID  = "build_id"
	KeyLocale   = "locale"
	KeyCategory = "category"
	KeySlug     = "slug"
	KeyKey      = "key"
	KeyPath     = "path"
	KeyFile     = "file"
	KeyCount    = "count"
	KeyError    = "error"
)

func BuildID(id string) slog.Attr { return slog.String(KeyBuildID, id) }
func Locale(l string) slog.Attr   { return slog.String(KeyLocale, l) }
func Category(c string) slog.Attr { return slog.String(KeyCategory, c) }
func Slug(s string) slog.Attr     { return slog.String(KeySlug, s) }
func Key(k string) slog.Attr      { return slog.String(KeyKey, k) }
func Path(p string) slog.Attr     { return slog.String(KeyPath, p) }
func File(f string) slog.Attr     { return slog.String(KeyFile, f) }
func Count(n int) slog.Attr       { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// Discard returns l, or a logger that drops everything when l is nil.
func Discard(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
