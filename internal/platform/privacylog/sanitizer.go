// Package privacylog wraps an slog.Handler so request logs never carry
// credentials, raw client addresses or whole simulation inputs.
package privacylog

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
)

const (
	redactedValue = "[REDACTED]"
	// DefaultMaxValueLen bounds string attributes such as run inputs.
	DefaultMaxValueLen = 256
)

var (
	bootNonce         = randomNonce()
	fingerprintedKeys = map[string]struct{}{"run_id": {}, "client_key": {}, "remote_addr": {}}
	sensitiveKeyParts = []string{"token", "secret", "password", "authorization", "api_key", "cookie"}
)

type SanitizingHandler struct {
	next   slog.Handler
	maxLen int
}

func WrapHandler(next slog.Handler) slog.Handler {
	return WrapHandlerWithLimit(next, DefaultMaxValueLen)
}

// WrapHandlerWithLimit is WrapHandler with a custom string length bound; a
// non-positive maxLen disables truncation.
func WrapHandlerWithLimit(next slog.Handler, maxLen int) slog.Handler {
	if next == nil {
		return nil
	}
	return &SanitizingHandler{next: next, maxLen: maxLen}
}

func (h *SanitizingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *SanitizingHandler) Handle(ctx context.Context, rec slog.Record) error {
	out := slog.NewRecord(rec.Time, rec.Level, rec.Message, rec.PC)
	rec.Attrs(func(attr slog.Attr) bool {
		out.AddAttrs(h.sanitize(attr))
		return true
	})
	return h.next.Handle(ctx, out)
}

func (h *SanitizingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		clean = append(clean, h.sanitize(attr))
	}
	return &SanitizingHandler{next: h.next.WithAttrs(clean), maxLen: h.maxLen}
}

func (h *SanitizingHandler) WithGroup(name string) slog.Handler {
	return &SanitizingHandler{next: h.next.WithGroup(name), maxLen: h.maxLen}
}

func (h *SanitizingHandler) sanitize(attr slog.Attr) slog.Attr {
	attr.Value = attr.Value.Resolve()
	key := strings.TrimSpace(attr.Key)
	lowerKey := strings.ToLower(key)
	switch {
	case isSensitiveKey(lowerKey):
		return slog.String(key, redactedValue)
	case isFingerprintedKey(lowerKey):
		return slog.String(key+"_fp", FingerprintID(valueToString(attr.Value)))
	}
	switch attr.Value.Kind() {
	case slog.KindGroup:
		group := attr.Value.Group()
		clean := make([]any, 0, len(group))
		for _, inner := range group {
			clean = append(clean, h.sanitize(inner))
		}
		return slog.Group(key, clean...)
	case slog.KindString:
		return slog.String(key, Truncate(attr.Value.String(), h.maxLen))
	}
	return attr
}

// Truncate shortens s to at most maxLen bytes plus a marker naming how much
// was dropped. The cut never splits a UTF-8 sequence.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !startsRune(s[cut]) {
		cut--
	}
	return s[:cut] + fmt.Sprintf("...(%d more bytes)", len(s)-cut)
}

func startsRune(b byte) bool {
	return b&0xC0 != 0x80
}

func FingerprintID(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(trimmed + "|" + bootNonce))
	return "fp_" + hex.EncodeToString(sum[:8])
}

func isFingerprintedKey(key string) bool {
	_, ok := fingerprintedKeys[key]
	return ok
}

func isSensitiveKey(key string) bool {
	for _, part := range sensitiveKeyParts {
		if strings.Contains(key, part) {
			return true
		}
	}
	return false
}

func valueToString(v slog.Value) string {
	if v.Kind() == slog.KindString {
		return v.String()
	}
	return fmt.Sprint(v.Any())
}

func randomNonce() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "fallback_nonce"
	}
	return hex.EncodeToString(buf)
}
