package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var defaultExts = map[string]struct{}{"json": {}}

// Usecase feeds extraction files to a Handler. Files whose content was already
// handled (same SHA-256) are reported as deduplicated and not handled again.
type Usecase struct {
	Handle      Handler
	AllowedExts map[string]struct{}
	logger      *slog.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

func NewUsecase(handle Handler, logger *slog.Logger) *Usecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &Usecase{Handle: handle, logger: logger, seen: make(map[string]struct{})}
}

func (u *Usecase) allowed(path string) bool {
	allow := u.AllowedExts
	if allow == nil {
		allow = defaultExts
	}
	return allowed(path, allow)
}

// IngestPath reads, dedupes, parses and hands off a single file.
func (u *Usecase) IngestPath(ctx context.Context, path string) (IngestionResult, error) {
	out := IngestionResult{SourcePath: path}
	if u.Handle == nil {
		return out, errors.New("ingest: no handler")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return out, fmt.Errorf("abs path: %w", err)
	}
	out.SourcePath = abs
	if !u.allowed(abs) {
		return out, fmt.Errorf("unsupported or missing extension: %q", filepath.Ext(abs))
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return out, fmt.Errorf("read: %w", err)
	}
	sum := sha256.Sum256(data)
	out.HashHex = hex.EncodeToString(sum[:])

	if !u.markSeen(out.HashHex) {
		out.Deduplicated = true
		u.logger.Debug("ingest.file.dedup", "path", abs, "sha256", out.HashHex)
		return out, nil
	}

	env, err := ParseEnvelope(data)
	if err != nil {
		u.forget(out.HashHex)
		return out, err
	}
	if err := u.Handle(ctx, abs, env); err != nil {
		u.forget(out.HashHex)
		return out, err
	}
	u.logger.Info("ingest.file.ok", "path", abs, "sha256", out.HashHex)
	return out, nil
}

func (u *Usecase) markSeen(hash string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.seen == nil {
		u.seen = make(map[string]struct{})
	}
	if _, ok := u.seen[hash]; ok {
		return false
	}
	u.seen[hash] = struct{}{}
	return true
}

func (u *Usecase) forget(hash string) {
	u.mu.Lock()
	delete(u.seen, hash)
	u.mu.Unlock()
}

func allowed(path string, exts map[string]struct{}) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	_, ok := exts[ext]
	return ok
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
