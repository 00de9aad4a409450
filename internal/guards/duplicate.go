package guards

import (
	"context"
	"fmt"
	"time"

	"guardhook/internal/embedding"
	"guardhook/internal/fingerprint"
	"guardhook/internal/guard"
	"guardhook/internal/logging"
	"guardhook/internal/request"
	"guardhook/internal/sourcefile"
	"guardhook/internal/vectorstore"
	"guardhook/internal/workspace"
)

// DuplicateConfig configures the Duplicate-Prevention Guard.
type DuplicateConfig struct {
	Threshold    float64
	TopK         int
	MinLines     int
	RepoRoot     string
	GuardTimeout time.Duration
}

// NewDuplicatePrevention constructs the Duplicate-Prevention Guard. It
// queries the vector store for near-neighbors of the new content's
// embedding; if the best non-self match meets or exceeds cfg.Threshold, the write
// is blocked as a likely duplicate. Any failure from the embedding or
// vector-store backends fails the guard open: duplicate prevention
// being unavailable never blocks a tool call.
func NewDuplicatePrevention(embed embedding.Client, store vectorstore.Client, cfg DuplicateConfig) guard.Guard {
	if cfg.Threshold == 0 {
		cfg.Threshold = 0.75
	}
	if cfg.TopK == 0 {
		cfg.TopK = 5
	}
	if cfg.MinLines == 0 {
		cfg.MinLines = 5
	}
	if cfg.GuardTimeout == 0 {
		cfg.GuardTimeout = 5 * time.Second
	}
	return &duplicateGuard{
		Base: guard.Base{
			GuardName:        "Duplicate Content Prevention",
			GuardDescription: "blocks writes that closely duplicate existing indexed content",
			Action:           guard.ActionBlock,
			Fail:             guard.FailOpen,
		},
		embed: embed,
		store: store,
		cfg:   cfg,
	}
}

type duplicateGuard struct {
	guard.Base
	embed embedding.Client
	store vectorstore.Client
	cfg   DuplicateConfig

	// lastMatch carries the query result from ShouldTrigger to Message,
	// since ShouldTrigger performs the only vector-store round trip per
	// request — Message is called at most once, and may be expensive.
	lastMatch *vectorstore.Match
}

func (g *duplicateGuard) ShouldTrigger(req *request.Request) bool {
	if req.ToolName != request.ToolWrite && req.ToolName != request.ToolEdit && req.ToolName != request.ToolMultiEdit {
		return false
	}
	content := req.CombinedEditText()
	if content == "" {
		return false
	}
	if !sourcefile.HasSourceExtension(req.FilePath) {
		return false
	}
	if !sourcefile.MeetsMinLines(content, g.cfg.MinLines) {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), g.cfg.GuardTimeout)
	defer cancel()

	start := g.cfg.RepoRoot
	if start == "" {
		start = "."
	}
	root, err := workspace.Root(start)
	if err != nil {
		logging.Get(logging.CategoryDuplicate).Debugw("workspace root lookup failed", "err", err)
		return false
	}
	collection := workspace.CollectionName(root)
	language := sourcefile.Language(req.FilePath)

	vec, err := g.embed.Embed(ctx, content, language)
	if err != nil {
		logging.Get(logging.CategoryDuplicate).Debugw("embedding unavailable, failing open", "err", err)
		return false
	}

	if err := g.store.EnsureCollection(ctx, collection, g.embed.Dimensions()); err != nil {
		logging.Get(logging.CategoryDuplicate).Debugw("ensure collection failed, failing open", "err", err)
		return false
	}

	matches, err := g.store.Query(ctx, collection, vec, g.cfg.TopK)
	if err != nil {
		logging.Get(logging.CategoryDuplicate).Debugw("vector store unavailable, failing open", "err", err)
		return false
	}

	selfFingerprint := fingerprint.Of(content)
	for i := range matches {
		m := matches[i]
		if m.Point.ContentFingerprint == selfFingerprint {
			continue // self-match: the point being re-saved unchanged, not a duplicate of something else.
		}
		if m.Score >= g.cfg.Threshold {
			g.lastMatch = &m
			return true
		}
	}

	point := vectorstore.Point{
		ID:                 req.FilePath,
		Vector:             vec,
		ContentFingerprint: selfFingerprint,
		Metadata: map[string]string{
			"path":       req.FilePath,
			"language":   language,
			"indexed_at": time.Now().UTC().Format(time.RFC3339),
		},
	}
	if err := g.store.Upsert(ctx, collection, point); err != nil {
		logging.Get(logging.CategoryDuplicate).Debugw("indexing new content failed", "err", err)
	}
	return false
}

func (g *duplicateGuard) Message(req *request.Request) string {
	if g.lastMatch == nil {
		return "WARNING: content closely matches previously indexed content."
	}
	var source string
	if s, ok := g.lastMatch.Point.Metadata["path"]; ok {
		source = s
	} else {
		source = g.lastMatch.Point.ID
	}
	return fmt.Sprintf(
		"DUPLICATE CONTENT: this write is %.0f%% similar to existing content at %s.\n\n"+
			"Review whether this introduces a near-duplicate instead of reusing or extending the "+
			"existing implementation.",
		g.lastMatch.Score*100, source,
	)
}
