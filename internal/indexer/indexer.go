// Package indexer implements the File Indexer: it walks a
// workspace, embeds and upserts each eligible file into the
// duplicate-prevention vector store, and keeps the index current via an
// fsnotify watch with debouncing plus a periodic rescan fallback.
// Grounded on the teacher's MangleWatcher
// (internal/core/mangle_watcher.go: debounce map, stop/done channels,
// Start(ctx) goroutine shape), generalized from a single mangle directory
// to an arbitrary ignore-filtered file tree, and on the teacher's
// worker-pool convention, here via golang.org/x/sync/semaphore.
package indexer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	gitignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/semaphore"

	"guardhook/internal/embedding"
	"guardhook/internal/fingerprint"
	"guardhook/internal/logging"
	"guardhook/internal/sourcefile"
	"guardhook/internal/vectorstore"
	"guardhook/internal/workspace"
)

// Config configures an Indexer.
type Config struct {
	RescanInterval time.Duration
	DebounceWindow time.Duration
	MaxWorkers     int64
	IgnoreFile     string // defaults to ".gitignore" at the workspace root
}

// Indexer walks root, embedding and upserting file contents into the
// duplicate-prevention collection for root.
type Indexer struct {
	root       string
	collection string
	embed      embedding.Client
	store      vectorstore.Client
	cfg        Config
	ignore     *gitignore.GitIgnore

	mu          sync.Mutex
	debounceMap map[string]time.Time

	ensureMu sync.Mutex
	ensured  bool

	stopCh chan struct{}
	doneCh chan struct{}
}

// New constructs an Indexer rooted at root.
func New(root string, embed embedding.Client, store vectorstore.Client, cfg Config) *Indexer {
	if cfg.RescanInterval <= 0 {
		cfg.RescanInterval = 60 * time.Second
	}
	if cfg.DebounceWindow <= 0 {
		cfg.DebounceWindow = time.Second
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 4
	}
	if cfg.IgnoreFile == "" {
		cfg.IgnoreFile = filepath.Join(root, ".gitignore")
	}

	ignore, err := gitignore.CompileIgnoreFile(cfg.IgnoreFile)
	if err != nil {
		ignore = gitignore.CompileIgnoreLines() // empty ignore set: the file is optional
	}

	return &Indexer{
		root:        root,
		collection:  workspace.CollectionName(root),
		embed:       embed,
		store:       store,
		cfg:         cfg,
		ignore:      ignore,
		debounceMap: make(map[string]time.Time),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// eligible reports whether path should be indexed: a source-code
// extension, not under an excluded directory, not ignored, and not a
// directory itself.
func (ix *Indexer) eligible(path string) bool {
	rel, err := filepath.Rel(ix.root, path)
	if err != nil {
		return false
	}
	if rel == "." || rel == "" {
		return false
	}
	if !sourcefile.HasSourceExtension(path) {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(filepath.Dir(rel)), "/") {
		if sourcefile.IsExcludedDir(part) {
			return false
		}
	}
	if ix.ignore.MatchesPath(rel) {
		return false
	}
	return true
}

// ensureCollection creates the vector store collection on first use and
// remembers success so later calls skip the round trip. A failure is not
// remembered: the next file retries, since the backend may recover.
func (ix *Indexer) ensureCollection(ctx context.Context) error {
	ix.ensureMu.Lock()
	defer ix.ensureMu.Unlock()
	if ix.ensured {
		return nil
	}
	if err := ix.store.EnsureCollection(ctx, ix.collection, ix.embed.Dimensions()); err != nil {
		return err
	}
	ix.ensured = true
	return nil
}

// IndexFile embeds and upserts the contents of path (absolute) into the
// vector store. Every call embeds and upserts: an unchanged file is not
// detected or skipped. The point carries the content fingerprint
// (the same fingerprint the duplicate guard uses) as metadata only.
func (ix *Indexer) IndexFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	content := string(data)
	if content == "" {
		return nil
	}

	language := sourcefile.Language(path)
	vec, err := ix.embed.Embed(ctx, content, language)
	if err != nil {
		logging.Get(logging.CategoryIndexer).Debugw("embedding failed, skipping file", "path", path, "err", err)
		return nil // fail open: indexing never blocks, it just stays stale
	}

	if err := ix.ensureCollection(ctx); err != nil {
		logging.Get(logging.CategoryIndexer).Debugw("ensure collection failed, skipping file", "path", path, "err", err)
		return nil
	}

	rel, _ := filepath.Rel(ix.root, path)
	point := vectorstore.Point{
		ID:                 rel,
		Vector:             vec,
		ContentFingerprint: fingerprint.Of(content),
		Metadata: map[string]string{
			"path":       rel,
			"language":   language,
			"indexed_at": time.Now().UTC().Format(time.RFC3339),
		},
	}
	return ix.store.Upsert(ctx, ix.collection, point)
}

// FullScan walks the entire tree once, indexing every eligible file,
// bounded by cfg.MaxWorkers concurrent embedding calls (grounded on the
// teacher's worker-pool convention, implemented with a semaphore).
func (ix *Indexer) FullScan(ctx context.Context) error {
	sem := semaphore.NewWeighted(ix.cfg.MaxWorkers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	err := filepath.Walk(ix.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != ix.root && sourcefile.IsExcludedDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !ix.eligible(path) {
			return nil
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			defer sem.Release(1)
			if err := ix.IndexFile(ctx, p); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(path)
		return nil
	})
	wg.Wait()
	if err != nil {
		return err
	}
	return firstErr
}

// Watch starts an fsnotify watch over root plus a periodic rescan
// fallback (for filesystems where fsnotify is unreliable, e.g. network
// mounts). Non-blocking; call Stop to terminate.
func (ix *Indexer) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := filepath.Walk(ix.root, func(path string, info os.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return nil
		}
		if path != ix.root && sourcefile.IsExcludedDir(info.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	}); err != nil {
		watcher.Close()
		return err
	}

	go ix.run(ctx, watcher)
	return nil
}

func (ix *Indexer) run(ctx context.Context, watcher *fsnotify.Watcher) {
	defer close(ix.doneCh)
	defer watcher.Close()

	rescan := time.NewTicker(ix.cfg.RescanInterval)
	defer rescan.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ix.stopCh:
			return
		case <-rescan.C:
			if err := ix.FullScan(ctx); err != nil {
				logging.Get(logging.CategoryIndexer).Warnw("periodic rescan failed", "err", err)
			}
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			ix.handleEvent(ctx, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryIndexer).Warnw("watcher error", "err", err)
		}
	}
}

func (ix *Indexer) handleEvent(ctx context.Context, event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	if !ix.eligible(event.Name) {
		return
	}

	ix.mu.Lock()
	last, debouncing := ix.debounceMap[event.Name]
	now := time.Now()
	if debouncing && now.Sub(last) < ix.cfg.DebounceWindow {
		ix.debounceMap[event.Name] = now
		ix.mu.Unlock()
		return
	}
	ix.debounceMap[event.Name] = now
	ix.mu.Unlock()

	if err := ix.IndexFile(ctx, event.Name); err != nil {
		logging.Get(logging.CategoryIndexer).Debugw("failed to index changed file", "path", event.Name, "err", err)
	}
}

// Stop terminates the watch goroutine and waits for it to exit.
func (ix *Indexer) Stop() {
	close(ix.stopCh)
	<-ix.doneCh
}
