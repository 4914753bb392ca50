package dataset

import (
	"context"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"upidash/internal/cache"
	"upidash/internal/core"
	"upidash/internal/log"
)

const DefaultCacheSize = 16

type LoaderOptions struct {
	Source    SourceType
	CacheSize int
	Logger    *log.Logger
	// Readers adds or overrides readers per source, e.g. Google Sheets.
	Readers map[SourceType]ReaderFunc
}

// Loader memoizes loaded tables per path. Entries never expire; they are
// dropped only by Clear, ClearAll or LRU eviction once CacheSize distinct
// paths are held.
type Loader struct {
	source  SourceType
	readers map[SourceType]ReaderFunc
	memo    *cache.LRUCache[*core.Table]
	group   singleflight.Group
	logger  *log.Logger
	reads   atomic.Int64
}

func NewLoader(opts LoaderOptions) *Loader {
	if opts.Source == "" {
		opts.Source = SourceAuto
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	return &Loader{
		source:  opts.Source,
		readers: opts.Readers,
		memo:    cache.NewLRUCache[*core.Table](opts.CacheSize, 0),
		logger:  opts.Logger.WithComponent(log.ComponentDataset),
	}
}

// Load returns the table for path, reading it at most once while it stays
// cached. Concurrent calls for the same path share one read.
func (l *Loader) Load(ctx context.Context, path string) (*core.Table, error) {
	key := cacheKey(path)
	if t, ok := l.memo.Get(key); ok {
		return t, nil
	}

	// The shared read outlives any single caller; each caller only stops
	// waiting when its own context ends.
	loadCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (any, error) {
		if t, ok := l.memo.Get(key); ok {
			return t, nil
		}

		start := time.Now()
		t, err := l.read(loadCtx, key)
		l.reads.Add(1)
		if err != nil {
			l.logger.ErrorContext(loadCtx, "Dataset load failed",
				log.NewFields().WithDataset(key, 0).WithError(err).WithOperation(log.OpLoad).ToSlice()...)
			return nil, err
		}

		l.memo.Set(key, t)
		l.logger.InfoContext(loadCtx, "Dataset loaded",
			log.FieldDataPath, key,
			log.FieldRows, t.Len(),
			log.FieldDuration, time.Since(start).Milliseconds())
		return t, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			l.logger.DebugContext(ctx, "Dataset load shared", log.FieldDataPath, key)
		}
		return res.Val.(*core.Table), nil
	}
}

func (l *Loader) read(ctx context.Context, path string) (*core.Table, error) {
	read, err := ReaderFor(l.source, path, l.readers)
	if err != nil {
		return nil, err
	}
	return read(ctx, path)
}

// cacheKey cleans file paths; remote locations are used verbatim since
// cleaning would collapse the scheme separator.
func cacheKey(path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	return filepath.Clean(path)
}

// Peek returns the cached table for path without loading it.
func (l *Loader) Peek(path string) (*core.Table, bool) {
	return l.memo.Get(cacheKey(path))
}

// Clear forgets path so the next Load reads it again.
func (l *Loader) Clear(path string) {
	key := cacheKey(path)
	l.memo.Delete(key)
	l.group.Forget(key)
	l.logger.Debug("Dataset cache cleared", log.FieldDataPath, key)
}

func (l *Loader) ClearAll() {
	l.memo.Clear()
	l.logger.Debug("Dataset cache emptied")
}

// Cached lists the cached paths, most recently used first.
func (l *Loader) Cached() []string {
	return l.memo.Keys()
}

// Reads counts reads from disk, failed ones included.
func (l *Loader) Reads() int64 {
	return l.reads.Load()
}
