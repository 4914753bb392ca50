package dataset

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upidash/internal/core"
	"upidash/internal/storage"
)

func TestLoaderMemoizes(t *testing.T) {
	path := writeFile(t, "tx.csv", sampleCSV)
	loader := NewLoader(LoaderOptions{})

	first, err := loader.Load(context.Background(), path)
	require.NoError(t, err)

	// Changing the file must not be observed until the cache is cleared.
	require.NoError(t, os.WriteFile(path, []byte("datetime,date,amount,type,category,merchant\n"), 0o644))

	second, err := loader.Load(context.Background(), filepath.Join(filepath.Dir(path), ".", "tx.csv"))
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int64(1), loader.Reads())

	loader.Clear(path)
	_, ok := loader.Peek(path)
	assert.False(t, ok)

	third, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 0, third.Len())
	assert.Equal(t, int64(2), loader.Reads())
}

func TestLoaderDoesNotCacheFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "later.csv")
	loader := NewLoader(LoaderOptions{})

	_, err := loader.Load(context.Background(), path)
	require.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	table, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
}

func TestLoaderConcurrentLoads(t *testing.T) {
	path := writeFile(t, "tx.csv", sampleCSV)
	loader := NewLoader(LoaderOptions{})

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			table, err := loader.Load(context.Background(), path)
			if assert.NoError(t, err) {
				results <- table.Len()
			}
		}()
	}
	wg.Wait()
	close(results)

	for n := range results {
		assert.Equal(t, 3, n)
	}
	assert.LessOrEqual(t, loader.Reads(), int64(workers))
	cached, ok := loader.Peek(path)
	require.True(t, ok)
	assert.Equal(t, 3, cached.Len())
}

func TestLoaderSharedLoadSurvivesCanceledCaller(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	slow := func(ctx context.Context, path string) (*core.Table, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return ReadValues(ctx, path, [][]string{
			{"datetime", "date", "amount", "type", "category", "merchant"},
			{"2024-01-05T10:00", "2024-01-05", "100", "P2P", "Food", "A"},
		})
	}
	loader := NewLoader(LoaderOptions{Readers: map[SourceType]ReaderFunc{SourceCSV: slow}})

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := loader.Load(firstCtx, "x.csv")
		firstErr <- err
	}()
	<-started

	type result struct {
		table *core.Table
		err   error
	}
	second := make(chan result, 1)
	go func() {
		table, err := loader.Load(context.Background(), "x.csv")
		second <- result{table, err}
	}()

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, 1, res.table.Len())
	assert.Equal(t, int64(1), loader.Reads())

	cached, ok := loader.Peek("x.csv")
	require.True(t, ok)
	assert.Same(t, res.table, cached)
}

func TestLoaderEvictsBeyondCacheSize(t *testing.T) {
	a := writeFile(t, "a.csv", sampleCSV)
	b := writeFile(t, "b.csv", sampleCSV)
	loader := NewLoader(LoaderOptions{CacheSize: 1})

	_, err := loader.Load(context.Background(), a)
	require.NoError(t, err)
	_, err = loader.Load(context.Background(), b)
	require.NoError(t, err)

	_, ok := loader.Peek(a)
	assert.False(t, ok, "least recently used path is dropped")
	assert.Equal(t, []string{filepath.Clean(b)}, loader.Cached())

	_, err = loader.Load(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, int64(3), loader.Reads())
}

func TestLoaderClearAll(t *testing.T) {
	a := writeFile(t, "a.csv", sampleCSV)
	b := writeFile(t, "b.csv", sampleCSV)
	loader := NewLoader(LoaderOptions{CacheSize: 4})

	_, err := loader.Load(context.Background(), a)
	require.NoError(t, err)
	_, err = loader.Load(context.Background(), b)
	require.NoError(t, err)
	assert.Len(t, loader.Cached(), 2)

	loader.ClearAll()
	assert.Empty(t, loader.Cached())
}

func TestLoaderSQLiteSource(t *testing.T) {
	ctx := context.Background()
	csvPath := writeFile(t, "tx.csv", sampleCSV)
	original, err := ReadCSVFile(ctx, csvPath)
	require.NoError(t, err)

	dbPath := filepath.Join(t.TempDir(), "tx.db")
	repo, err := storage.NewSQLiteRepository(dbPath)
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceTransactions(ctx, csvPath, original.Rows()))
	require.NoError(t, repo.Close())

	loader := NewLoader(LoaderOptions{Source: SourceAuto})
	fromDB, err := loader.Load(ctx, dbPath)
	require.NoError(t, err)
	assertTablesEqual(t, original, fromDB)
}

func TestReadSQLiteMissingFile(t *testing.T) {
	_, err := ReadSQLiteFile(context.Background(), filepath.Join(t.TempDir(), "missing.db"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSourceSelection(t *testing.T) {
	assert.Equal(t, SourceSQLite, DetectSource("x/tx.DB"))
	assert.Equal(t, SourceSQLite, DetectSource("tx.sqlite3"))
	assert.Equal(t, SourceCSV, DetectSource("tx.csv"))
	assert.Equal(t, SourceCSV, DetectSource("tx"))
	assert.Equal(t, SourceSheets, DetectSource("sheets://abc/Transactions!A:F"))

	st, err := ParseSourceType("")
	require.NoError(t, err)
	assert.Equal(t, SourceAuto, st)

	st, err = ParseSourceType(" SQLite ")
	require.NoError(t, err)
	assert.Equal(t, SourceSQLite, st)

	_, err = ParseSourceType("parquet")
	assert.ErrorIs(t, err, ErrUnsupportedSource)

	_, err = ReaderFor(SourceType("parquet"), "x", nil)
	assert.ErrorIs(t, err, ErrUnsupportedSource)

	_, err = ReaderFor(SourceAuto, "sheets://abc/Transactions", nil)
	assert.ErrorIs(t, err, ErrUnsupportedSource)
}

func TestLoaderUsesExtraReaders(t *testing.T) {
	var calls []string
	remote := func(ctx context.Context, path string) (*core.Table, error) {
		calls = append(calls, path)
		return ReadValues(ctx, path, [][]string{
			{"datetime", "date", "amount", "type", "category", "merchant"},
			{"2024-01-05T10:00", "2024-01-05", "100", "P2P", "Food", "A"},
		})
	}
	loader := NewLoader(LoaderOptions{Readers: map[SourceType]ReaderFunc{SourceSheets: remote}})

	path := "sheets://abc/Transactions!A:F"
	first, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	second, err := loader.Load(context.Background(), path)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, []string{path}, calls, "remote path is neither cleaned nor re-read")
	assert.Equal(t, []string{path}, loader.Cached())
}

func TestLoadErrorMessage(t *testing.T) {
	err := &LoadError{Path: "a.csv", Line: 3, Column: "amount", Err: ErrInvalidAmount}
	assert.Equal(t, `load a.csv: line 3, column "amount": invalid amount`, err.Error())

	err = &LoadError{Path: "a.csv", Err: ErrMalformed}
	assert.Equal(t, "load a.csv: malformed input", err.Error())
}
