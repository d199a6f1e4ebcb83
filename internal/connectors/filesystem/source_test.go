package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driven"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func names(docs []domain.RawDocument) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Name
	}
	return out
}

func TestNew(t *testing.T) {
	var src driven.DocumentSource = New()
	require.NotNil(t, src)
}

func TestMIMEType(t *testing.T) {
	assert.Equal(t, "application/pdf", MIMEType("/a/b/letter.pdf"))
	assert.Equal(t, "application/pdf", MIMEType("LETTER.PDF"))
	assert.Equal(t, "text/plain", MIMEType("letter.txt"))
	assert.Equal(t, "", MIMEType("letter.docx"))
	assert.Equal(t, "", MIMEType("README"))
}

func TestSource_Collect(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "batch", "b.pdf"), "%PDF b")
	writeFile(t, filepath.Join(dir, "batch", "a.txt"), "a")
	writeFile(t, filepath.Join(dir, "batch", "notes.docx"), "ignored")
	writeFile(t, filepath.Join(dir, "batch", ".hidden.pdf"), "ignored")
	writeFile(t, filepath.Join(dir, "batch", ".cache", "c.pdf"), "ignored")
	writeFile(t, filepath.Join(dir, "batch", "sub", "c.pdf"), "c")
	writeFile(t, filepath.Join(dir, "z.pdf"), "z")
	writeFile(t, filepath.Join(dir, "skip.csv"), "x")

	docs, err := New().Collect(context.Background(), []string{
		filepath.Join(dir, "z.pdf"),
		filepath.Join(dir, "batch"),
		filepath.Join(dir, "skip.csv"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"z.pdf", "a.txt", "b.pdf", "c.pdf"}, names(docs))

	z := docs[0]
	assert.Equal(t, "application/pdf", z.MIMEType)
	assert.Equal(t, []byte("z"), z.Content)
	assert.True(t, filepath.IsAbs(z.URI))
	assert.Equal(t, 1, z.Metadata["size"])
	assert.Equal(t, "text/plain", docs[1].MIMEType)
}

func TestSource_CollectRepeatedPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "john.pdf")
	writeFile(t, path, "x")

	docs, err := New().Collect(context.Background(), []string{path, path})
	require.NoError(t, err)
	assert.Len(t, docs, 2, "repeated arguments are processed twice")
}

func TestSource_CollectMissingPath(t *testing.T) {
	_, err := New().Collect(context.Background(), []string{filepath.Join(t.TempDir(), "missing.pdf")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSource_CollectCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.pdf"), "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Collect(ctx, []string{dir})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHandleFsEvent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "letter.pdf")
	writeFile(t, file, "x")
	sub := filepath.Join(dir, "folder.pdf")
	require.NoError(t, os.Mkdir(sub, 0o755))

	tests := []struct {
		name     string
		event    fsnotify.Event
		expected *domain.RawDocumentChange
	}{
		{"create", fsnotify.Event{Name: file, Op: fsnotify.Create}, &domain.RawDocumentChange{Type: domain.ChangeCreated, URI: file}},
		{"write", fsnotify.Event{Name: file, Op: fsnotify.Write}, &domain.RawDocumentChange{Type: domain.ChangeUpdated, URI: file}},
		{"write and chmod", fsnotify.Event{Name: file, Op: fsnotify.Write | fsnotify.Chmod}, &domain.RawDocumentChange{Type: domain.ChangeUpdated, URI: file}},
		{"remove", fsnotify.Event{Name: filepath.Join(dir, "gone.pdf"), Op: fsnotify.Remove}, &domain.RawDocumentChange{Type: domain.ChangeDeleted, URI: filepath.Join(dir, "gone.pdf")}},
		{"rename", fsnotify.Event{Name: file, Op: fsnotify.Rename}, &domain.RawDocumentChange{Type: domain.ChangeDeleted, URI: file}},
		{"chmod only", fsnotify.Event{Name: file, Op: fsnotify.Chmod}, nil},
		{"directory create", fsnotify.Event{Name: sub, Op: fsnotify.Create}, nil},
		{"hidden file", fsnotify.Event{Name: filepath.Join(dir, ".letter.pdf"), Op: fsnotify.Create}, nil},
		{"unsupported file", fsnotify.Event{Name: filepath.Join(dir, "ref.csv"), Op: fsnotify.Write}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, handleFsEvent(tt.event))
		})
	}
}

func TestSource_Watch(t *testing.T) {
	dir := t.TempDir()
	src := New()
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := src.Watch(ctx, []string{dir})
	require.NoError(t, err)

	target := filepath.Join(dir, "new.pdf")
	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(target, []byte("x"), 0o644)
	}()

	select {
	case change := <-changes:
		assert.Contains(t, change.URI, "new.pdf")
		assert.NotEqual(t, domain.ChangeDeleted, change.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for file change event")
	}

	cancel()
	for range changes {
	}
}

func TestSource_WatchSingleFile(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "watched.pdf")
	writeFile(t, watched, "x")

	src := New()
	defer src.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := src.Watch(ctx, []string{watched})
	require.NoError(t, err)

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "other.pdf"), []byte("x"), 0o644)
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(watched, []byte("y"), 0o644)
	}()

	select {
	case change := <-changes:
		assert.Contains(t, change.URI, "watched.pdf")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for file change event")
	}
}

func TestSource_WatchMissingPath(t *testing.T) {
	src := New()
	_, err := src.Watch(context.Background(), []string{filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
	assert.NoError(t, src.Close())
}

func TestSource_CloseStopsWatch(t *testing.T) {
	src := New()
	changes, err := src.Watch(context.Background(), []string{t.TempDir()})
	require.NoError(t, err)

	require.NoError(t, src.Close())

	select {
	case _, ok := <-changes:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after Close")
	}
}
