package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *DirStore {
	t.Helper()
	s := NewDirStore(filepath.Join(t.TempDir(), "export"), zap.NewNop())
	s.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return s
}

func writeAudio(_ context.Context, path string) error {
	return os.WriteFile(path, []byte("audio"), 0644)
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
}

func names(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	result := make([]string, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.Name())
	}
	sort.Strings(result)
	return result
}

func TestArtifactName(t *testing.T) {
	assert.Equal(t, "text2speech_1700000000123.mp3", ArtifactName(time.UnixMilli(1700000000123)))
}

func TestWrite_CreatesDirectoryAndFile(t *testing.T) {
	s := newTestStore(t)

	var gotPath string
	name, err := s.Write(context.Background(), func(ctx context.Context, path string) error {
		gotPath = path
		return os.WriteFile(path, []byte("audio"), 0644)
	})
	require.NoError(t, err)

	assert.Equal(t, "text2speech_1700000000123.mp3", name)
	assert.Equal(t, filepath.Join(s.Dir(), name), gotPath)
	assert.FileExists(t, gotPath)
}

func TestWrite_KeepsPreviousArtifacts(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ensure())
	touch(t, s.Dir(), "text2speech_1.mp3")

	_, err := s.Write(context.Background(), writeAudio)
	require.NoError(t, err)

	assert.Equal(t, []string{"text2speech_1.mp3", "text2speech_1700000000123.mp3"}, names(t, s.Dir()))
}

func TestWrite_ProducerError(t *testing.T) {
	s := newTestStore(t)
	produceErr := errors.New("engine failed")

	_, err := s.Write(context.Background(), func(context.Context, string) error { return produceErr })
	assert.ErrorIs(t, err, produceErr)
}

func TestEnsure_Idempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ensure())
	require.NoError(t, s.Ensure())
	assert.DirExists(t, s.Dir())
}

func TestPruneExcept_KeepsOnlyTarget(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ensure())
	touch(t, s.Dir(), "text2speech_1.mp3")
	touch(t, s.Dir(), "text2speech_2.mp3")
	touch(t, s.Dir(), "notes.txt")

	removed, err := s.PruneExcept("text2speech_2.mp3")
	require.NoError(t, err)

	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{"text2speech_2.mp3"}, names(t, s.Dir()))
}

func TestPruneExcept_MissingTargetDeletesNothing(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ensure())
	touch(t, s.Dir(), "text2speech_1.mp3")

	_, err := s.PruneExcept("text2speech_404.mp3")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{"text2speech_1.mp3"}, names(t, s.Dir()))
}

func TestPruneExcept_MissingDirectory(t *testing.T) {
	s := newTestStore(t)

	_, err := s.PruneExcept("text2speech_1.mp3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPath_RejectsEscapes(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ensure())

	for _, name := range []string{"", ".", "..", "../secret", `..\secret`, "a/b.mp3"} {
		_, err := s.Path(name)
		assert.ErrorIs(t, err, ErrNotFound, name)
	}
}

func TestClearAll(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ensure())
	touch(t, s.Dir(), "text2speech_1.mp3")
	touch(t, s.Dir(), "text2speech_2.mp3")

	removed, err := s.ClearAll()
	require.NoError(t, err)

	assert.Equal(t, 2, removed)
	assert.DirExists(t, s.Dir())
	assert.Empty(t, names(t, s.Dir()))
}

func TestClearAll_MissingDirectory(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ClearAll()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAndRemove(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ensure())
	touch(t, s.Dir(), "text2speech_1.mp3")

	artifacts, err := s.List()
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "text2speech_1.mp3", artifacts[0].Name)
	assert.Equal(t, int64(1), artifacts[0].Size)

	require.NoError(t, s.Remove("text2speech_1.mp3"))
	assert.ErrorIs(t, s.Remove("text2speech_1.mp3"), ErrNotFound)
}
