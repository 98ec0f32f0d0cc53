package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"text2speech/internal/export"
	"text2speech/internal/tts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLoader(t *testing.T, dir string) envLoader {
	t.Helper()
	return func() (*toolEnv, error) {
		logger := zap.NewNop()
		return &toolEnv{
			store:  export.NewDirStore(dir, logger),
			engine: tts.NewEdgeService(logger),
			logger: logger,
		}, nil
	}
}

func run(t *testing.T, load envLoader, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand(load)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func seed(t *testing.T, dir string, names ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
}

func TestClear_DryRunKeepsFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "export")
	seed(t, dir, "text2speech_1.mp3")

	out, err := run(t, testLoader(t, dir), "clear", "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, out, "text2speech_1.mp3")
	assert.FileExists(t, filepath.Join(dir, "text2speech_1.mp3"))
}

func TestClear_RemovesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "export")
	seed(t, dir, "text2speech_1.mp3", "text2speech_2.mp3")

	out, err := run(t, testLoader(t, dir), "clear")
	require.NoError(t, err)

	assert.Contains(t, out, "удалено файлов: 2")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClear_MissingDirectory(t *testing.T) {
	_, err := run(t, testLoader(t, filepath.Join(t.TempDir(), "absent")), "clear")
	assert.ErrorContains(t, err, "директория экспорта не найдена")
}

func TestList(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "export")
	seed(t, dir, "text2speech_1.mp3")

	out, err := run(t, testLoader(t, dir), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "text2speech_1.mp3\t1\t")
}

func TestVoices(t *testing.T) {
	out, err := run(t, testLoader(t, t.TempDir()), "voices")
	require.NoError(t, err)
	assert.Contains(t, out, "en-US-AriaNeural")
}
