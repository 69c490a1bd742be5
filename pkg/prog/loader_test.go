package prog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalProgramJSON = `{
  "funs": [
    {
      "name": {"namespace": "func", "text": "identity"},
      "ret_types": [{"elem": "i32"}],
      "params": [{"name": {"namespace": "var", "text": "x"}, "type": {"elem": "i32"}, "diet": "observe"}],
      "body": {"result": [{"is_var": true, "var": {"namespace": "var", "text": "x"}}]}
    }
  ]
}`

func writeFile(t *testing.T, dir, rel, contents string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoaderLoadSyncDecodesEveryProgramFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", minimalProgramJSON)
	writeFile(t, dir, "nested/b.json", minimalProgramJSON)
	writeFile(t, dir, "skip.txt", "not json")

	loader := NewLoader(dir, nil).WithWorkers(2)
	results := loader.LoadSync()

	require.Len(t, results, 2)
	for _, r := range results {
		assert.NoError(t, r.Err)
		require.NotNil(t, r.Program)
		assert.Len(t, r.Program.Funs, 1)
	}

	stats := loader.Stats()
	assert.Equal(t, 2, stats.TotalFiles)
	assert.Equal(t, 2, stats.LoadedFiles)
	assert.Equal(t, 0, stats.ErrorFiles)
}

func TestLoaderReportsErrorFilesWithoutAborting(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.json", minimalProgramJSON)
	writeFile(t, dir, "bad.json", "{not valid json")

	loader := NewLoader(dir, nil)
	results := loader.LoadSync()

	require.Len(t, results, 2)
	var sawError, sawOK bool
	for _, r := range results {
		if r.Err != nil {
			sawError = true
		} else {
			sawOK = true
		}
	}
	assert.True(t, sawError)
	assert.True(t, sawOK)

	stats := loader.Stats()
	assert.Equal(t, 1, stats.ErrorFiles)
	assert.Equal(t, 1, stats.LoadedFiles)
}

func TestLoaderExcludeSkipsMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.json", minimalProgramJSON)
	writeFile(t, dir, "generated/skip.json", minimalProgramJSON)

	loader := NewLoader(dir, func(relPath string) bool {
		return filepath.Base(relPath) == "skip.json"
	})
	results := loader.LoadSync()

	require.Len(t, results, 1)
	stats := loader.Stats()
	assert.Equal(t, 1, stats.SkippedFiles)
	assert.Equal(t, 1, stats.TotalFiles)
}

func TestLoaderSkipsVendorDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "vendor/dep.json", minimalProgramJSON)
	writeFile(t, dir, "keep.json", minimalProgramJSON)

	loader := NewLoader(dir, nil)
	results := loader.LoadSync()

	require.Len(t, results, 1)
	assert.Equal(t, "keep.json", filepath.Base(results[0].Path))
}
