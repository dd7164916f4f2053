package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestBundle_SkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "Weekly_Data.xlsx")
	writeFile(t, data, "data")
	zipPath := filepath.Join(dir, "Weekly_Sales_Report_2019-04-01.zip")

	added, err := NewBundler().Bundle(zipPath, data, filepath.Join(dir, "Weekly_Report.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	zr, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer zr.Close()

	require.Len(t, zr.File, 1)
	assert.Equal(t, "Weekly_Data.xlsx", zr.File[0].Name)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "data", string(body))
}

func TestBundle_Empty(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "out.zip")

	added, err := NewBundler().Bundle(zipPath, filepath.Join(dir, "nope.xlsx"))
	assert.ErrorIs(t, err, ErrEmptyArchive)
	assert.Zero(t, added)
	assert.FileExists(t, zipPath)
}

func TestRemoveStale(t *testing.T) {
	dir := t.TempDir()
	keep := filepath.Join(dir, "Weekly_Sales_Report_2019-04-01.zip")
	for _, name := range []string{
		"Weekly_Sales_Report_2019-03-18.zip",
		"Weekly_Sales_Report_2019-03-25.zip",
		"Weekly_Sales_Report_2019-04-01.zip",
		"Weekly_Data.xlsx",
	} {
		writeFile(t, filepath.Join(dir, name), "x")
	}

	removed, err := NewBundler().RemoveStale(dir, "Weekly_Sales_Report_*.zip", keep)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	assert.Equal(t, []string{"Weekly_Data.xlsx", "Weekly_Sales_Report_2019-04-01.zip"}, names)
}
