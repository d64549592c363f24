package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sources:
  - file: data/ine/*.csv
    description: Población total
    value_column: habitantes
  - file: /srv/data/teletrabajo.csv
    indicator: Teletrabajo
    processed: true
    value_column: porcentaje
    unit: "%"
`), 0o644))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Sources, 2)

	assert.Equal(t, filepath.Join(dir, "data/ine/*.csv"), m.Sources[0].File)
	assert.Equal(t, "habitantes", m.Sources[0].unit())
	assert.Equal(t, "Población total", m.Sources[0].Label())

	assert.Equal(t, "/srv/data/teletrabajo.csv", m.Sources[1].File)
	assert.Equal(t, "%", m.Sources[1].unit())
	assert.Equal(t, "Teletrabajo", m.Sources[1].Label())
}

func TestLoadManifestRejectsIncompleteSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sources:\n  - file: a.csv\n"), 0o644))

	_, err := LoadManifest(path)
	assert.ErrorContains(t, err, "no value_column")
}

func TestSourceSkip(t *testing.T) {
	assert.True(t, Source{}.Skip())
	assert.False(t, Source{Processed: true}.Skip())
	assert.False(t, Source{Description: "Población total"}.Skip())
}

func TestSourceFiles(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "ine/2023.csv", "valor\n1\n")
	writeCSV(t, dir, "ine/sub/2024.csv", "valor\n1\n")
	writeCSV(t, dir, "ine/notes.txt", "")

	files, err := Source{File: filepath.Join(dir, "ine/**/*.csv")}.Files()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "ine/2023.csv"),
		filepath.Join(dir, "ine/sub/2024.csv"),
	}, files)

	_, err = Source{File: filepath.Join(dir, "missing/*.csv")}.Files()
	var batchErr *BatchError
	assert.ErrorAs(t, err, &batchErr)
}
