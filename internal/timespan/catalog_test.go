package timespan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()

	spans := catalog.Spans()
	require.NotEmpty(t, spans)
	assert.Equal(t, "2016", spans[0])
	assert.True(t, catalog.Contains("2015-2016"))
	assert.False(t, catalog.Contains("1999"))
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "time_spans.yaml")
	content := "time_spans:\n  - \"2018\"\n  - \"2017-2018\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"2018", "2017-2018"}, catalog.Spans())
}

func TestLoadCatalog_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "time_spans.yaml")
	require.NoError(t, os.WriteFile(path, []byte("time_spans: []\n"), 0o600))

	_, err := LoadCatalog(path)
	require.Error(t, err)
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
