package ingest

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVReaderStreamsRows(t *testing.T) {
	path := writeTempCSV(t, "EVENT_ID,EVENT_NAME,EVENT_TIMESTAMP\n"+
		"e1,Page Viewed,2024-03-15T10:00:00Z\n"+
		"e2,Search Performed,2024-03-15T10:05:00Z\n")

	r, err := OpenCSV(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{"EVENT_ID", "EVENT_NAME", "EVENT_TIMESTAMP"}, r.Headers())

	row, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "e1", row["EVENT_ID"])
	assert.Equal(t, "Page Viewed", row["EVENT_NAME"])

	row, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "e2", row["EVENT_ID"])

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestCSVReaderToleratesRaggedRows(t *testing.T) {
	path := writeTempCSV(t, "EVENT_ID,EVENT_NAME,EVENT_TIMESTAMP,REVENUE\n"+
		"e1,Page Viewed,2024-03-15T10:00:00Z\n")

	r, err := OpenCSV(path)
	require.NoError(t, err)
	defer r.Close()

	row, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "e1", row["EVENT_ID"])
	_, present := row["REVENUE"]
	assert.False(t, present)
}

func TestOpenCSVMissingFile(t *testing.T) {
	_, err := OpenCSV("/nonexistent/events.csv")
	assert.Error(t, err)
}

func TestOpenCSVEmptyFile(t *testing.T) {
	path := writeTempCSV(t, "")
	_, err := OpenCSV(path)
	assert.Error(t, err)
}
