package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/expediti/capcut-scraper/internal/core/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func sampleRecords() []domain.TemplateRecord {
	return []domain.TemplateRecord{
		{
			Title:        "Phonk Magic",
			TemplateID:   "1234567890123456789",
			CapcutLink:   "https://capcut-yt.onelink.me/W3Oy/x",
			VideoURL:     "https://files.catbox.moe/a.mp4",
			ThumbnailURL: "https://files.catbox.moe/a.jpg",
			SourceURL:    "https://www.capcut.com/template-detail/phonk/1234567890123456789",
			Description:  "A phonk template",
			Tags:         []string{"phonk", "viral"},
			Duration:     "0:15",
		},
		{
			Title:        "Untitled Template",
			VideoURL:     "https://files.catbox.moe/b.mp4",
			ThumbnailURL: "https://files.catbox.moe/b.jpg",
		},
	}
}

func TestWriteCSVRowCountAndColumns(t *testing.T) {
	writer, err := NewWriter(t.TempDir(), testLogger())
	require.NoError(t, err)

	records := sampleRecords()
	path, err := writer.WriteCSV("templates.csv", records)
	require.NoError(t, err)
	require.NotEmpty(t, path)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(records)+1)
	require.Equal(t, scraperHeader, rows[0])
	require.Equal(t, "Phonk Magic", rows[1][0])
	require.Equal(t, "phonk, viral", rows[1][7])
}

func TestWriteCSVIdempotent(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewWriter(dir, testLogger())
	require.NoError(t, err)

	records := sampleRecords()
	first, err := writer.WriteCSV("first.csv", records)
	require.NoError(t, err)
	second, err := writer.WriteCSV("second.csv", records)
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	require.Equal(t, a, b, "re-exporting the same collection must be byte-identical")
}

func TestWriteCSVEmptyCollectionIsNoOp(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewWriter(dir, testLogger())
	require.NoError(t, err)

	path, err := writer.WriteCSV("empty.csv", nil)
	require.NoError(t, err)
	require.Empty(t, path)
	require.NoFileExists(t, filepath.Join(dir, "empty.csv"))
}

func TestWriteManualCSVColumns(t *testing.T) {
	writer, err := NewWriter(t.TempDir(), testLogger())
	require.NoError(t, err)

	path, err := writer.WriteManualCSV("manual.csv", sampleRecords())
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Equal(t, manualHeader, rows[0])
	require.Len(t, rows[1], len(manualHeader))
}

func TestWriteJSONRoundTrip(t *testing.T) {
	writer, err := NewWriter(t.TempDir(), testLogger())
	require.NoError(t, err)

	records := sampleRecords()
	path, err := writer.WriteJSON("templates.json", records)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []domain.TemplateRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, records, decoded)
}

func TestWriteJSONEmptyCollectionIsNoOp(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewWriter(dir, testLogger())
	require.NoError(t, err)

	path, err := writer.WriteJSON("empty.json", nil)
	require.NoError(t, err)
	require.Empty(t, path)
	require.NoFileExists(t, filepath.Join(dir, "empty.json"))
}
