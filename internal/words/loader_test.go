package words

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWordList(t *testing.T) {
	in := "\uFEFFkitap\r\n  yazar \n\nkalem\nKİTAP\nçok\ntoprak\n"
	got, err := ParseWordList(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"KİTAP", "YAZAR", "KALEM", "TOPRA"}, got)
}

func TestParseWordListCutsLongWords(t *testing.T) {
	got, err := ParseWordList(strings.NewReader("kalemler\ntoprak\nkalem\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"KALEM", "TOPRA"}, got)
}

func TestParseDailyMapCutsLongWords(t *testing.T) {
	got, err := ParseDailyMap(strings.NewReader("2026-10-05 = TOPRAK\n2026-10-06 = umut\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"2026-10-05": "TOPRA"}, got)
}

func TestParseDailyMap(t *testing.T) {
	in := strings.Join([]string{
		"\uFEFF# header comment",
		"",
		"2026-10-01 = elmas",
		"2026-10-02=KİTAP",
		"2026-10-03 =   güneş  ",
		"not a line",
		"2026-10-04 = çok",
		"  # indented comment",
		"2026/10/05 = BULUT",
		"2026-10-01 = deniz",
	}, "\n")
	got, err := ParseDailyMap(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"2026-10-01": "DENİZ",
		"2026-10-02": "KİTAP",
		"2026-10-03": "GÜNEŞ",
	}, got)
}

func TestLoadEmbeddedDefaults(t *testing.T) {
	d := Load(context.Background(), Sources{})
	require.NotEmpty(t, d.Words)
	require.NotEmpty(t, d.Daily)
	for _, w := range d.Words {
		assert.True(t, Valid(w), w)
	}
	assert.Equal(t, "KALEM", d.Daily["2026-10-17"])
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	wordsPath := filepath.Join(dir, "words.txt")
	dailyPath := filepath.Join(dir, "daily.txt")
	require.NoError(t, os.WriteFile(wordsPath, []byte("elmas\nkalem\n"), 0o600))
	require.NoError(t, os.WriteFile(dailyPath, []byte("2030-01-01 = ŞEKER\n"), 0o600))

	d := Load(context.Background(), Sources{WordsFile: wordsPath, DailyFile: dailyPath})
	assert.Equal(t, []string{"ELMAS", "KALEM"}, d.Words)
	assert.Equal(t, map[string]string{"2030-01-01": "ŞEKER"}, d.Daily)
}

func TestLoadMissingFileFallsBackToAssets(t *testing.T) {
	d := Load(context.Background(), Sources{
		WordsFile: filepath.Join(t.TempDir(), "missing.txt"),
		DailyFile: filepath.Join(t.TempDir(), "missing.txt"),
	})
	assert.Contains(t, d.Words, "KİTAP")
	assert.Equal(t, "KİTAP", d.Daily["2026-10-02"])
}
