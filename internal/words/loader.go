// internal/words/loader.go
//
// Loads the rush word pool and the daily answer table.
//
// Formats:
//   - word list:   one word per line.
//   - daily table: "YYYY-MM-DD = WORD" per line; blank lines and lines
//     starting with '#' are skipped.
//
// Both are normalized like guesses, so longer words are cut to
// game.WordLength letters ("TOPRAK" loads as "TOPRA") and shorter ones are
// dropped.
// Load never fails: unreadable files fall back to the embedded assets, and
// an unreadable asset leaves the caller with an empty list (so the pool
// uses Fallback) or an empty table (so the daily session uses its fallback
// word).

package words

import (
	"bufio"
	"context"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordrush/assets"
	"github.com/robalobadob/wordrush/internal/game"
)

var dailyLine = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s*=\s*(.+)$`)

// Sources names the optional files to read instead of the embedded assets.
type Sources struct {
	WordsFile string
	DailyFile string
}

// Data is the loaded word data handed to the sessions.
type Data struct {
	Words []string
	Daily map[string]string
}

// Load reads the word list and the daily table described by src.
func Load(ctx context.Context, src Sources) Data {
	var d Data

	if err := readSource(ctx, src.WordsFile, assets.WordList, func(r io.Reader) error {
		var err error
		d.Words, err = ParseWordList(r)
		return err
	}); err != nil {
		log.Error().Err(err).Msg("word list unavailable; using built-in fallback")
		d.Words = nil
	}

	if err := readSource(ctx, src.DailyFile, assets.DailyTable, func(r io.Reader) error {
		var err error
		d.Daily, err = ParseDailyMap(r)
		return err
	}); err != nil {
		log.Error().Err(err).Msg("daily table unavailable; using fallback word")
		d.Daily = map[string]string{}
	}

	log.Info().Int("words", len(d.Words)).Int("daily", len(d.Daily)).Msg("word data loaded")
	return d
}

// readSource parses path when set, else the named embedded asset. A failing
// file is logged and replaced by the asset.
func readSource(ctx context.Context, path, asset string, parse func(io.Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if path != "" {
		err := parseFile(path, parse)
		if err == nil {
			return nil
		}
		log.Warn().Err(err).Str("path", path).Msg("read word file; falling back to embedded asset")
	}
	f, err := assets.Open(asset)
	if err != nil {
		return err
	}
	defer f.Close()
	return parse(f)
}

func parseFile(path string, parse func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return parse(f)
}

// ParseWordList reads one word per line, normalizes (cutting long words to
// length), keeps full-length results, and removes duplicates (first
// occurrence wins).
func ParseWordList(r io.Reader) ([]string, error) {
	var out []string
	err := scanLines(r, func(line string) {
		if line == "" {
			return
		}
		if w, ok := fullWord(line); ok {
			out = append(out, w)
		}
	})
	if err != nil {
		return nil, err
	}
	return dedup(out), nil
}

// ParseDailyMap reads "YYYY-MM-DD = WORD" lines into a date→word table.
// Words are normalized like guesses; malformed lines and words shorter than
// game.WordLength are skipped;
// a later line for the same date replaces an earlier one.
func ParseDailyMap(r io.Reader) (map[string]string, error) {
	out := make(map[string]string)
	err := scanLines(r, func(line string) {
		if line == "" || strings.HasPrefix(line, "#") {
			return
		}
		m := dailyLine.FindStringSubmatch(line)
		if m == nil {
			return
		}
		if w, ok := fullWord(m[2]); ok {
			out[m[1]] = w
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// fullWord normalizes s and reports whether the result is a full-length word.
func fullWord(s string) (string, bool) {
	w := Normalize(s)
	return w, utf8.RuneCountInString(w) == game.WordLength
}

// scanLines calls fn for every trimmed line with any BOM removed.
func scanLines(r io.Reader, fn func(line string)) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fn(strings.TrimSpace(strings.ReplaceAll(sc.Text(), "\uFEFF", "")))
	}
	return sc.Err()
}
