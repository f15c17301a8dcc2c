package assets

import (
	"embed"
	"io"
)

//go:embed words-tr-5.txt daily-answers.txt
var FS embed.FS

// Asset names.
const (
	WordList   = "words-tr-5.txt"
	DailyTable = "daily-answers.txt"
)

// Open returns a reader for an embedded asset.
func Open(name string) (io.ReadCloser, error) {
	return FS.Open(name)
}
