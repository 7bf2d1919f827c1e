package input

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/voidshard/salespipe/pkg/crypto"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// File is a decoded sales file with its header line removed.
type File struct {
	Path        string
	Encoding    string
	Lines       []string
	Fingerprint string
}

// SourceError means the input could not be read at all. It is a different
// class of failure than the per record problems the pipeline counts.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

type decoder struct {
	name string
	enc  encoding.Encoding // nil means strict utf-8
}

// tried in order; latin-1 accepts any byte sequence
var decoders = []decoder{
	{name: "utf-8"},
	{name: "latin-1", enc: charmap.ISO8859_1},
	{name: "cp1252", enc: charmap.Windows1252},
}

// Read loads path, decoding it with the first encoding that fits.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}

	text, name, err := decode(data)
	if err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}

	return &File{
		Path:        path,
		Encoding:    name,
		Lines:       Lines(text),
		Fingerprint: crypto.Fingerprint(data),
	}, nil
}

func decode(data []byte) (string, string, error) {
	var last error
	for _, d := range decoders {
		if d.enc == nil {
			if utf8.Valid(data) {
				return string(data), d.name, nil
			}
			last = fmt.Errorf("invalid %s", d.name)
			continue
		}

		out, err := d.enc.NewDecoder().Bytes(data)
		if err != nil {
			last = err
			continue
		}
		return string(out), d.name, nil
	}
	return "", "", fmt.Errorf("no encoding fits: %w", last)
}

// Lines splits text into trimmed, non blank lines, dropping the header.
func Lines(text string) []string {
	text = strings.TrimPrefix(text, "\ufeff")
	raw := strings.Split(text, "\n")

	lines := []string{}
	for i, l := range raw {
		if i == 0 {
			continue // header
		}
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}
