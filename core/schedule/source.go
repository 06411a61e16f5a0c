package schedule

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"

	"tnved-tariffs/internal/errors"
)

// EncodingAuto keeps valid UTF-8 as is and reads anything else as
// Windows-1251, the usual encoding of legacy Russian schedules.
const EncodingAuto = "auto"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Source is an input file in both raw and decoded form
type Source struct {
	Name string
	Raw  []byte
	Text string
}

// Ext returns the lower-cased file extension
func (s *Source) Ext() string {
	return strings.ToLower(filepath.Ext(s.Name))
}

// Digest is the hex SHA-256 of the undecoded bytes. Two runs over the same
// digest produce the same records.
func (s *Source) Digest() string {
	sum := sha256.Sum256(s.Raw)
	return hex.EncodeToString(sum[:])
}

// Lines returns the decoded text split into lines without line terminators
func (s *Source) Lines() []string {
	lines := strings.Split(s.Text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}

// NewSource decodes raw bytes using the named encoding
func NewSource(name string, raw []byte, enc string) (*Source, error) {
	text, err := decodeText(raw, enc)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeEncoding, err, "cannot decode %s", name).
			WithContext("encoding", enc)
	}
	return &Source{Name: name, Raw: raw, Text: text}, nil
}

func decodeText(raw []byte, enc string) (string, error) {
	body := bytes.TrimPrefix(raw, utf8BOM)

	switch name := strings.ToLower(strings.TrimSpace(enc)); name {
	case "", EncodingAuto:
		if utf8.Valid(body) {
			return string(body), nil
		}
		return decodeWith(charmap.Windows1251, body)
	case "utf-8", "utf8":
		if !utf8.Valid(body) {
			return "", fmt.Errorf("input is not valid UTF-8")
		}
		return string(body), nil
	default:
		e, err := htmlindex.Get(name)
		if err != nil {
			return "", fmt.Errorf("unknown encoding %q: %w", enc, err)
		}
		return decodeWith(e, body)
	}
}

func decodeWith(e encoding.Encoding, body []byte) (string, error) {
	out, err := e.NewDecoder().Bytes(body)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
