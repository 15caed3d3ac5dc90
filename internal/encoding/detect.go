package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 8192

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Plan sheets exported as CSV come from Bulgarian Excel installs, so Cyrillic
// candidates are preferred over Latin ones regardless of confidence.
var (
	cyrillic = map[string]encoding.Encoding{
		"windows-1251": charmap.Windows1251,
		"ISO-8859-5":   charmap.ISO8859_5,
		"KOI8-R":       charmap.KOI8R,
		"IBM866":       charmap.CodePage866,
	}
	latin = map[string]encoding.Encoding{
		"windows-1252": charmap.Windows1252,
		"ISO-8859-1":   charmap.Windows1252,
	}
)

// NewUTF8Reader returns a reader that decodes r to UTF-8.
//
// A BOM wins; valid UTF-8 passes through; otherwise chardet picks one of the
// known single-byte charsets, falling back to Windows-1251.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), nil
	}

	if validUTF8Prefix(buf) {
		return br, nil
	}

	return transform.NewReader(br, Detect(buf).NewDecoder()), nil
}

// Detect guesses the single-byte charset of a non UTF-8 sample.
func Detect(sample []byte) encoding.Encoding {
	results, err := chardet.NewTextDetector().DetectAll(sample)
	if err != nil {
		return charmap.Windows1251
	}

	for _, known := range []map[string]encoding.Encoding{cyrillic, latin} {
		for _, res := range results {
			if enc, ok := known[res.Charset]; ok {
				return enc
			}
		}
	}

	return charmap.Windows1251
}

// validUTF8Prefix tolerates a multi-byte sequence cut by the peek window.
func validUTF8Prefix(buf []byte) bool {
	if utf8.Valid(buf) {
		return true
	}

	for cut := 1; cut < utf8.UTFMax && cut < len(buf); cut++ {
		if utf8.Valid(buf[:len(buf)-cut]) {
			return true
		}
	}

	return false
}
