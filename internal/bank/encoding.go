package bank

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is the code page question banks are exchanged in.
const DefaultEncoding = "cp932"

var encodings = map[string]encoding.Encoding{
	"cp932":       japanese.ShiftJIS,
	"windows-31j": japanese.ShiftJIS,
	"shift_jis":   japanese.ShiftJIS,
	"shift-jis":   japanese.ShiftJIS,
	"sjis":        japanese.ShiftJIS,
	"euc-jp":      japanese.EUCJP,
	"eucjp":       japanese.EUCJP,
	"utf-8":       unicode.UTF8,
	"utf8":        unicode.UTF8,
}

// Lookup returns the text encoding registered under name. An empty name
// selects DefaultEncoding.
func Lookup(name string) (encoding.Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultEncoding
	}
	enc, ok := encodings[key]
	if !ok {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}
