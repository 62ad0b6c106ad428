package dump

import (
	"fmt"
	"unicode/utf8"

	"go-smfplay/config"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// TextDecoder turns raw text meta payloads into display strings.
type TextDecoder func([]byte) string

// NewTextDecoder returns the decoder for enc. UTF-8 payloads that turn out
// not to be valid UTF-8 are shown as Latin-1, which maps every byte.
func NewTextDecoder(enc config.TextEncoding) (TextDecoder, error) {
	switch enc {
	case config.EncodingUTF8, "":
		return func(b []byte) string {
			if utf8.Valid(b) {
				return string(b)
			}
			return decodeWith(charmap.ISO8859_1, b)
		}, nil
	case config.EncodingShiftJIS:
		return func(b []byte) string { return decodeWith(japanese.ShiftJIS, b) }, nil
	case config.EncodingLatin1:
		return func(b []byte) string { return decodeWith(charmap.ISO8859_1, b) }, nil
	}
	return nil, fmt.Errorf("dump: unsupported text encoding %q", enc)
}

func decodeWith(e encoding.Encoding, b []byte) string {
	s, _, err := transform.Bytes(e.NewDecoder(), b)
	if err != nil {
		return string(b)
	}
	return string(s)
}
