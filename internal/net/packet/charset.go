package packet

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

// clientCharset is the code page the game client uses for string fields.
// Set once at startup, before the game loop runs.
var clientCharset encoding.Encoding = charmap.Windows1252

// SetCharset selects the client code page by its WHATWG name
// ("windows-1252", "euc-kr", "shift_jis", "big5", ...).
func SetCharset(name string) error {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return fmt.Errorf("client charset %q: %w", name, err)
	}
	clientCharset = enc
	return nil
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}

// encodeString converts UTF-8 to the client code page.
// Pure ASCII passes through unchanged.
func encodeString(s string) []byte {
	raw := []byte(s)
	if isASCII(raw) {
		return raw
	}
	encoded, err := clientCharset.NewEncoder().Bytes(raw)
	if err != nil {
		return raw
	}
	return encoded
}

// decodeString converts client code page bytes to UTF-8.
func decodeString(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	if isASCII(raw) {
		return string(raw)
	}
	decoded, err := clientCharset.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}
