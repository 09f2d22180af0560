package filter

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// DecodeText converts raw fetched bytes to a UTF-8 string. Valid UTF-8
// passes through untouched; otherwise a charset is detected and the
// content transcoded, and any bytes still invalid afterwards are replaced
// with U+FFFD rather than dropped.
func DecodeText(content []byte) string {
	if utf8.Valid(content) {
		return string(content)
	}

	_, name, _ := charset.DetermineEncoding(content, "")
	if name != "" && name != "utf-8" && name != "utf8" {
		if e, err := htmlindex.Get(name); err == nil {
			reader := transform.NewReader(bytes.NewReader(content), e.NewDecoder())
			if decoded, err := io.ReadAll(reader); err == nil && utf8.Valid(decoded) {
				return string(decoded)
			}
		}
	}

	return strings.ToValidUTF8(string(content), "�")
}
