package hasher

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

const upperhex = "0123456789ABCDEF"

// encodeURI percent-encodes s like ECMAScript encodeURI: reserved characters
// such as '?', '/' and '#' stay literal.
func encodeURI(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !keepInURI(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if keepInURI(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperhex[c>>4])
		sb.WriteByte(upperhex[c&15])
	}
	return sb.String()
}

func keepInURI(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte(";,/?:@&=+$-_.!~*'()#", c) != -1
}

func (e *Engine) decode(s string) (string, error) {
	v, err := url.PathUnescape(s)
	if err == nil && !utf8.ValidString(v) && utf8.ValidString(s) {
		err = fmt.Errorf("invalid UTF-8 after unescaping")
	}
	if err != nil {
		e.metrics.decodeError()
		if e.opts.decodeMode == DecodeLiteral {
			return s, nil
		}
		return "", fmt.Errorf("%w %q: %v", ErrMalformedHash, s, err)
	}
	return v, nil
}

// trim strips the configured markers from a raw hash.
func (e *Engine) trim(hash string) string {
	if hash == "" {
		return ""
	}
	hash = strings.TrimPrefix(hash, e.PrependHash)
	return strings.TrimSuffix(hash, e.AppendHash)
}
