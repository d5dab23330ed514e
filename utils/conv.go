package utils

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// BytesToString decodes a legacy encoded, optionally nil terminated, string.
// A nil decoder keeps valid UTF-8 as is and replaces invalid sequences.
func BytesToString(dec *encoding.Decoder, bs []byte) string {
	if n := bytes.IndexByte(bs, 0); n >= 0 {
		bs = bs[:n]
	}

	if dec == nil {
		if utf8.Valid(bs) {
			return string(bs)
		}
		return string(bytes.ToValidUTF8(bs, []byte("�")))
	}

	s, _, err := transform.Bytes(dec, bs)
	if err != nil {
		return string(bytes.ToValidUTF8(bs, []byte("�")))
	}
	return string(s)
}
