package config

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/mogaika/pbrglb/texture"
)

var nameNormalizer = strings.NewReplacer(" ", "", "-", "", "_", "")

func normalizeEncodingName(name string) string {
	return strings.ToLower(nameNormalizer.Replace(name))
}

// LookupEncoding finds a legacy charmap by name ignoring case, spaces,
// dashes and underscores, so "windows-1252" matches "Windows 1252".
// An empty name or "utf-8" returns nil, meaning no conversion.
func LookupEncoding(name string) (encoding.Encoding, error) {
	want := normalizeEncodingName(name)
	if want == "" || want == "utf8" {
		return nil, nil
	}
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			if normalizeEncodingName(cm.String()) == want {
				return cm, nil
			}
		}
	}
	return nil, errors.Wrapf(texture.ErrConfiguration, "failed to find encoding %q", name)
}

func ListEncodings() []string {
	list := []string{"UTF-8"}
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			list = append(list, cm.String())
		}
	}
	return list
}
