package texture

import "github.com/pkg/errors"

var (
	// ErrInvalidImage is returned when a texture source can not be read or decoded.
	ErrInvalidImage = errors.New("invalid image")
	// ErrConfiguration is returned for unsupported source types, slot names and filters.
	ErrConfiguration = errors.New("configuration error")
)
