package texture

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"os"
	"reflect"

	// Decoders for the formats accepted as texture input.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/pkg/errors"
)

// Source is a texture image given as a file, an encoded buffer or a decoded image.
// Sources are read lazily and never cache decoded data.
type Source interface {
	Name() string
	// Image decodes the source.
	Image() (image.Image, error)
	// PNG returns the source encoded as PNG. PNG inputs are returned unchanged.
	PNG() ([]byte, error)
}

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

type fileSource struct {
	path string
}

func FileSource(path string) Source {
	return fileSource{path: path}
}

func (s fileSource) Name() string { return s.path }

func (s fileSource) read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidImage, "read %q: %v", s.path, err)
	}
	return data, nil
}

func (s fileSource) Image() (image.Image, error) {
	data, err := s.read()
	if err != nil {
		return nil, err
	}
	return decode(s.path, data)
}

func (s fileSource) PNG() ([]byte, error) {
	data, err := s.read()
	if err != nil {
		return nil, err
	}
	return toPNG(s.path, data)
}

type bytesSource struct {
	name string
	data []byte
}

func BytesSource(name string, data []byte) Source {
	return bytesSource{name: name, data: data}
}

func (s bytesSource) Name() string                { return s.name }
func (s bytesSource) Image() (image.Image, error) { return decode(s.name, s.data) }
func (s bytesSource) PNG() ([]byte, error)        { return toPNG(s.name, s.data) }

type imageSource struct {
	name string
	img  image.Image
}

func ImageSource(name string, img image.Image) Source {
	return imageSource{name: name, img: img}
}

func (s imageSource) Name() string { return s.name }

func (s imageSource) Image() (image.Image, error) {
	if isNilImage(s.img) || s.img.Bounds().Empty() {
		return nil, errors.Wrapf(ErrInvalidImage, "%s: empty image", s.name)
	}
	return s.img, nil
}

func (s imageSource) PNG() ([]byte, error) {
	img, err := s.Image()
	if err != nil {
		return nil, err
	}
	return EncodePNG(img, png.DefaultCompression)
}

// SourceOf wraps a path, byte buffer, reader or decoded image into a Source.
func SourceOf(v interface{}) (Source, error) {
	switch src := v.(type) {
	case Source:
		return src, nil
	case string:
		if src == "" {
			return nil, errors.Wrap(ErrConfiguration, "empty image path")
		}
		return FileSource(src), nil
	case []byte:
		return BytesSource("<bytes>", src), nil
	case image.Image:
		if isNilImage(src) {
			return nil, errors.Wrapf(ErrConfiguration, "nil image of type %T", src)
		}
		return ImageSource("<image>", src), nil
	case io.Reader:
		data, err := io.ReadAll(src)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidImage, "read image stream: %v", err)
		}
		return BytesSource("<reader>", data), nil
	case nil:
		return nil, errors.Wrap(ErrConfiguration, "nil image source")
	default:
		return nil, errors.Wrapf(ErrConfiguration, "unsupported image source type %T", v)
	}
}

// isNilImage also catches typed nil pointers such as (*image.Gray)(nil).
func isNilImage(img image.Image) bool {
	if img == nil {
		return true
	}
	v := reflect.ValueOf(img)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return v.IsNil()
	}
	return false
}

func decode(name string, data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.Wrapf(ErrInvalidImage, "%s: no data", name)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidImage, "decode %s: %v", name, err)
	}
	if img.Bounds().Empty() {
		return nil, errors.Wrapf(ErrInvalidImage, "%s: empty image", name)
	}
	return img, nil
}

func toPNG(name string, data []byte) ([]byte, error) {
	img, err := decode(name, data)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(data, pngSignature) {
		return data, nil
	}
	return EncodePNG(img, png.DefaultCompression)
}

func EncodePNG(img image.Image, level png.CompressionLevel) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: level}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, errors.Wrapf(ErrInvalidImage, "encode png: %v", err)
	}
	return buf.Bytes(), nil
}
