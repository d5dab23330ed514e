package texture

import (
	"image"
	"image/color"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// PackMetallicRoughness combines two grayscale maps into the glTF
// metallicRoughness layout and returns it PNG encoded:
// R = 255 (no occlusion), G = roughness, B = metallic.
func PackMetallicRoughness(metallic, roughness Source, opts PackOptions) ([]byte, error) {
	img, err := PackMetallicRoughnessImage(metallic, roughness, opts)
	if err != nil {
		return nil, err
	}
	return EncodePNG(img, opts.Compression)
}

// PackMetallicRoughnessFile is PackMetallicRoughness writing the PNG to path.
func PackMetallicRoughnessFile(metallic, roughness Source, path string, opts PackOptions) error {
	data, err := PackMetallicRoughness(metallic, roughness, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0666); err != nil {
		return errors.Wrapf(err, "write packed map %q", path)
	}
	return nil
}

// PackMetallicRoughnessImage is PackMetallicRoughness without the PNG step.
// The result always has the metallic map dimensions.
func PackMetallicRoughnessImage(metallic, roughness Source, opts PackOptions) (*image.NRGBA, error) {
	mImg, err := metallic.Image()
	if err != nil {
		return nil, errors.Wrap(err, "metallic")
	}
	rImg, err := roughness.Image()
	if err != nil {
		return nil, errors.Wrap(err, "roughness")
	}

	m := Grayscale(mImg)
	r := Grayscale(rImg)
	if m.Rect.Size() != r.Rect.Size() {
		r = resample(r, m.Rect.Size(), opts.Filter)
	}

	w, h := m.Rect.Dx(), m.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		mRow := m.Pix[y*m.Stride : y*m.Stride+w]
		rRow := r.Pix[y*r.Stride : y*r.Stride+w]
		oRow := out.Pix[y*out.Stride : y*out.Stride+w*4]
		for x := 0; x < w; x++ {
			oRow[x*4+0] = 0xff
			oRow[x*4+1] = rRow[x]
			oRow[x*4+2] = mRow[x]
			oRow[x*4+3] = 0xff
		}
	}
	return out, nil
}

// Grayscale converts img to an 8-bit single channel image with origin (0, 0).
// Alpha is ignored and luma uses ITU-R 601-2 weights.
func Grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < b.Dy(); y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(g.Pix[y*g.Stride:y*g.Stride+b.Dx()], src.Pix[off:off+b.Dx()])
		}
		return g
	case *image.Gray16:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				g.Pix[y*g.Stride+x] = uint8(src.Gray16At(b.Min.X+x, b.Min.Y+y).Y >> 8)
			}
		}
		return g
	}

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			g.Pix[y*g.Stride+x] = uint8((19595*uint32(c.R) + 38470*uint32(c.G) + 7471*uint32(c.B) + 1<<15) >> 16)
		}
	}
	return g
}

func resample(src *image.Gray, size image.Point, f Filter) *image.Gray {
	dst := image.NewGray(image.Rectangle{Max: size})
	f.interpolator().Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
