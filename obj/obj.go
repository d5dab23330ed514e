// Package obj reads Wavefront OBJ geometry into flat, glTF ready vertex streams.
package obj

import (
	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
)

// ErrMeshLoad is returned when the mesh source is missing, empty or malformed.
var ErrMeshLoad = errors.New("mesh load error")

// Object is one OBJ object or group. Vertices are de-duplicated per object,
// every three indices form a triangle.
type Object struct {
	Name     string
	Material string

	Positions [][3]float32
	Normals   [][3]float32
	// UVs is nil when no face of the object references texture coordinates.
	// V is already flipped to the glTF convention.
	UVs     [][2]float32
	Indices []uint32
}

func (o *Object) TriangleCount() int {
	return len(o.Indices) / 3
}

type Mesh struct {
	Name    string
	Objects []*Object
}

func (m *Mesh) TriangleCount() int {
	n := 0
	for _, o := range m.Objects {
		n += o.TriangleCount()
	}
	return n
}

func (m *Mesh) VertexCount() int {
	n := 0
	for _, o := range m.Objects {
		n += len(o.Positions)
	}
	return n
}

type Options struct {
	// NameDecoder converts object and material names from a legacy
	// charset. nil means names are UTF-8.
	NameDecoder *encoding.Decoder
}
