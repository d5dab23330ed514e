package obj

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const quadObj = `
# unit quad in XY
o Quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 2
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestParseQuad(t *testing.T) {
	mesh, err := Parse(strings.NewReader(quadObj), "quad", Options{})
	require.NoError(t, err)

	require.Len(t, mesh.Objects, 1)
	o := mesh.Objects[0]
	assert.Equal(t, "Quad", o.Name)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, o.Indices)
	assert.Len(t, o.Positions, 4)
	assert.Equal(t, [3]float32{1, 1, 0}, o.Positions[2])

	require.Len(t, o.UVs, 4)
	assert.Equal(t, [2]float32{0, 1}, o.UVs[0], "v must be flipped")
	assert.Equal(t, [2]float32{1, 0}, o.UVs[2])

	for _, n := range o.Normals {
		assert.Equal(t, [3]float32{0, 0, 1}, n)
	}
	assert.Equal(t, 2, mesh.TriangleCount())
	assert.Equal(t, 4, mesh.VertexCount())
}

func TestParseComputesNormals(t *testing.T) {
	const src = `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	mesh, err := Parse(strings.NewReader(src), "tri", Options{})
	require.NoError(t, err)

	o := mesh.Objects[0]
	assert.Nil(t, o.UVs)
	require.Len(t, o.Normals, 3)
	for _, n := range o.Normals {
		assert.InDelta(t, 0, n[0], 1e-6)
		assert.InDelta(t, 0, n[1], 1e-6)
		assert.InDelta(t, 1, n[2], 1e-6)
	}
}

func TestParseNegativeIndicesAndDedup(t *testing.T) {
	const src = `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f -4 -3 -2
f 1 3 4
`
	mesh, err := Parse(strings.NewReader(src), "neg", Options{})
	require.NoError(t, err)

	o := mesh.Objects[0]
	assert.Len(t, o.Positions, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, o.Indices)
}

func TestParseObjects(t *testing.T) {
	const src = `
v 0 0 0
v 1 0 0
v 0 1 0
o first
f 1 2 3
f 3 2 1
o second
f 1 3 2
o empty
`
	mesh, err := Parse(strings.NewReader(src), "objects", Options{})
	require.NoError(t, err)

	var names []string
	for _, o := range mesh.Objects {
		names = append(names, o.Name)
	}
	assert.Equal(t, []string{"first", "second"}, names)
	assert.Equal(t, 2, mesh.Objects[0].TriangleCount())
	assert.Len(t, mesh.Objects[0].Positions, 3)
}

func TestParseMissingUVDefaultsToOrigin(t *testing.T) {
	const src = `
v 0 0 0
v 1 0 0
v 0 1 0
vt 0.5 0.25
f 1/1 2/1 3
`
	mesh, err := Parse(strings.NewReader(src), "partial-uv", Options{})
	require.NoError(t, err)

	o := mesh.Objects[0]
	require.Len(t, o.UVs, 3)
	assert.Equal(t, [2]float32{0.5, 0.75}, o.UVs[0])
	assert.Equal(t, [2]float32{0, 1}, o.UVs[2], "absent uv is obj (0, 0), flipped")
}

func TestParseNameDecoder(t *testing.T) {
	src := "o caf\xe9\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"

	mesh, err := Parse(strings.NewReader(src), "enc", Options{NameDecoder: charmap.Windows1252.NewDecoder()})
	require.NoError(t, err)
	assert.Equal(t, "café", mesh.Objects[0].Name)

	mesh, err = Parse(strings.NewReader(src), "enc", Options{})
	require.NoError(t, err)
	assert.Equal(t, "caf�", mesh.Objects[0].Name)
}

func TestParseErrors(t *testing.T) {
	var tests = []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"comments only", "# nothing\n"},
		{"no faces", "v 0 0 0\nv 1 0 0\nv 0 1 0\n"},
		{"bad number", "v 0 x 0\n"},
		{"short vertex", "v 0 0\n"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n"},
		{"out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n"},
		{"degenerate face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
		{"bad uv ref", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1 2/1 3/1\n"},
		{"nan vertex", "v nan 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"},
		{"inf normal", "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 -inf 0\nf 1//1 2//1 3//1\n"},
		{"inf uv", "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt inf 0\nf 1/1 2/1 3/1\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(test.src), test.name, Options{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMeshLoad), "got %v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quad.obj")
	require.NoError(t, os.WriteFile(path, []byte(quadObj), 0666))

	mesh, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "quad", mesh.Name)

	_, err = Load(filepath.Join(dir, "missing.obj"), Options{})
	assert.True(t, errors.Is(err, ErrMeshLoad), "got %v", err)
}
