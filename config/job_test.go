package config

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/pbrglb/texture"
)

const jobYAML = `
mesh: mesh/model.obj
output: /tmp/out/model.glb
textures:
  albedo: tex/albedo.png
  metallic: tex/metallic.png
  roughness: tex/roughness.png
filter: bilinear
compression: best
name_encoding: windows-1252
generator: test-suite
`

func TestLoadJob(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(jobYAML), 0666))

	job, err := LoadJob(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "mesh", "model.obj"), job.Mesh)
	assert.Equal(t, "/tmp/out/model.glb", job.Output)
	assert.Equal(t, filepath.Join(dir, "tex", "albedo.png"), job.Textures["albedo"])

	set, err := job.TextureSet()
	require.NoError(t, err)
	assert.Len(t, set, 3)
	assert.True(t, set.HasMetallicRoughness())

	opts, err := job.Options()
	require.NoError(t, err)
	assert.Equal(t, texture.FilterBilinear, opts.Pack.Filter)
	assert.Equal(t, png.BestCompression, opts.Pack.Compression)
	assert.NotNil(t, opts.Mesh.NameDecoder)
	assert.Equal(t, "test-suite", opts.Generator)
}

func TestLoadJobErrors(t *testing.T) {
	_, err := LoadJob(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, texture.ErrConfiguration), "got %v", err)

	_, err = ParseJob([]byte("textures: [1, 2"))
	assert.True(t, errors.Is(err, texture.ErrConfiguration), "got %v", err)
}

func TestJobValidation(t *testing.T) {
	var tests = []struct {
		name string
		job  Job
	}{
		{"no mesh", Job{Output: "o.glb"}},
		{"no output", Job{Mesh: "m.obj"}},
		{"filter", Job{Mesh: "m.obj", Output: "o.glb", Filter: "lanczos"}},
		{"compression", Job{Mesh: "m.obj", Output: "o.glb", Compression: "ultra"}},
		{"encoding", Job{Mesh: "m.obj", Output: "o.glb", NameEncoding: "klingon"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := test.job.Options()
			assert.True(t, errors.Is(err, texture.ErrConfiguration), "got %v", err)
		})
	}

	job := Job{Textures: map[string]string{"gloss": "g.png"}}
	_, err := job.TextureSet()
	assert.True(t, errors.Is(err, texture.ErrConfiguration), "got %v", err)
}

func TestJobMerge(t *testing.T) {
	job := &Job{
		Mesh:     "a.obj",
		Output:   "a.glb",
		Filter:   "nearest",
		Textures: map[string]string{"albedo": "a.png"},
	}
	job.Merge(&Job{
		Output:   "b.glb",
		Textures: map[string]string{"albedo": "", "normal": "n.png"},
	})

	assert.Equal(t, "a.obj", job.Mesh)
	assert.Equal(t, "b.glb", job.Output)
	assert.Equal(t, "nearest", job.Filter)
	assert.Equal(t, map[string]string{"albedo": "a.png", "normal": "n.png"}, job.Textures)

	empty := &Job{}
	empty.Merge(&Job{Textures: map[string]string{"ao": "ao.png"}})
	assert.Equal(t, "ao.png", empty.Textures["ao"])
}

func TestLookupEncoding(t *testing.T) {
	enc, err := LookupEncoding("")
	require.NoError(t, err)
	assert.Nil(t, enc)

	enc, err = LookupEncoding("Windows-1251")
	require.NoError(t, err)
	require.NotNil(t, enc)
	s, err := enc.NewDecoder().String("\xcf\xf0\xe8")
	require.NoError(t, err)
	assert.Equal(t, "При", s)

	assert.Contains(t, ListEncodings(), "Windows 1252")
}
