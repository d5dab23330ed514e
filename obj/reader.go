package obj

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	wavefront "github.com/g3n/engine/loader/obj"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/pbrglb/utils"
)

// the decoder marks absent texture coordinate and normal references with this value
const absentIndex = math.MaxUint32

type vertexKey struct {
	v, vt, vn int
}

type objectBuilder struct {
	obj     *Object
	lookup  map[vertexKey]uint32
	keys    []vertexKey
	haveUV  bool
	allNorm bool
}

type reader struct {
	name string
	opts Options
	dec  *wavefront.Decoder
}

// Load parses the OBJ file at path. Material libraries are not read.
func Load(path string, opts Options) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrMeshLoad, "open %q: %v", path, err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return parse(f, path, name, opts)
}

// Parse reads OBJ data from r. name is used as mesh name and in error messages.
func Parse(r io.Reader, name string, opts Options) (*Mesh, error) {
	return parse(r, name, name, opts)
}

func parse(in io.Reader, source, meshName string, opts Options) (*Mesh, error) {
	// an empty material library, a nil reader makes the decoder panic
	dec, err := wavefront.DecodeReader(in, strings.NewReader(""))
	if err != nil {
		return nil, errors.Wrapf(ErrMeshLoad, "%s: %v", source, err)
	}
	if err := checkFinite(dec); err != nil {
		return nil, errors.Wrapf(ErrMeshLoad, "%s: %v", source, err)
	}

	r := &reader{name: source, opts: opts, dec: dec}

	var builders []*objectBuilder
	for iObject := range dec.Objects {
		object := &dec.Objects[iObject]
		name := r.decodeName(object.Name)

		var b *objectBuilder
		for iFace := range object.Faces {
			face := &object.Faces[iFace]
			material := r.decodeName(face.Material)
			if b == nil || b.obj.Material != material {
				b = newObjectBuilder(name, material)
				builders = append(builders, b)
			}
			if err := r.addFace(b, face); err != nil {
				return nil, errors.Wrapf(ErrMeshLoad, "%s: object %q face %d: %v", source, name, iFace+1, err)
			}
		}
	}

	mesh := &Mesh{Name: meshName}
	for _, b := range builders {
		if len(b.obj.Indices) == 0 {
			continue
		}
		r.finishObject(b)
		mesh.Objects = append(mesh.Objects, b.obj)
	}
	if len(mesh.Objects) == 0 {
		return nil, errors.Wrapf(ErrMeshLoad, "%s: no faces", source)
	}
	return mesh, nil
}

// checkFinite rejects nan and inf, they parse as floats but can not be stored in glTF.
func checkFinite(dec *wavefront.Decoder) error {
	streams := []struct {
		kind   string
		stride int
		values []float32
	}{
		{"vertex", 3, dec.Vertices},
		{"normal", 3, dec.Normals},
		{"texture coordinate", 2, dec.Uvs},
	}
	for _, s := range streams {
		for i, v := range s.values {
			if f := float64(v); math.IsNaN(f) || math.IsInf(f, 0) {
				return errors.Errorf("%s %d: bad number %v", s.kind, i/s.stride+1, v)
			}
		}
	}
	return nil
}

func newObjectBuilder(name, material string) *objectBuilder {
	return &objectBuilder{
		obj: &Object{
			Name:     name,
			Material: material,
		},
		lookup:  make(map[vertexKey]uint32),
		allNorm: true,
	}
}

func (r *reader) decodeName(s string) string {
	return utils.BytesToString(r.opts.NameDecoder, []byte(s))
}

func (r *reader) addFace(b *objectBuilder, face *wavefront.Face) error {
	if len(face.Vertices) < 3 {
		return errors.Errorf("face needs at least 3 vertices, got %d", len(face.Vertices))
	}

	indices := make([]uint32, len(face.Vertices))
	for i := range face.Vertices {
		key, err := r.corner(face, i)
		if err != nil {
			return err
		}

		idx, ok := b.lookup[key]
		if !ok {
			idx = uint32(len(b.keys))
			b.lookup[key] = idx
			b.keys = append(b.keys, key)
			if key.vt >= 0 {
				b.haveUV = true
			}
			if key.vn < 0 {
				b.allNorm = false
			}
		}
		indices[i] = idx
	}

	// fan triangulation, polygons are expected to be convex
	for i := 1; i+1 < len(indices); i++ {
		b.obj.Indices = append(b.obj.Indices, indices[0], indices[i], indices[i+1])
	}
	return nil
}

func (r *reader) corner(face *wavefront.Face, i int) (vertexKey, error) {
	key := vertexKey{v: -1, vt: -1, vn: -1}

	var err error
	if key.v, err = checkIndex(face.Vertices[i], len(r.dec.Vertices)/3, false); err != nil {
		return key, errors.Wrap(err, "vertex")
	}
	if i < len(face.Uvs) {
		if key.vt, err = checkIndex(face.Uvs[i], len(r.dec.Uvs)/2, true); err != nil {
			return key, errors.Wrap(err, "texture coordinate")
		}
	}
	if i < len(face.Normals) {
		if key.vn, err = checkIndex(face.Normals[i], len(r.dec.Normals)/3, true); err != nil {
			return key, errors.Wrap(err, "normal")
		}
	}
	return key, nil
}

// checkIndex validates a 0-based decoder index. Optional references may be
// absent, which is reported as -1.
func checkIndex(idx, count int, optional bool) (int, error) {
	if optional && (idx < 0 || int64(idx) == absentIndex) {
		return -1, nil
	}
	if idx < 0 || idx >= count {
		return -1, errors.Errorf("index %d out of range (%d defined)", idx+1, count)
	}
	return idx, nil
}

func (r *reader) finishObject(b *objectBuilder) {
	o := b.obj
	o.Positions = make([][3]float32, len(b.keys))
	for i, key := range b.keys {
		o.Positions[i] = r.vec3(r.dec.Vertices, key.v)
	}

	if b.haveUV {
		o.UVs = make([][2]float32, len(b.keys))
		for i, key := range b.keys {
			// corners without a reference default to OBJ (0, 0)
			uv := [2]float32{}
			if key.vt >= 0 {
				uv = [2]float32{r.dec.Uvs[key.vt*2], r.dec.Uvs[key.vt*2+1]}
			}
			o.UVs[i] = [2]float32{uv[0], 1 - uv[1]}
		}
	}

	if b.allNorm {
		o.Normals = make([][3]float32, len(b.keys))
		for i, key := range b.keys {
			o.Normals[i] = utils.NormalizeOr(r.vec3(r.dec.Normals, key.vn), mgl32.Vec3{0, 1, 0})
		}
	} else {
		o.Normals = smoothNormals(o.Positions, o.Indices)
	}
}

func (r *reader) vec3(values []float32, idx int) mgl32.Vec3 {
	return mgl32.Vec3{values[idx*3], values[idx*3+1], values[idx*3+2]}
}

// smoothNormals computes area weighted vertex normals.
func smoothNormals(positions [][3]float32, indices []uint32) [][3]float32 {
	acc := make([]mgl32.Vec3, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		ia, ib, ic := indices[i], indices[i+1], indices[i+2]
		n := utils.TriangleNormal(positions[ia], positions[ib], positions[ic])
		acc[ia] = acc[ia].Add(n)
		acc[ib] = acc[ib].Add(n)
		acc[ic] = acc[ic].Add(n)
	}

	normals := make([][3]float32, len(positions))
	for i, n := range acc {
		normals[i] = utils.NormalizeOr(n, mgl32.Vec3{0, 1, 0})
	}
	return normals
}
