// Package glb assembles an OBJ mesh and a PBR texture set into one
// self-contained binary glTF file.
package glb

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/sirupsen/logrus"

	"github.com/mogaika/pbrglb/obj"
	"github.com/mogaika/pbrglb/texture"
	"github.com/mogaika/pbrglb/utils"
	"github.com/mogaika/pbrglb/utils/gltfutils"
)

// ErrWrite is returned when the output file can not be written.
var ErrWrite = errors.New("write error")

const DefaultGenerator = "pbrglb"

type Options struct {
	Logger    logrus.FieldLogger
	Mesh      obj.Options
	Pack      texture.PackOptions
	Generator string
	// Dump receives a go-spew dump of the built document, without image and buffer payloads.
	Dump io.Writer
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger == nil {
		return utils.NopLogger()
	}
	return o.Logger
}

func (o Options) generator() string {
	if o.Generator == "" {
		return DefaultGenerator
	}
	return o.Generator
}

// Assemble loads the OBJ at objPath, attaches one PBR material built from set
// and writes a GLB to outputPath. Nothing is written unless every step succeeds.
func Assemble(objPath string, set texture.Set, outputPath string, opts Options) error {
	log := opts.logger().WithField("mesh", objPath)

	if err := set.Validate(); err != nil {
		return err
	}

	mesh, err := obj.Load(objPath, opts.Mesh)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"objects":   len(mesh.Objects),
		"vertices":  mesh.VertexCount(),
		"triangles": mesh.TriangleCount(),
	}).Debug("mesh loaded")

	doc, err := Build(mesh, set, opts)
	if err != nil {
		return err
	}
	if opts.Dump != nil {
		utils.FDump(opts.Dump, doc.Asset, doc.Meshes, doc.Materials, doc.Textures, doc.Samplers)
	}

	data, err := Encode(doc)
	if err != nil {
		return err
	}

	if err := writeFile(outputPath, data); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"output": outputPath,
		"images": len(doc.Images),
		"bytes":  len(data),
	}).Info("glb written")
	return nil
}

// Encode serializes doc as GLB in memory.
func Encode(doc *gltf.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := gltfutils.ExportBinary(&buf, doc); err != nil {
		return nil, errors.Wrap(err, "encode glb")
	}
	return buf.Bytes(), nil
}

// writeFile writes through a temporary sibling file and renames it into
// place so a failed write never leaves a truncated output.
func writeFile(path string, data []byte) error {
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")

	if err := os.WriteFile(tmp, data, 0666); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(ErrWrite, "write %q: %v", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(ErrWrite, "rename %q: %v", path, err)
	}
	return nil
}
