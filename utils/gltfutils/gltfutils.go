package gltfutils

import (
	"encoding/base64"
	"io"

	"github.com/qmuntal/gltf"
)

func NewDocument(generator string) *gltf.Document {
	doc := gltf.NewDocument()
	if generator != "" {
		doc.Asset.Generator = generator
	}
	return doc
}

// ExportBinary links nodes not yet referenced into the default scene and
// writes doc as a single GLB container.
func ExportBinary(w io.Writer, doc *gltf.Document) error {
	linked := make(map[uint32]bool, len(doc.Scenes[0].Nodes))
	for _, iNode := range doc.Scenes[0].Nodes {
		linked[iNode] = true
	}
	for iNode := range doc.Nodes {
		if !linked[uint32(iNode)] {
			doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(iNode))
		}
	}

	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}

func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// EmbedImage stores data inline as a base64 data URI and returns the image index.
func EmbedImage(doc *gltf.Document, name, mimeType string, data []byte) uint32 {
	doc.Images = append(doc.Images, &gltf.Image{
		Name: name,
		URI:  DataURI(mimeType, data),
	})
	return uint32(len(doc.Images) - 1)
}

func AddSampler(doc *gltf.Document, sampler *gltf.Sampler) uint32 {
	doc.Samplers = append(doc.Samplers, sampler)
	return uint32(len(doc.Samplers) - 1)
}

func AddTexture(doc *gltf.Document, name string, sampler, image uint32) uint32 {
	doc.Textures = append(doc.Textures, &gltf.Texture{
		Name:    name,
		Sampler: gltf.Index(sampler),
		Source:  gltf.Index(image),
	})
	return uint32(len(doc.Textures) - 1)
}
