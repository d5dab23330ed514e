package glb

import (
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/pbrglb/obj"
	"github.com/mogaika/pbrglb/texture"
	"github.com/mogaika/pbrglb/utils/gltfutils"
)

const (
	MaterialName = "PBR_Material"

	pngMimeType = "image/png"
	// image name of the packed metallic/roughness map
	metallicRoughnessName = "metallicRoughness"
)

// Build creates the in-memory document: one mesh with a primitive per OBJ
// object, one material and every present texture embedded as a data URI.
func Build(mesh *obj.Mesh, set texture.Set, opts Options) (*gltf.Document, error) {
	doc := gltfutils.NewDocument(opts.generator())

	iMesh := addMesh(doc, mesh)

	material, err := buildMaterial(doc, set, opts)
	if err != nil {
		return nil, err
	}
	doc.Materials = append(doc.Materials, material)
	bindMaterial(doc, uint32(len(doc.Materials)-1))

	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name: mesh.Name,
		Mesh: gltf.Index(iMesh),
	})
	return doc, nil
}

func addMesh(doc *gltf.Document, mesh *obj.Mesh) uint32 {
	gltfMesh := &gltf.Mesh{Name: mesh.Name}

	for _, object := range mesh.Objects {
		attributes := make(map[string]uint32)
		attributes["POSITION"] = modeler.WritePosition(doc, object.Positions)
		attributes["NORMAL"] = modeler.WriteNormal(doc, object.Normals)
		if object.UVs != nil {
			attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(doc, object.UVs)
		}
		indices := modeler.WriteIndices(doc, object.Indices)

		gltfMesh.Primitives = append(gltfMesh.Primitives, &gltf.Primitive{
			Indices:    gltf.Index(indices),
			Attributes: attributes,
		})
	}

	doc.Meshes = append(doc.Meshes, gltfMesh)
	return uint32(len(doc.Meshes) - 1)
}

// bindMaterial assigns one material to every primitive of every mesh,
// flattening any per-object materials of the source.
func bindMaterial(doc *gltf.Document, iMaterial uint32) {
	for _, mesh := range doc.Meshes {
		for _, primitive := range mesh.Primitives {
			primitive.Material = gltf.Index(iMaterial)
		}
	}
}

type textureEmbedder struct {
	doc     *gltf.Document
	sampler *uint32
}

func (e *textureEmbedder) embed(name string, png []byte) uint32 {
	if e.sampler == nil {
		e.sampler = gltf.Index(gltfutils.AddSampler(e.doc, &gltf.Sampler{
			Name:      "sampler",
			MagFilter: gltf.MagLinear,
			MinFilter: gltf.MinLinear,
			WrapS:     gltf.WrapRepeat,
			WrapT:     gltf.WrapRepeat,
		}))
	}
	iImage := gltfutils.EmbedImage(e.doc, name, pngMimeType, png)
	return gltfutils.AddTexture(e.doc, name, *e.sampler, iImage)
}

func (e *textureEmbedder) embedSource(slot texture.Slot, src texture.Source) (uint32, error) {
	png, err := src.PNG()
	if err != nil {
		return 0, errors.Wrapf(err, "%s texture", slot)
	}
	return e.embed(string(slot), png), nil
}

func buildMaterial(doc *gltf.Document, set texture.Set, opts Options) (*gltf.Material, error) {
	log := opts.logger()
	e := &textureEmbedder{doc: doc}

	pbr := &gltf.PBRMetallicRoughness{
		BaseColorFactor: &[4]float32{1, 1, 1, 1},
		MetallicFactor:  gltf.Float(1),
		RoughnessFactor: gltf.Float(1),
	}
	material := &gltf.Material{
		Name:                 MaterialName,
		PBRMetallicRoughness: pbr,
	}

	if src := set[texture.SlotAlbedo]; src != nil {
		iTex, err := e.embedSource(texture.SlotAlbedo, src)
		if err != nil {
			return nil, err
		}
		pbr.BaseColorTexture = &gltf.TextureInfo{Index: iTex}
		log.WithField("slot", texture.SlotAlbedo).WithField("source", src.Name()).Debug("texture embedded")
	}

	if set.HasMetallicRoughness() {
		packed, err := texture.PackMetallicRoughness(set[texture.SlotMetallic], set[texture.SlotRoughness], opts.Pack)
		if err != nil {
			return nil, errors.Wrap(err, "pack metallic/roughness")
		}
		pbr.MetallicRoughnessTexture = &gltf.TextureInfo{Index: e.embed(metallicRoughnessName, packed)}
		log.WithField("slot", metallicRoughnessName).Debug("texture packed and embedded")
	} else if slot, ok := set.Unpaired(); ok {
		log.WithField("slot", slot).Warn("metallic and roughness maps must both be given, ignoring the lone map")
	}

	if src := set[texture.SlotNormal]; src != nil {
		iTex, err := e.embedSource(texture.SlotNormal, src)
		if err != nil {
			return nil, err
		}
		material.NormalTexture = &gltf.NormalTexture{Index: gltf.Index(iTex)}
		log.WithField("slot", texture.SlotNormal).WithField("source", src.Name()).Debug("texture embedded")
	}

	if src := set[texture.SlotAO]; src != nil {
		iTex, err := e.embedSource(texture.SlotAO, src)
		if err != nil {
			return nil, err
		}
		material.OcclusionTexture = &gltf.OcclusionTexture{Index: gltf.Index(iTex)}
		log.WithField("slot", texture.SlotAO).WithField("source", src.Name()).Debug("texture embedded")
	}

	return material, nil
}
