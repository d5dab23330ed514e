package config

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/pbrglb/glb"
	"github.com/mogaika/pbrglb/obj"
	"github.com/mogaika/pbrglb/texture"
)

// Job describes one conversion. Relative paths in a job file are resolved
// against the directory of that file.
type Job struct {
	Mesh         string            `yaml:"mesh"`
	Output       string            `yaml:"output"`
	Textures     map[string]string `yaml:"textures"`
	Filter       string            `yaml:"filter"`
	Compression  string            `yaml:"compression"`
	NameEncoding string            `yaml:"name_encoding"`
	Generator    string            `yaml:"generator"`
}

func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(texture.ErrConfiguration, "read job %q: %v", path, err)
	}
	job, err := ParseJob(data)
	if err != nil {
		return nil, errors.Wrapf(err, "job %q", path)
	}
	job.resolve(filepath.Dir(path))
	return job, nil
}

func ParseJob(data []byte) (*Job, error) {
	job := &Job{}
	if err := yaml.Unmarshal(data, job); err != nil {
		return nil, errors.Wrapf(texture.ErrConfiguration, "parse job: %v", err)
	}
	return job, nil
}

func (j *Job) resolve(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	j.Mesh = abs(j.Mesh)
	j.Output = abs(j.Output)
	for slot, p := range j.Textures {
		j.Textures[slot] = abs(p)
	}
}

// Merge overrides fields of j with the non-empty fields of o.
func (j *Job) Merge(o *Job) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&j.Mesh, o.Mesh)
	set(&j.Output, o.Output)
	set(&j.Filter, o.Filter)
	set(&j.Compression, o.Compression)
	set(&j.NameEncoding, o.NameEncoding)
	set(&j.Generator, o.Generator)
	for slot, p := range o.Textures {
		if p == "" {
			continue
		}
		if j.Textures == nil {
			j.Textures = make(map[string]string)
		}
		j.Textures[slot] = p
	}
}

// TextureSet validates slot names and turns texture paths into sources.
func (j *Job) TextureSet() (texture.Set, error) {
	slots := make([]string, 0, len(j.Textures))
	for slot := range j.Textures {
		slots = append(slots, slot)
	}
	sort.Strings(slots)

	set := make(texture.Set, len(slots))
	for _, name := range slots {
		slot, err := texture.ParseSlot(name)
		if err != nil {
			return nil, err
		}
		src, err := texture.SourceOf(j.Textures[name])
		if err != nil {
			return nil, errors.Wrapf(err, "slot %q", name)
		}
		set[slot] = src
	}
	return set, nil
}

// Options validates the tunables of j and builds assembler options.
func (j *Job) Options() (glb.Options, error) {
	var opts glb.Options

	if j.Mesh == "" {
		return opts, errors.Wrap(texture.ErrConfiguration, "mesh path is required")
	}
	if j.Output == "" {
		return opts, errors.Wrap(texture.ErrConfiguration, "output path is required")
	}

	filter, err := texture.ParseFilter(j.Filter)
	if err != nil {
		return opts, err
	}
	compression, err := texture.ParseCompression(j.Compression)
	if err != nil {
		return opts, err
	}
	enc, err := LookupEncoding(j.NameEncoding)
	if err != nil {
		return opts, err
	}

	opts.Pack = texture.PackOptions{Filter: filter, Compression: compression}
	if enc != nil {
		opts.Mesh = obj.Options{NameDecoder: enc.NewDecoder()}
	}
	opts.Generator = j.Generator
	return opts, nil
}
