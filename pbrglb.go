package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/mogaika/pbrglb/config"
	"github.com/mogaika/pbrglb/glb"
	"github.com/mogaika/pbrglb/texture"
	"github.com/mogaika/pbrglb/utils"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	var job config.Job
	var configPath string
	var verbose, dump bool
	textures := make(map[string]*string)

	fs := flag.NewFlagSet("pbrglb", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&configPath, "config", "", "YAML job file, other flags override its values")
	fs.StringVar(&job.Mesh, "obj", "", "Path to the source OBJ mesh")
	fs.StringVar(&job.Output, "out", "", "Path of the GLB file to write")
	for _, slot := range texture.Slots() {
		textures[string(slot)] = fs.String(string(slot), "", fmt.Sprintf("Path to the %s map", slot))
	}
	fs.StringVar(&job.Filter, "filter", "", "Roughness resample filter: nearest, bilinear, catmullrom")
	fs.StringVar(&job.Compression, "compression", "", "PNG compression of the packed metallic/roughness map only: default, none, speed, best")
	fs.StringVar(&job.NameEncoding, "encoding", "", "Charset of OBJ object names, e.g. windows-1252")
	fs.StringVar(&job.Generator, "generator", "", "Asset generator string written to the GLB")
	fs.BoolVar(&verbose, "v", false, "Verbose logging")
	fs.BoolVar(&dump, "dump", false, "Dump meshes, materials and textures of the result")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log := utils.NewLogger(stderr, verbose)

	job.Textures = make(map[string]string)
	for slot, path := range textures {
		if *path != "" {
			job.Textures[slot] = *path
		}
	}

	if configPath == "" && job.Mesh == "" {
		fs.PrintDefaults()
		return errUsage
	}

	if configPath != "" {
		fileJob, err := config.LoadJob(configPath)
		if err != nil {
			log.Error(err)
			return err
		}
		fileJob.Merge(&job)
		job = *fileJob
	}

	opts, err := job.Options()
	if err != nil {
		log.Error(err)
		return err
	}
	set, err := job.TextureSet()
	if err != nil {
		log.Error(err)
		return err
	}

	opts.Logger = log
	if dump {
		opts.Dump = stderr
	}

	if err := glb.Assemble(job.Mesh, set, job.Output, opts); err != nil {
		log.Error(err)
		return err
	}
	return nil
}
