// Command mapdualfields maps the volume fields of a source case onto the dual
// mesh of the current (target) case, reading every field present in the source
// time directory.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"

	"github.com/notargets/DualMap/caseio"
	"github.com/notargets/DualMap/config"
	"github.com/notargets/DualMap/correspondence"
	"github.com/notargets/DualMap/dispatch"
	"github.com/notargets/DualMap/field"
	"github.com/notargets/DualMap/mapper"
	"github.com/notargets/DualMap/mesh"
)

func main() {
	var (
		configFile = flag.String("config", "", "YAML run configuration")
		targetCase = flag.String("case", ".", "Target case directory")
		sourceTime = flag.String("sourceTime", "", "Source time (default: latest)")
		targetTime = flag.String("targetTime", "", "Target time (default: source time)")
		cellMap    = flag.String("cellMap", "", "Cell correspondence map name (default: cellDualMap)")
		faceMap    = flag.String("faceMap", "", "Face correspondence map name (default: faceDualMap)")
		ranks      = flag.String("ranks", "", "Comma separated ranks to map, e.g. scalar,vector (default: all)")
		check      = flag.Bool("check", false, "Verify every correspondence index before mapping")
		dryRun     = flag.Bool("dry-run", false, "Map fields without writing them")
		verbose    = flag.Bool("v", false, "Verbose output")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <sourceCase>\n\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "Map volume and boundary face fields from a dual mesh to the original mesh.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	log.SetFlags(0)

	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.LoadFile(*configFile); err != nil {
			log.Fatalf("FATAL: %v", err)
		}
	}

	// Flags given on the command line override the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "case":
			cfg.Target = *targetCase
		case "sourceTime":
			cfg.SourceTime = *sourceTime
		case "targetTime":
			cfg.TargetTime = *targetTime
		case "cellMap":
			cfg.CellMap = *cellMap
		case "faceMap":
			cfg.FaceMap = *faceMap
		case "ranks":
			cfg.Ranks = config.SplitRanks(*ranks)
		case "check":
			cfg.Check = *check
		case "dry-run":
			cfg.DryRun = *dryRun
		case "v":
			cfg.Verbose = *verbose
		}
	})

	switch flag.NArg() {
	case 0:
	case 1:
		cfg.Source = flag.Arg(0)
	default:
		flag.Usage()
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func run(cfg *config.Config) error {
	source, err := caseio.Open(cfg.Source)
	if err != nil {
		return err
	}
	target, err := caseio.Open(cfg.Target)
	if err != nil {
		return err
	}
	log.Printf("Source: %s %s", rootDir(source), source.Name())
	log.Printf("Target: %s %s", rootDir(target), target.Name())

	sourceTime := cfg.SourceTime
	if sourceTime == "" {
		if sourceTime, err = source.LatestTime(); err != nil {
			return err
		}
	}
	targetTime := cfg.TargetTime
	if targetTime == "" {
		targetTime = sourceTime
	}

	log.Printf("Create meshes\n")
	sourceMesh, err := source.Mesh()
	if err != nil {
		return err
	}
	targetMesh, err := target.Mesh()
	if err != nil {
		return err
	}
	if err := mesh.CheckCompatible(sourceMesh, targetMesh); err != nil {
		return err
	}
	log.Printf("Source mesh size: %d\tTarget mesh size: %d\n", sourceMesh.NCells, targetMesh.NCells)

	cells, err := loadMap(source, cfg.CellMap, cfg.CellRenumber, targetMesh.NCells, sourceMesh.NCells)
	if err != nil {
		return err
	}
	faces, err := loadMap(source, cfg.FaceMap, cfg.FaceRenumber, targetMesh.NFaces, sourceMesh.NFaces)
	if err != nil {
		return err
	}

	factory := field.NewFactory()
	for _, pt := range cfg.PatchTypes {
		factory.Register(field.PatchKind{Type: pt})
	}

	m, err := mapper.New(sourceMesh, targetMesh, cells, faces, factory)
	if err != nil {
		return err
	}
	if cfg.Check {
		if err := m.Verify(); err != nil {
			return err
		}
	}
	if cfg.Verbose {
		log.Printf("Meshes:\n%s", spew.Sdump(sourceMesh, targetMesh))
		log.Printf("%s: %s", cells.Name(), cells.Stats())
		log.Printf("%s: %s", faces.Name(), faces.Stats())
	}

	ranks, err := cfg.ParsedRanks()
	if err != nil {
		return err
	}

	log.Printf("\nCreating and mapping fields for time %s\n", sourceTime)
	d := &dispatch.Dispatcher{
		Mapper:     m,
		Source:     source,
		SourceTime: sourceTime,
		Target:     target,
		TargetTime: targetTime,
		Ranks:      ranks,
		DryRun:     cfg.DryRun,
	}
	report, err := d.Perform()
	if err != nil {
		return err
	}
	if cfg.Verbose {
		for _, s := range report.Fields {
			log.Printf("    %s", s)
		}
	}
	log.Printf("\nEnd\n")
	return nil
}

// loadMap reads a correspondence map, checks it against the target mesh and
// applies the renumbering permutation of the source mesh if there is one
func loadMap(c *caseio.Case, name, permName string, nTarget, nSource int) (*correspondence.Map, error) {
	b, err := c.ReadCorrespondence(name)
	if err != nil {
		return nil, err
	}
	if err := b.CheckSize(nTarget); err != nil {
		return nil, fmt.Errorf("%s does not match target mesh: %w", name, err)
	}
	perm, err := c.ReadPermutation(permName)
	if err != nil {
		return nil, err
	}
	if _, err := b.Renumber(permName, perm, nSource, nil); err != nil {
		return nil, err
	}
	return b.Freeze(), nil
}

func rootDir(c *caseio.Case) string {
	abs, err := filepath.Abs(c.Root)
	if err != nil {
		return filepath.Dir(c.Root)
	}
	return filepath.Dir(abs)
}
