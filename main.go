package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/chazu/barrelgeo/pkg/config"
	"github.com/chazu/barrelgeo/pkg/kernel/sdfx"
	"github.com/chazu/barrelgeo/pkg/scene"
)

var log = config.NamedLogger("barrelgeo")

type globalOptions struct {
	configPath string
	logLevel   string
}

func (o *globalOptions) register(fs *pflag.FlagSet) {
	fs.StringVarP(&o.configPath, "config", "c", "", "detector description (.yaml, .toml, .json, .jsonc, .lisp, .geo); empty builds the default MuMegas barrel")
	fs.StringVar(&o.logLevel, "log-level", "info", "logging level, one of: panic, fatal, error, warn, info, debug")
}

type buildOptions struct {
	mappingOut string
	compress   bool
	meshOut    string
	meshCells  int
}

func (o *buildOptions) register(fs *pflag.FlagSet) {
	fs.StringVar(&o.mappingOut, "mapping-out", "", "write the mapping tables as CBOR to this file")
	fs.BoolVar(&o.compress, "compress", false, "zstd-compress the mapping export")
	fs.StringVar(&o.meshOut, "mesh-out", "", "write triangle meshes as JSON to this file")
	fs.IntVar(&o.meshCells, "mesh-cells", 200, "marching-cubes cells along the longest axis of each volume")
}

func newRootCmd(out io.Writer) *cobra.Command {
	g := &globalOptions{}
	root := &cobra.Command{
		Use:           "barrelgeo",
		Short:         "build cylindrical MuMegas barrel geometry and sensor mapping tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := config.ParseLevel(g.logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(lvl)
			return nil
		},
	}
	root.SetOut(out)
	g.register(root.PersistentFlags())
	root.AddCommand(newBuildCmd(g), newMappingCmd(g, out), newValidateCmd(g, out))
	return root
}

func newBuildCmd(g *globalOptions) *cobra.Command {
	o := &buildOptions{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "build the geometry and write the requested exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := NewApp(log)
			b, err := app.Build(g.configPath)
			if err != nil {
				return err
			}
			s := b.Summary()
			log.WithFields(logrus.Fields{
				"barrels":     s.Barrels,
				"volumes":     s.Volumes,
				"placements":  s.Placements,
				"sensors":     s.Sensors,
				"entries":     s.MappingEntries,
				"fingerprint": s.Fingerprint,
				"gasVolume":   s.SensitiveVolume,
			}).Infof("built %s", s.Detector)

			if o.mappingOut != "" {
				if err := writeFile(o.mappingOut, func(w io.Writer) error {
					return app.WriteMapping(b, w, o.compress)
				}); err != nil {
					return err
				}
				log.WithField("path", o.mappingOut).Info("mapping written")
			}

			if o.meshOut != "" {
				if o.meshCells <= 0 {
					return fmt.Errorf("--mesh-cells must be positive, got %d", o.meshCells)
				}
				app.kernel = sdfx.NewWithResolution(o.meshCells)
				meshes, _, err := app.Meshes(b)
				if err != nil {
					return err
				}
				if err := writeFile(o.meshOut, func(w io.Writer) error {
					return app.WriteMeshes(b, meshes, w)
				}); err != nil {
					return err
				}
				log.WithField("path", o.meshOut).Info("meshes written")
			}
			return nil
		},
	}
	o.register(cmd.Flags())
	return cmd
}

func newMappingCmd(g *globalOptions, out io.Writer) *cobra.Command {
	var barrel int
	cmd := &cobra.Command{
		Use:   "mapping",
		Short: "print the copy-number to logical-address table of one barrel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := NewApp(log).Build(g.configPath)
			if err != nil {
				return err
			}
			t, ok := b.Result.Registry.Table(barrel)
			if !ok {
				return fmt.Errorf("no barrel %d (detector has %d)", barrel, len(b.Result.Barrels))
			}
			w := bufio.NewWriter(out)
			fmt.Fprintf(w, "# barrel %d sensor %s dims %d/%d/%d\n",
				t.Barrel, t.Sensor, t.Dims.Azimuth, t.Dims.Layer, t.Dims.Beamline)
			for _, lvl := range t.Levels {
				fmt.Fprintf(w, "# level %s copies %d\n", lvl.Volume, lvl.Copies)
			}
			for _, k := range t.Keys() {
				l, _ := t.Lookup(k)
				fmt.Fprintf(w, "%d\t%s\n", k, l)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&barrel, "barrel", "b", 0, "barrel index")
	return cmd
}

func newValidateCmd(g *globalOptions, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "check the description and the built volume tree without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := NewApp(log).Build(g.configPath)
			if err != nil {
				return err
			}
			warnings := 0
			for _, f := range b.Findings {
				if f.Severity == scene.SeverityWarning {
					warnings++
				}
			}
			fmt.Fprintf(out, "%s: ok (%d warning(s))\n", b.Config.Name, warnings)
			return nil
		},
	}
}

// writeFile writes path through fn. On any failure the partial file is
// removed.
func writeFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(path)
		}
	}()

	w := bufio.NewWriter(f)
	if err = fn(w); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
