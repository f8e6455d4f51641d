package geometry

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/chazu/barrelgeo/pkg/detector"
	"github.com/chazu/barrelgeo/pkg/mapping"
	"github.com/chazu/barrelgeo/pkg/scene"
)

// Display colours, by volume-name fragment.
const (
	FrameColor      = "#8c8c8c"
	ReadoutPcbColor = "#1f7a1f"
	ExitWindowColor = "#e07b00"
)

// Assembler drives a full build: validation, then barrel after barrel the
// volume tree and the mapping table.
type Assembler struct {
	Config *detector.Config
	Log    logrus.FieldLogger
}

// Result is a finished build.
type Result struct {
	Scene    *scene.Scene
	Registry *mapping.Registry
	Barrels  []*Barrel
}

// NewAssembler returns an assembler for cfg. A nil logger discards output.
func NewAssembler(cfg *detector.Config, log logrus.FieldLogger) *Assembler {
	return &Assembler{Config: cfg, Log: log}
}

func (a *Assembler) logger() logrus.FieldLogger {
	if a.Log != nil {
		return a.Log
	}
	l := logrus.New()
	l.Out = io.Discard
	return l
}

// Build validates every barrel, then builds them in order. Any failure
// aborts the whole build; no partial result is returned.
func (a *Assembler) Build() (*Result, error) {
	cfg := a.Config
	log := a.logger()

	if err := cfg.Validate(); err != nil {
		barrel := -1
		var ce *detector.ConfigError
		if errors.As(err, &ce) {
			barrel = ce.Barrel
		}
		return nil, &BuildError{Barrel: barrel, Op: "validate", Err: err}
	}

	media := scene.DefaultMedia()
	for _, md := range cfg.Media {
		if err := media.Register(md); err != nil {
			return nil, &BuildError{Barrel: -1, Op: "register media", Err: err}
		}
	}
	log.WithField("media", media.Names()).Debug("media registered")

	res := &Result{
		Scene:    scene.New(cfg.Name, media),
		Registry: mapping.NewRegistry(cfg.Name),
	}
	b := &Builder{Scene: res.Scene, Detector: cfg.Name, ContainerMedium: cfg.ContainerMedium}

	for i, spec := range cfg.Barrels {
		blog := log.WithFields(logrus.Fields{
			"barrel":   i,
			"sectors":  spec.AzimuthalSectors,
			"sections": spec.BeamlineSections,
		})

		barrel, err := b.BuildBarrel(i, spec)
		if err != nil {
			return nil, &BuildError{Barrel: i, Op: "build tree", Err: err}
		}
		d := barrel.Derived
		blog.WithFields(logrus.Fields{
			"gasThickness":       d.GasSectorThickness,
			"containerThickness": d.ContainerThickness,
			"sectorLength":       d.SingleSectorLength,
			"sectorAngle":        d.SingleSectorAngle,
			"frameAngle":         d.SingleSectorFrameAngle,
		}).Debug("derived barrel geometry")

		dims := mapping.Dims{
			Azimuth:  uint32(spec.AzimuthalSectors),
			Layer:    0,
			Beamline: uint32(spec.BeamlineSections),
		}
		sensor := barrel.Sector.Sensor.Name
		table, err := mapping.Build(res.Registry, i, dims, sensor, barrel.Sector.Gas.Name)
		if err != nil {
			return nil, &BuildError{Barrel: i, Op: "build mapping", Err: err}
		}
		res.Scene.RegisterSensitive(sensor)
		res.Barrels = append(res.Barrels, barrel)

		blog.WithField("entries", table.Len()).Info("barrel built")
	}

	a.annotate(res.Scene)
	return res, nil
}

// annotate installs the display colours used when the tree is exported.
func (a *Assembler) annotate(sc *scene.Scene) {
	colors := sc.Colors()
	colors.AddColor("Frame", FrameColor)
	colors.AddColor(detector.RoleReadoutPcb, ReadoutPcbColor)
	colors.AddColor(detector.RoleExitWindow, ExitWindowColor)
	if t := a.Config.Transparency; t > 0 {
		colors.AddTransparency(detector.RoleReadoutPcb, t)
		colors.AddTransparency(detector.RoleExitWindow, t)
	}
}
