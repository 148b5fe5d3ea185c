/*package config reads liquid2d scene files. A scene file is a gcfg INI
file with one [run] section and any number of named [ball] and [box]
sections:

	[run]
	gridwidth = 1.0
	resolution = 100
	timestep = 0.002
	frames = 100

	[ball "container"]
	x = 0.5
	y = 0.5
	radius = 0.4
	invert = true

	[ball "drop"]
	x = 0.7
	y = 0.65
	radius = 0.15
	seed = true

Balls and boxes with seed = true mark where particles start; the others
define the solid boundary. An inverted ball is a container: solid outside,
open inside.
*/
package config

import (
	"fmt"
	"math"

	"gopkg.in/gcfg.v1"
)

type RunConfig struct {
	// Required
	GridWidth  float64
	Resolution int

	// Optional
	ResolutionY      int
	Timestep         float64
	Frames           int
	Gravity          float64
	Viscosity        float64
	ParticlesPerCell int
	Seed             int64
	OutDir           string
}

func (run *RunConfig) CheckInit() error {
	if run.GridWidth <= 0 {
		return fmt.Errorf("Need to specify a positive GridWidth in [run].")
	} else if run.Resolution <= 0 {
		return fmt.Errorf("Need to specify a positive Resolution in [run].")
	}

	if run.ResolutionY == 0 {
		run.ResolutionY = run.Resolution
	}
	if run.Timestep == 0 {
		run.Timestep = 0.002
	}
	if run.Frames == 0 {
		run.Frames = 100
	}
	if run.Gravity == 0 {
		run.Gravity = 0.1
	}
	if run.Viscosity == 0 {
		run.Viscosity = 1
	}
	if run.ParticlesPerCell == 0 {
		run.ParticlesPerCell = 3
	}
	if run.OutDir == "" {
		run.OutDir = "."
	}

	return nil
}

type BallConfig struct {
	// Required
	X, Y, Radius float64

	// Optional
	Invert bool
	Seed   bool
	Name   string
}

func (ball *BallConfig) CheckInit(name string) error {
	if ball.Radius <= 0 {
		return fmt.Errorf(
			"Need to specify a positive Radius for Ball '%s'", name,
		)
	}
	ball.Name = name
	return nil
}

// Phi is the signed distance to the ball's surface, negated for inverted
// balls so that the inside of a container reads as open space.
func (ball *BallConfig) Phi(x, y float64) float64 {
	phi := math.Hypot(x-ball.X, y-ball.Y) - ball.Radius
	if ball.Invert {
		return -phi
	}
	return phi
}

type BoxConfig struct {
	// Required
	X, Y, XWidth, YWidth float64

	// Optional
	Seed bool
	Name string
}

func (box *BoxConfig) CheckInit(name string) error {
	if box.XWidth <= 0 {
		return fmt.Errorf(
			"Need to specify a positive XWidth for Box '%s'", name,
		)
	} else if box.YWidth <= 0 {
		return fmt.Errorf(
			"Need to specify a positive YWidth for Box '%s'", name,
		)
	}
	box.Name = name
	return nil
}

// Phi is a signed distance-like function for the box: negative inside,
// growing linearly outside. Exact only inside and along faces, which is
// all the seeding needs.
func (box *BoxConfig) Phi(x, y float64) float64 {
	x0, x1 := box.X, box.X+box.XWidth
	y0, y1 := box.Y, box.Y+box.YWidth
	return math.Max(math.Max(x0-x, x-x1), math.Max(y0-y, y-y1))
}

type Scene struct {
	Run  RunConfig
	Ball map[string]*BallConfig
	Box  map[string]*BoxConfig
}

// Read parses and validates the scene file at path.
func Read(path string) (*Scene, error) {
	scene := &Scene{}
	if err := gcfg.ReadFileInto(scene, path); err != nil {
		return nil, err
	}

	if err := scene.Run.CheckInit(); err != nil {
		return nil, err
	}
	for name, ball := range scene.Ball {
		if err := ball.CheckInit(name); err != nil {
			return nil, err
		}
	}
	for name, box := range scene.Box {
		if err := box.CheckInit(name); err != nil {
			return nil, err
		}
	}

	return scene, nil
}

// BoundaryPhi returns the solid signed distance function for the scene:
// the minimum over all non-seed shapes, negative inside solid. A scene
// with no boundary shapes is fully open.
func (scene *Scene) BoundaryPhi() func(x, y float64) float64 {
	balls := []*BallConfig{}
	for _, ball := range scene.Ball {
		if !ball.Seed {
			balls = append(balls, ball)
		}
	}
	boxes := []*BoxConfig{}
	for _, box := range scene.Box {
		if !box.Seed {
			boxes = append(boxes, box)
		}
	}

	return func(x, y float64) float64 {
		phi := math.Inf(1)
		for _, ball := range balls {
			phi = math.Min(phi, ball.Phi(x, y))
		}
		for _, box := range boxes {
			phi = math.Min(phi, box.Phi(x, y))
		}
		if math.IsInf(phi, 1) {
			return 1
		}
		return phi
	}
}

// InSeedRegion reports whether a point lies inside any seed shape.
// Callers are expected to also reject points inside the solid boundary.
func (scene *Scene) InSeedRegion(x, y float64) bool {
	for _, ball := range scene.Ball {
		if ball.Seed && ball.Phi(x, y) < 0 {
			return true
		}
	}
	for _, box := range scene.Box {
		if box.Seed && box.Phi(x, y) < 0 {
			return true
		}
	}
	return false
}
