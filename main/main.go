/*liquid2d runs a 2D free-surface liquid simulation described by a scene
file and writes one whitespace table of particle positions per frame.

	$ liquid2d -Config scene.ini [-Frames n] [-Log log.txt]

Frame files are named frame_0000.txt, frame_0001.txt, ... inside the
scene's OutDir and hold one "x y" row per particle. scripts/plot_frame.go
renders one of them.
*/
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path"

	"github.com/phil-mansfield/liquid2d/config"
	"github.com/phil-mansfield/liquid2d/sim"
)

func main() {
	var (
		configPath, logPath string
		frames              int
	)

	flag.StringVar(&configPath, "Config", "",
		"Scene file to run. Required.")
	flag.StringVar(&logPath, "Log", "",
		"Location to write log statements to. Default is stderr.")
	flag.IntVar(&frames, "Frames", -1,
		"Number of frames to simulate. Overrides the scene file.")
	flag.Parse()

	if logPath != "" {
		lf, err := os.Create(logPath)
		if err != nil {
			log.Fatalf("Could not create log file: %s", err.Error())
		}
		defer lf.Close()
		log.SetOutput(lf)
	}

	if configPath == "" {
		log.Fatal("Need to specify a scene file via -Config.")
	}
	scene, err := config.Read(configPath)
	if err != nil {
		log.Fatal(err.Error())
	}
	if frames < 0 {
		frames = scene.Run.Frames
	}

	s := setup(scene)
	log.Printf("Seeded %d particles on a %d x %d grid.",
		len(s.Particles()), scene.Run.Resolution, scene.Run.ResolutionY)

	for frame := 0; frame < frames; frame++ {
		s.Advance(scene.Run.Timestep)

		name := path.Join(scene.Run.OutDir,
			fmt.Sprintf("frame_%04d.txt", frame))
		if err := writeFrame(name, s.Particles()); err != nil {
			log.Fatal(err.Error())
		}

		if (frame+1)%10 == 0 {
			log.Printf("Finished frame %d of %d.", frame+1, frames)
		}
	}
}

// setup builds the simulation from the scene: boundary geometry from the
// non-seed shapes and a few jittered particles per cell inside the seed
// shapes.
func setup(scene *config.Scene) *sim.FluidSim {
	run := &scene.Run
	s := sim.New(run.GridWidth, run.Resolution, run.ResolutionY)
	s.SetGravity(run.Gravity)
	s.SetViscosity(func(x, y float64) float64 { return run.Viscosity })

	boundary := scene.BoundaryPhi()
	s.SetBoundary(boundary)

	rng := rand.New(rand.NewSource(run.Seed))
	n := run.ParticlesPerCell * run.Resolution * run.ResolutionY
	height := run.GridWidth * float64(run.ResolutionY) / float64(run.Resolution)
	for i := 0; i < n; i++ {
		x := rng.Float64() * run.GridWidth
		y := rng.Float64() * height
		if boundary(x, y) > 0 && scene.InSeedRegion(x, y) {
			s.AddParticle(x, y)
		}
	}

	return s
}

func writeFrame(name string, particles []sim.Vec2) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, p := range particles {
		if _, err := fmt.Fprintf(f, "%g %g\n", p.X, p.Y); err != nil {
			return err
		}
	}
	return nil
}
