package main

import (
	"log"
	"os"

	plt "github.com/phil-mansfield/pyplot"
	"github.com/phil-mansfield/table"
)

// Plots the particle positions in a frame file written by the liquid2d
// driver.
//
//	$ go run plot_frame.go frame_0042.txt
func main() {
	if len(os.Args) != 2 {
		log.Fatalf("Required file use: $ %s frame_file", os.Args[0])
	}

	cols, err := table.ReadTable(os.Args[1], []int{0, 1}, nil)
	if err != nil {
		log.Fatal(err.Error())
	}
	xs, ys := cols[0], cols[1]

	plt.Reset()
	plt.Plot(xs, ys, "ok")
	plt.Show()
}
