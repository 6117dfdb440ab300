/*
Package autograph captures freehand signatures and exports them as raster
images, static or animated SVG documents and PDF pages.

Pointer events are sampled into strokes, each stroke being rendered as ink
whose width follows the pen pressure and velocity. Finished strokes are kept
in an undo/redo history which is the single source for every export, so the
raster and vector artifacts always share the same geometry.

The package provides a command line interface which opens a drawing pad or
exports recorded strokes. To check the supported commands type:

	$ autograph --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"github.com/esimov/autograph"
	)

	func main() {
		s, err := autograph.NewSession(600, 240, autograph.DefaultStyle(), nil)
		if err != nil {
			panic(err)
		}
		s.HandlePointer(autograph.PointerEvent{Kind: autograph.Down, X: 10, Y: 10, Time: 1})
		s.HandlePointer(autograph.PointerEvent{Kind: autograph.Move, X: 60, Y: 40, Time: 20})
		s.HandlePointer(autograph.PointerEvent{Kind: autograph.Up, X: 60, Y: 40, Time: 30})

		svg, err := s.ExportStaticSVG()
		if err != nil {
			fmt.Printf("Error exporting the signature: %s", err.Error())
		}
		fmt.Println(svg)
	}
*/
package autograph
