package vision

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

var (
	colorRecognized = color.RGBA{G: 255, A: 255}
	colorUnknown    = color.RGBA{R: 255, A: 255}
)

// Display paints annotated frames into a local window. It is only created
// when the host has a display surface and the feature is enabled.
type Display struct {
	window *gocv.Window
}

func NewDisplay(title string) *Display {
	return &Display{window: gocv.NewWindow(title)}
}

// Show presents the frame. Returns false once the window has been closed by
// the user, which ends the recognition session.
func (d *Display) Show(frame gocv.Mat) bool {
	d.window.IMShow(frame)
	d.window.WaitKey(1)
	return d.window.IsOpen()
}

func (d *Display) Close() error {
	return d.window.Close()
}

// AnnotateFace draws the face rectangle and the identity caption onto the
// frame, green for recognized and red for unknown.
func AnnotateFace(frame *gocv.Mat, rect image.Rectangle, name string, distance float64, recognized bool) {
	c := colorUnknown
	if recognized {
		c = colorRecognized
	}

	gocv.Rectangle(frame, rect, c, 2)
	caption := fmt.Sprintf("%s (%.1f)", name, distance)
	gocv.PutText(frame, caption, image.Pt(rect.Min.X, rect.Min.Y-10),
		gocv.FontHersheySimplex, 0.7, c, 2)
}
