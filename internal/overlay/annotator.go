// Package overlay stamps captured frames with a wall-clock timestamp.
package overlay

import (
	"image"
	"image/color"
	"time"

	"gocv.io/x/gocv"
)

// TimeLayout is the timestamp format drawn onto each frame.
const TimeLayout = "2006-01-02 15:04:05"

// Annotator draws a timestamp in a fixed bottom-left region of a frame, over
// a filled box sized to the rendered text so it stays legible against any
// frame content. It carries no state between frames: the result depends only
// on the frame and the instant.
type Annotator struct {
	font      gocv.HersheyFont
	scale     float64
	thickness int
	text      color.RGBA
	box       color.RGBA
}

func New() *Annotator {
	return &Annotator{
		font:      gocv.FontHersheySimplex,
		scale:     0.7,
		thickness: 2,
		text:      color.RGBA{R: 255, G: 255, B: 255, A: 255},
		box:       color.RGBA{A: 255},
	}
}

// Apply draws ts onto img in place.
func (a *Annotator) Apply(img *gocv.Mat, ts time.Time) {
	label := ts.Format(TimeLayout)
	size, baseline := gocv.GetTextSizeWithBaseline(label, a.font, a.scale, a.thickness)
	h := img.Rows()

	gocv.Rectangle(img,
		image.Rect(10, h-size.Y-baseline-10, 10+size.X+10, h-5),
		a.box, -1)
	gocv.PutTextWithParams(img, label,
		image.Pt(15, h-baseline-8),
		a.font, a.scale, a.text, a.thickness,
		gocv.LineAA, false)
}
