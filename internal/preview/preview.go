// Package preview shows the live frame window for interactive sessions. In
// headless deployments the recorder simply runs without it.
package preview

import (
	"gocv.io/x/gocv"
)

// quitKey stops the recording from the preview window.
const quitKey = 'q'

// Window renders frames into an OpenCV highgui window. The capture loop polls
// it once per frame, which keeps the GUI touched from a single goroutine as
// highgui requires.
type Window struct {
	win *gocv.Window
}

func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

// Show renders the frame and reports whether the operator pressed the quit
// key.
func (w *Window) Show(img *gocv.Mat) bool {
	w.win.IMShow(*img)
	return w.win.WaitKey(1) == quitKey
}

func (w *Window) Close() error {
	return w.win.Close()
}
