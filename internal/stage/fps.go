package stage

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// NewFPSWidget returns an image node showing FPS and TPS, refreshed about
// twice a second. It sits above siblings with the default ZIndex.
func NewFPSWidget() *Node {
	img := ebiten.NewImage(100, 32)
	node := NewImage("fps_widget", img)
	node.ZIndex = 1 << 20

	var since float64
	node.OnUpdate = func(dt float64) {
		since += dt
		if since < 0.5 {
			return
		}
		since = 0
		img.Clear()
		img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	return node
}
