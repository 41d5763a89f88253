package detection

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// AnnotatedQuality is the JPEG quality of images returned by /detect/image.
const AnnotatedQuality = 90

var (
	outlineColor = color.RGBA{R: 0x00, G: 0xff, B: 0x00, A: 0xff}
	captionColor = color.RGBA{R: 0x00, G: 0x80, B: 0x00, A: 0xff}
)

// Draw renders each detection's box with a "label score" caption onto img.
// Detections without a 4-element box are skipped.
func Draw(img *image.RGBA, detections []Detection) {
	stroke := max(2, img.Bounds().Dx()/300)
	face := basicfont.Face7x13
	metrics := face.Metrics()

	for _, d := range detections {
		if len(d.Box) != 4 {
			continue
		}
		x0, y0 := roundInt(d.Box[0]), roundInt(d.Box[1])
		x1, y1 := roundInt(d.Box[2]), roundInt(d.Box[3])

		outline(img, image.Rect(x0, y0, x1, y1), stroke)

		caption := fmt.Sprintf("%s %.2f", d.Label, d.Score)
		drawer := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(color.White),
			Face: face,
		}
		width := drawer.MeasureString(caption).Ceil()
		height := (metrics.Ascent + metrics.Descent).Ceil()

		background := image.Rect(x0, y0, x0+width, y0+height)
		draw.Draw(img, background, image.NewUniform(captionColor), image.Point{}, draw.Src)

		drawer.Dot = fixed.P(x0, y0-2+metrics.Ascent.Ceil())
		drawer.DrawString(caption)
	}
}

func outline(img *image.RGBA, r image.Rectangle, stroke int) {
	src := image.NewUniform(outlineColor)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X+1, r.Min.Y+stroke),
		image.Rect(r.Min.X, r.Max.Y-stroke+1, r.Max.X+1, r.Max.Y+1),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+stroke, r.Max.Y+1),
		image.Rect(r.Max.X-stroke+1, r.Min.Y, r.Max.X+1, r.Max.Y+1),
	}
	for _, e := range edges {
		draw.Draw(img, e.Intersect(img.Bounds()), src, image.Point{}, draw.Src)
	}
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
