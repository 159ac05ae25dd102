package render

import (
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"math"

	"github.com/san-kum/tablesim/internal/table"
)

// ImageSurface rasterizes frames into an RGBA image, scaled so the table
// fills the image.
type ImageSurface struct {
	Img    *image.RGBA
	scaleX float64
	scaleY float64
}

func NewImageSurface(t table.Table, w, h int) *ImageSurface {
	return &ImageSurface{
		Img:    image.NewRGBA(image.Rect(0, 0, w, h)),
		scaleX: float64(w) / t.Width,
		scaleY: float64(h) / t.Height,
	}
}

func toRGBA(c table.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

func (s *ImageSurface) Clear() {
	draw.Draw(s.Img, s.Img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

func (s *ImageSurface) FillRect(x, y, w, h float64, c table.Color) {
	r := image.Rect(
		int(math.Floor(x*s.scaleX)), int(math.Floor(y*s.scaleY)),
		int(math.Ceil((x+w)*s.scaleX)), int(math.Ceil((y+h)*s.scaleY)),
	)
	draw.Draw(s.Img, r.Intersect(s.Img.Bounds()), image.NewUniform(toRGBA(c)), image.Point{}, draw.Src)
}

// FillCircle sets every pixel whose center lies inside the circle.
func (s *ImageSurface) FillCircle(cx, cy, r float64, c table.Color) {
	fill := toRGBA(c)
	b := s.Img.Bounds()
	x0 := max(int(math.Floor((cx-r)*s.scaleX)), b.Min.X)
	x1 := min(int(math.Ceil((cx+r)*s.scaleX)), b.Max.X)
	y0 := max(int(math.Floor((cy-r)*s.scaleY)), b.Min.Y)
	y1 := min(int(math.Ceil((cy+r)*s.scaleY)), b.Max.Y)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			dx := (float64(px)+0.5)/s.scaleX - cx
			dy := (float64(py)+0.5)/s.scaleY - cy
			if dx*dx+dy*dy <= r*r {
				s.Img.SetRGBA(px, py, fill)
			}
		}
	}
}

// Paletted converts the current image for GIF encoding.
func (s *ImageSurface) Paletted() *image.Paletted {
	p := image.NewPaletted(s.Img.Bounds(), palette.Plan9)
	draw.Draw(p, p.Rect, s.Img, image.Point{}, draw.Src)
	return p
}

// EncodeGIF writes frames as a looping animation at delay hundredths of a
// second per frame.
func EncodeGIF(w io.Writer, frames []*image.Paletted, delay int) error {
	anim := gif.GIF{LoopCount: 0}
	for _, f := range frames {
		anim.Image = append(anim.Image, f)
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}
