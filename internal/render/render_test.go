package render

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"testing"

	"github.com/san-kum/tablesim/internal/table"
)

type recorder struct {
	calls []string
}

func (r *recorder) Clear() { r.calls = append(r.calls, "clear") }

func (r *recorder) FillRect(x, y, w, h float64, c table.Color) {
	r.calls = append(r.calls, fmt.Sprintf("rect %g,%g %gx%g %s", x, y, w, h, c))
}

func (r *recorder) FillCircle(cx, cy, rad float64, c table.Color) {
	r.calls = append(r.calls, fmt.Sprintf("circle %g,%g r%g %s", cx, cy, rad, c))
}

func TestPassOrder(t *testing.T) {
	rec := &recorder{}
	NewPass(table.DefaultTable()).Draw(rec, table.DefaultBalls())

	want := []string{
		"clear",
		"rect 0,0 600x300 #A52A2A",
		"circle 100,150 r10 #FF0000",
		"circle 200,150 r10 #0000FF",
		"circle 300,150 r10 #008000",
	}
	if len(rec.calls) != len(want) {
		t.Fatalf("expected %d calls, got %v", len(want), rec.calls)
	}
	for i := range want {
		if rec.calls[i] != want[i] {
			t.Errorf("call %d: expected %q, got %q", i, want[i], rec.calls[i])
		}
	}
}

func TestPassReadOnly(t *testing.T) {
	reg, _ := table.NewRegistry(table.DefaultBalls())
	NewPass(table.DefaultTable()).DrawRegistry(&recorder{}, reg)

	for i, want := range table.DefaultBalls() {
		got, _ := reg.At(i)
		if got != want {
			t.Errorf("ball %d changed: %+v", i, got)
		}
	}
}

func TestRecoloredBallRenders(t *testing.T) {
	reg, _ := table.NewRegistry(table.DefaultBalls())
	_ = reg.SetColor(1, table.MustParseColor("#FFFF00"))

	rec := &recorder{}
	NewPass(table.DefaultTable()).DrawRegistry(rec, reg)

	if rec.calls[3] != "circle 200,150 r10 #FFFF00" {
		t.Errorf("unexpected call %q", rec.calls[3])
	}
}

func TestImageSurface(t *testing.T) {
	s := NewImageSurface(table.DefaultTable(), 300, 150)
	NewPass(table.DefaultTable()).Draw(s, table.DefaultBalls())

	// Half scale: ball 0 is centered at (50, 75).
	if got := s.Img.RGBAAt(50, 75); got.R != 0xFF || got.G != 0 || got.B != 0 {
		t.Errorf("expected red ball pixel, got %+v", got)
	}
	if got := s.Img.RGBAAt(10, 10); got.R != 0xA5 || got.G != 0x2A {
		t.Errorf("expected background pixel, got %+v", got)
	}
	if got := s.Img.RGBAAt(100, 75); got.B != 0xFF {
		t.Errorf("expected blue ball pixel, got %+v", got)
	}
}

func TestEncodeGIF(t *testing.T) {
	s := NewImageSurface(table.DefaultTable(), 60, 30)
	pass := NewPass(table.DefaultTable())

	pass.Draw(s, table.DefaultBalls())
	frames := []*image.Paletted{s.Paletted(), s.Paletted()}

	var buf bytes.Buffer
	if err := EncodeGIF(&buf, frames, 2); err != nil {
		t.Fatalf("encode: %v", err)
	}
	g, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(g.Image) != 2 {
		t.Errorf("expected 2 frames, got %d", len(g.Image))
	}
}
