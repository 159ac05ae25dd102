package table

import (
	"errors"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#FF0000", Red},
		{"#0000ff", Blue},
		{"#008000", Green},
		{"#A52A2A", Brown},
		{"#fff", Color{R: 0xFF, G: 0xFF, B: 0xFF}},
		{" #FFFF00 ", Color{R: 0xFF, G: 0xFF}},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestParseColor_Invalid(t *testing.T) {
	for _, in := range []string{"", "FF0000", "#FF00", "#GG0000", "#FF00000", "brown"} {
		if _, err := ParseColor(in); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("%q: expected ErrInvalidColor, got %v", in, err)
		}
	}
}

func TestColorString(t *testing.T) {
	if s := MustParseColor("#ffff00").String(); s != "#FFFF00" {
		t.Errorf("expected #FFFF00, got %s", s)
	}
	if s := Green.String(); s != "#008000" {
		t.Errorf("expected #008000, got %s", s)
	}
}

func TestColorText(t *testing.T) {
	var c Color
	if err := c.UnmarshalText([]byte("#123456")); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	text, _ := c.MarshalText()
	if string(text) != "#123456" {
		t.Errorf("expected #123456, got %s", text)
	}
	if err := c.UnmarshalText([]byte("nope")); err == nil {
		t.Error("expected error for bad color")
	}
}
