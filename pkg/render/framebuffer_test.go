package render

import "testing"

func TestFramebufferSetGet(t *testing.T) {
	fb := NewFramebuffer(8, 4)

	c := RGB(10, 20, 30)
	fb.SetPixel(3, 2, c)
	if got := fb.GetPixel(3, 2); got != c {
		t.Errorf("GetPixel(3, 2) = %v, want %v", got, c)
	}

	if got := fb.GetPixel(0, 0); got != (Color{}) {
		t.Errorf("untouched pixel = %v, want zero", got)
	}
}

func TestFramebufferBounds(t *testing.T) {
	fb := NewFramebuffer(8, 4)

	// Out-of-bounds writes are dropped, reads return transparent black.
	fb.SetPixel(-1, 0, RGB(255, 0, 0))
	fb.SetPixel(8, 0, RGB(255, 0, 0))
	fb.SetPixel(0, 4, RGB(255, 0, 0))

	for _, px := range [][2]int{{-1, 0}, {8, 0}, {0, 4}, {100, 100}} {
		if got := fb.GetPixel(px[0], px[1]); got != (Color{}) {
			t.Errorf("GetPixel(%d, %d) = %v, want zero", px[0], px[1], got)
		}
	}
	for i, p := range fb.Pixels {
		if p != (Color{}) {
			t.Fatalf("out-of-bounds write landed at index %d", i)
		}
	}
}

func TestFramebufferClear(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	c := RGB(1, 2, 3)
	fb.Clear(c)
	for _, p := range fb.Pixels {
		if p != c {
			t.Fatalf("Clear left pixel %v", p)
		}
	}
}

func TestToImage(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	fb.SetPixel(1, 0, RGB(200, 100, 50))

	img := fb.ToImage()
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("image bounds = %v", img.Bounds())
	}
	if got := img.RGBAAt(1, 0); got != RGB(200, 100, 50) {
		t.Errorf("image pixel = %v", got)
	}
}
