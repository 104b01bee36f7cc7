package resize

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// encodeTestImage builds a small gradient image and encodes it in the
// requested format so decode sniffing has realistic input.
func encodeTestImage(t *testing.T, format string, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 11), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	case "png":
		err = png.Encode(&buf, img)
	default:
		t.Fatalf("unknown test image format %q", format)
	}
	if err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestThumbnailJPEG(t *testing.T) {
	src := encodeTestImage(t, "jpeg", 120, 80)

	v, err := Thumbnail(src, 50)
	if err != nil {
		t.Fatalf("Thumbnail() error: %v", err)
	}

	if v.Ext != "jpg" {
		t.Errorf("Ext = %q, want %q", v.Ext, "jpg")
	}
	if v.ContentType != "image/jpeg" {
		t.Errorf("ContentType = %q, want %q", v.ContentType, "image/jpeg")
	}
	if v.Size != 50 {
		t.Errorf("Size = %d, want 50", v.Size)
	}

	out, format, err := image.Decode(bytes.NewReader(v.Data))
	if err != nil {
		t.Fatalf("decode produced variant: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("output format = %q, want %q", format, "jpeg")
	}
	if b := out.Bounds(); b.Dx() != 50 || b.Dy() != 50 {
		t.Errorf("output dimensions = %dx%d, want 50x50", b.Dx(), b.Dy())
	}
}

func TestThumbnailPNGStaysPNG(t *testing.T) {
	src := encodeTestImage(t, "png", 64, 64)

	v, err := Thumbnail(src, 100)
	if err != nil {
		t.Fatalf("Thumbnail() error: %v", err)
	}

	if v.Ext != "png" || v.ContentType != "image/png" {
		t.Errorf("got (%q, %q), want PNG output for PNG input", v.Ext, v.ContentType)
	}

	out, format, err := image.Decode(bytes.NewReader(v.Data))
	if err != nil {
		t.Fatalf("decode produced variant: %v", err)
	}
	if format != "png" {
		t.Errorf("output format = %q, want %q", format, "png")
	}
	// Upscaling still yields the declared square dimensions.
	if b := out.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Errorf("output dimensions = %dx%d, want 100x100", b.Dx(), b.Dy())
	}
}

func TestThumbnailDeterministicDimensions(t *testing.T) {
	src := encodeTestImage(t, "jpeg", 300, 200)

	for _, size := range []int{50, 100, 200} {
		a, err := Thumbnail(src, size)
		if err != nil {
			t.Fatalf("first Thumbnail(%d): %v", size, err)
		}
		b, err := Thumbnail(src, size)
		if err != nil {
			t.Fatalf("second Thumbnail(%d): %v", size, err)
		}

		imgA, _, err := image.Decode(bytes.NewReader(a.Data))
		if err != nil {
			t.Fatalf("decode first variant: %v", err)
		}
		imgB, _, err := image.Decode(bytes.NewReader(b.Data))
		if err != nil {
			t.Fatalf("decode second variant: %v", err)
		}
		if imgA.Bounds() != imgB.Bounds() {
			t.Errorf("size %d: dimensions differ between runs: %v vs %v",
				size, imgA.Bounds(), imgB.Bounds())
		}
		if a.Size != b.Size || a.Ext != b.Ext {
			t.Errorf("size %d: variant metadata differs between runs", size)
		}
	}
}

func TestThumbnailRejectsGarbage(t *testing.T) {
	_, err := Thumbnail([]byte("definitely not an image"), 50)
	if err == nil {
		t.Fatal("Thumbnail() on garbage bytes should fail")
	}
	if !errors.Is(err, ErrDecode) {
		t.Errorf("error = %v, want ErrDecode", err)
	}
}
