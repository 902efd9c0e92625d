package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func createTestJPEG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTestPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func TestPrepareJPEG(t *testing.T) {
	data, err := Prepare(bytes.NewReader(createTestJPEG(100, 100)))
	if err != nil {
		t.Fatalf("Prepare JPEG: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty data")
	}
}

func TestPreparePNGOutputsJPEG(t *testing.T) {
	data, err := Prepare(bytes.NewReader(createTestPNG(100, 100)))
	if err != nil {
		t.Fatalf("Prepare PNG: %v", err)
	}

	_, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg output, got %s", format)
	}
}

func TestPrepareDownscale(t *testing.T) {
	data, err := Prepare(bytes.NewReader(createTestJPEG(2048, 1024)))
	if err != nil {
		t.Fatalf("Prepare large image: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() > MaxDimension || bounds.Dy() > MaxDimension {
		t.Errorf("expected max %dx%d, got %dx%d", MaxDimension, MaxDimension, bounds.Dx(), bounds.Dy())
	}
	if bounds.Dx() != 512 || bounds.Dy() != 256 {
		t.Errorf("expected aspect ratio preserved (512x256), got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestPrepareSmallImageNotUpscaled(t *testing.T) {
	data, err := Prepare(bytes.NewReader(createTestJPEG(50, 50)))
	if err != nil {
		t.Fatalf("Prepare small image: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if img.Bounds().Dx() != 50 || img.Bounds().Dy() != 50 {
		t.Errorf("expected 50x50 unchanged, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestPrepareRejectsNonImage(t *testing.T) {
	if _, err := Prepare(bytes.NewReader([]byte("<html>not an image</html>"))); err == nil {
		t.Error("expected error for non-image input")
	}
}

func TestPrepareRejectsOversized(t *testing.T) {
	big := bytes.Repeat([]byte{0xff}, MaxUploadBytes+1)
	if _, err := Prepare(bytes.NewReader(big)); err == nil {
		t.Error("expected error for oversized input")
	}
}
