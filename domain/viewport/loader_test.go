package viewport

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, patternImage(w, h)); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeBytes_PNG(t *testing.T) {
	img, err := DecodeBytes(encodePNG(t, 7, 5))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 7 || b.Dy() != 5 {
		t.Fatalf("unexpected bounds %v", b)
	}
}

func TestDecodeBytes_Garbage(t *testing.T) {
	if _, err := DecodeBytes([]byte{0x00, 0x01, 0x02}); !errors.Is(err, ErrImageDecode) {
		t.Fatalf("expected ErrImageDecode, got %v", err)
	}
}

func TestEngine_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.png")
	if err := os.WriteFile(path, encodePNG(t, 12, 8), 0o644); err != nil {
		t.Fatal(err)
	}
	e := NewEngine(DefaultOptions(), nil)
	if err := e.LoadFile(path); err != nil {
		t.Fatalf("load file: %v", err)
	}
	if w, h := e.ImageSize(); w != 12 || h != 8 {
		t.Fatalf("unexpected size %dx%d", w, h)
	}
	if err := e.LoadFile(filepath.Join(dir, "missing.png")); !errors.Is(err, ErrImageDecode) {
		t.Fatalf("expected ErrImageDecode for missing file, got %v", err)
	}
	if w, _ := e.ImageSize(); w != 12 {
		t.Fatalf("failed load replaced the image")
	}
}
