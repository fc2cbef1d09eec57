package stage

import "testing"

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-drop", "after-drop"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"special!@#", "special___"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueue(t *testing.T) {
	s := NewScene()
	if s.ScreenshotDir != "screenshots" {
		t.Errorf("ScreenshotDir = %q, want screenshots", s.ScreenshotDir)
	}
	s.Screenshot("a")
	s.Screenshot("b")
	if len(s.screenshotQueue) != 2 || s.screenshotQueue[1] != "b" {
		t.Errorf("queue = %v, want [a b]", s.screenshotQueue)
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		255, 0, 0, 255, // opaque red
		64, 0, 0, 128, // half-transparent red
		0, 0, 0, 0, // clear
	}
	img := unpremultiply(pixels, 3, 1)

	want := []byte{
		255, 0, 0, 255,
		127, 0, 0, 128,
		0, 0, 0, 0,
	}
	for i := range want {
		if img.Pix[i] != want[i] {
			t.Fatalf("Pix = %v, want %v", img.Pix, want)
		}
	}
}
