package vo

import (
	"net/url"
	"strings"
	"testing"
)

func TestNewFileName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "cat.jpg", "cat.jpg"},
		{"spaces and symbols stripped", "my cat (1).jpg", "mycat1.jpg"},
		{"path separators stripped", "../../etc/passwd", "etcpasswd"},
		{"leading dots trimmed", ".hidden.png", "hidden.png"},
		{"dot only", "..", ""},
		{"unicode stripped", "café.gif", "caf.gif"},
		{"underscore and dash kept", "a_b-c.webp", "a_b-c.webp"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewFileName(tt.raw).String(); got != tt.want {
				t.Errorf("NewFileName(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNewFileName_TruncatesLongNames(t *testing.T) {
	raw := strings.Repeat("a", 500) + ".png"
	got := NewFileName(raw)

	if len(got.String()) != maxFileNameLen {
		t.Errorf("length = %d, want %d", len(got.String()), maxFileNameLen)
	}
	if got.Extension() != ".png" {
		t.Errorf("Extension() = %q, want .png", got.Extension())
	}
}

func TestFileNameFromURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://example.com/images/cat.jpg", "cat.jpg"},
		{"https://example.com/images/cat.jpg?size=large", "cat.jpg"},
		{"https://example.com/my%20dog.png", "mydog.png"},
		{"https://example.com/", ""},
		{"https://example.com", ""},
		{"https://example.com/photos/", "photos"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			u, err := url.Parse(tt.raw)
			if err != nil {
				t.Fatalf("url.Parse() error = %v", err)
			}
			if got := FileNameFromURL(u).String(); got != tt.want {
				t.Errorf("FileNameFromURL() = %q, want %q", got, tt.want)
			}
		})
	}

	if !FileNameFromURL(nil).IsEmpty() {
		t.Error("nil URL should give an empty name")
	}
}

func TestFileName_WithDefaultExtension(t *testing.T) {
	if got := NewFileName("photo").WithDefaultExtension(".jpg").String(); got != "photo.jpg" {
		t.Errorf("got %q, want photo.jpg", got)
	}
	if got := NewFileName("photo.png").WithDefaultExtension(".jpg").String(); got != "photo.png" {
		t.Errorf("existing extension replaced: %q", got)
	}
	if got := NewFileName("").WithDefaultExtension(".jpg").String(); got != "" {
		t.Errorf("empty name should stay empty, got %q", got)
	}
}

func TestFileName_WithSuffix(t *testing.T) {
	tests := []struct {
		name   string
		suffix string
		want   string
	}{
		{"cat.jpg", "1", "cat-1.jpg"},
		{"cat", "2", "cat-2"},
		{"cat.jpg", "", "cat.jpg"},
	}

	for _, tt := range tests {
		if got := NewFileName(tt.name).WithSuffix(tt.suffix).String(); got != tt.want {
			t.Errorf("WithSuffix(%q, %q) = %q, want %q", tt.name, tt.suffix, got, tt.want)
		}
	}
}

func TestFileSize(t *testing.T) {
	if _, err := NewFileSize(-1); err != ErrNegativeSize {
		t.Errorf("NewFileSize(-1) error = %v, want ErrNegativeSize", err)
	}

	limit := FileSizeFromMB(10)
	if limit.Bytes() != 10*1024*1024 {
		t.Errorf("Bytes() = %d", limit.Bytes())
	}
	if limit.String() != "10 MiB" {
		t.Errorf("String() = %q, want 10 MiB", limit.String())
	}

	exact, _ := NewFileSize(10 * MB)
	over, _ := NewFileSize(10*MB + 1)
	if exact.ExceedsLimit(limit) {
		t.Error("size equal to the limit must not exceed it")
	}
	if !over.ExceedsLimit(limit) {
		t.Error("size one byte over the limit must exceed it")
	}
}
