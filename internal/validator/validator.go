// Package validator decides whether a response's declared content type and
// size are acceptable for saving.
package validator

import (
	"fmt"
	"mime"
	"strings"

	"github.com/vertextoedge/image-fetcher/internal/domain"
	"github.com/vertextoedge/image-fetcher/internal/domain/vo"
)

// DefaultMaxBytes is the size ceiling for a single image.
const DefaultMaxBytes = 10 * vo.MB

// extensions maps each supported media type to the extension used for
// generated file names.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/bmp":  ".bmp",
	"image/webp": ".webp",
}

// DefaultAllowedTypes returns the supported image media types.
func DefaultAllowedTypes() []string {
	return []string{"image/jpeg", "image/png", "image/gif", "image/bmp", "image/webp"}
}

// Policy holds the acceptance limits
type Policy struct {
	allowed  map[string]struct{}
	maxBytes vo.FileSize
}

// NewPolicy creates a policy. Media types are matched case-insensitively.
func NewPolicy(allowedTypes []string, maxBytes int64) (*Policy, error) {
	if len(allowedTypes) == 0 {
		return nil, fmt.Errorf("at least one allowed content type is required")
	}
	size, err := vo.NewFileSize(maxBytes)
	if err != nil {
		return nil, fmt.Errorf("invalid max size: %w", err)
	}
	if size.IsZero() {
		return nil, fmt.Errorf("max size must be positive")
	}

	allowed := make(map[string]struct{}, len(allowedTypes))
	for _, t := range allowedTypes {
		mt := normalize(t)
		if mt == "" {
			return nil, fmt.Errorf("invalid content type %q", t)
		}
		allowed[mt] = struct{}{}
	}
	return &Policy{allowed: allowed, maxBytes: size}, nil
}

// DefaultPolicy accepts the five supported image types up to 10 MiB.
func DefaultPolicy() *Policy {
	p, _ := NewPolicy(DefaultAllowedTypes(), DefaultMaxBytes)
	return p
}

// MaxBytes returns the size ceiling.
func (p *Policy) MaxBytes() int64 {
	return p.maxBytes.Bytes()
}

// CheckContentType rejects anything that is not an allowed media type.
// Parameters such as charset are ignored.
func (p *Policy) CheckContentType(header string) error {
	mt := normalize(header)
	if mt == "" {
		return domain.NewPolicyError(domain.SkipUnsupportedType, fmt.Sprintf("%q", header))
	}
	if _, ok := p.allowed[mt]; !ok {
		return domain.NewPolicyError(domain.SkipUnsupportedType, mt)
	}
	return nil
}

// CheckDeclaredLength rejects a declared Content-Length above the ceiling.
// A negative length means the server did not declare one.
func (p *Policy) CheckDeclaredLength(n int64) error {
	if n < 0 {
		return nil
	}
	return p.checkSize(n, "declared")
}

// CheckStreamed rejects once the bytes actually read pass the ceiling.
func (p *Policy) CheckStreamed(n int64) error {
	return p.checkSize(n, "received")
}

func (p *Policy) checkSize(n int64, what string) error {
	size, err := vo.NewFileSize(n)
	if err != nil {
		return err
	}
	if size.ExceedsLimit(p.maxBytes) {
		return domain.NewPolicyError(domain.SkipTooLarge,
			fmt.Sprintf("%s %s exceeds limit of %s", what, size, p.maxBytes))
	}
	return nil
}

// Extension returns the file extension for a content type header, or ""
// if the type has no known extension.
func Extension(header string) string {
	return extensions[normalize(header)]
}

func normalize(header string) string {
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return strings.ToLower(mt)
}
