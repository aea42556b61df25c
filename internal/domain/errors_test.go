package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestPolicyError_Error(t *testing.T) {
	tests := []struct {
		name   string
		reason SkipReason
		detail string
		want   string
	}{
		{
			name:   "with detail",
			reason: SkipUnsupportedType,
			detail: "text/html",
			want:   "unsupported content type: text/html",
		},
		{
			name:   "without detail",
			reason: SkipDuplicateImage,
			want:   "duplicate image detected",
		},
		{
			name:   "unknown reason",
			reason: SkipReason("Other"),
			want:   "policy rejection",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewPolicyError(tt.reason, tt.detail).Error(); got != tt.want {
				t.Errorf("Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolicyError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"too large", NewPolicyError(SkipTooLarge, ""), ErrTooLarge, true},
		{"wrapped duplicate", fmt.Errorf("stream: %w", NewPolicyError(SkipDuplicateImage, "")), ErrDuplicateImage, true},
		{"mismatched reason", NewPolicyError(SkipTooLarge, ""), ErrUnsupportedType, false},
		{"failure sentinel", NewPolicyError(SkipTooLarge, ""), ErrTimeout, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsPolicyRejection(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"policy error", NewPolicyError(SkipTooLarge, "12 MB"), true},
		{"wrapped policy error", fmt.Errorf("wrapped: %w", NewPolicyError(SkipTooLarge, "")), true},
		{"fetch error", NewFetchError(KindTimeout, "http://x", errors.New("boom")), false},
		{"regular error", errors.New("regular"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPolicyRejection(tt.err); got != tt.want {
				t.Errorf("IsPolicyRejection() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFetchError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	fe := NewFetchError(KindConnectionError, "http://example.com/a.png", cause)

	if got := fe.Error(); got != "ConnectionError for http://example.com/a.png: dial tcp: connection refused" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(fe, ErrConnection) {
		t.Error("expected errors.Is(fe, ErrConnection)")
	}
	if !errors.Is(fe, cause) {
		t.Error("expected errors.Is(fe, cause) through Unwrap")
	}
	if errors.Is(fe, ErrTimeout) {
		t.Error("connection error must not match ErrTimeout")
	}
}

func TestResultFromError(t *testing.T) {
	const url = "http://example.com/cat.jpg"

	tests := []struct {
		name        string
		err         error
		wantOutcome Outcome
		wantReason  SkipReason
		wantKind    ErrorKind
	}{
		{
			name:        "policy rejection",
			err:         NewPolicyError(SkipUnsupportedType, "text/html"),
			wantOutcome: OutcomeSkipped,
			wantReason:  SkipUnsupportedType,
		},
		{
			name:        "wrapped fetch error",
			err:         fmt.Errorf("get: %w", NewFetchError(KindHTTPError, url, errors.New("HTTP 404 Not Found"))),
			wantOutcome: OutcomeFailed,
			wantKind:    KindHTTPError,
		},
		{
			name:        "unclassified error",
			err:         errors.New("disk full"),
			wantOutcome: OutcomeFailed,
			wantKind:    KindFilesystemError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ResultFromError(url, tt.err)
			if r.Outcome != tt.wantOutcome {
				t.Errorf("Outcome = %v, want %v", r.Outcome, tt.wantOutcome)
			}
			if r.Reason != tt.wantReason {
				t.Errorf("Reason = %v, want %v", r.Reason, tt.wantReason)
			}
			if r.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", r.Kind, tt.wantKind)
			}
			if r.URL != url {
				t.Errorf("URL = %v, want %v", r.URL, url)
			}
		})
	}
}

func TestFetchResult_Message(t *testing.T) {
	r := Failed("http://x", NewFetchError(KindHTTPError, "http://x", errors.New("HTTP 404 Not Found")))
	if got := r.Message(); got != "HTTP 404 Not Found" {
		t.Errorf("Message() = %q", got)
	}

	r = Skipped("http://x", NewPolicyError(SkipTooLarge, "11 MiB"))
	if got := r.Message(); !strings.Contains(got, "11 MiB") {
		t.Errorf("Message() = %q, want detail", got)
	}

	if got := Saved("http://x", "a.png", "/tmp/a.png", 3, Digest{}).Message(); got != "" {
		t.Errorf("Message() for saved = %q, want empty", got)
	}
}

func TestDigest(t *testing.T) {
	var d Digest
	d[0] = 0xab
	d[31] = 0x01

	s := d.String()
	if len(s) != 64 {
		t.Fatalf("String() length = %d, want 64", len(s))
	}
	if !strings.HasPrefix(s, "ab00") || !strings.HasSuffix(s, "01") {
		t.Errorf("String() = %q", s)
	}
	if d.Short(4) != "ab00" {
		t.Errorf("Short(4) = %q", d.Short(4))
	}
	if d.Short(0) != s || d.Short(100) != s {
		t.Error("out of range Short() should return the full digest")
	}
}
