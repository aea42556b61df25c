// Package console prints the per-URL report and reads URLs interactively.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/vertextoedge/image-fetcher/internal/domain"
	"github.com/vertextoedge/image-fetcher/internal/service/orchestrator"
)

const (
	markOK   = "✓"
	markFail = "✗"
)

// Reporter writes outcomes line by line
type Reporter struct {
	w io.Writer
}

// Ensure Reporter implements orchestrator.Reporter
var _ orchestrator.Reporter = (*Reporter)(nil)

// NewReporter creates a reporter writing to w
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Banner prints the greeting
func (r *Reporter) Banner() {
	fmt.Fprintln(r.w, "Welcome to the Ubuntu Image Fetcher")
	fmt.Fprintln(r.w, "A tool for mindfully collecting images from the web")
	fmt.Fprintln(r.w)
}

func (r *Reporter) Processing(rawURL string) {
	fmt.Fprintf(r.w, "\nProcessing %s...\n", rawURL)
}

func (r *Reporter) Report(result domain.FetchResult) {
	switch result.Outcome {
	case domain.OutcomeSaved:
		fmt.Fprintf(r.w, "%s Successfully fetched: %s\n", markOK, result.Filename)
		fmt.Fprintf(r.w, "%s Image saved to %s (%s)\n", markOK, result.Path, humanize.IBytes(uint64(result.Size)))
	case domain.OutcomeSkipped:
		fmt.Fprintf(r.w, "%s Skipped %s: %s\n", markFail, result.URL, skipText(result))
	default:
		fmt.Fprintf(r.w, "%s %s for %s: %s\n", markFail, kindLabel(result.Kind), result.URL, result.Message())
	}
}

func (r *Reporter) NoURLs() {
	fmt.Fprintf(r.w, "%s No valid URLs provided.\n", markFail)
}

func (r *Reporter) Summary(s orchestrator.Summary) {
	fmt.Fprintf(r.w, "\nSaved %d, skipped %d, failed %d of %d.\n", s.Saved, s.Skipped, s.Failed, s.Total())
	fmt.Fprintln(r.w, "Connection strengthened. Community enriched.")
}

func skipText(result domain.FetchResult) string {
	if domain.IsPolicyRejection(result.Err) {
		return result.Err.Error()
	}
	return string(result.Reason)
}

func kindLabel(kind domain.ErrorKind) string {
	switch kind {
	case domain.KindInvalidURL:
		return "Invalid URL"
	case domain.KindConnectionError:
		return "Connection error"
	case domain.KindTimeout:
		return "Timeout error"
	case domain.KindHTTPError:
		return "HTTP error"
	case domain.KindFilesystemError:
		return "Filesystem error"
	default:
		return "Error"
	}
}

// Prompt asks for a comma-separated URL list and returns the line read.
// A missing trailing newline at EOF is fine.
func Prompt(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Please enter image URL(s) (comma-separated for multiple): ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read urls: %w", err)
	}
	return strings.TrimSpace(line), nil
}
