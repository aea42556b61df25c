package domain

import (
	"errors"
	"fmt"
)

// Outcome tags a FetchResult.
type Outcome int

const (
	OutcomeSaved Outcome = iota + 1
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSaved:
		return "saved"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// FetchResult represents the outcome of fetching one URL
type FetchResult struct {
	URL     string
	Outcome Outcome

	// Set when saved
	Filename string
	Path     string
	Size     int64
	Digest   Digest

	// Set when skipped
	Reason SkipReason

	// Set when failed
	Kind ErrorKind

	// Err is the PolicyError or FetchError behind a skip or failure
	Err error
}

// Saved creates a result for an accepted image
func Saved(url, filename, path string, size int64, digest Digest) FetchResult {
	return FetchResult{
		URL:      url,
		Outcome:  OutcomeSaved,
		Filename: filename,
		Path:     path,
		Size:     size,
		Digest:   digest,
	}
}

// Skipped creates a result for a policy rejection
func Skipped(url string, pe *PolicyError) FetchResult {
	return FetchResult{URL: url, Outcome: OutcomeSkipped, Reason: pe.Reason, Err: pe}
}

// Failed creates a result for a failed fetch
func Failed(url string, fe *FetchError) FetchResult {
	return FetchResult{URL: url, Outcome: OutcomeFailed, Kind: fe.Kind, Err: fe}
}

// ResultFromError classifies err into a skip or failure. Errors that carry
// neither a PolicyError nor a FetchError become a FilesystemError, since
// everything else is classified where it happens.
func ResultFromError(url string, err error) FetchResult {
	var pe *PolicyError
	if errors.As(err, &pe) {
		return Skipped(url, pe)
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return Failed(url, fe)
	}
	return Failed(url, NewFetchError(KindFilesystemError, url, err))
}

// Message returns the human-readable detail of a skip or failure.
func (r FetchResult) Message() string {
	if r.Err == nil {
		return ""
	}
	var fe *FetchError
	if errors.As(r.Err, &fe) && fe.Err != nil {
		return fe.Err.Error()
	}
	return r.Err.Error()
}
