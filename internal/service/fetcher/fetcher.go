package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vertextoedge/image-fetcher/internal/domain"
	"github.com/vertextoedge/image-fetcher/internal/domain/vo"
	"github.com/vertextoedge/image-fetcher/internal/hashindex"
	"github.com/vertextoedge/image-fetcher/internal/port"
	"github.com/vertextoedge/image-fetcher/internal/validator"
	"go.uber.org/zap"
)

const (
	DefaultUserAgent = "UbuntuImageFetcher/1.0"
	DefaultTimeout   = 10 * time.Second
	DefaultChunkSize = 4 * 1024
)

// Config contains fetcher settings
type Config struct {
	UserAgent string
	Timeout   time.Duration // total per request, connect through body
	ChunkSize int

	// HTTPClient overrides the client built from Timeout
	HTTPClient *http.Client

	// Progress is optional
	Progress port.ProgressFunc
}

// Fetcher downloads, validates and saves one image per call
type Fetcher struct {
	client    *http.Client
	policy    *validator.Policy
	fs        port.FileSystem
	logger    *zap.Logger
	userAgent string
	chunkSize int
	progress  port.ProgressFunc
}

// New creates a new Fetcher
func New(cfg *Config, policy *validator.Policy, fs port.FileSystem, logger *zap.Logger) *Fetcher {
	if cfg == nil {
		cfg = &Config{}
	}
	if policy == nil {
		policy = validator.DefaultPolicy()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = newHTTPClient(timeout)
	}

	return &Fetcher{
		client:    client,
		policy:    policy,
		fs:        fs,
		logger:    logger,
		userAgent: userAgent,
		chunkSize: chunkSize,
		progress:  cfg.Progress,
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	// Saved bytes must equal served bytes
	transport.DisableCompression = true
	transport.ForceAttemptHTTP2 = true

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// Fetch downloads rawURL and saves it into the output directory unless the
// policy or the index rejects it. The index is consulted and, on save,
// updated before Fetch returns, so duplicates within one batch are caught.
// Every outcome is returned as a result; Fetch never panics or aborts on a
// per-URL problem.
func (f *Fetcher) Fetch(ctx context.Context, idx *hashindex.Index, rawURL string) domain.FetchResult {
	f.logger.Debug("fetching image", zap.String("url", rawURL))

	result, err := f.fetch(ctx, idx, rawURL)
	if err != nil {
		result = domain.ResultFromError(rawURL, err)
	}

	switch result.Outcome {
	case domain.OutcomeSaved:
		f.logger.Info("image saved",
			zap.String("url", rawURL),
			zap.String("path", result.Path),
			zap.Int64("size", result.Size),
			zap.String("digest", result.Digest.String()))
	case domain.OutcomeSkipped:
		f.logger.Info("image skipped",
			zap.String("url", rawURL),
			zap.String("reason", string(result.Reason)),
			zap.Error(result.Err))
	default:
		f.logger.Info("fetch failed",
			zap.String("url", rawURL),
			zap.String("kind", string(result.Kind)),
			zap.Error(result.Err))
	}
	return result
}

func (f *Fetcher) fetch(ctx context.Context, idx *hashindex.Index, rawURL string) (domain.FetchResult, error) {
	u, err := domain.ParseURL(rawURL)
	if err != nil {
		return domain.FetchResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.FetchResult{}, domain.NewFetchError(domain.KindInvalidURL, rawURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.FetchResult{}, transportError(rawURL, err)
	}
	// A rejected response is closed unread
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.FetchResult{}, domain.NewFetchError(domain.KindHTTPError, rawURL,
			fmt.Errorf("HTTP %d %s", resp.StatusCode, statusReason(resp)))
	}

	contentType := resp.Header.Get("Content-Type")
	if err := f.policy.CheckContentType(contentType); err != nil {
		return domain.FetchResult{}, err
	}
	if err := f.policy.CheckDeclaredLength(resp.ContentLength); err != nil {
		return domain.FetchResult{}, err
	}

	return f.save(idx, u, rawURL, contentType, resp)
}

// save streams the body to a temp file and commits it. The temp file is
// removed on every path that does not end in a commit.
func (f *Fetcher) save(idx *hashindex.Index, u *url.URL, rawURL, contentType string, resp *http.Response) (domain.FetchResult, error) {
	tmp, err := f.fs.CreateTempFile()
	if err != nil {
		return domain.FetchResult{}, domain.NewFetchError(domain.KindFilesystemError, rawURL, err)
	}
	tempPath := tmp.Name()
	committed := false
	defer func() {
		if committed {
			return
		}
		if err := f.fs.DeleteTempFile(tempPath); err != nil {
			f.logger.Warn("failed to delete temp file",
				zap.String("path", tempPath),
				zap.Error(err))
		}
	}()

	digest, size, streamErr := f.stream(tmp, resp.Body, rawURL, resp.ContentLength)
	closeErr := tmp.Close()
	if streamErr != nil {
		return domain.FetchResult{}, streamErr
	}
	if closeErr != nil {
		return domain.FetchResult{}, domain.NewFetchError(domain.KindFilesystemError, rawURL,
			fmt.Errorf("failed to close temp file: %w", closeErr))
	}

	if idx.Contains(digest) {
		return domain.FetchResult{}, domain.NewPolicyError(domain.SkipDuplicateImage,
			"content "+digest.Short(12)+" already saved")
	}

	name := fileName(u, contentType, digest)
	finalPath, err := f.fs.CommitTempFile(tempPath, name, digest)
	if err != nil {
		return domain.FetchResult{}, domain.NewFetchError(domain.KindFilesystemError, rawURL, err)
	}
	committed = true
	idx.Insert(digest)

	return domain.Saved(rawURL, filepath.Base(finalPath), finalPath, size, digest), nil
}

// stream copies body into dst in fixed-size chunks, hashing as it goes.
// It stops before writing the chunk that would cross the size ceiling.
func (f *Fetcher) stream(dst io.Writer, body io.Reader, rawURL string, total int64) (domain.Digest, int64, error) {
	h := hashindex.NewHasher()

	var sink port.ProgressSink
	if f.progress != nil {
		sink = f.progress(rawURL, total)
		defer sink.Finish()
	}

	limited := io.LimitReader(body, f.policy.MaxBytes()+1)
	buf := make([]byte, f.chunkSize)
	var written int64
	for {
		n, readErr := limited.Read(buf)
		if n > 0 {
			written += int64(n)
			if err := f.policy.CheckStreamed(written); err != nil {
				return domain.Digest{}, written, err
			}
			if _, err := dst.Write(buf[:n]); err != nil {
				return domain.Digest{}, written, domain.NewFetchError(domain.KindFilesystemError, rawURL,
					fmt.Errorf("failed to write temp file: %w", err))
			}
			h.Write(buf[:n])
			if sink != nil {
				sink.Write(buf[:n])
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return domain.Digest{}, written, transportError(rawURL, fmt.Errorf("failed to read body: %w", readErr))
		}
	}

	return h.Digest(), written, nil
}

// fileName picks the saved name: the URL's last path segment if usable,
// else one derived from the digest, with an extension for the content type
// when the name has none. A segment ending in the temp suffix loses it.
func fileName(u *url.URL, contentType string, digest domain.Digest) vo.FileName {
	name := vo.FileNameFromURL(u)
	if strings.EqualFold(name.Extension(), domain.TempFileSuffix) {
		name = vo.NewFileName(name.Stem())
	}
	if name.IsEmpty() {
		name = vo.NewFileName("image_" + digest.Short(12))
	}
	return name.WithDefaultExtension(validator.Extension(contentType))
}

func transportError(rawURL string, err error) *domain.FetchError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return domain.NewFetchError(domain.KindTimeout, rawURL, err)
	}
	return domain.NewFetchError(domain.KindConnectionError, rawURL, err)
}

// statusReason returns the reason phrase sent by the server, falling back
// to the standard text for the code.
func statusReason(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}
