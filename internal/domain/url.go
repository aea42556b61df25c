package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseURL accepts absolute http and https URLs with a host. Anything else
// is an InvalidURL FetchError.
func ParseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, NewFetchError(KindInvalidURL, raw, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	case "":
		return nil, NewFetchError(KindInvalidURL, raw, fmt.Errorf("missing scheme, expected http or https"))
	default:
		return nil, NewFetchError(KindInvalidURL, raw, fmt.Errorf("unsupported scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return nil, NewFetchError(KindInvalidURL, raw, fmt.Errorf("missing host"))
	}
	return u, nil
}
