package provider

import (
	"fmt"
	"net/http"
	"net/url"

	"codesensei/internal/errdefs"
)

// ClassifyStatus maps a non-2xx backend response to the error taxonomy.
// 401/403 is a rejected credential, 429 a rate limit, other 4xx a
// malformed request; anything else is treated as a connection-level
// failure on the backend side.
func ClassifyStatus(backend string, status int, body []byte) error {
	detail := fmt.Sprintf("%s API error %d: %s", backend, status, truncate(body, 200))
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return errdefs.New(errdefs.KindAuthentication, detail,
			"check your API key with 'codesensei configure'")
	case status == http.StatusTooManyRequests:
		return errdefs.New(errdefs.KindRateLimit, detail,
			"wait a moment and try again")
	case status >= 400 && status < 500:
		return errdefs.New(errdefs.KindBadRequest, detail, "")
	default:
		return errdefs.New(errdefs.KindConnection, detail,
			"the provider may be having issues; try again shortly")
	}
}

// ClassifyTransportError maps a failed HTTP round trip to either a
// network error (endpoint unreachable) or a connection error, using a
// lightweight TCP probe to tell the two apart.
func ClassifyTransportError(backend, baseURL string, err error) error {
	if u, parseErr := url.Parse(baseURL); parseErr == nil && u.Host != "" {
		host := u.Host
		if u.Port() == "" {
			host += ":443"
		}
		if !errdefs.Reachable(host) {
			return errdefs.Wrap(errdefs.KindNetwork, err,
				"cannot reach "+backend,
				"check your internet connection")
		}
	}
	return errdefs.Wrap(errdefs.KindConnection, err,
		"request to "+backend+" failed",
		"try again shortly")
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
