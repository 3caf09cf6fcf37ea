package transcript

import (
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	apperrors "yt-transcript/internal/app/errors"
)

var validate = validator.New()

// NormalizeVideoURL checks raw against the allowed video hosts and returns the
// URL that should be handed to the downloader. A missing scheme is read as
// https so "youtu.be/abc123" is accepted.
func NormalizeVideoURL(raw string, allowedHosts []string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", apperrors.ErrVideoURLRequired
	}
	if !hasScheme(candidate) {
		candidate = "https://" + candidate
	}

	if err := validate.Var(candidate, "url"); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrUnsupportedVideoURL)
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrUnsupportedVideoURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", apperrors.ErrUnsupportedVideoURL
	}
	if !IsAllowedHost(u.Hostname(), allowedHosts) {
		return "", apperrors.ErrUnsupportedVideoURL
	}

	return candidate, nil
}

// hasScheme reports whether s starts with "<scheme>://". A "://" later in the
// URL, such as inside a query value, does not count.
func hasScheme(s string) bool {
	i := strings.Index(s, "://")
	if i <= 0 {
		return false
	}
	for j, r := range s[:i] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case j > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

// IsAllowedHost reports whether host is one of allowedHosts or a subdomain of one.
func IsAllowedHost(host string, allowedHosts []string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" {
		return false
	}
	return lo.SomeBy(allowedHosts, func(domain string) bool {
		domain = strings.ToLower(strings.TrimSpace(domain))
		if domain == "" {
			return false
		}
		return host == domain || strings.HasSuffix(host, "."+domain)
	})
}
