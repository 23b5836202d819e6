package validation

import (
	"net/url"
	"slices"
	"strings"

	"smartcare/internal/queue"
)

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	// Parse the URL
	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	// Check scheme - only allow http and https
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	// Ensure host is present
	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// ValidateCaseStatus checks that status is one a doctor may set.
func ValidateCaseStatus(status string) bool {
	return slices.Contains(queue.Statuses, status)
}

// ValidateRedirectTarget checks that a feature redirect stays on this site:
// an absolute path, optionally with a fragment, and never protocol-relative.
func ValidateRedirectTarget(target string) bool {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return false
	}
	u, err := url.Parse(target)
	return err == nil && u.Scheme == "" && u.Host == ""
}
