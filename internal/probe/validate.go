package probe

import (
	"net"
	"net/url"
	"regexp"
	"strings"
)

const maxHostLength = 253

var (
	hostPattern    = regexp.MustCompile(`^[A-Za-z0-9_]([A-Za-z0-9_-]{0,61}[A-Za-z0-9])?(\.[A-Za-z0-9_]([A-Za-z0-9_-]{0,61}[A-Za-z0-9])?)*\.?$`)
	servicePattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)
	pathPattern    = regexp.MustCompile(`^/[A-Za-z0-9._~/-]*$`)
)

// ValidateHost rejects anything a tool could read as an option, such as a
// leading '-'.
func ValidateHost(host string) error {
	if host == "" {
		return ValidationError("hostname is empty")
	}
	if net.ParseIP(host) != nil {
		return nil
	}
	if len(host) > maxHostLength || !hostPattern.MatchString(host) {
		return ValidationError("invalid hostname %q", host)
	}
	return nil
}

func ValidateServiceName(name string) error {
	if name == "" {
		return ValidationError("service name is empty")
	}
	if !servicePattern.MatchString(name) {
		return ValidationError("invalid service name %q", name)
	}
	return nil
}

func ValidatePath(path string) error {
	if path == "" {
		return nil
	}
	if !pathPattern.MatchString(path) {
		return ValidationError("invalid path %q", path)
	}
	return nil
}

func ValidateURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, ValidationError("invalid url %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ValidationError("unsupported url scheme %q", u.Scheme)
	}
	if u.User != nil {
		return nil, ValidationError("url must not carry credentials")
	}
	if err := ValidateHost(u.Hostname()); err != nil {
		return nil, err
	}
	if err := ValidatePath(u.EscapedPath()); err != nil {
		return nil, err
	}
	return u, nil
}

func isURL(target string) bool {
	return strings.Contains(target, "://")
}
