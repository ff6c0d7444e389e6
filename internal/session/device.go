package session

import (
	"fmt"

	"github.com/mssola/useragent"
)

// ParseUserAgent turns a raw User-Agent header into a short display name for
// the session ("Chrome on Mac OS X"). Sessions are destroyed on account
// change; the device name makes the audit trail legible when that happens.
func ParseUserAgent(raw string) string {
	if raw == "" {
		return "Unknown Device"
	}
	ua := useragent.New(raw)
	browser, _ := ua.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}
	os := ua.OSInfo().Name
	if os == "" {
		os = "Unknown OS"
	}
	return fmt.Sprintf("%s on %s", browser, os)
}
