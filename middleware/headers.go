package middleware

import "net/http"

// ContentClass selects which security header bundle a response receives.
//
// ContentClass instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ContentClass uint8

const (
	// ClassAPI is an exported constant or variable used by the authorization engine.
	ClassAPI ContentClass = iota + 1
	// ClassWeb is an exported constant or variable used by the authorization engine.
	ClassWeb
	// ClassAdmin is an exported constant or variable used by the authorization engine.
	ClassAdmin
)

// Header values are part of the compatibility contract with deployed
// clients and must not drift.
const (
	webCSP = "default-src 'self'; script-src 'self' https://cdnjs.cloudflare.com; " +
		"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com https://cdnjs.cloudflare.com; " +
		"font-src 'self' https://fonts.gstatic.com https://cdnjs.cloudflare.com; " +
		"img-src 'self' data: https:; connect-src 'self'; frame-ancestors 'none'; " +
		"base-uri 'self'; form-action 'self'"

	// The admin UI ships inline scripts, so its CSP is relaxed relative to
	// the public pages.
	adminCSP = "default-src 'self'; script-src 'self' 'unsafe-inline' 'unsafe-eval'; " +
		"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com; " +
		"font-src 'self' https://fonts.gstatic.com; img-src 'self' data: https: blob:; " +
		"connect-src 'self'; frame-ancestors 'none'; base-uri 'self'"

	hstsValue = "max-age=31536000; includeSubDomains; preload"
)

func applyCommonHeaders(h http.Header) {
	h.Set("X-Frame-Options", "DENY")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-XSS-Protection", "1; mode=block")
	h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
	h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
}

func applyClassHeaders(h http.Header, class ContentClass) {
	applyCommonHeaders(h)

	switch class {
	case ClassAPI:
		h.Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "0")
		h.Set("X-Permitted-Cross-Domain-Policies", "none")
	case ClassWeb:
		h.Set("Content-Security-Policy", webCSP)
		h.Set("Strict-Transport-Security", hstsValue)
	case ClassAdmin:
		h.Set("Content-Security-Policy", adminCSP)
		h.Set("Strict-Transport-Security", hstsValue)
	}
}
