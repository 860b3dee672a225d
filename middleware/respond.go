package middleware

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

type errorPayload struct {
	Code          string         `json:"code"`
	Message       string         `json:"message"`
	CorrelationID string         `json:"correlationId"`
	Timestamp     string         `json:"timestamp"`
	Details       map[string]any `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error errorPayload `json:"error"`
}

// writeError emits the structured denial body with the API header bundle.
// Details must already be scrubbed of sensitive values by the caller.
func writeError(w http.ResponseWriter, status int, code, message, correlationID string, details map[string]any) {
	applyClassHeaders(w.Header(), ClassAPI)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(errorEnvelope{
		Error: errorPayload{
			Code:          code,
			Message:       message,
			CorrelationID: correlationID,
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
			Details:       details,
		},
	})
}

type redirectOptions struct {
	// preserveQuery carries the original request's query string over to
	// the target.
	preserveQuery bool
	// highSecurity adds cache-busting and Clear-Site-Data for redirects
	// issued on privilege denials.
	highSecurity bool
}

func redirect(w http.ResponseWriter, r *http.Request, target string, opts redirectOptions) {
	u, err := url.Parse(target)
	if err != nil {
		u = &url.URL{Path: "/"}
	}

	if opts.preserveQuery && r.URL.RawQuery != "" {
		q := u.Query()
		for key, values := range r.URL.Query() {
			for _, value := range values {
				q.Add(key, value)
			}
		}
		u.RawQuery = q.Encode()
	}

	applyCommonHeaders(w.Header())
	if opts.highSecurity {
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Clear-Site-Data", `"cache", "storage"`)
	}

	http.Redirect(w, r, u.String(), http.StatusTemporaryRedirect)
}

// loginRedirectTarget builds the login URL carrying the original path as a
// return target.
func loginRedirectTarget(originalPath string) string {
	q := url.Values{}
	q.Set("redirect", originalPath)
	return loginPath + "?" + q.Encode()
}
