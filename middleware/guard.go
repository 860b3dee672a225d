package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"

	webguard "github.com/arinellipar/webguard"
	"github.com/arinellipar/webguard/route"
)

const (
	accessTokenCookie = "access_token"
	loginPath         = "/auth/login"
	dashboardPath     = "/dashboard"
	apiPrefix         = "/api/"
)

// bypassPaths short-circuit the guard entirely. These are the auth-flow
// endpoints themselves: gating them on authentication would be circular.
var bypassPaths = map[string]struct{}{
	"/api/auth/login":               {},
	"/api/auth/register":            {},
	"/api/auth/logout":              {},
	"/api/auth/me":                  {},
	"/api/auth/verify-email":        {},
	"/api/auth/reset-password":      {},
	"/api/auth/resend-verification": {},
	"/api/auth/change-password":     {},
}

var staticAssetExtensions = map[string]struct{}{
	".css": {}, ".js": {}, ".map": {}, ".png": {}, ".jpg": {}, ".jpeg": {},
	".gif": {}, ".svg": {}, ".ico": {}, ".webp": {}, ".avif": {},
	".woff": {}, ".woff2": {}, ".ttf": {}, ".otf": {}, ".txt": {},
}

type authzResultContextKey struct{}

// AuthzResultFromContext returns the authorization result the guard stored
// for the current request, if any.
//
// AuthzResultFromContext does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func AuthzResultFromContext(ctx context.Context) (*webguard.AuthzResult, bool) {
	res, ok := ctx.Value(authzResultContextKey{}).(*webguard.AuthzResult)
	return res, ok
}

type actionKind uint8

const (
	actionBypass actionKind = iota + 1
	actionPass
	actionRedirect
	actionDeny
	actionFailOpen
)

type guardAction struct {
	kind          actionKind
	class         ContentClass
	status        int
	code          string
	message       string
	correlationID string
	target        string
	opts          redirectOptions
	detail        string
	result        *webguard.AuthzResult
}

type guard struct {
	engine     *webguard.Engine
	classifier *route.Classifier
}

// Guard returns the site-wide middleware. It classifies every request path,
// extracts the access token cookie, authorizes against engine, and
// enforces the category's policy. A nil classifier gets the default route
// matrix.
//
// Any panic in the decision pipeline fails open: the request is forwarded
// instead of blocked. This is a deliberate availability-over-strictness
// tradeoff; a guard bug must not take the whole site down.
//
// Guard does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func Guard(engine *webguard.Engine, classifier *route.Classifier) func(http.Handler) http.Handler {
	if classifier == nil {
		classifier = route.NewClassifier(route.DefaultMatrix(), nil)
	}
	g := &guard{engine: engine, classifier: classifier}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if isStaticAsset(path) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := webguard.WithClientIP(r.Context(), clientIP(r))
			r = r.WithContext(ctx)

			action := g.decide(r)

			switch action.kind {
			case actionBypass:
				g.engine.RecordGuardOutcome(ctx, webguard.GuardBypass, path, action.correlationID, "")
				applyClassHeaders(w.Header(), ClassAPI)
				next.ServeHTTP(w, r)

			case actionPass:
				g.engine.RecordGuardOutcome(ctx, webguard.GuardPassThrough, path, action.correlationID, "")
				applyClassHeaders(w.Header(), action.class)
				if action.result != nil && action.result.Authorized {
					r = r.WithContext(context.WithValue(r.Context(), authzResultContextKey{}, action.result))
				}
				next.ServeHTTP(w, r)

			case actionRedirect:
				g.engine.RecordGuardOutcome(ctx, webguard.GuardRedirect, path, action.correlationID, action.target)
				redirect(w, r, action.target, action.opts)

			case actionDeny:
				g.engine.RecordGuardOutcome(ctx, webguard.GuardDenied, path, action.correlationID, action.code)
				writeError(w, action.status, action.code, action.message, action.correlationID, nil)

			default: // actionFailOpen
				g.engine.RecordGuardOutcome(ctx, webguard.GuardFailOpen, path, action.correlationID, action.detail)
				applyClassHeaders(w.Header(), ClassWeb)
				next.ServeHTTP(w, r)
			}
		})
	}
}

// decide runs BYPASS_CHECK → CLASSIFY → EXTRACT_TOKEN → AUTHENTICATE →
// ENFORCE and returns the action for RESPOND. The deferred recover maps
// any panic to the fail-open action.
func (g *guard) decide(r *http.Request) (action guardAction) {
	defer func() {
		if rec := recover(); rec != nil {
			action = guardAction{kind: actionFailOpen, detail: fmt.Sprint(rec)}
		}
	}()

	path := r.URL.Path

	if _, ok := bypassPaths[path]; ok {
		return guardAction{kind: actionBypass}
	}

	if g.engine == nil {
		return guardAction{kind: actionFailOpen, detail: "engine not configured"}
	}

	category, classified := g.classifier.Classify(path)

	if classified && category == route.CategoryPublicAPI {
		return guardAction{kind: actionPass, class: ClassAPI}
	}

	var token string
	if cookie, err := r.Cookie(accessTokenCookie); err == nil {
		token = cookie.Value
	}

	var userResult *webguard.AuthzResult
	authenticated := false
	if token != "" {
		userResult = g.engine.Authorize(r.Context(), token, webguard.LevelUser)
		authenticated = userResult.Authorized
	}

	isAPI := strings.HasPrefix(path, apiPrefix)

	if !classified {
		// Unclassified API routes default-deny; unclassified pages pass.
		if isAPI && !authenticated {
			return guardAction{
				kind:          actionDeny,
				status:        http.StatusUnauthorized,
				code:          webguard.CodeAuthenticationRequired,
				message:       "Authentication required",
				correlationID: denialCorrelationID(userResult),
			}
		}
		return passAction(path, isAPI, userResult)
	}

	switch category {
	case route.CategoryProtected:
		if !authenticated {
			if isAPI {
				return guardAction{
					kind:          actionDeny,
					status:        http.StatusUnauthorized,
					code:          webguard.CodeAuthenticationRequired,
					message:       "Authentication required",
					correlationID: denialCorrelationID(userResult),
				}
			}
			return guardAction{
				kind:          actionRedirect,
				target:        loginRedirectTarget(path),
				correlationID: denialCorrelationID(userResult),
			}
		}

	case route.CategoryAdminOnly:
		// Fresh ADMIN-level check, independent of the USER-level result.
		adminResult := g.engine.Authorize(r.Context(), token, webguard.LevelAdmin)
		if !adminResult.Authorized {
			if isAPI {
				return guardAction{
					kind:          actionDeny,
					status:        statusForCode(adminResult.Code),
					code:          adminResult.Code,
					message:       adminResult.Message,
					correlationID: adminResult.CorrelationID,
				}
			}
			if authenticated {
				// Logged in but not an admin: send home and clear cached
				// admin UI state.
				return guardAction{
					kind:          actionRedirect,
					target:        "/",
					opts:          redirectOptions{highSecurity: true},
					correlationID: adminResult.CorrelationID,
				}
			}
			return guardAction{
				kind:          actionRedirect,
				target:        loginRedirectTarget(path),
				correlationID: adminResult.CorrelationID,
			}
		}
		userResult = adminResult

	case route.CategoryAuthRestricted:
		if authenticated {
			target := "/"
			if userResult.Payload != nil && userResult.Payload.Role == webguard.RoleAdmin {
				target = dashboardPath
			}
			return guardAction{
				kind:          actionRedirect,
				target:        target,
				correlationID: userResult.CorrelationID,
			}
		}
	}

	return passAction(path, isAPI, userResult)
}

func passAction(path string, isAPI bool, result *webguard.AuthzResult) guardAction {
	class := ClassWeb
	switch {
	case isAPI:
		class = ClassAPI
	case path == dashboardPath || strings.HasPrefix(path, dashboardPath+"/"):
		class = ClassAdmin
	}

	action := guardAction{kind: actionPass, class: class, result: result}
	if result != nil {
		action.correlationID = result.CorrelationID
	}
	return action
}

// denialCorrelationID reuses the engine's correlation id when a token was
// checked, otherwise mints one so the denial is still traceable.
func denialCorrelationID(result *webguard.AuthzResult) string {
	if result != nil {
		return result.CorrelationID
	}
	return uuid.NewString()
}

func statusForCode(code string) int {
	switch code {
	case webguard.CodeInsufficientPrivileges:
		return http.StatusForbidden
	case webguard.CodeAuthError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusUnauthorized
	}
}

func isStaticAsset(path string) bool {
	if strings.HasPrefix(path, "/_next/static/") || strings.HasPrefix(path, "/_next/image") {
		return true
	}
	if path == "/favicon.ico" {
		return true
	}

	if dot := strings.LastIndexByte(path, '.'); dot >= 0 && !strings.ContainsRune(path[dot:], '/') {
		_, ok := staticAssetExtensions[strings.ToLower(path[dot:])]
		return ok
	}
	return false
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
