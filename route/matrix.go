package route

// Category defines a public type used by webguard APIs.
//
// Category instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Category uint8

const (
	// CategoryPublicAPI is an exported constant or variable used by the guard.
	CategoryPublicAPI Category = iota + 1
	// CategoryAdminOnly is an exported constant or variable used by the guard.
	CategoryAdminOnly
	// CategoryProtected is an exported constant or variable used by the guard.
	CategoryProtected
	// CategoryAuthRestricted is an exported constant or variable used by the guard.
	CategoryAuthRestricted
	// CategoryPublicContent is an exported constant or variable used by the guard.
	CategoryPublicContent
)

// String describes the string operation and its observable behavior.
func (c Category) String() string {
	switch c {
	case CategoryPublicAPI:
		return "publicApi"
	case CategoryAdminOnly:
		return "adminOnly"
	case CategoryProtected:
		return "protected"
	case CategoryAuthRestricted:
		return "authRestricted"
	case CategoryPublicContent:
		return "publicContent"
	default:
		return "unclassified"
	}
}

// Matrix is the static route security table. It maps each category to its
// path patterns: literal paths, "/*" wildcard prefixes, and dynamic-segment
// patterns ("[param]" or ":param"). Loaded once at process start and
// immutable at runtime.
type Matrix struct {
	PublicAPI      []string
	AdminOnly      []string
	Protected      []string
	AuthRestricted []string
	PublicContent  []string
}

// DefaultMatrix returns the route table of the publishing application the
// guard fronts: marketing pages, the blog, the editorial dashboard, and the
// REST API namespaces.
//
// DefaultMatrix does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultMatrix() Matrix {
	return Matrix{
		PublicAPI: []string{
			"/api/auth/*",
			"/api/posts",
			"/api/posts/[slug]",
			"/api/categories",
			"/api/categories/[slug]",
			"/api/tags",
			"/api/tags/[slug]",
			"/api/comments",
			"/api/search",
			"/api/contact",
		},
		AdminOnly: []string{
			"/dashboard",
			"/dashboard/*",
			"/api/admin/*",
			"/api/upload",
		},
		Protected: []string{
			"/profile",
			"/profile/*",
			"/settings",
			"/api/profile",
			"/api/profile/*",
		},
		AuthRestricted: []string{
			"/auth/login",
			"/auth/register",
			"/auth/forgot-password",
			"/auth/reset-password",
			"/auth/verify-email",
		},
		PublicContent: []string{
			"/",
			"/blog",
			"/blog/[slug]",
			"/blog/category/[slug]",
			"/blog/tag/[slug]",
			"/about",
			"/services",
			"/services/[slug]",
			"/team",
			"/contact",
			"/privacy",
			"/terms",
		},
	}
}
