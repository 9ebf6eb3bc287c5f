package gate

import (
	"path"
	"strings"
)

// Known paths
const (
	PathRoot      = "/"
	PathLogin     = "/login"
	PathDashboard = "/dashboard"
)

// Route is the outcome of resolving a requested path
type Route struct {
	Requested string
	Target    string // Final path after redirects, empty while Pending
	Pending   bool   // The gate is still Checking; show the loading screen
}

// Redirected reports whether Target differs from the requested path
func (r Route) Redirected() bool {
	return !r.Pending && r.Target != r.Requested
}

// Resolve follows redirects from requested until a path renders
func (g *Gate) Resolve(requested string) Route {
	state := g.State()
	if state == Checking {
		return Route{Requested: requested, Pending: true}
	}

	authed := state == Authenticated
	current := cleanPath(requested)
	// Every chain settles within three hops: unknown -> / -> login|dashboard
	for i := 0; i < 4; i++ {
		next := step(current, authed)
		if next == current {
			break
		}
		current = next
	}
	return Route{Requested: requested, Target: current}
}

func step(p string, authed bool) string {
	switch p {
	case PathRoot:
		if authed {
			return PathDashboard
		}
		return PathLogin
	case PathLogin:
		if authed {
			return PathDashboard
		}
		return PathLogin
	case PathDashboard:
		if !authed {
			return PathLogin
		}
		return PathDashboard
	default:
		return PathRoot
	}
}

func cleanPath(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
