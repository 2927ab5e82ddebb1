package middleware

import (
	"fmt"
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// RoutePolicy records which named routes require a verified token.
type RoutePolicy struct {
	protected map[string]struct{}
	guard     fiber.Handler
}

// NewRoutePolicy builds a policy from route names. Every name must appear in
// known so that typos cannot silently leave a route open.
func NewRoutePolicy(protected []string, known []string, guard fiber.Handler) (*RoutePolicy, error) {
	knownSet := make(map[string]struct{}, len(known))
	for _, name := range known {
		knownSet[name] = struct{}{}
	}

	policy := &RoutePolicy{protected: make(map[string]struct{}, len(protected)), guard: guard}
	for _, name := range protected {
		if _, ok := knownSet[name]; !ok {
			return nil, fmt.Errorf("unknown route %q in protected routes", name)
		}
		policy.protected[name] = struct{}{}
	}

	return policy, nil
}

// Protected reports whether the named route is gated.
func (p *RoutePolicy) Protected(name string) bool {
	if p == nil {
		return false
	}
	_, ok := p.protected[name]
	return ok
}

// Wrap prepends the guard when the route is protected.
func (p *RoutePolicy) Wrap(name string, handler fiber.Handler) []fiber.Handler {
	if p.Protected(name) && p.guard != nil {
		return []fiber.Handler{p.guard, handler}
	}
	return []fiber.Handler{handler}
}

// Log writes one line per route so the effective policy can be audited.
func (p *RoutePolicy) Log(logger zerolog.Logger, routes []string) {
	names := append([]string(nil), routes...)
	sort.Strings(names)
	for _, name := range names {
		logger.Info().Str("route", name).Bool("protected", p.Protected(name)).Msg("route policy")
	}
}
