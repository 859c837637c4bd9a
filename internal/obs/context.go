package obs

import "context"

type routeKey struct{}

// WithRoutePattern records the chi route template on the context so the HTTP
// metrics and spans label by pattern ("/api/v1/videos/{id}") instead of the
// raw path, which would explode cardinality with every video id.
func WithRoutePattern(ctx context.Context, pattern string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, routeKey{}, pattern)
}

// RoutePatternFromContext returns the recorded route template, or "" when the
// request never matched a route.
func RoutePatternFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	pattern, _ := ctx.Value(routeKey{}).(string)
	return pattern
}
