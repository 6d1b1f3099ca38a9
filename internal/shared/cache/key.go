package cache

import "strings"

// Key builds a deterministic cache key: namespace plus every parameter that
// affects the result set, in a fixed order, separated by ':'. Empty parameters
// stay as empty segments so logically identical queries always produce the
// same key and different queries never collide.
func Key(namespace string, parts ...string) string {
	if len(parts) == 0 {
		return namespace
	}
	return namespace + ":" + strings.Join(parts, ":")
}

// Pattern is the wildcard covering every key under a namespace, used for
// invalidation after writes.
func Pattern(namespace string) string {
	return namespace + ":*"
}
