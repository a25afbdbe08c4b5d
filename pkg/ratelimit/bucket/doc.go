// Package bucket implements a token bucket limiter refilled by logical time.
package bucket
