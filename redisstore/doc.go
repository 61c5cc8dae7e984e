// Package redisstore provides Redis-backed implementations of the token
// persistence models. Records are small JSON blobs keyed by the token
// they answer lookups for; a missing key maps to the models' (nil, nil)
// not-found convention.
package redisstore
