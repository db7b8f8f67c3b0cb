package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// CacheConfig defines settings for the response cache middleware applied
// to the public offer browse/search routes. When Enabled is false or no
// Redis client is available, caching is disabled. Only the listed HTTP
// methods are cached and responses above MaxBodyBytes are skipped.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int64
}

// LoadCacheConfig builds a CacheConfig from environment variables:
//   CACHE_ENABLED        – "true"/"1" to enable (default off)
//   CACHE_TTL_SECONDS    – entry lifetime (default 30)
//   CACHE_PREFIX         – key namespace (default "bookshare:cache")
//   CACHE_MAX_BODY_BYTES – largest response body to cache (default 1 MiB)
//   CACHE_METHODS        – comma-separated methods (default "GET")
func LoadCacheConfig() CacheConfig {
	enabled := false
	if v := os.Getenv("CACHE_ENABLED"); strings.EqualFold(v, "true") || v == "1" {
		enabled = true
	}

	ttl := 30 * time.Second
	if v := os.Getenv("CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttl = time.Duration(n) * time.Second
		}
	}

	prefix := os.Getenv("CACHE_PREFIX")
	if prefix == "" {
		prefix = "bookshare:cache"
	}

	maxBody := int64(1 << 20)
	if v := os.Getenv("CACHE_MAX_BODY_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			maxBody = n
		}
	}

	methods := map[string]bool{"GET": true}
	if v := os.Getenv("CACHE_METHODS"); v != "" {
		methods = map[string]bool{}
		for _, m := range strings.Split(v, ",") {
			m = strings.ToUpper(strings.TrimSpace(m))
			if m != "" {
				methods[m] = true
			}
		}
	}

	return CacheConfig{
		Enabled:      enabled,
		Methods:      methods,
		TTL:          ttl,
		Prefix:       prefix,
		MaxBodyBytes: maxBody,
	}
}
