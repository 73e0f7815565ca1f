// Package query holds the parameters sent to the remote case-search endpoint.
package query

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
)

// DefaultCacheMaxAgeHours is the upstream cache hint sent with every search.
const DefaultCacheMaxAgeHours = 24

// Query is a remote search request. MinRelevance is a fraction in [0,1].
type Query struct {
	Term             string
	Page             int
	PageSize         int
	Court            string
	Year             string
	MinRelevance     *float64
	UseCache         bool
	CacheMaxAgeHours int
}

// Values encodes the query string. Optional filters are omitted when unset.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("search_term", q.Term)
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("page_size", strconv.Itoa(q.PageSize))
	if q.Court != "" {
		v.Set("court_filter", q.Court)
	}
	if q.Year != "" {
		v.Set("year_filter", q.Year)
	}
	if q.MinRelevance != nil {
		v.Set("min_relevance", strconv.FormatFloat(*q.MinRelevance, 'f', -1, 64))
	}
	v.Set("use_cache", strconv.FormatBool(q.UseCache))
	v.Set("cache_max_age_hours", strconv.Itoa(q.CacheMaxAgeHours))
	return v
}

// CacheKey is a stable digest of the encoded query.
func (q Query) CacheKey() string {
	h := sha256.Sum256([]byte(q.Values().Encode()))
	return hex.EncodeToString(h[:])
}
