package cache

import (
	"net/url"
	"strings"
)

// CacheKey appends params to rawUrl with keys sorted, so equal requests share
// a key whatever order their parameters were set in.
func CacheKey(rawUrl string, params url.Values) string {
	if len(params) == 0 {
		return rawUrl
	}
	sep := "?"
	if strings.Contains(rawUrl, "?") {
		sep = "&"
	}
	return rawUrl + sep + params.Encode()
}
