package messaging

type ChangeTopic string

const (
	ContentUrlsChanged ChangeTopic = "content_urls"
	CacheInvalidated   ChangeTopic = "cache_invalidate"
	Tracking           ChangeTopic = "tracking"
)
