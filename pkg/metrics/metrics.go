package metrics

import "sync/atomic"

var (
	requestsTotal  int64
	cacheHits      int64
	cacheMisses    int64
	upstreamErrors int64
	notFoundTotal  int64
	rateLimited    int64
)

func IncRequests()       { atomic.AddInt64(&requestsTotal, 1) }
func IncCacheHits()      { atomic.AddInt64(&cacheHits, 1) }
func IncCacheMisses()    { atomic.AddInt64(&cacheMisses, 1) }
func IncUpstreamErrors() { atomic.AddInt64(&upstreamErrors, 1) }
func IncNotFound()       { atomic.AddInt64(&notFoundTotal, 1) }
func IncRateLimited()    { atomic.AddInt64(&rateLimited, 1) }

func GetRequests() int64       { return atomic.LoadInt64(&requestsTotal) }
func GetCacheHits() int64      { return atomic.LoadInt64(&cacheHits) }
func GetCacheMisses() int64    { return atomic.LoadInt64(&cacheMisses) }
func GetUpstreamErrors() int64 { return atomic.LoadInt64(&upstreamErrors) }
func GetNotFound() int64       { return atomic.LoadInt64(&notFoundTotal) }
func GetRateLimited() int64    { return atomic.LoadInt64(&rateLimited) }

// Reset zeroes every counter. Test helper.
func Reset() {
	atomic.StoreInt64(&requestsTotal, 0)
	atomic.StoreInt64(&cacheHits, 0)
	atomic.StoreInt64(&cacheMisses, 0)
	atomic.StoreInt64(&upstreamErrors, 0)
	atomic.StoreInt64(&notFoundTotal, 0)
	atomic.StoreInt64(&rateLimited, 0)
}
