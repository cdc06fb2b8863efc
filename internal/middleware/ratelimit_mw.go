package middleware

import (
	"context"
	"net/http"
	"time"

	"loan_portal/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// rateLimitScript makes INCR and EXPIRE atomic and re-arms keys that lost
// their TTL.
// KEYS[1]: counter key
// ARGV[1]: window in seconds
// ARGV[2]: limit
var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
    redis.call("EXPIRE", KEYS[1], ARGV[1])
elseif redis.call("TTL", KEYS[1]) == -1 then
    redis.call("EXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
    return 0
end
return 1
`)

// Interceptor is a fixed-window counter stored in redis.
type Interceptor struct {
	rdb    redis.Scripter
	prefix string
	window time.Duration
	limit  int64
}

func NewInterceptor(rdb redis.Scripter, prefix string, windowSeconds int, limit int64) *Interceptor {
	return &Interceptor{
		rdb:    rdb,
		prefix: prefix,
		window: time.Duration(windowSeconds) * time.Second,
		limit:  limit,
	}
}

// Allow counts one hit for key and reports whether it is within the limit.
func (i *Interceptor) Allow(ctx context.Context, key string) (bool, error) {
	result, err := rateLimitScript.Run(ctx, i.rdb, []string{i.prefix + key}, int(i.window.Seconds()), i.limit).Int64()
	if err != nil {
		return false, err
	}
	return result == 1, nil
}

// KeyFunc picks the identity a request is counted under.
type KeyFunc func(c *gin.Context) string

// PhoneOrIP counts by the submitted phone number, falling back to the
// client address.
func PhoneOrIP(c *gin.Context) string {
	if phone := c.PostForm("phone"); phone != "" {
		return "phone:" + phone
	}
	return "ip:" + c.ClientIP()
}

// RateLimit rejects requests over the interceptor's limit with 429. A nil
// interceptor disables limiting; redis failures let the request through.
func RateLimit(interceptor *Interceptor, key KeyFunc, log *logger.Logger) gin.HandlerFunc {
	log = log.With("middleware", "RateLimit")
	return func(c *gin.Context) {
		if interceptor == nil {
			c.Next()
			return
		}

		k := key(c)
		allowed, err := interceptor.Allow(c.Request.Context(), k)
		if err != nil {
			log.Error("rate limit check failed", "key", k, "error", err)
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"code": http.StatusTooManyRequests, "msg": "请求过于频繁，请稍后再试"})
			return
		}
		c.Next()
	}
}
