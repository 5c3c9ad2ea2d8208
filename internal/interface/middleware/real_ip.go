package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// CtxRealIPKey is where RealIP leaves the resolved client address for
// downstream handlers and the rate limiter.
const CtxRealIPKey = "real_ip"

// RealIP resolves the client address once per request. The API sits
// behind a single reverse proxy, so the left-most X-Forwarded-For hop
// is the client; X-Real-IP is accepted as the proxy's shorthand.
// Anything unparseable falls through to gin's own resolution.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ip := firstForwardedIP(c.GetHeader("X-Forwarded-For")); ip != "" {
			c.Set(CtxRealIPKey, ip)
			c.Next()
			return
		}
		if xr := strings.TrimSpace(c.GetHeader("X-Real-IP")); xr != "" {
			if ip := net.ParseIP(xr); ip != nil {
				c.Set(CtxRealIPKey, ip.String())
				c.Next()
				return
			}
		}
		c.Set(CtxRealIPKey, c.ClientIP())
		c.Next()
	}
}

func firstForwardedIP(xff string) string {
	if xff == "" {
		return ""
	}
	first, _, _ := strings.Cut(xff, ",")
	if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
		return ip.String()
	}
	return ""
}
