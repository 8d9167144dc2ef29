package middleware

import (
	"net/netip"
	"strings"

	"github.com/gin-gonic/gin"
)

// clientIPHeaders are consulted in order; the first valid address wins.
// X-Forwarded-For contributes its left-most entry.
var clientIPHeaders = []string{"CF-Connecting-IP", "X-Real-IP", "X-Forwarded-For"}

// RealIP stores the client address under "real_ip" for rate limiting and logs,
// falling back to c.ClientIP().
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		for _, h := range clientIPHeaders {
			v := c.GetHeader(h)
			if h == "X-Forwarded-For" {
				v, _, _ = strings.Cut(v, ",")
			}
			if addr, err := netip.ParseAddr(strings.TrimSpace(v)); err == nil {
				ip = addr.Unmap().String()
				break
			}
		}
		c.Set("real_ip", ip)
		c.Next()
	}
}
