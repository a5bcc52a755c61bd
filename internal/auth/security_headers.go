package auth

import "github.com/gin-gonic/gin"

// SecurityHeadersMiddleware adds security headers to all responses. Photos
// and recordings are served as data: and blob: URLs, and the page needs the
// microphone for voice entries.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "same-origin")

		c.Header("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self'; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data:; "+
				"media-src 'self' data: blob:; "+
				"connect-src 'self'; "+
				"frame-ancestors 'none'; "+
				"form-action 'self'")

		c.Header("Permissions-Policy",
			"camera=(), "+
				"geolocation=(), "+
				"microphone=(self), "+
				"payment=(), "+
				"usb=()")

		c.Next()
	}
}
