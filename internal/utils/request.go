package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/unicode/norm"
)

// AuthCookie is the cookie that carries the storefront session token.
const AuthCookie = "auth-token"

// AuthToken returns the caller's token from the auth-token cookie or a Bearer
// Authorization header, in that order.
func AuthToken(c *gin.Context) string {
	if token, err := c.Cookie(AuthCookie); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// NormalizeQuery trims a search query and folds it to NFC so visually equal
// Thai and accented input hits the same results.
func NormalizeQuery(q string) string {
	return norm.NFC.String(strings.TrimSpace(q))
}

// ResolveAssetURL makes an image URL absolute against origin. data: URIs and
// http(s) URLs are returned untouched.
func ResolveAssetURL(origin, raw string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "data:image/") || strings.HasPrefix(raw, "http") {
		return raw
	}
	origin = strings.TrimRight(origin, "/")
	if strings.HasPrefix(raw, "/") {
		return origin + raw
	}
	return origin + "/" + raw
}
