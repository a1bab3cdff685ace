package auth

import "strings"

// Client platforms. Web clients receive the capability token as an
// http-only cookie; everything else gets it in the response body.
const (
	PlatformWeb    = "web"
	PlatformMobile = "mobile"
)

var mobileMarkers = []string{
	"android",
	"iphone",
	"ipad",
	"mobile",
	"okhttp",
	"flutter",
	"reactnative",
	"wv",
	"vscode",
}

// DetectPlatform classifies a client from its User-Agent header.
func DetectPlatform(userAgent string) string {
	ua := strings.ToLower(userAgent)
	for _, marker := range mobileMarkers {
		if strings.Contains(ua, marker) {
			return PlatformMobile
		}
	}
	return PlatformWeb
}
