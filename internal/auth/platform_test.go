package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectPlatform(t *testing.T) {
	cases := []struct {
		ua   string
		want string
	}{
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0", PlatformWeb},
		{"Mozilla/5.0 (Linux; Android 14; Pixel 8)", PlatformMobile},
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)", PlatformMobile},
		{"Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X)", PlatformMobile},
		{"okhttp/4.12.0", PlatformMobile},
		{"Dart/3.2 (dart:io) flutter", PlatformMobile},
		{"MyApp ReactNative/0.73", PlatformMobile},
		{"vscode-restclient", PlatformMobile},
		{"", PlatformWeb},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, DetectPlatform(tc.ua), "ua=%q", tc.ua)
	}
}
