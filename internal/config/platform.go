package config

import "git.home.luguber.info/inful/pluginlit/internal/foundation/normalization"

// Platform identifies a native build target.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformWebGL   Platform = "webgl"
)

var platformNormalizer = normalization.NewNormalizer("platform", map[string]Platform{
	"android": PlatformAndroid,
	"ios":     PlatformIOS,
	"iphone":  PlatformIOS,
	"webgl":   PlatformWebGL,
}, PlatformAndroid)

// NormalizePlatform maps a loosely written platform name onto a Platform.
// Empty input selects Android.
func NormalizePlatform(raw string) (Platform, error) {
	return platformNormalizer.NormalizeWithError(raw)
}

// Platforms lists the accepted platform spellings.
func Platforms() []string {
	return platformNormalizer.ValidKeys()
}

// DisplayName returns the platform name reported in build results.
func (p Platform) DisplayName() string {
	switch p {
	case PlatformAndroid:
		return "Android"
	case PlatformIOS:
		return "iOS"
	case PlatformWebGL:
		return "WebGL"
	default:
		return string(p)
	}
}
