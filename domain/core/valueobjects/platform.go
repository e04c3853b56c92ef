package valueobjects

import (
	"fmt"
	"strings"
)

// Platform identifies a social network target for a post
type Platform string

const (
	PlatformInstagram      Platform = "instagram"
	PlatformFacebook       Platform = "facebook"
	PlatformTikTok         Platform = "tiktok"
	PlatformTwitter        Platform = "twitter"
	PlatformReddit         Platform = "reddit"
	PlatformTelegram       Platform = "telegram"
	PlatformThreads        Platform = "threads"
	PlatformYouTube        Platform = "youtube"
	PlatformBluesky        Platform = "bluesky"
	PlatformGoogleBusiness Platform = "googlebusiness"
)

var knownPlatforms = map[Platform]bool{
	PlatformInstagram:      true,
	PlatformFacebook:       true,
	PlatformTikTok:         true,
	PlatformTwitter:        true,
	PlatformReddit:         true,
	PlatformTelegram:       true,
	PlatformThreads:        true,
	PlatformYouTube:        true,
	PlatformBluesky:        true,
	PlatformGoogleBusiness: true,
}

// ParsePlatform normalizes and validates a platform identifier
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !knownPlatforms[p] {
		return "", fmt.Errorf("unknown platform: %q", s)
	}
	return p, nil
}

// IsValid reports whether the platform is a known identifier
func (p Platform) IsValid() bool {
	return knownPlatforms[p]
}

// String returns the wire identifier of the platform
func (p Platform) String() string {
	return string(p)
}

// ParsePlatforms normalizes a list of identifiers, dropping duplicates
// while preserving first-seen order
func ParsePlatforms(names []string) ([]Platform, error) {
	seen := make(map[Platform]bool, len(names))
	platforms := make([]Platform, 0, len(names))
	for _, name := range names {
		p, err := ParsePlatform(name)
		if err != nil {
			return nil, err
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		platforms = append(platforms, p)
	}
	return platforms, nil
}
