package commands

import (
	"net/url"
	"strings"

	domainerrors "clipledger/contexts/creator-monetization/clip-review-service/domain/errors"
)

const (
	PlatformInstagram = "instagram"
	PlatformYouTube   = "youtube"
	PlatformTikTok    = "tiktok"
)

// CanonicalizeLink classifies a submitted URL by host and extracts the
// platform-native content id. Duplicate detection compares these canonical ids
// rather than raw URLs, so query noise never bypasses it.
func CanonicalizeLink(rawURL string) (string, string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", "", domainerrors.ErrUnsupportedLink
	}
	host := strings.ToLower(strings.TrimSpace(parsed.Host))
	segments := splitPathSegments(parsed.Path)

	switch {
	case strings.Contains(host, "instagram.com"):
		return parseInstagram(segments)
	case strings.Contains(host, "youtu.be"):
		return parseYouTubeShortLink(segments)
	case strings.Contains(host, "youtube.com"):
		return parseYouTube(parsed.Query().Get("v"), segments)
	case strings.Contains(host, "tiktok.com"):
		return parseTikTok(host, segments)
	default:
		return "", "", domainerrors.ErrUnsupportedLink
	}
}

// CanonicalID joins platform and content id into the stored dedup key.
func CanonicalID(platform string, contentID string) string {
	return platform + ":" + contentID
}

func parseInstagram(segments []string) (string, string, error) {
	if len(segments) >= 2 && (segments[0] == "p" || segments[0] == "reel") {
		return PlatformInstagram, segments[1], nil
	}
	return "", "", domainerrors.ErrUnsupportedLink
}

func parseYouTube(queryVideoID string, segments []string) (string, string, error) {
	if strings.TrimSpace(queryVideoID) != "" {
		return PlatformYouTube, strings.TrimSpace(queryVideoID), nil
	}
	if len(segments) >= 2 && segments[0] == "shorts" {
		return PlatformYouTube, segments[1], nil
	}
	return "", "", domainerrors.ErrUnsupportedLink
}

func parseYouTubeShortLink(segments []string) (string, string, error) {
	if len(segments) >= 1 {
		return PlatformYouTube, segments[0], nil
	}
	return "", "", domainerrors.ErrUnsupportedLink
}

func parseTikTok(host string, segments []string) (string, string, error) {
	if len(segments) >= 3 && strings.HasPrefix(segments[0], "@") && segments[1] == "video" {
		return PlatformTikTok, segments[2], nil
	}
	if strings.Contains(host, "vm.tiktok.com") && len(segments) >= 1 {
		return PlatformTikTok, segments[0], nil
	}
	return "", "", domainerrors.ErrUnsupportedLink
}

func splitPathSegments(rawPath string) []string {
	parts := strings.Split(strings.Trim(strings.TrimSpace(rawPath), "/"), "/")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
