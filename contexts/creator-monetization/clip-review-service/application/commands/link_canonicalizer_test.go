package commands

import (
	"errors"
	"testing"

	domainerrors "clipledger/contexts/creator-monetization/clip-review-service/domain/errors"
)

func TestCanonicalizeLink(t *testing.T) {
	cases := []struct {
		name      string
		link      string
		platform  string
		contentID string
	}{
		{"instagram post", "https://www.instagram.com/p/Cabc123/", PlatformInstagram, "Cabc123"},
		{"instagram reel", "https://instagram.com/reel/Cdef456", PlatformInstagram, "Cdef456"},
		{"instagram reel with query noise", "https://www.instagram.com/reel/Cdef456/?utm_source=share&igsh=xyz", PlatformInstagram, "Cdef456"},
		{"youtube watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", PlatformYouTube, "dQw4w9WgXcQ"},
		{"youtube watch with extra params", "https://youtube.com/watch?t=42&v=dQw4w9WgXcQ&feature=share", PlatformYouTube, "dQw4w9WgXcQ"},
		{"youtube shorts", "https://www.youtube.com/shorts/abc987", PlatformYouTube, "abc987"},
		{"youtube short link", "https://youtu.be/dQw4w9WgXcQ", PlatformYouTube, "dQw4w9WgXcQ"},
		{"tiktok video", "https://www.tiktok.com/@somecreator/video/7291234567890123456", PlatformTikTok, "7291234567890123456"},
		{"tiktok share link", "https://vm.tiktok.com/ZMabcdef/", PlatformTikTok, "ZMabcdef"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			platform, contentID, err := CanonicalizeLink(tc.link)
			if err != nil {
				t.Fatalf("canonicalize %q failed: %v", tc.link, err)
			}
			if platform != tc.platform {
				t.Fatalf("expected platform %s, got %s", tc.platform, platform)
			}
			if contentID != tc.contentID {
				t.Fatalf("expected content id %s, got %s", tc.contentID, contentID)
			}
		})
	}
}

func TestCanonicalizeLinkRejectsUnsupported(t *testing.T) {
	links := []string{
		"",
		"https://example.com/watch?v=abc",
		"https://www.instagram.com/somecreator",
		"https://www.youtube.com/channel/UCabc",
		"https://www.tiktok.com/@somecreator",
	}
	for _, link := range links {
		if _, _, err := CanonicalizeLink(link); !errors.Is(err, domainerrors.ErrUnsupportedLink) {
			t.Fatalf("expected unsupported link error for %q, got %v", link, err)
		}
	}
}

func TestCanonicalIDJoinsPlatformAndContent(t *testing.T) {
	if got := CanonicalID(PlatformYouTube, "abc123"); got != "youtube:abc123" {
		t.Fatalf("unexpected canonical id %s", got)
	}
}
