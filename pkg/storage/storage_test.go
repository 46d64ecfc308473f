package storage

import "testing"

func TestJoinKey(t *testing.T) {
	cases := []struct {
		parts []string
		want  string
	}{
		{parts: []string{"pwa-icons", "icon-192.png"}, want: "pwa-icons/icon-192.png"},
		{parts: []string{"/media/", "", "product", "a.png"}, want: "media/product/a.png"},
		{parts: []string{"", "icon-72-maskable.webp"}, want: "icon-72-maskable.webp"},
	}
	for _, tc := range cases {
		if got := JoinKey(tc.parts...); got != tc.want {
			t.Fatalf("JoinKey(%v) = %q, want %q", tc.parts, got, tc.want)
		}
	}
}

func TestContentTypeForKey(t *testing.T) {
	cases := map[string]string{
		"icon-192.png":           "image/png",
		"icon-192-maskable.WEBP": "image/webp",
		"clip.mov?x=1":           "video/quicktime",
		"blob":                   "application/octet-stream",
	}
	for key, want := range cases {
		if got := ContentTypeForKey(key); got != want {
			t.Fatalf("ContentTypeForKey(%q) = %q, want %q", key, got, want)
		}
	}
}
