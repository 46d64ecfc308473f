package gcs

import "testing"

func TestPublicURL(t *testing.T) {
	cases := []struct {
		name   string
		client Client
		key    string
		want   string
	}{
		{
			name:   "default host",
			client: Client{bucket: "redcarpet"},
			key:    "/pwa-icons/icon-192.png",
			want:   "https://storage.googleapis.com/redcarpet/pwa-icons/icon-192.png",
		},
		{
			name:   "cdn base",
			client: Client{bucket: "redcarpet", publicBaseURL: "https://cdn.example.com"},
			key:    "pwa-icons/icon-72-maskable.webp",
			want:   "https://cdn.example.com/pwa-icons/icon-72-maskable.webp",
		},
		{
			name:   "emulator",
			client: Client{bucket: "redcarpet", emulatorHost: "http://localhost:4443"},
			key:    "pwa-icons/icon-96.png",
			want:   "http://localhost:4443/storage/v1/b/redcarpet/o/pwa-icons%2Ficon-96.png?alt=media",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.client.PublicURL(tc.key); got != tc.want {
				t.Fatalf("PublicURL(%q) = %q, want %q", tc.key, got, tc.want)
			}
		})
	}
}

func TestPublicURLIsStableAcrossCalls(t *testing.T) {
	c := Client{bucket: "redcarpet"}
	if c.PublicURL("icon-512.png") != c.PublicURL("icon-512.png") {
		t.Fatal("public url should be deterministic for a key")
	}
}

func TestNilClientHelpers(t *testing.T) {
	var c *Client
	if err := c.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}
