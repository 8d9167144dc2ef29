package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPublicIDFromURL(t *testing.T) {
	cases := map[string]string{
		"https://storage.googleapis.com/bucket/news_images/3f2a.jpg": "3f2a",
		"https://cdn.example.com/news_images/abc.def.png?version=2":  "abc.def",
		"https://cdn.example.com/profile_images/no-extension":        "no-extension",
		"news_images/plain.webp":                                     "plain",
		"":                                                           "",
	}
	for in, want := range cases {
		assert.Equal(t, want, PublicIDFromURL(in), "input %q", in)
	}
}

func TestFormatDisplayDate(t *testing.T) {
	assert.Equal(t, "March 4, 2025", FormatDisplayDate(mustDate(2025, 3, 4)))
}

func mustDate(y, m, d int) (t time.Time) {
	return time.Date(y, time.Month(m), d, 12, 0, 0, 0, time.UTC)
}
