package utils

import (
	"regexp"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"My First Post", "my-first-post"},
		{"  Spaces   everywhere  ", "spaces-everywhere"},
		{"Hello, World!", "hello-world"},
		{"C++ & Go: a comparison", "c-go-a-comparison"},
		{"Already-Slugged", "already-slugged"},
		{"123 Numbers 456", "123-numbers-456"},
		{"___", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPostSlug(t *testing.T) {
	got := PostSlug("My First Post!")
	if ok, _ := regexp.MatchString(`^my-first-post-\d+$`, got); !ok {
		t.Fatalf("PostSlug = %q, want my-first-post-<unix seconds>", got)
	}
}
