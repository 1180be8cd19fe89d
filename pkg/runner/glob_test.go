package runner

import "testing"

func TestMatchGlob(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		pattern string
		want    bool
	}{
		{"vendor", "vendor/**", true},
		{"vendor/a/b.md", "vendor/**", true},
		{"docs/vendor/b.md", "vendor/**", false},
		{"docs/vendor/b.md", "**/vendor/**", true},
		{"a/b/c.md", "a/**/c.md", true},
		{"a/c.md", "a/**/c.md", true},
		{"a/b/c.txt", "a/**/c.md", false},
		{"deep/dir/notes.txt", "*.txt", true},
		{"deep/dir/notes.md", "*.txt", false},
		{"docs/a.md", "docs/*.md", true},
		{"docs/sub/a.md", "docs/*.md", false},
		{"anything", "**", true},
		{"a.md", "[a-", false},
	}

	for _, testCase := range tests {
		if got := matchGlob(testCase.path, testCase.pattern); got != testCase.want {
			t.Errorf("matchGlob(%q, %q) = %v, want %v", testCase.path, testCase.pattern, got, testCase.want)
		}
	}
}
