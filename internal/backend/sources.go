package backend

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

var remotePrefixes = []string{"magnet:", "http://", "https://"}

// ExpandSources turns Add input into the list of sources to hand to the
// daemon. Magnet links and URLs pass through untouched. A local path whose
// file name contains glob metacharacters expands to every matching file in
// its directory.
func ExpandSources(source string) ([]string, error) {
	s := strings.TrimSpace(source)
	if s == "" {
		return nil, ErrEmptySource
	}
	for _, prefix := range remotePrefixes {
		if strings.HasPrefix(strings.ToLower(s), prefix) {
			return []string{s}, nil
		}
	}
	s = expandHome(s)
	if !hasMeta(s) {
		return []string{s}, nil
	}
	dir, pattern := filepath.Split(s)
	if hasMeta(dir) {
		return nil, fmt.Errorf("glob patterns are only supported in the file name: %q", source)
	}
	if dir == "" {
		dir = "."
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !g.Match(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no files match %q", source)
	}
	sort.Strings(out)
	return out, nil
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
