// Package expfiles discovers per-tissue expression files in a folder.
package expfiles

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// File is one per-tissue expression file.
type File struct {
	Label string
	Path  string
}

// Match lists the folder's files against the configured pattern. When the
// pattern carries a capture group, group one becomes the tissue label;
// otherwise the file base name without extension is used. Files that do not
// match are skipped. Results are sorted by label so every run sees the same
// tissue order.
func Match(folder, pattern string) ([]File, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid expression pattern %q: %w", pattern, err)
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to list expression folder %s: %w", folder, err)
	}

	var files []File
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		m := re.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		label := strings.TrimSuffix(name, filepath.Ext(name))
		if len(m) > 1 && m[1] != "" {
			label = m[1]
		}
		files = append(files, File{Label: label, Path: filepath.Join(folder, name)})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no expression files matching %q in %s", pattern, folder)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Label < files[j].Label })
	return files, nil
}

// GeneUnion returns the sorted union of the genes seen per tissue.
func GeneUnion(perTissue map[string][]string) []string {
	seen := make(map[string]struct{})
	for _, genes := range perTissue {
		for _, g := range genes {
			seen[g] = struct{}{}
		}
	}
	union := make([]string, 0, len(seen))
	for g := range seen {
		union = append(union, g)
	}
	sort.Strings(union)
	return union
}
