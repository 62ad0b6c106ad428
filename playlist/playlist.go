// Package playlist reads playlist files and expands command-line
// arguments into the ordered list of MIDI files to play.
//
// A playlist has one entry per line, split with shell quoting rules:
//
//	# comment
//	intro.mid
//	"songs/long name.mid" repeat=2
//	drums/*.mid
//
// Relative paths are resolved against the playlist's directory. An entry
// may be a file, a directory (its .mid files in name order) or a glob.
package playlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// Item is one playlist entry before expansion.
type Item struct {
	Path   string
	Repeat int
	Line   int // 1-based line in the playlist, 0 for command-line items
}

// Extensions recognised as playlists rather than MIDI files
var Extensions = []string{".playlist", ".m3u", ".lst"}

// IsPlaylist reports whether path names a playlist file.
func IsPlaylist(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Load parses the playlist at path.
func Load(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	items, err := Parse(f, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// Parse reads playlist lines from r, resolving relative paths against base.
func Parse(r io.Reader, base string) ([]Item, error) {
	var items []Item
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields, err := shlex.Split(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if len(fields) == 0 {
			continue
		}

		item := Item{Path: fields[0], Repeat: 1, Line: n}
		for _, opt := range fields[1:] {
			key, val, ok := strings.Cut(opt, "=")
			if !ok || key != "repeat" {
				return nil, fmt.Errorf("line %d: unknown option %q", n, opt)
			}
			count, err := strconv.Atoi(val)
			if err != nil || count < 1 {
				return nil, fmt.Errorf("line %d: bad repeat %q", n, val)
			}
			item.Repeat = count
		}
		if !filepath.IsAbs(item.Path) && base != "" {
			item.Path = filepath.Join(base, item.Path)
		}
		items = append(items, item)
	}
	return items, sc.Err()
}

// Expand turns items into file paths: directories and globs are listed,
// repeats are unrolled. Plain paths are kept even if missing so the
// player can report them.
func Expand(items []Item) ([]string, error) {
	var paths []string
	for _, item := range items {
		files, err := expandOne(item.Path)
		if err != nil {
			return nil, err
		}
		for i := 0; i < max(item.Repeat, 1); i++ {
			paths = append(paths, files...)
		}
	}
	return paths, nil
}

func expandOne(path string) ([]string, error) {
	if strings.ContainsAny(path, "*?[") {
		matches, err := filepath.Glob(path)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", path, err)
		}
		sort.Strings(matches)
		return matches, nil
	}

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".mid", ".midi", ".smf":
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	return files, nil
}

// Resolve expands command-line arguments: playlist files are loaded, other
// arguments are taken as files, directories or globs.
func Resolve(args []string) ([]string, error) {
	var items []Item
	for _, arg := range args {
		if IsPlaylist(arg) {
			loaded, err := Load(arg)
			if err != nil {
				return nil, err
			}
			items = append(items, loaded...)
			continue
		}
		items = append(items, Item{Path: arg, Repeat: 1})
	}
	return Expand(items)
}
