package playlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	os.MkdirAll(filepath.Dir(path), 0755)
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestParse(t *testing.T) {
	src := `# warmup
intro.mid
"songs/long name.mid" repeat=2

/abs/outro.mid # trailing comment
`
	items, err := Parse(strings.NewReader(src), "/base")
	if err != nil {
		t.Fatal(err)
	}
	want := []Item{
		{Path: "/base/intro.mid", Repeat: 1, Line: 2},
		{Path: "/base/songs/long name.mid", Repeat: 2, Line: 3},
		{Path: "/abs/outro.mid", Repeat: 1, Line: 5},
	}
	if len(items) != len(want) {
		t.Fatalf("items = %+v", items)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, items[i], want[i])
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		"a.mid volume=3",
		"a.mid repeat=0",
		"a.mid repeat=x",
	} {
		if _, err := Parse(strings.NewReader(src), ""); err == nil || !strings.Contains(err.Error(), "line 1") {
			t.Errorf("%q: err = %v", src, err)
		}
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "set", "b.mid"))
	touch(t, filepath.Join(dir, "set", "a.MID"))
	touch(t, filepath.Join(dir, "set", "notes.txt"))
	touch(t, filepath.Join(dir, "x1.mid"))
	touch(t, filepath.Join(dir, "x2.mid"))

	list := filepath.Join(dir, "show.playlist")
	os.WriteFile(list, []byte("set\nx*.mid\nmissing.mid repeat=2\n"), 0644)

	got, err := Resolve([]string{list, filepath.Join(dir, "x1.mid")})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "set", "a.MID"),
		filepath.Join(dir, "set", "b.mid"),
		filepath.Join(dir, "x1.mid"),
		filepath.Join(dir, "x2.mid"),
		filepath.Join(dir, "missing.mid"),
		filepath.Join(dir, "missing.mid"),
		filepath.Join(dir, "x1.mid"),
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("Resolve =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestIsPlaylist(t *testing.T) {
	if !IsPlaylist("a/b.M3U") || IsPlaylist("song.mid") {
		t.Error("extension check wrong")
	}
}
