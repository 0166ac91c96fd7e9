package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rankserve/rankserve/pkg/rank"
)

func TestStoreAddAssignsIndexes(t *testing.T) {
	s := NewStore()
	s.Add(rank.Candidate{Name: "a.go", Path: "a.go"})
	s.Add(rank.Candidate{Name: "b.go", Path: "x/b.go"})

	all := s.All()
	require.Len(t, all, 2)
	require.Equal(t, 0, all[0].Index)
	require.Equal(t, 1, all[1].Index)
}

func TestStoreReAddKeepsIndex(t *testing.T) {
	s := NewStore()
	s.Add(rank.Candidate{Name: "a.go", Path: "a.go"})
	s.Add(rank.Candidate{Name: "b.go", Path: "x/b.go"})
	s.Add(rank.Candidate{Name: "b.go", Path: "x/b.go", Description: "updated"})

	require.Equal(t, 2, s.Len())
	all := s.All()
	require.Equal(t, "updated", all[1].Description)
	require.Equal(t, 1, all[1].Index)
}

func TestStoreWithPrefixFoldsCase(t *testing.T) {
	s := NewStore()
	s.Add(rank.Candidate{Name: "Config.ts", Path: "src/Config.ts"})
	s.Add(rank.Candidate{Name: "config.js", Path: "lib/config.js"})
	s.Add(rank.Candidate{Name: "main.go", Path: "main.go"})

	got := s.WithPrefix("CONF", 0)
	require.Len(t, got, 2)

	got = s.WithPrefix("conf", 1)
	require.Len(t, got, 1)
}

func TestStoreRemove(t *testing.T) {
	s := NewStore()
	s.Add(rank.Candidate{Name: "a.go", Path: "a.go"})
	s.Add(rank.Candidate{Name: "a.go", Path: "dup/a.go"})

	require.True(t, s.Remove("a.go"))
	require.False(t, s.Remove("a.go"), "second removal must report absence")
	require.Equal(t, 1, s.Len())

	// The surviving duplicate is still reachable by prefix.
	got := s.WithPrefix("a", 0)
	require.Len(t, got, 1)
	require.Equal(t, "dup/a.go", got[0].Path)
}

func TestStoreClear(t *testing.T) {
	s := NewStore()
	s.Add(rank.Candidate{Name: "a.go", Path: "a.go"})
	s.Clear()
	require.Zero(t, s.Len())
	require.Empty(t, s.All())
	require.Empty(t, s.WithPrefix("a", 0))
}

func TestStoreLoadDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "deep"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules", "dep"), 0o755))

	files := []string{
		"main.go",
		"src/config.ts",
		"src/deep/util.go",
		".git/HEAD",
		"node_modules/dep/index.js",
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, filepath.FromSlash(f)), []byte("x"), 0o644))
	}

	s := NewStore()
	added, err := s.LoadDir(root, 0)
	require.NoError(t, err)
	require.Equal(t, 3, added, "junk directories must be skipped")

	byPath := map[string]rank.Candidate{}
	for _, c := range s.All() {
		byPath[c.Path] = c
	}
	require.Contains(t, byPath, "src/config.ts", "paths are root-relative with forward slashes")
	require.Equal(t, "config.ts", byPath["src/config.ts"].Name)
	require.False(t, byPath["src/config.ts"].ModifiedAt.IsZero(), "mtime feeds the freshness bonus")
	require.NotContains(t, byPath, ".git/HEAD")
}

func TestStoreLoadDirBounded(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644))
	}

	s := NewStore()
	added, err := s.LoadDir(root, 2)
	require.NoError(t, err)
	require.Equal(t, 2, added)
	require.Equal(t, 2, s.Len())
}
