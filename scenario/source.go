// Package scenario provides a declarative, Go-native replacement for the
// source kernel's user/*.c test programs (heavy.c, setpriority.c,
// settickets.c, strace.c): small scripted workloads — spin, sleep, fork,
// set_priority, set_tickets, trace, exit steps — that drive the
// scheduling core the same way those programs drove the real one.
//
// Scenario packs (collections of Program definitions) can be loaded from
// a local file or fetched from a git repository, reusing the same
// clone/cache machinery the host CLI already used for inspecting
// arbitrary source repos.
package scenario

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	CacheDirName     = "kcore"
	CacheRepoDirName = "scenario-packs"
)

// PackRepository is a resolved reference to a git repository holding one
// or more scenario pack files.
type PackRepository struct {
	URL     string
	RepoRef *git.Repository
}

// ResolvePackRepo clones (or, if already cached, fetches) the scenario
// pack at url and returns a reference to it, caching it under
// $XDG_DATA_HOME/kcore/scenario-packs keyed by a base64 encoding of the
// URL — identical bookkeeping to the source CLI's repo cache, just
// pointed at a different cache subdirectory and payload.
func ResolvePackRepo(url string) (*PackRepository, error) {
	fp := filepath.Join(defaultCacheLocation(), encodedCacheName(url))
	if _, err := os.Stat(fp); err != nil {
		return cloneFSPack(url, fp)
	}

	ref, err := git.PlainOpen(fp)
	if err != nil {
		return nil, fmt.Errorf("scenario: opening cached pack repo: %s", err)
	}
	if err := ref.Fetch(&git.FetchOptions{RemoteURL: url}); err != nil && err != git.NoErrAlreadyUpToDate {
		return nil, fmt.Errorf("scenario: fetching pack repo updates: %s", err)
	}
	return &PackRepository{URL: url, RepoRef: ref}, nil
}

func cloneFSPack(url, fp string) (*PackRepository, error) {
	if err := ensureCacheDir(); err != nil {
		return nil, fmt.Errorf("scenario: ensuring pack cache dir: %s", err)
	}
	ref, err := git.PlainClone(fp, false, &git.CloneOptions{URL: url})
	if err != nil {
		return nil, fmt.Errorf("scenario: cloning pack repo %s: %s", url, err)
	}
	return &PackRepository{URL: url, RepoRef: ref}, nil
}

// LoadPackFiles walks the repository's HEAD commit tree and returns the
// contents of every file whose name ends in ".json", without
// requiring a working-tree checkout — reading each blob directly out of
// the commit tree, the way the host CLI's commit/tag lookups walk git
// objects rather than the filesystem.
func (r *PackRepository) LoadPackFiles() (map[string][]byte, error) {
	head, err := r.RepoRef.Head()
	if err != nil {
		return nil, fmt.Errorf("scenario: resolving pack repo HEAD: %s", err)
	}
	commit, err := r.RepoRef.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("scenario: loading pack repo HEAD commit: %s", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("scenario: loading pack repo tree: %s", err)
	}

	files := map[string][]byte{}
	err = tree.Files().ForEach(func(f *object.File) error {
		if filepath.Ext(f.Name) != ".json" {
			return nil
		}
		rc, err := f.Reader()
		if err != nil {
			return fmt.Errorf("scenario: opening pack file %s: %s", f.Name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return fmt.Errorf("scenario: reading pack file %s: %s", f.Name, err)
		}
		files[f.Name] = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func ensureCacheDir() error {
	fp := defaultCacheLocation()
	if _, err := os.Stat(fp); err != nil {
		if os.IsNotExist(err) {
			return os.MkdirAll(fp, 0o777)
		}
		return err
	}
	return nil
}

func defaultCacheLocation() string {
	return filepath.Join(xdg.DataHome, CacheDirName, CacheRepoDirName)
}

func encodedCacheName(url string) string {
	return base64.StdEncoding.EncodeToString([]byte(url))
}
