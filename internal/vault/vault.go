// Package vault adapts a markdown note vault (a directory tree of notes
// and attachments) to the surfaces the copy pipeline needs: a file index
// queryable by name, a resource fetcher, and an editor-line accessor.
package vault

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rfenwick/vaultclip/internal/errors"
	"github.com/rfenwick/vaultclip/internal/logger"
)

// Vault is a directory-backed file index. The index is built once at
// construction; names map to vault-relative paths.
type Vault struct {
	root   string
	byName map[string]string
}

// Open walks the vault root and indexes every regular file by its base
// name. Hidden directories (dot-prefixed) are skipped, matching how note
// applications treat their own metadata folders.
func Open(root string) (*Vault, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("cannot open vault at %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault root %s is not a directory", abs)
	}

	v := &Vault{
		root:   abs,
		byName: make(map[string]string),
	}

	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != abs {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(abs, path)
		if err != nil {
			return err
		}
		// First match wins on duplicate base names; walk order is
		// deterministic (lexical), so lookups are stable.
		if _, exists := v.byName[d.Name()]; !exists {
			v.byName[d.Name()] = rel
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log("Vault: Indexed %d files under %s", len(v.byName), abs)
	return v, nil
}

// Root returns the absolute vault root path.
func (v *Vault) Root() string {
	return v.root
}

// FindFileByName returns the vault-relative path of the file whose base
// name equals name exactly. The match is case-sensitive.
func (v *Vault) FindFileByName(name string) (string, bool) {
	path, ok := v.byName[name]
	return path, ok
}

// ResolveFetchURL turns a vault-relative path into a fetchable file URL.
func (v *Vault) ResolveFetchURL(rel string) string {
	return "file://" + filepath.Join(v.root, rel)
}

// AbsPath returns the absolute path for a vault-relative one.
func (v *Vault) AbsPath(rel string) string {
	return filepath.Join(v.root, rel)
}

// ImageNames returns the sorted base names of all indexed files with a
// displayable image extension. Used by the browsing surface, which is why
// svg is included here: rendered elements support it even though the
// embed path does not.
func (v *Vault) ImageNames() []string {
	var names []string
	for name := range v.byName {
		ext := strings.ToLower(filepath.Ext(name))
		switch ext {
		case ".bmp", ".gif", ".jpeg", ".jpg", ".png", ".tiff", ".svg":
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// CurrentLine returns line n (1-based) of the given note, the analogue of
// the host editor's cursor-line accessor for the command regime.
func CurrentLine(notePath string, n int) (string, error) {
	data, err := os.ReadFile(notePath)
	if err != nil {
		return "", errors.FetchFailed(notePath, err)
	}

	lines := strings.Split(string(data), "\n")
	if n < 1 || n > len(lines) {
		return "", errors.E(errors.Op("vault.CurrentLine"), errors.KindInvalid,
			fmt.Sprintf("line %d out of range (note has %d lines)", n, len(lines)))
	}
	return lines[n-1], nil
}
