package version

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Version files recognised when no explicit version is given, in lookup
// order within each directory.
var versionFileNames = []string{".node-version", ".nvmrc"}

// FromDotfile walks from dir up to the filesystem root looking for a version
// file. It returns the parsed version and the path of the file it came from.
// A missing file is not an error; the boolean reports whether one was found.
func FromDotfile(dir string) (Version, string, bool, error) {
	for {
		for _, name := range versionFileNames {
			p := filepath.Join(dir, name)
			raw, err := os.ReadFile(p)
			if errors.Is(err, os.ErrNotExist) {
				continue
			} else if err != nil {
				return Version{}, "", false, err
			}

			v, err := Parse(strings.TrimSpace(string(raw)))
			if err != nil {
				return Version{}, "", false, err
			}
			return v, p, true, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Version{}, "", false, nil
		}
		dir = parent
	}
}
