package mirror

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
	"go.uber.org/zap"
)

// Extract unpacks a downloaded artifact archive into destDir, preserving
// file modes and symlinks. The format is picked from the archive filename.
// Entries that would escape destDir are rejected, both lexically and after
// resolving any symlink an earlier entry may have planted on the path.
func Extract(log *zap.Logger, raw []byte, fileName string, destDir string) error {
	log = log.With(zap.String("archive", fileName), zap.String("dest", destDir))

	// Resolving the destination now keeps the containment checks below
	// comparable even when destDir itself sits behind a symlink.
	root, err := filepath.EvalSymlinks(destDir)
	if err != nil {
		return fmt.Errorf("failed to resolve extraction directory %q: %w", destDir, err)
	}

	switch {
	case strings.HasSuffix(fileName, ".zip"):
		log.Debug("Reading the fetched content as a ZIP archive.")
		return extractZIP(raw, root)

	case strings.HasSuffix(fileName, ".tar.gz"):
		log.Debug("Applying a GZIP decoder on the fetched content.")
		rd, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			log.Error("Failed to open the fetched content with a GZIP reader.", zap.Error(err))
			return fmt.Errorf("failed to open gzip reader for fetched content: %w", err)
		}
		return extractTAR(log, rd, root)

	case strings.HasSuffix(fileName, ".tar.xz"):
		log.Debug("Applying an XZ decoder on the fetched content.")
		rd, err := xz.NewReader(bytes.NewReader(raw))
		if err != nil {
			log.Error("Failed to open the fetched content with an XZ reader.", zap.Error(err))
			return fmt.Errorf("failed to open xz reader for fetched content: %w", err)
		}
		return extractTAR(log, rd, root)

	default:
		return fmt.Errorf("unrecognised archive format %q: %w", fileName, errors.ErrUnsupported)
	}
}

func extractTAR(log *zap.Logger, rd io.Reader, root string) error {
	tr := tar.NewReader(rd)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return fmt.Errorf("failed to read archive entry: %w", err)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			target, err := entryPath(root, hdr.Name)
			if err != nil {
				return err
			}
			if err = os.MkdirAll(target, 0o755); err != nil {
				return err
			}

		case tar.TypeReg:
			target, err := entryPath(root, hdr.Name)
			if err != nil {
				return err
			}
			if err = writeFile(target, tr, fs.FileMode(hdr.Mode)&fs.ModePerm); err != nil {
				return err
			}

		case tar.TypeSymlink:
			target, err := entryPath(root, hdr.Name)
			if err != nil {
				return err
			}
			if !linkContained(root, target, hdr.Linkname) {
				return fmt.Errorf("symlink entry %q (-> %q) escapes the target directory", hdr.Name, hdr.Linkname)
			}
			if err = os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err = os.Symlink(hdr.Linkname, target); err != nil {
				return err
			}

		default:
			log.Debug("Skipping unsupported archive entry.", zap.String("entry", hdr.Name))
		}
	}
}

func extractZIP(raw []byte, root string) error {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return fmt.Errorf("failed to open fetched content as zip archive: %w", err)
	}

	for _, f := range zr.File {
		target, err := entryPath(root, f.Name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}

		src, err := f.Open()
		if err != nil {
			return err
		}
		err = writeFile(target, src, f.Mode()&fs.ModePerm)
		_ = src.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// entryPath validates an archive entry name and returns the on-disk path it
// may be written to. Names that climb out of root lexically are rejected,
// and the entry's parent directory is resolved so that a symlink planted by
// an earlier entry cannot redirect the write outside of root either.
func entryPath(root string, name string) (string, error) {
	target, err := sanitizedPath(root, name)
	if err != nil {
		return "", err
	}
	if err = os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}
	parent, err := filepath.EvalSymlinks(filepath.Dir(target))
	if err != nil {
		return "", err
	}
	if !contained(root, parent) {
		return "", fmt.Errorf("archive entry %q escapes the target directory", name)
	}
	return filepath.Join(parent, filepath.Base(target)), nil
}

func writeFile(target string, src io.Reader, mode fs.FileMode) error {
	// An earlier symlink entry with the same name must not redirect the
	// content elsewhere.
	if info, err := os.Lstat(target); err == nil && info.Mode()&fs.ModeSymlink != 0 {
		if err = os.Remove(target); err != nil {
			return err
		}
	}
	if mode == 0 {
		mode = 0o644
	}
	fd, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	_, err = io.Copy(fd, src)
	if closeErr := fd.Close(); err == nil {
		err = closeErr
	}
	return err
}

func sanitizedPath(root string, name string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(name))
	if !contained(root, target) {
		return "", fmt.Errorf("archive entry %q escapes the target directory", name)
	}
	return target, nil
}

// linkContained reports whether a symlink at target with the given link
// value can only ever point inside root.
func linkContained(root string, target string, linkname string) bool {
	if filepath.IsAbs(linkname) {
		return contained(root, filepath.Clean(linkname))
	}
	return contained(root, filepath.Join(filepath.Dir(target), linkname))
}

func contained(root string, p string) bool {
	root = filepath.Clean(root)
	return p == root || strings.HasPrefix(p, root+string(os.PathSeparator))
}
