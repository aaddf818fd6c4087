package voc2yolo

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// filesByExtInDir returns the names of all regular files (or symlinks) with file extension ext
// found directly in directory dirPath, sorted by name. The extension is matched case-insensitively.
// All files are returned if ext is empty.
//
// The returned error wraps fs.ErrNotExist if dirPath does not exist.
func filesByExtInDir(dirPath, ext string) ([]string, error) {
	dirInfo, err := os.Stat(dirPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %q: %w", dirPath, err)
	}
	if !dirInfo.IsDir() {
		return nil, fmt.Errorf("cannot read directory %q: not a directory", dirPath)
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access %q: %w", dirPath, err)
	}

	ext = strings.ToLower(ext)
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		// Must be a regular file or a symlink and have the requested extension.
		mode := entry.Type()
		if (!mode.IsRegular() && mode&os.ModeSymlink == 0) ||
				!strings.HasSuffix(strings.ToLower(name), ext) {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)

	return files, nil
}

// baseName returns the file name of path without its directory and extension.
func baseName(path string) string {
	file := filepath.Base(path)
	return file[0 : len(file)-len(filepath.Ext(file))]
}

// sharedBaseNames returns, for each base name used by more than one of files, the files using it
// in their original order.
func sharedBaseNames(files []string) map[string][]string {
	byBase := make(map[string][]string, len(files))
	for _, f := range files {
		b := baseName(f)
		byBase[b] = append(byBase[b], f)
	}
	for b, names := range byBase {
		if len(names) < 2 {
			delete(byBase, b)
		}
	}
	return byBase
}

// FindImage looks for the image <dir>/<base><ext>, trying each of exts in order. It returns the
// path and extension of the first existing file, or found == false if there is none.
func FindImage(dir, base string, exts []string) (path, ext string, found bool) {
	for _, e := range exts {
		p := filepath.Join(dir, base+e)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, e, true
		}
	}
	return "", "", false
}

// copyFile copies the file at src to dst byte by byte, replacing dst if it exists.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer closeWithErrCheck(in, &err)

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer closeWithErrCheck(out, &err)

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %q to %q: %w", src, dst, err)
	}
	return nil
}

// writeLines writes the lines verbatim to the file at path, creating or truncating it. No lines
// result in an empty file.
func writeLines(path string, lines []string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeWithErrCheck(f, &err)

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			return err
		}
	}
	return w.Flush()
}

// readLines returns a slice of lines read from the file at path.
func readLines(path string) (lines []string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file %q: %w", path, err)
	}
	defer closeWithErrCheck(file, &err)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %q as lines: %w", path, err)
	}

	return lines, nil
}

// closeWithErrCheck calls c.Close(). If it returns an error, and (*e == nil), e is set to that
// error.
func closeWithErrCheck(c io.Closer, e *error) {
	err := c.Close()
	if err != nil && *e == nil {
		*e = err
	}
}

// isNotExist reports whether err indicates a missing file or directory.
func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
