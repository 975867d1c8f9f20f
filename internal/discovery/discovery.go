// Package discovery finds the stylesheets to lint under a project root.
package discovery

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileType categorizes discovered files
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeCSS
	FileTypeSCSS
)

// String returns the human-readable name of the file type.
func (ft FileType) String() string {
	switch ft {
	case FileTypeCSS:
		return "css"
	case FileTypeSCSS:
		return "scss"
	default:
		return "unknown"
	}
}

// DetectFileType determines the stylesheet dialect from the file extension.
func DetectFileType(path string) (FileType, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".css":
		return FileTypeCSS, nil
	case ".scss":
		return FileTypeSCSS, nil
	case "":
		return FileTypeUnknown, fmt.Errorf(
			"unsupported file: %s has no extension. csslint checks .css and .scss files only", filepath.Base(path))
	default:
		return FileTypeUnknown, fmt.Errorf(
			"unsupported file type: %s. csslint checks .css and .scss files only", ext)
	}
}

// ValidateFilePath performs comprehensive validation of a file path for linting.
//
// This function checks all preconditions required before linting a file:
//   - File exists
//   - Path is a file (not directory)
//   - File is readable
//   - File is not binary
//
// Empty files are accepted; they simply produce no findings.
func ValidateFilePath(path string) (absPath string, err error) {
	absPath, err = filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	info, err := os.Lstat(absPath) // Lstat to detect symlinks
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", absPath)
		}
		if os.IsPermission(err) {
			return "", fmt.Errorf("permission denied: %s", absPath)
		}
		return "", fmt.Errorf("cannot access file: %s: %w", absPath, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		realPath, evalErr := filepath.EvalSymlinks(absPath)
		if evalErr != nil {
			return "", fmt.Errorf("cannot resolve symlink %s: %w", absPath, evalErr)
		}
		absPath = realPath
		info, err = os.Stat(absPath)
		if err != nil {
			return "", fmt.Errorf("symlink target inaccessible: %s: %w", absPath, err)
		}
	}

	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", absPath)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	defer f.Close()

	// Read first 512 bytes for binary detection
	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}

	if bytes.Contains(buf[:n], []byte{0}) {
		return "", fmt.Errorf("file appears to be binary, not text: %s", absPath)
	}

	return absPath, nil
}

// File represents a discovered file with its metadata
type File struct {
	Path     string
	RelPath  string
	Size     int64
	Type     FileType
	Contents string
}

// FileDiscovery manages file discovery operations
type FileDiscovery struct {
	rootPath       string
	include        []string
	exclude        []string
	followSymlinks bool
}

// NewFileDiscovery creates a new FileDiscovery instance. include and
// exclude are doublestar patterns relative to rootPath.
func NewFileDiscovery(rootPath string, include, exclude []string, followSymlinks bool) *FileDiscovery {
	return &FileDiscovery{
		rootPath:       rootPath,
		include:        include,
		exclude:        exclude,
		followSymlinks: followSymlinks,
	}
}

// DiscoverFiles finds every stylesheet matching the include patterns and
// none of the exclude patterns, sorted by relative path.
func (fd *FileDiscovery) DiscoverFiles() ([]File, error) {
	files, err := fd.findFilesByPattern(fd.include)
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// findFilesByPattern finds files matching the given glob patterns
func (fd *FileDiscovery) findFilesByPattern(patterns []string) ([]File, error) {
	var files []File
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		matches, err := doublestar.Glob(os.DirFS(fd.rootPath), pattern)
		if err != nil {
			return nil, fmt.Errorf("error evaluating pattern %s: %w", pattern, err)
		}

		for _, match := range matches {
			if seen[match] || fd.Excluded(match) {
				continue
			}
			f, ok := fd.processMatch(match)
			if ok {
				seen[match] = true
				files = append(files, f)
			}
		}
	}

	return files, nil
}

// Excluded reports whether a slash-separated relative path matches any
// exclude pattern.
func (fd *FileDiscovery) Excluded(relPath string) bool {
	for _, pattern := range fd.exclude {
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
	}
	return false
}

// processMatch converts a glob match into a File, returning false if the match should be skipped.
func (fd *FileDiscovery) processMatch(match string) (File, bool) {
	fullPath := filepath.Join(fd.rootPath, filepath.FromSlash(match))

	info, err := os.Lstat(fullPath)
	if err != nil {
		return File{}, false
	}

	readPath := fullPath
	if info.Mode()&os.ModeSymlink != 0 {
		resolved, resolvedInfo, ok := fd.resolveSymlink(fullPath)
		if !ok {
			return File{}, false
		}
		readPath = resolved
		info = resolvedInfo
	}
	if info.IsDir() {
		return File{}, false
	}

	fileType, err := DetectFileType(match)
	if err != nil {
		return File{}, false
	}

	contents, err := os.ReadFile(readPath)
	if err != nil {
		return File{}, false
	}

	return File{
		Path:     fullPath,
		RelPath:  match,
		Size:     info.Size(),
		Type:     fileType,
		Contents: string(contents),
	}, true
}

// resolveSymlink follows a symlink if configured, returning the resolved path and info.
// Returns false if the symlink should be skipped.
func (fd *FileDiscovery) resolveSymlink(fullPath string) (string, os.FileInfo, bool) {
	if !fd.followSymlinks {
		return "", nil, false
	}

	realPath, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		return "", nil, false
	}

	root, err := filepath.EvalSymlinks(fd.rootPath)
	if err != nil {
		root = fd.rootPath
	}
	if rel, err := filepath.Rel(root, realPath); err != nil || strings.HasPrefix(rel, "..") {
		return "", nil, false
	}

	info, err := os.Stat(realPath)
	if err != nil {
		return "", nil, false
	}

	return realPath, info, true
}
