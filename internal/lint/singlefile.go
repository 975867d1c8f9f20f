package lint

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dotcommander/csslint/internal/discovery"
	"github.com/dotcommander/csslint/internal/git"
)

// collectFiles selects the stylesheets for a run: staged or changed files
// from git, explicit paths, or discovery under the root. The result is
// sorted by relative path with duplicates removed.
func (o *Orchestrator) collectFiles(ctx context.Context) ([]discovery.File, error) {
	root, err := filepath.Abs(o.cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("invalid root path: %w", err)
	}
	fd := discovery.NewFileDiscovery(root, o.cfg.Include, o.cfg.Exclude, o.cfg.FollowSymlinks)

	var files []discovery.File
	switch {
	case o.opts.Staged || o.opts.Changed:
		files, err = o.gitFiles(ctx, root, fd)
	case len(o.opts.Paths) > 0:
		files, err = o.explicitFiles(root)
	default:
		files, err = fd.DiscoverFiles()
	}
	if err != nil {
		return nil, err
	}

	return dedupeFiles(files), nil
}

func (o *Orchestrator) gitFiles(ctx context.Context, root string, fd *discovery.FileDiscovery) ([]discovery.File, error) {
	var (
		paths []string
		err   error
	)
	if o.opts.Staged {
		paths, err = git.GetStagedFiles(ctx, root)
	} else {
		paths, err = git.GetChangedFiles(ctx, root)
	}
	if err != nil {
		return nil, err
	}

	files := make([]discovery.File, 0, len(paths))
	for _, p := range paths {
		f, err := LoadFile(root, p)
		if err != nil {
			return nil, err
		}
		if fd.Excluded(f.RelPath) {
			continue
		}
		files = append(files, f)
	}
	return files, nil
}

// explicitFiles expands the command-line paths. Directories are searched
// with the configured include and exclude patterns.
func (o *Orchestrator) explicitFiles(root string) ([]discovery.File, error) {
	var files []discovery.File
	for _, p := range o.opts.Paths {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("file not found: %s", p)
			}
			return nil, fmt.Errorf("cannot access %s: %w", p, err)
		}

		if !info.IsDir() {
			f, err := LoadFile(root, p)
			if err != nil {
				return nil, err
			}
			files = append(files, f)
			continue
		}

		dir, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("invalid path %q: %w", p, err)
		}
		found, err := discovery.NewFileDiscovery(dir, o.cfg.Include, o.cfg.Exclude, o.cfg.FollowSymlinks).DiscoverFiles()
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			f.RelPath = relativeTo(root, f.Path)
			files = append(files, f)
		}
	}
	return files, nil
}

// LoadFile validates and reads a single stylesheet. RelPath is relative to
// root when the file lies inside it, otherwise the cleaned input path.
func LoadFile(root, path string) (discovery.File, error) {
	absPath, err := discovery.ValidateFilePath(path)
	if err != nil {
		return discovery.File{}, err
	}

	fileType, err := discovery.DetectFileType(absPath)
	if err != nil {
		return discovery.File{}, err
	}

	contents, err := os.ReadFile(absPath)
	if err != nil {
		return discovery.File{}, fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}

	full, err := filepath.Abs(path)
	if err != nil {
		full = absPath
	}
	return discovery.File{
		Path:     full,
		RelPath:  relativeTo(root, full),
		Size:     int64(len(contents)),
		Type:     fileType,
		Contents: string(contents),
	}, nil
}

// relativeTo returns path relative to root in slash form, or path itself
// when it lies outside root.
func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func dedupeFiles(files []discovery.File) []discovery.File {
	seen := make(map[string]bool, len(files))
	out := files[:0]
	for _, f := range files {
		if seen[f.Path] {
			continue
		}
		seen[f.Path] = true
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RelPath < out[j].RelPath })
	return out
}

// displayName is the name findings are attributed to.
func displayName(f discovery.File) string {
	if f.RelPath != "" {
		return f.RelPath
	}
	return f.Path
}
