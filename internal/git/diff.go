// Package git selects stylesheets from the working tree's staged or
// uncommitted changes.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// GetStagedFiles returns absolute paths of stylesheets in the git staging
// area under rootPath. Returns an empty slice outside a git repository.
func GetStagedFiles(ctx context.Context, rootPath string) ([]string, error) {
	if !IsGitRepo(rootPath) {
		return []string{}, nil
	}

	out, err := run(ctx, rootPath, "diff", "--name-only", "--relative", "--diff-filter=d", "-z", "--staged")
	if err != nil {
		return nil, err
	}
	return stylesheets(out, rootPath), nil
}

// GetChangedFiles returns absolute paths of stylesheets with uncommitted
// changes, staged or not. In a repository without commits every tracked
// stylesheet counts as changed.
func GetChangedFiles(ctx context.Context, rootPath string) ([]string, error) {
	if !IsGitRepo(rootPath) {
		return []string{}, nil
	}

	args := []string{"diff", "--name-only", "--relative", "--diff-filter=d", "-z", "HEAD"}
	if _, err := run(ctx, rootPath, "rev-parse", "--verify", "HEAD"); err != nil {
		args = []string{"ls-files", "-z"}
	}

	out, err := run(ctx, rootPath, args...)
	if err != nil {
		return nil, err
	}
	return stylesheets(out, rootPath), nil
}

// IsGitRepo checks if the given directory is within a git repository.
func IsGitRepo(rootPath string) bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = rootPath
	return cmd.Run() == nil
}

// run executes git in dir and returns its standard output.
func run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git %s failed: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// stylesheets picks the .css and .scss entries out of NUL-separated git
// output. Paths that no longer exist on disk are dropped.
func stylesheets(out []byte, rootPath string) []string {
	files := []string{}
	for _, name := range bytes.Split(out, []byte{0}) {
		rel := strings.TrimSpace(string(name))
		if rel == "" || !isStylesheet(rel) {
			continue
		}
		abs := filepath.Join(rootPath, filepath.FromSlash(rel))
		if _, err := os.Stat(abs); err != nil {
			continue
		}
		files = append(files, abs)
	}
	return files
}

func isStylesheet(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".css", ".scss":
		return true
	default:
		return false
	}
}
