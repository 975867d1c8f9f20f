package project

import (
	"os"
	"path/filepath"

	"github.com/dotcommander/csslint/internal/config"
)

// Info contains information about the detected project.
type Info struct {
	Root       string
	HasGit     bool
	ConfigFile string
	Type       string
	FilesFound []string
}

// HasConfig reports whether a csslint config file sits at the project root.
func (i *Info) HasConfig() bool {
	return i.ConfigFile != ""
}

// FindProjectRoot searches for a project root starting from the given path
// and climbing up the directory tree if needed. A directory holding a csslint
// config file, a .git directory or a package.json counts as a root.
func FindProjectRoot(startPath string) (string, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return "", err
	}

	currentDir := absPath
	for {
		if isProjectRoot(currentDir) {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			break
		}
		currentDir = parent
	}

	// Default to the start directory if no project root found
	return absPath, nil
}

func isProjectRoot(path string) bool {
	if configFile(path) != "" {
		return true
	}
	for _, marker := range []string{".git", "package.json"} {
		if exists(filepath.Join(path, marker)) {
			return true
		}
	}
	return false
}

// Detect detects project information at the given path.
func Detect(rootPath string) (*Info, error) {
	info := &Info{
		Root: rootPath,
		Type: "unknown",
	}

	info.HasGit = exists(filepath.Join(rootPath, ".git"))
	info.ConfigFile = configFile(rootPath)

	if exists(filepath.Join(rootPath, "package.json")) {
		info.Type = "node"
	}

	info.FilesFound = findProjectFiles(rootPath)

	return info, nil
}

// configFile returns the first csslint config file present in dir.
func configFile(dir string) string {
	for _, name := range config.ConfigFiles {
		path := filepath.Join(dir, name)
		if st, err := os.Stat(path); err == nil && !st.IsDir() {
			return path
		}
	}
	return ""
}

// findProjectFiles lists the root markers present in rootPath.
func findProjectFiles(rootPath string) []string {
	var files []string

	if exists(filepath.Join(rootPath, ".git")) {
		files = append(files, ".git/")
	}
	if exists(filepath.Join(rootPath, "package.json")) {
		files = append(files, "package.json")
	}
	if cfg := configFile(rootPath); cfg != "" {
		files = append(files, filepath.Base(cfg))
	}

	return files
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
