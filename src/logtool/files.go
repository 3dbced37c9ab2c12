package logtool

import (
	"fmt"
	"github.com/jom-io/gorig/utils/logger"
	"go.uber.org/zap"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ListLogFiles expands paths into the files to read. Directories are walked
// and their regular files returned in lexical order. Paths that do not exist
// are kept so the reader reports them. With a non-empty root, every path
// must resolve below it.
func ListLogFiles(paths []string, root string) ([]string, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no log file given")
	}
	result := make([]string, 0, len(paths))
	for _, p := range paths {
		p, err := confine(p, root)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			result = append(result, p)
			continue
		}
		_ = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn(nil, "skip file", zap.String("path", path), zap.Error(err))
				return nil
			}
			if d.Type().IsRegular() && !strings.HasPrefix(d.Name(), ".") {
				result = append(result, path)
			}
			return nil
		})
	}
	return result, nil
}

func confine(path, root string) (string, error) {
	if root == "" {
		return path, nil
	}
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if seg == ".." {
			return "", fmt.Errorf("invalid log file: %s", path)
		}
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("invalid root dir: %v", err)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(absRoot, path)
	}
	path = filepath.Clean(path)
	rel, err := filepath.Rel(absRoot, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("log file outside root dir: %s", path)
	}
	return path, nil
}
