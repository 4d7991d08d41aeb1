package files

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

func ensureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

func fileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// requireDir 根目录必须存在且为目录
func requireDir(op, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return structural(op, path, "target directory not found")
	}
	if !info.IsDir() {
		return structural(op, path, "not a directory")
	}
	return nil
}

// listEntries 按名称排序的目录项
func listEntries(dir string, wantDir bool) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := entries[:0]
	for _, e := range entries {
		if e.IsDir() == wantDir {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func isCSV(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv") && !strings.HasPrefix(name, ".")
}
