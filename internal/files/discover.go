package files

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
)

// NormalizeTargets 依次列出 root/<index>/*.csv；缺少的索引目录直接跳过
func NormalizeTargets(root string, indices []int) ([]string, error) {
	if err := requireDir("normalize", root); err != nil {
		return nil, err
	}
	var out []string
	for _, idx := range indices {
		dir := filepath.Join(root, strconv.Itoa(idx))
		if !fileExists(dir) {
			continue
		}
		paths, err := SummaryTargets(dir)
		if err != nil {
			return nil, err
		}
		out = append(out, paths...)
	}
	return out, nil
}

// SummaryTargets dir 下一层的 *.csv，按名称排序
func SummaryTargets(dir string) ([]string, error) {
	if err := requireDir("list", dir); err != nil {
		return nil, err
	}
	entries, err := listEntries(dir, false)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if isCSV(e.Name()) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}

// WalkCSV 递归列出 root 下所有 *.csv，skipDir 中的目录名不进入
func WalkCSV(root string, skipDir ...string) ([]string, error) {
	if err := requireDir("walk", root); err != nil {
		return nil, err
	}
	skip := make(map[string]struct{}, len(skipDir))
	for _, d := range skipDir {
		skip[d] = struct{}{}
	}
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if _, ok := skip[d.Name()]; ok && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if isCSV(d.Name()) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
