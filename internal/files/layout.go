// Package files 数据目录布局：按期间重命名目录与文件，并按索引归档。
package files

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

var (
	periodRe       = regexp.MustCompile(`(\d{6}-\d{6})`)
	periodFolderRe = regexp.MustCompile(`^(\d{6}-\d{6})_(\d+)$`)
)

// Move 一次重命名或移动
type Move struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Result 布局操作结果
type Result struct {
	Moves   []Move   `json:"moves"`
	Removed []string `json:"removed,omitempty"`
}

// Layout 目录布局整理
type Layout struct {
	logger  *zap.Logger
	indices []int
}

// NewLayout 创建布局整理器，indices 为允许的索引目录
func NewLayout(logger *zap.Logger, indices []int) *Layout {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Layout{logger: logger, indices: append([]int(nil), indices...)}
}

// RenameFolders 按目录名中的期间分组，重命名为 <period>_<n>，n 按原名称排序从 1 开始
func (l *Layout) RenameFolders(root string) (Result, error) {
	const op = "rename-folders"
	var res Result
	if err := requireDir(op, root); err != nil {
		return res, err
	}
	folders, err := listEntries(root, true)
	if err != nil {
		return res, fmt.Errorf("failed to list %s: %w", root, err)
	}

	groups := map[string][]string{}
	var periods []string
	for _, f := range folders {
		period := periodRe.FindString(f.Name())
		if period == "" {
			return res, structural(op, filepath.Join(root, f.Name()), "unable to detect period in folder name")
		}
		if _, ok := groups[period]; !ok {
			periods = append(periods, period)
		}
		groups[period] = append(groups[period], f.Name())
	}

	for _, period := range periods {
		names := groups[period]
		sort.Strings(names)
		for i, name := range names {
			target := fmt.Sprintf("%s_%d", period, i+1)
			if name == target {
				continue
			}
			from, to := filepath.Join(root, name), filepath.Join(root, target)
			if err := l.move(op, from, to); err != nil {
				return res, err
			}
			res.Moves = append(res.Moves, Move{From: from, To: to})
		}
	}
	l.logger.Info("folders renamed", zap.String("root", root), zap.Int("renamed", len(res.Moves)))
	return res, nil
}

// RenameFiles 把 <period>_<n> 目录中每个文件名第一个 "_" 之前的部分替换为目录的期间
func (l *Layout) RenameFiles(root string) (Result, error) {
	const op = "rename-files"
	var res Result
	if err := requireDir(op, root); err != nil {
		return res, err
	}
	folders, err := listEntries(root, true)
	if err != nil {
		return res, fmt.Errorf("failed to list %s: %w", root, err)
	}

	for _, folder := range folders {
		period, _, ok := strings.Cut(folder.Name(), "_")
		if !ok {
			l.logger.Warn("skipping folder without period suffix", zap.String("folder", folder.Name()))
			continue
		}
		dir := filepath.Join(root, folder.Name())
		entries, err := listEntries(dir, false)
		if err != nil {
			return res, fmt.Errorf("failed to list %s: %w", dir, err)
		}
		for _, e := range entries {
			_, suffix, ok := strings.Cut(e.Name(), "_")
			if !ok {
				continue
			}
			target := period + "_" + suffix
			if target == e.Name() {
				continue
			}
			from, to := filepath.Join(dir, e.Name()), filepath.Join(dir, target)
			if err := l.move(op, from, to); err != nil {
				return res, err
			}
			res.Moves = append(res.Moves, Move{From: from, To: to})
		}
	}
	l.logger.Info("files renamed", zap.String("root", root), zap.Int("renamed", len(res.Moves)))
	return res, nil
}

// Reorganize 把 <period>_<index> 目录中的文件移入 root/<index>/，并删除清空的目录
func (l *Layout) Reorganize(root string) (Result, error) {
	const op = "reorganize"
	var res Result
	if err := requireDir(op, root); err != nil {
		return res, err
	}

	destinations := make(map[string]string, len(l.indices))
	for _, idx := range l.indices {
		name := strconv.Itoa(idx)
		dest := filepath.Join(root, name)
		if err := ensureDir(dest); err != nil {
			return res, fmt.Errorf("failed to create %s: %w", dest, err)
		}
		destinations[name] = dest
	}

	folders, err := listEntries(root, true)
	if err != nil {
		return res, fmt.Errorf("failed to list %s: %w", root, err)
	}
	var emptied []string
	for _, folder := range folders {
		name := folder.Name()
		m := periodFolderRe.FindStringSubmatch(name)
		if m == nil {
			if _, ok := destinations[name]; ok {
				continue
			}
			return res, structural(op, filepath.Join(root, name), "unexpected directory format")
		}
		dest, ok := destinations[m[2]]
		if !ok {
			return res, structural(op, filepath.Join(root, name), "unsupported index %q", m[2])
		}

		src := filepath.Join(root, name)
		items, err := os.ReadDir(src)
		if err != nil {
			return res, fmt.Errorf("failed to list %s: %w", src, err)
		}
		sort.Slice(items, func(i, j int) bool { return items[i].Name() < items[j].Name() })
		for _, item := range items {
			from := filepath.Join(src, item.Name())
			if item.IsDir() {
				return res, structural(op, from, "nested directory")
			}
			to := filepath.Join(dest, item.Name())
			if err := l.move(op, from, to); err != nil {
				return res, err
			}
			res.Moves = append(res.Moves, Move{From: from, To: to})
		}
		emptied = append(emptied, src)
	}

	for _, dir := range emptied {
		if err := os.Remove(dir); err != nil {
			return res, fmt.Errorf("failed to remove %s: %w", dir, err)
		}
		res.Removed = append(res.Removed, dir)
	}
	l.logger.Info("files reorganized",
		zap.String("root", root),
		zap.Int("moved", len(res.Moves)),
		zap.Int("removed", len(res.Removed)),
	)
	return res, nil
}

func (l *Layout) move(op, from, to string) error {
	if fileExists(to) {
		return structural(op, to, "target already exists")
	}
	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("failed to move %s -> %s: %w", from, to, err)
	}
	l.logger.Debug("moved", zap.String("from", from), zap.String("to", to))
	return nil
}
