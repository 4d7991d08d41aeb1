package exporter

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"periodcheck/internal/model"
)

// BOM UTF-8 签名，输出文件统一带 BOM 以便 Excel 正确识别
var BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteTable 以 UTF-8 BOM 原地重写表格：先写同目录临时文件再重命名
func WriteTable(path string, t *model.Table, delimiter rune) error {
	return writeAtomic(path, func(w *bufio.Writer) error {
		cw := csv.NewWriter(w)
		if delimiter != 0 {
			cw.Comma = delimiter
		}
		if err := cw.Write(t.Names()); err != nil {
			return err
		}
		for i := 0; i < t.Len(); i++ {
			if err := cw.Write(t.Row(i)); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// writeAtomic 写入 BOM 后交给 fill 填充内容；已存在的目标文件保留原权限
func writeAtomic(path string, fill func(w *bufio.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(BOM); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := fill(w); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
