package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"periodcheck/internal/model"
)

// ReadError 文件结构无法解析为带表头的表格
type ReadError struct {
	Line int
	Err  error
}

func (e *ReadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("read table: line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("read table: %v", e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// ReadTable 解析已解码的分隔文本；首行为表头
func ReadTable(text string, delimiter rune) (*model.Table, error) {
	if delimiter == 0 {
		delimiter = ','
	}
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delimiter
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ReadError{Err: errors.New("no header row")}
		}
		return nil, &ReadError{Line: 1, Err: err}
	}

	names := dedupeHeader(header)
	table := &model.Table{Columns: make([]model.Column, len(names))}
	for i, name := range names {
		table.Columns[i].Name = name
	}

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ReadError{Err: err}
		}
		if len(record) > len(names) {
			line, _ := r.FieldPos(0)
			return nil, &ReadError{Line: line, Err: fmt.Errorf("expected %d fields, saw %d", len(names), len(record))}
		}
		for i := range table.Columns {
			value := ""
			if i < len(record) {
				value = record[i]
			}
			table.Columns[i].Values = append(table.Columns[i].Values, value)
		}
	}
	return table, nil
}

// dedupeHeader 保证列名唯一：重复列追加 .1/.2，空列名记为 Unnamed: i
func dedupeHeader(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]bool, len(header))
	counts := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for used[name] {
			counts[h]++
			name = fmt.Sprintf("%s.%d", h, counts[h])
		}
		used[name] = true
		names[i] = name
	}
	return names
}
