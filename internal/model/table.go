package model

import (
	"strconv"
)

// 规范化输出的年月列名
const (
	ColumnYear  = "year"
	ColumnMonth = "month"
)

// NullInt 可空整数；Valid=false 表示缺失（不能用 0 代替）
type NullInt struct {
	Int   int
	Valid bool
}

// Int 构造有效值
func Int(v int) NullInt { return NullInt{Int: v, Valid: true} }

// String 缺失时输出空串
func (n NullInt) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.Itoa(n.Int)
}

// Column 表格中的一列
type Column struct {
	Name   string
	Values []string
}

// Table 按列存储的表格，所有列行数一致、列名唯一
type Table struct {
	Columns []Column
}

// Names 列名列表
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Len 行数
func (t *Table) Len() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// Index 列序号，不存在返回 -1
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Column 按名称取列
func (t *Table) Column(name string) (Column, bool) {
	if i := t.Index(name); i >= 0 {
		return t.Columns[i], true
	}
	return Column{}, false
}

// Row 第 i 行的所有单元格
func (t *Table) Row(i int) []string {
	row := make([]string, len(t.Columns))
	for j, c := range t.Columns {
		row[j] = c.Values[i]
	}
	return row
}
