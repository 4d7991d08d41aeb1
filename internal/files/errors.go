package files

import (
	"errors"
	"fmt"
)

// ErrStructural 目录结构异常，整个批处理中止
var ErrStructural = errors.New("structural error")

// StructuralError 目录结构异常的具体位置
type StructuralError struct {
	Op   string
	Path string
	Msg  string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Msg)
}

func (e *StructuralError) Unwrap() error {
	return ErrStructural
}

func structural(op, path, format string, args ...any) error {
	return &StructuralError{Op: op, Path: path, Msg: fmt.Sprintf(format, args...)}
}
