package parser

// ColumnRole 列角色
type ColumnRole string

const (
	RoleYear     ColumnRole = "year"
	RoleMonth    ColumnRole = "month"
	RoleCombined ColumnRole = "combined"
	RoleNone     ColumnRole = "none"
)

// DateColumns 日期列识别结果，每个角色至多一列
type DateColumns struct {
	Year     string `json:"year,omitempty"`
	Month    string `json:"month,omitempty"`
	Combined string `json:"combined,omitempty"`
	// Strategies 命中的识别策略，按执行顺序
	Strategies []string `json:"strategies,omitempty"`
}

// Empty 没有任何日期列（分类歧义，静默处理）
func (c DateColumns) Empty() bool {
	return c.Year == "" && c.Month == "" && c.Combined == ""
}

// Role 查询列角色
func (c DateColumns) Role(name string) ColumnRole {
	switch name {
	case "":
		return RoleNone
	case c.Year:
		return RoleYear
	case c.Month:
		return RoleMonth
	case c.Combined:
		return RoleCombined
	}
	return RoleNone
}

func (c DateColumns) assigned(name string) bool {
	return c.Role(name) != RoleNone
}
