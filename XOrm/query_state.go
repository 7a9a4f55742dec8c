// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

// Op 表示查询状态的操作类型。
type Op int

const (
	OpNone     Op = iota // 未设置操作
	OpSelect             // 查询
	OpInsert             // 插入
	OpUpdate             // 更新
	OpDelete             // 删除
	OpTransact           // 多表事务插入
)

func (op Op) String() string {
	switch op {
	case OpSelect:
		return "select"
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	case OpTransact:
		return "transact"
	default:
		return "none"
	}
}

// transactRow 是事务插入中单个数据表的待插入数据。
type transactRow struct {
	table  string
	values map[string]any
}

// queryState 保存了一条语句在编译为 SQL 之前累积的状态。
// 由单个 Query 独占，终结操作执行后被清空。
type queryState struct {
	op          Op             // 操作类型
	table       string         // 数据表
	columns     string         // 查询列
	joins       []string       // 连接子句
	where       string         // 条件子句
	whereValues []any          // 条件参数
	groupBy     string         // 分组子句
	orderBy     string         // 排序子句
	limit       string         // 分页子句
	values      map[string]any // 插入或更新的列值
	transact    []transactRow  // 事务插入的数据
}

// reset 清空查询状态，table 会被保留为 keep 的值。
func (qs *queryState) reset(keep string) {
	*qs = queryState{table: keep}
}
