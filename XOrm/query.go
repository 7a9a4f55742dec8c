// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/petermattis/goid"
)

// Query 是链式调用的 SQL 查询构建器。
// 每个设置方法都返回同一个实例以支持链式调用，终结操作（Get、First、Save）执行后状态会被清空。
// Query 由创建它的 goroutine 独占，不支持跨 goroutine 共享。
//
// 使用示例：
//
//	query := XOrm.NewQuery(XOrm.NewExecutor("main"))
//	rows, ok := query.Select("user", "id,name").Where("age > ?", 18).OrderBy("id").Get()
//
//	ok = query.Insert("user", map[string]any{"name": "test", "age": 18}).Save()
//	ok = query.Update("user", map[string]any{"age": 20}).Where("id = ?", 1).Save()
//	ok = query.Delete("user").Where("id = ?", 1).Save()
type Query struct {
	exec   IExecutor  // 语句执行器
	owner  int64      // 所属 goroutine
	table  string     // 默认数据表
	state  queryState // 查询状态
	status int        // 最近一次终结操作的状态码
}

// NewQuery 创建绑定到指定执行器的查询构建器。
// table 为可选的默认数据表，未指定数据表的设置方法将使用该值。
func NewQuery(exec IExecutor, table ...string) *Query {
	q := &Query{exec: exec, owner: goid.Get(), status: http.StatusOK}
	if len(table) > 0 {
		q.table = table[0]
	}
	q.state.reset(q.table)
	return q
}

// Executor 返回查询构建器使用的语句执行器。
func (q *Query) Executor() IExecutor { return q.exec }

// Op 返回当前累积的操作类型。
func (q *Query) Op() Op { return q.state.op }

// Status 返回最近一次终结操作的状态码，成功为 200，失败为 500。
func (q *Query) Status() int { return q.status }

// LastInsertID 返回最近一次插入生成的自增 ID。
func (q *Query) LastInsertID() int64 {
	if q.exec == nil {
		return 0
	}
	return q.exec.LastInsertID()
}

// Select 设置查询语句。
// table 为空时使用当前数据表，columns 为空时查询所有列（*）。
// 列名中的空白字符会被移除，因此不支持 "COUNT(*) AS total" 形式的别名。
func (q *Query) Select(table string, columns ...string) *Query {
	q.useTable(table)
	q.state.op = OpSelect
	if cols := joinColumns(columns); cols != "" {
		q.state.columns = cols
	}
	return q
}

// Insert 设置插入语句，values 为列名到列值的映射。
// table 或 values 为空时调用被忽略。
func (q *Query) Insert(table string, values map[string]any) *Query {
	if removeSpaces(table) == "" && q.state.table == "" || len(values) == 0 {
		return q
	}
	q.useTable(table)
	q.state.op = OpInsert
	q.state.values = values
	return q
}

// Update 设置更新语句，values 为列名到列值的映射，通常需要配合 Where 使用。
// table 或 values 为空时调用被忽略。
func (q *Query) Update(table string, values map[string]any) *Query {
	if removeSpaces(table) == "" && q.state.table == "" || len(values) == 0 {
		return q
	}
	q.useTable(table)
	q.state.op = OpUpdate
	q.state.values = values
	return q
}

// Delete 设置删除语句，通常需要配合 Where 使用，未设置条件时将删除表中所有数据。
func (q *Query) Delete(table string) *Query {
	if removeSpaces(table) == "" && q.state.table == "" {
		return q
	}
	q.useTable(table)
	q.state.op = OpDelete
	return q
}

// InsertTransact 设置多表事务插入，tables 与 rows 按索引一一对应。
// Save 时将在同一事务中依次插入每个数据表，任意一步失败则整体回滚。
// 数据表名称中的空白字符会被移除，名称重复时保留第一次出现的位置，数据以最后一次为准。
// tables 与 rows 数量不一致时调用被忽略。
func (q *Query) InsertTransact(tables []string, rows []map[string]any) *Query {
	if len(tables) == 0 || len(tables) != len(rows) {
		return q
	}
	transact := make([]transactRow, 0, len(tables))
	index := make(map[string]int, len(tables))
	for i, table := range tables {
		table = removeSpaces(table)
		if table == "" {
			continue
		}
		if idx, ok := index[table]; ok {
			transact[idx].values = rows[i]
			continue
		}
		index[table] = len(transact)
		transact = append(transact, transactRow{table: table, values: rows[i]})
	}
	if len(transact) == 0 {
		return q
	}
	q.state.op = OpTransact
	q.state.transact = transact
	return q
}

// Where 设置条件子句，condition 中使用 ? 作为占位符，values 按顺序绑定。
// 重复调用时后者覆盖前者，condition 为空时调用被忽略。
func (q *Query) Where(condition string, values ...any) *Query {
	if strings.TrimSpace(condition) == "" {
		return q
	}
	q.state.where = "WHERE " + condition
	q.state.whereValues = values
	return q
}

// Join 设置连接子句，tableColumns 为连接表到连接列的映射，
// 每一项生成 JOIN t ON base.c = t.c，base 为可选的基础表，默认为当前数据表。
func (q *Query) Join(tableColumns map[string]string, base ...string) *Query {
	if len(tableColumns) == 0 {
		return q
	}
	baseTable := q.state.table
	if len(base) > 0 && base[0] != "" {
		baseTable = base[0]
	}
	tables := make([]string, 0, len(tableColumns))
	for table := range tableColumns {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	joins := make([]string, 0, len(tables))
	for _, table := range tables {
		column := tableColumns[table]
		joins = append(joins, fmt.Sprintf("JOIN %v ON %v.%v = %v.%v", table, baseTable, column, table, column))
	}
	q.state.joins = joins
	return q
}

// GroupBy 设置分组子句。
func (q *Query) GroupBy(column string) *Query {
	if column != "" {
		q.state.groupBy = "GROUP BY " + column
	}
	return q
}

// OrderBy 设置排序子句，direction 默认为 DESC。
func (q *Query) OrderBy(columns string, direction ...string) *Query {
	order := "DESC"
	if len(direction) > 0 {
		order = direction[0]
	}
	if columns != "" && order != "" {
		q.state.orderBy = fmt.Sprintf("ORDER BY %v %v", columns, order)
	}
	return q
}

// Limit 设置分页子句，count 小于等于 0 时调用被忽略。
func (q *Query) Limit(offset, count int) *Query {
	if count > 0 {
		if offset < 0 {
			offset = 0
		}
		q.state.limit = fmt.Sprintf("LIMIT %v OFFSET %v", count, offset)
	}
	return q
}

// useTable 切换当前数据表，空值保持不变。
func (q *Query) useTable(table string) {
	if table = removeSpaces(table); table != "" {
		q.state.table = table
	}
}

// joinColumns 合并查询列并移除空白字符。
func joinColumns(columns []string) string {
	parts := make([]string, 0, len(columns))
	for _, column := range columns {
		if column = removeSpaces(column); column != "" {
			parts = append(parts, column)
		}
	}
	return strings.Join(parts, ",")
}

// removeSpaces 移除字符串中所有的空白字符。
func removeSpaces(str string) string {
	return strings.Join(strings.Fields(str), "")
}

// sortedColumns 返回按名称排序的列名，保证生成的 SQL 稳定。
func sortedColumns(values map[string]any) []string {
	columns := make([]string, 0, len(values))
	for column := range values {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}
