// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import (
	"fmt"
	"strings"
)

// Build 将当前累积的状态编译为 SQL 语句及按顺序绑定的参数，不会清空状态。
// 仅标识符（表名、列名）会被拼接至语句中，所有值均以 ? 占位符绑定。
// 多表事务插入包含多条语句，请使用 Statements 获取。
func (q *Query) Build() (string, []any) {
	switch q.state.op {
	case OpSelect:
		return buildSelect(&q.state)
	case OpInsert:
		return buildInsert(q.state.table, q.state.values)
	case OpUpdate:
		return buildUpdate(&q.state)
	case OpDelete:
		return buildDelete(&q.state)
	default:
		return "", nil
	}
}

// Statements 返回多表事务插入的语句列表，每项包含 SQL 语句及其参数。
func (q *Query) Statements() ([]string, [][]any) {
	if q.state.op != OpTransact {
		sql, args := q.Build()
		if sql == "" {
			return nil, nil
		}
		return []string{sql}, [][]any{args}
	}
	sqls := make([]string, 0, len(q.state.transact))
	args := make([][]any, 0, len(q.state.transact))
	for _, row := range q.state.transact {
		sql, arg := buildInsert(row.table, row.values)
		sqls = append(sqls, sql)
		args = append(args, arg)
	}
	return sqls, args
}

func buildSelect(qs *queryState) (string, []any) {
	columns := qs.columns
	if columns == "" {
		columns = "*"
	}
	clauses := []string{fmt.Sprintf("SELECT %v FROM %v", columns, qs.table)}
	clauses = append(clauses, qs.joins...)
	for _, clause := range []string{qs.where, qs.groupBy, qs.orderBy, qs.limit} {
		if clause != "" {
			clauses = append(clauses, clause)
		}
	}
	return strings.Join(clauses, " "), bindValues(qs.whereValues)
}

func buildInsert(table string, values map[string]any) (string, []any) {
	columns := sortedColumns(values)
	args := make([]any, 0, len(columns))
	for _, column := range columns {
		args = append(args, values[column])
	}
	marks := strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",")
	return fmt.Sprintf("INSERT INTO %v(%v) VALUES(%v)", table, strings.Join(columns, ","), marks), args
}

func buildUpdate(qs *queryState) (string, []any) {
	columns := sortedColumns(qs.values)
	args := make([]any, 0, len(columns)+len(qs.whereValues))
	for _, column := range columns {
		args = append(args, qs.values[column])
	}
	args = append(args, qs.whereValues...)
	sql := fmt.Sprintf("UPDATE %v SET %v=?", qs.table, strings.Join(columns, "=?, "))
	if qs.where != "" {
		sql += " " + qs.where
	}
	return sql, args
}

func buildDelete(qs *queryState) (string, []any) {
	sql := "DELETE FROM " + qs.table
	if qs.where != "" {
		sql += " " + qs.where
	}
	return sql, bindValues(qs.whereValues)
}

// bindValues 复制条件参数，避免调用方的切片被后续修改。
func bindValues(values []any) []any {
	if len(values) == 0 {
		return []any{}
	}
	return append([]any(nil), values...)
}
