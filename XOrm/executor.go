// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import "database/sql"

// Row 表示查询结果中的一行数据，键为列名，值为列值。
// 二进制类型（[]byte）的列值会被转换为字符串。
type Row map[string]any

// IStatement 定义了预处理语句的接口。
type IStatement interface {
	// Exec 绑定参数并执行语句，参数按顺序绑定至 ? 占位符。
	// 返回执行结果，如果发生错误则返回错误信息。
	Exec(args ...any) (sql.Result, error)

	// Query 绑定参数并执行查询，参数按顺序绑定至 ? 占位符。
	// 返回所有结果行，如果发生错误则返回错误信息。
	Query(args ...any) ([]Row, error)

	// Close 释放语句占用的资源。
	Close() error
}

// IExecutor 定义了语句执行器的接口，是查询构建器与数据库之间的唯一通道。
// 执行器由单个请求独占，不应在多个 goroutine 之间共享。
type IExecutor interface {
	// Prepare 预处理 SQL 语句。
	Prepare(query string) (IStatement, error)

	// Begin 开始事务，之后预处理的语句都将在事务中执行。
	Begin() error

	// Commit 提交当前事务。
	Commit() error

	// Rollback 回滚当前事务。
	Rollback() error

	// InTransaction 返回当前是否处于事务中。
	InTransaction() bool

	// LastInsertID 返回最近一次写入语句生成的自增 ID。
	LastInsertID() int64
}

// normalizeRow 将驱动返回的 []byte 值转换为字符串。
func normalizeRow(row Row) Row {
	for key, value := range row {
		if bytes, ok := value.([]byte); ok {
			row[key] = string(bytes)
		}
	}
	return row
}
