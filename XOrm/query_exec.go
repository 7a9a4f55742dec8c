// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import (
	"errors"
	"net/http"

	"github.com/eframework-org/GO.UTIL/XLog"
	"github.com/eframework-org/GO.UTIL/XTime"
	"github.com/petermattis/goid"
)

// Get 执行查询语句并返回所有结果行。
// 发生错误时返回 false，状态码被设置为 500。
func (q *Query) Get() ([]Row, bool) {
	if !q.owned("Get") {
		return nil, false
	}
	defer q.clear()
	if !q.check("Get", OpSelect) {
		return nil, false
	}
	rows, err := q.query()
	if err != nil {
		q.fail("Get", OpSelect, err)
		return nil, false
	}
	return rows, true
}

// First 执行查询语句并返回结果中的第一行，不会自动附加 LIMIT 子句。
// 无结果时返回 nil 和 true，发生错误时返回 false，状态码被设置为 500。
func (q *Query) First() (Row, bool) {
	if !q.owned("First") {
		return nil, false
	}
	defer q.clear()
	if !q.check("First", OpSelect) {
		return nil, false
	}
	rows, err := q.query()
	if err != nil {
		q.fail("First", OpSelect, err)
		return nil, false
	}
	if len(rows) == 0 {
		return nil, true
	}
	return rows[0], true
}

// Save 执行累积的插入、更新、删除或多表事务插入语句。
// 发生错误时返回 false，状态码被设置为 500，多表事务插入失败时会整体回滚。
func (q *Query) Save() bool {
	if !q.owned("Save") {
		return false
	}
	defer q.clear()
	op := q.state.op
	if !q.check("Save", OpInsert, OpUpdate, OpDelete, OpTransact) {
		return false
	}
	var err error
	if op == OpTransact {
		err = q.transact()
	} else {
		err = q.exec1()
	}
	if err != nil {
		q.fail("Save", op, err)
		return false
	}
	return true
}

// owned 校验调用的 goroutine 是否为查询构建器的所属 goroutine，校验失败时不修改任何状态。
func (q *Query) owned(action string) bool {
	if gid := goid.Get(); gid != q.owner {
		XLog.Critical("XOrm.Query.%v: query of goroutine %v was used by goroutine %v.", action, q.owner, gid)
		return false
	}
	return true
}

// check 校验执行器及操作类型。
func (q *Query) check(action string, ops ...Op) bool {
	q.status = http.StatusOK
	if q.exec == nil {
		q.fail(action, q.state.op, errors.New("executor is nil"))
		return false
	}
	for _, op := range ops {
		if q.state.op == op {
			return true
		}
	}
	q.fail(action, q.state.op, errors.New("operation of " + q.state.op.String() + " is not supported"))
	return false
}

// query 预处理并执行查询语句。
func (q *Query) query() ([]Row, error) {
	sql, args := q.Build()
	stmt, err := q.prepare(OpSelect, sql)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	return stmt.Query(args...)
}

// exec1 预处理并执行单条写入语句。
func (q *Query) exec1() error {
	op := q.state.op
	sql, args := q.Build()
	stmt, err := q.prepare(op, sql)
	if err != nil {
		return err
	}
	defer stmt.Close()
	_, err = stmt.Exec(args...)
	return err
}

// transact 在同一事务中依次插入每个数据表，任意一步失败则回滚。
func (q *Query) transact() (err error) {
	if err = q.exec.Begin(); err != nil {
		return err
	}
	defer func() {
		if err != nil && q.exec.InTransaction() {
			if rerr := q.exec.Rollback(); rerr != nil {
				XLog.Error("XOrm.Query.Save(%v): rollback failed: %v", q.state.table, rerr)
			}
			Metrics().TransactRollback.Inc()
		}
	}()

	sqls, args := q.Statements()
	for i, sql := range sqls {
		stmt, perr := q.prepare(OpInsert, sql)
		if perr != nil {
			return perr
		}
		_, err = stmt.Exec(args[i]...)
		stmt.Close()
		if err != nil {
			return err
		}
	}
	return q.exec.Commit()
}

// prepare 预处理语句并记录统计信息。
func (q *Query) prepare(op Op, sql string) (IStatement, error) {
	Metrics().StatementTotal.WithLabelValues(op.String()).Inc()
	if XLog.Able(XLog.LevelInfo) {
		t := XTime.GetMicrosecond()
		defer func() {
			XLog.Info("XOrm.Query.Prepare(%v): [Cost:%.2fms] %v", q.state.table, float64(XTime.GetMicrosecond()-t)/1e3, sql)
		}()
	}
	return q.exec.Prepare(sql)
}

// fail 记录错误并设置状态码为 500。
func (q *Query) fail(action string, op Op, err error) {
	q.status = http.StatusInternalServerError
	Metrics().StatementError.WithLabelValues(op.String()).Inc()
	if logError {
		XLog.Error("XOrm.Query.%v(%v): %v", action, q.state.table, err)
	}
}

// clear 清空查询状态，终结操作执行后调用。
func (q *Query) clear() {
	q.state.reset(q.table)
}
