// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/beego/beego/v2/client/orm"
)

var (
	// ErrTxStarted 表示事务已经开始，不支持嵌套事务。
	ErrTxStarted = errors.New("transaction has already been started")

	// ErrTxNotStarted 表示当前没有进行中的事务。
	ErrTxNotStarted = errors.New("transaction has not been started")

	// ErrStmtClosed 表示语句已经被关闭。
	ErrStmtClosed = errors.New("statement has been closed")
)

// beegoExecutor 是基于 Beego ORM 的语句执行器。
// 非事务语句使用数据库别名对应的连接池，事务语句使用 Begin 返回的 TxOrmer。
type beegoExecutor struct {
	alias  string      // 数据库别名
	ormer  orm.Ormer   // 连接实例
	tx     orm.TxOrmer // 事务实例
	lastID int64       // 自增 ID
}

// NewExecutor 创建指定数据库别名的语句执行器。
// alias 必须已通过 Orm/Source 配置或 orm.RegisterDataBase 注册。
func NewExecutor(alias string) IExecutor {
	return &beegoExecutor{alias: alias}
}

// conn 返回当前应使用的查询实例，事务中返回 TxOrmer。
func (be *beegoExecutor) conn() (exec orm.QueryExecutor, err error) {
	if be.tx != nil {
		return be.tx, nil
	}
	if be.ormer == nil {
		// NewOrmUsingDB 在别名未注册时会触发 panic，这里将其转换为错误。
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("database alias %v: %v", be.alias, r)
			}
		}()
		be.ormer = orm.NewOrmUsingDB(be.alias)
	}
	return be.ormer, nil
}

func (be *beegoExecutor) Prepare(query string) (IStatement, error) {
	if query == "" {
		return nil, errors.New("query is empty")
	}
	conn, err := be.conn()
	if err != nil {
		return nil, err
	}
	return &beegoStatement{executor: be, conn: conn, query: query}, nil
}

func (be *beegoExecutor) Begin() error {
	if be.tx != nil {
		return ErrTxStarted
	}
	conn, err := be.conn()
	if err != nil {
		return err
	}
	ormer, ok := conn.(orm.Ormer)
	if !ok {
		return fmt.Errorf("database alias %v: ormer is unavailable", be.alias)
	}
	tx, err := ormer.Begin()
	if err != nil {
		return err
	}
	be.tx = tx
	return nil
}

func (be *beegoExecutor) Commit() error {
	if be.tx == nil {
		return ErrTxNotStarted
	}
	tx := be.tx
	be.tx = nil
	return tx.Commit()
}

func (be *beegoExecutor) Rollback() error {
	if be.tx == nil {
		return ErrTxNotStarted
	}
	tx := be.tx
	be.tx = nil
	return tx.Rollback()
}

func (be *beegoExecutor) InTransaction() bool { return be.tx != nil }

func (be *beegoExecutor) LastInsertID() int64 { return be.lastID }

// beegoStatement 是基于 Beego RawSeter 的预处理语句。
// 写入语句在首次执行时通过 RawSeter.Prepare 预处理，查询语句通过 RawSeter.Values 读取。
type beegoStatement struct {
	executor *beegoExecutor
	conn     orm.QueryExecutor
	query    string
	preparer orm.RawPreparer
	closed   bool
}

func (bs *beegoStatement) Exec(args ...any) (sql.Result, error) {
	if bs.closed {
		return nil, ErrStmtClosed
	}
	if bs.preparer == nil {
		preparer, err := bs.conn.Raw(bs.query).Prepare()
		if err != nil {
			return nil, err
		}
		bs.preparer = preparer
	}
	result, err := bs.preparer.Exec(args...)
	if err != nil {
		return nil, err
	}
	if id, err := result.LastInsertId(); err == nil && id > 0 {
		bs.executor.lastID = id
	}
	return result, nil
}

func (bs *beegoStatement) Query(args ...any) ([]Row, error) {
	if bs.closed {
		return nil, ErrStmtClosed
	}
	var maps []orm.Params
	if _, err := bs.conn.Raw(bs.query, args...).Values(&maps); err != nil {
		if errors.Is(err, orm.ErrNoRows) {
			return []Row{}, nil
		}
		return nil, err
	}
	rows := make([]Row, 0, len(maps))
	for _, params := range maps {
		rows = append(rows, normalizeRow(Row(params)))
	}
	return rows, nil
}

func (bs *beegoStatement) Close() error {
	if bs.closed {
		return nil
	}
	bs.closed = true
	if bs.preparer != nil {
		return bs.preparer.Close()
	}
	return nil
}
