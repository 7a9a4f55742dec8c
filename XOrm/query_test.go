// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestQueryBuild 测试 SQL 语句的生成。
func TestQueryBuild(t *testing.T) {
	tests := []struct {
		name  string
		build func(q *Query) *Query
		sql   string
		args  []any
	}{
		{
			name:  "SelectAll",
			build: func(q *Query) *Query { return q.Select("user") },
			sql:   "SELECT * FROM user",
			args:  []any{},
		},
		{
			name:  "SelectColumns",
			build: func(q *Query) *Query { return q.Select("user", "id, name", " age ") },
			sql:   "SELECT id,name,age FROM user",
			args:  []any{},
		},
		{
			name: "SelectClauses",
			build: func(q *Query) *Query {
				return q.Select("user", "id").
					Where("age > ? AND name = ?", 18, "bob").
					GroupBy("age").
					OrderBy("id").
					Limit(20, 10)
			},
			sql:  "SELECT id FROM user WHERE age > ? AND name = ? GROUP BY age ORDER BY id DESC LIMIT 10 OFFSET 20",
			args: []any{18, "bob"},
		},
		{
			name: "SelectJoin",
			build: func(q *Query) *Query {
				return q.Select("user").
					Join(map[string]string{"user_meta": "user_id", "address": "user_id"}).
					Where("user.id = ?", 1).
					OrderBy("user.id", "ASC")
			},
			sql:  "SELECT * FROM user JOIN address ON user.user_id = address.user_id JOIN user_meta ON user.user_id = user_meta.user_id WHERE user.id = ? ORDER BY user.id ASC",
			args: []any{1},
		},
		{
			name: "SelectJoinBase",
			build: func(q *Query) *Query {
				return q.Select("user").Join(map[string]string{"log": "uid"}, "account")
			},
			sql:  "SELECT * FROM user JOIN log ON account.uid = log.uid",
			args: []any{},
		},
		{
			name:  "SelectLimitIgnored",
			build: func(q *Query) *Query { return q.Select("user").Limit(5, 0).OrderBy("") },
			sql:   "SELECT * FROM user",
			args:  []any{},
		},
		{
			name:  "Insert",
			build: func(q *Query) *Query { return q.Insert("user", map[string]any{"name": "bob", "age": 18}) },
			sql:   "INSERT INTO user(age,name) VALUES(?,?)",
			args:  []any{18, "bob"},
		},
		{
			name: "Update",
			build: func(q *Query) *Query {
				return q.Update("user", map[string]any{"name": "bob", "age": 18}).Where("id = ?", 7)
			},
			sql:  "UPDATE user SET age=?, name=? WHERE id = ?",
			args: []any{18, "bob", 7},
		},
		{
			name:  "Delete",
			build: func(q *Query) *Query { return q.Delete("user").Where("id IN (?, ?)", 1, 2) },
			sql:   "DELETE FROM user WHERE id IN (?, ?)",
			args:  []any{1, 2},
		},
		{
			name:  "DeleteAll",
			build: func(q *Query) *Query { return q.Delete("user") },
			sql:   "DELETE FROM user",
			args:  []any{},
		},
		{
			name:  "None",
			build: func(q *Query) *Query { return q.Where("id = ?", 1) },
			sql:   "",
			args:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.build(NewQuery(&fakeExecutor{})).Build()
			assert.Equal(t, tt.sql, sql)
			assert.Equal(t, tt.args, args)
		})
	}
}

// TestQueryVariant 测试操作类型的选择。
func TestQueryVariant(t *testing.T) {
	t.Run("LastWins", func(t *testing.T) {
		q := NewQuery(&fakeExecutor{})
		q.Insert("user", map[string]any{"a": 1}).Delete("user")
		assert.Equal(t, OpDelete, q.Op(), "最后调用的操作应当决定操作类型。")
	})

	t.Run("Ignored", func(t *testing.T) {
		q := NewQuery(&fakeExecutor{})
		q.Insert("user", nil).Update("", map[string]any{"a": 1}).Delete(" ")
		assert.Equal(t, OpNone, q.Op(), "参数为空的操作应当被忽略。")

		q.InsertTransact([]string{"a", "b"}, []map[string]any{{"x": 1}})
		assert.Equal(t, OpNone, q.Op(), "数据表与数据数量不一致时应当被忽略。")
	})

	t.Run("DefaultTable", func(t *testing.T) {
		q := NewQuery(&fakeExecutor{}, "user")
		sql, _ := q.Update("", map[string]any{"a": 1}).Build()
		assert.Equal(t, "UPDATE user SET a=?", sql)
	})

	t.Run("WrongTerminal", func(t *testing.T) {
		exec := &fakeExecutor{}
		q := NewQuery(exec)

		assert.False(t, q.Select("user").Save(), "查询语句不支持 Save。")
		assert.Equal(t, http.StatusInternalServerError, q.Status())

		_, ok := q.Insert("user", map[string]any{"a": 1}).Get()
		assert.False(t, ok, "插入语句不支持 Get。")

		assert.False(t, q.Save(), "终结操作后状态应当被清空。")
		assert.Empty(t, exec.sqls, "不应当预处理任何语句。")
	})
}

// TestQueryTerminal 测试终结操作。
func TestQueryTerminal(t *testing.T) {
	t.Run("Save", func(t *testing.T) {
		exec := &fakeExecutor{}
		q := NewQuery(exec)
		total := testutil.ToFloat64(Metrics().StatementTotal.WithLabelValues("update"))

		ok := q.Update("user", map[string]any{"name": "bob"}).Where("id = ?", 3).Save()
		assert.True(t, ok)
		assert.Equal(t, http.StatusOK, q.Status())
		assert.Equal(t, []string{"UPDATE user SET name=? WHERE id = ?"}, exec.sqls)
		assert.Equal(t, [][]any{{"bob", 3}}, exec.args, "更新值应当先于条件值绑定。")
		assert.Equal(t, OpNone, q.Op(), "终结操作后状态应当被清空。")
		assert.Equal(t, total+1, testutil.ToFloat64(Metrics().StatementTotal.WithLabelValues("update")))
	})

	t.Run("First", func(t *testing.T) {
		exec := &fakeExecutor{rows: []Row{{"id": 1}, {"id": 2}}}
		q := NewQuery(exec)

		row, ok := q.Select("user").Where("id > ?", 0).First()
		assert.True(t, ok)
		assert.Equal(t, Row{"id": 1}, row)
		assert.NotContains(t, exec.sqls[0], "LIMIT", "First 不应当自动附加 LIMIT 子句。")

		exec.rows = nil
		row, ok = q.Select("user").First()
		assert.True(t, ok)
		assert.Nil(t, row, "无结果时应当返回 nil。")
	})

	t.Run("Get", func(t *testing.T) {
		exec := &fakeExecutor{rows: []Row{{"id": 1}, {"id": 2}}}
		rows, ok := NewQuery(exec).Select("user").Get()
		assert.True(t, ok)
		assert.Len(t, rows, 2)
	})

	t.Run("Failure", func(t *testing.T) {
		exec := &fakeExecutor{failAt: 1}
		q := NewQuery(exec)
		errors := testutil.ToFloat64(Metrics().StatementError.WithLabelValues("delete"))

		assert.False(t, q.Delete("user").Where("id = ?", 1).Save(), "执行失败时应当返回 false。")
		assert.Equal(t, http.StatusInternalServerError, q.Status(), "执行失败时状态码应当为 500。")
		assert.Equal(t, errors+1, testutil.ToFloat64(Metrics().StatementError.WithLabelValues("delete")))

		rows, ok := q.Select("user").Get()
		assert.True(t, ok, "失败后的查询构建器应当可以继续使用。")
		assert.Nil(t, rows)
		assert.Equal(t, http.StatusOK, q.Status())
	})

	t.Run("Owner", func(t *testing.T) {
		exec := &fakeExecutor{}
		q := NewQuery(exec)
		q.Insert("user", map[string]any{"a": 1})

		var wg sync.WaitGroup
		var ok bool
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok = q.Save()
		}()
		wg.Wait()

		assert.False(t, ok, "其他 goroutine 不能执行查询构建器。")
		assert.Empty(t, exec.sqls)
		assert.Equal(t, OpInsert, q.Op(), "其他 goroutine 不能清空查询状态。")
		assert.Equal(t, http.StatusOK, q.Status(), "其他 goroutine 不能修改状态码。")

		assert.True(t, q.Save(), "所属 goroutine 应当可以继续执行。")
		assert.Equal(t, []string{"INSERT INTO user(a) VALUES(?)"}, exec.sqls)
	})

	t.Run("NilExecutor", func(t *testing.T) {
		q := NewQuery(nil)
		assert.False(t, q.Delete("user").Save())
		assert.Equal(t, int64(0), q.LastInsertID())
	})
}

// TestQueryTransact 测试多表事务插入。
func TestQueryTransact(t *testing.T) {
	tables := []string{"user", "user_meta", "user_log"}
	rows := []map[string]any{{"id": 1, "name": "bob"}, {"uid": 1, "ip": "127.0.0.1"}, {"uid": 1}}

	t.Run("Commit", func(t *testing.T) {
		exec := &fakeExecutor{}
		q := NewQuery(exec)

		assert.True(t, q.InsertTransact(tables, rows).Save())
		assert.Equal(t, []string{
			"INSERT INTO user(id,name) VALUES(?,?)",
			"INSERT INTO user_meta(ip,uid) VALUES(?,?)",
			"INSERT INTO user_log(uid) VALUES(?)",
		}, exec.sqls)
		assert.Equal(t, 1, exec.begins)
		assert.Equal(t, 1, exec.commits)
		assert.Equal(t, 0, exec.rollbacks)
	})

	for failAt := 1; failAt <= len(tables); failAt++ {
		t.Run(fmt.Sprintf("Rollback%v", failAt), func(t *testing.T) {
			exec := &fakeExecutor{failAt: failAt}
			q := NewQuery(exec)
			rollback := testutil.ToFloat64(Metrics().TransactRollback)

			assert.False(t, q.InsertTransact(tables, rows).Save(), "任意一步失败时应当返回 false。")
			assert.Equal(t, http.StatusInternalServerError, q.Status())
			assert.Equal(t, failAt, exec.execs, "失败后不应当继续执行后续语句。")
			assert.Equal(t, 0, exec.commits, "失败时不应当提交事务。")
			assert.Equal(t, 1, exec.rollbacks, "失败时应当回滚事务。")
			assert.False(t, exec.InTransaction())
			assert.Equal(t, rollback+1, testutil.ToFloat64(Metrics().TransactRollback))
		})
	}

	t.Run("BeginFailure", func(t *testing.T) {
		exec := &fakeExecutor{tx: true}
		assert.False(t, NewQuery(exec).InsertTransact(tables, rows).Save(), "开始事务失败时应当返回 false。")
		assert.Empty(t, exec.sqls)
	})

	t.Run("Duplicate", func(t *testing.T) {
		sqls, args := NewQuery(&fakeExecutor{}).InsertTransact(
			[]string{" user ", "user_meta", "user", ""},
			[]map[string]any{{"id": 1}, {"uid": 1}, {"id": 2}, {"id": 3}},
		).Statements()
		assert.Equal(t, []string{
			"INSERT INTO user(id) VALUES(?)",
			"INSERT INTO user_meta(uid) VALUES(?)",
		}, sqls, "数据表名称应当移除空白字符，重复的数据表仅插入一次。")
		assert.Equal(t, [][]any{{2}, {1}}, args, "重复的数据表应当以最后一次的数据为准。")
	})

	t.Run("Statements", func(t *testing.T) {
		sqls, args := NewQuery(&fakeExecutor{}).InsertTransact(tables[:1], rows[:1]).Statements()
		require.Len(t, sqls, 1)
		assert.Equal(t, []any{1, "bob"}, args[0])
	})
}

// TestQueryDatabase 测试基于 SQLite 数据库的读写。
func TestQueryDatabase(t *testing.T) {
	alias := setupSQLite(t,
		`CREATE TABLE t (id INTEGER PRIMARY KEY AUTOINCREMENT, a INTEGER, b TEXT)`,
		`CREATE TABLE t_meta (id INTEGER PRIMARY KEY AUTOINCREMENT, tid INTEGER NOT NULL, ip TEXT)`,
	)

	t.Run("ReadAfterWrite", func(t *testing.T) {
		q := NewQuery(NewExecutor(alias))
		require.True(t, q.Insert("t", map[string]any{"a": 1}).Save())
		assert.Greater(t, q.LastInsertID(), int64(0), "插入后应当返回自增 ID。")

		row, ok := q.Select("t").Where("a = ?", 1).First()
		require.True(t, ok)
		require.NotNil(t, row)
		assert.Equal(t, "1", fmt.Sprint(row["a"]), "读取的数据应当与写入的一致。")
	})

	t.Run("UpdateDelete", func(t *testing.T) {
		q := NewQuery(NewExecutor(alias))
		require.True(t, q.Insert("t", map[string]any{"a": 2, "b": "x"}).Save())
		require.True(t, q.Update("t", map[string]any{"b": "y"}).Where("a = ?", 2).Save())

		row, ok := q.Select("t", "b").Where("a = ?", 2).First()
		require.True(t, ok)
		assert.Equal(t, "y", fmt.Sprint(row["b"]))

		require.True(t, q.Delete("t").Where("a = ?", 2).Save())
		rows, ok := q.Select("t").Where("a = ?", 2).Get()
		require.True(t, ok)
		assert.Empty(t, rows, "删除后应当查询不到数据。")
	})

	t.Run("JoinOrderLimit", func(t *testing.T) {
		q := NewQuery(NewExecutor(alias))
		for i := 10; i < 15; i++ {
			require.True(t, q.Insert("t", map[string]any{"a": i}).Save())
		}
		rows, ok := q.Select("t", "a").Where("a >= ?", 10).OrderBy("a").Limit(1, 2).Get()
		require.True(t, ok)
		require.Len(t, rows, 2)
		assert.Equal(t, "13", fmt.Sprint(rows[0]["a"]))
		assert.Equal(t, "12", fmt.Sprint(rows[1]["a"]))
	})

	t.Run("TransactCommit", func(t *testing.T) {
		q := NewQuery(NewExecutor(alias))
		before, beforeMeta := countRows(t, alias, "t"), countRows(t, alias, "t_meta")

		ok := q.InsertTransact([]string{"t", "t_meta"}, []map[string]any{
			{"a": 100},
			{"tid": 100, "ip": "127.0.0.1"},
		}).Save()
		require.True(t, ok)
		assert.Equal(t, before+1, countRows(t, alias, "t"))
		assert.Equal(t, beforeMeta+1, countRows(t, alias, "t_meta"))
	})

	t.Run("TransactAtomic", func(t *testing.T) {
		q := NewQuery(NewExecutor(alias))
		before, beforeMeta := countRows(t, alias, "t"), countRows(t, alias, "t_meta")

		ok := q.InsertTransact([]string{"t", "t_meta"}, []map[string]any{
			{"a": 200},
			{"missing_column": 1},
		}).Save()
		assert.False(t, ok, "任意数据表插入失败时应当返回 false。")
		assert.Equal(t, http.StatusInternalServerError, q.Status())
		assert.Equal(t, before, countRows(t, alias, "t"), "回滚后所有数据表都不应当有新数据。")
		assert.Equal(t, beforeMeta, countRows(t, alias, "t_meta"), "回滚后所有数据表都不应当有新数据。")
		assert.False(t, q.Executor().InTransaction())
	})

	t.Run("StatementError", func(t *testing.T) {
		q := NewQuery(NewExecutor(alias))
		rows, ok := q.Select("table_not_exists").Get()
		assert.False(t, ok)
		assert.Nil(t, rows)
		assert.Equal(t, http.StatusInternalServerError, q.Status())
	})
}
