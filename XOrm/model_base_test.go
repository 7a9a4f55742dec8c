// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import (
	"fmt"
	"testing"

	"github.com/eframework-org/GO.UTIL/XObject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const TestTableName = "model_base_test"

// testModelAlias 为当前测试注册的数据库别名。
var testModelAlias string

// TestBaseModel 测试模型
type TestBaseModel struct {
	Model
}

func (m *TestBaseModel) AliasName() string { return testModelAlias }

func (m *TestBaseModel) TableName() string { return TestTableName }

func NewTestBaseModel() *TestBaseModel {
	return XObject.New[TestBaseModel]()
}

// TestModelBasic 测试模型的基本信息。
func TestModelBasic(t *testing.T) {
	testModelAlias = "model_alias"
	model := NewTestBaseModel()

	assert.Equal(t, "model_alias_model_base_test", model.ModelUnique())
	assert.NotNil(t, model.Executor())
	assert.Same(t, model.Executor(), model.Executor(), "同一模型应当共享执行器。")

	exec := &fakeExecutor{}
	model.Use(exec)
	assert.Same(t, exec, model.Executor().(*fakeExecutor))

	sql, _ := model.Query().Select("", "id").Build()
	assert.Equal(t, "SELECT id FROM model_base_test", sql, "查询构建器应当默认使用模型的数据表。")

	assert.Panics(t, func() { (&Model{}).AliasName() }, "未重写的 AliasName 应当触发 panic。")
	assert.Panics(t, func() { (&Model{}).TableName() }, "未重写的 TableName 应当触发 panic。")
}

// TestModelQuery 测试通过模型读写数据库。
func TestModelQuery(t *testing.T) {
	testModelAlias = setupSQLite(t, `CREATE TABLE `+TestTableName+` (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		int_val INTEGER,
		string_val TEXT
	)`)
	model := NewTestBaseModel()

	for i := 1; i <= 5; i++ {
		ok := model.Query().Insert("", map[string]any{"int_val": i, "string_val": fmt.Sprintf("test_string_%d", i)}).Save()
		require.True(t, ok, "插入测试数据 %d 失败", i)
	}
	assert.Equal(t, 5, countRows(t, testModelAlias, TestTableName))

	t.Run("Read", func(t *testing.T) {
		row, ok := model.Query().Select("", "string_val").Where("int_val = ?", 4).First()
		require.True(t, ok)
		assert.Equal(t, "test_string_4", fmt.Sprint(row["string_val"]))
	})

	t.Run("List", func(t *testing.T) {
		rows, ok := model.Query().Select("").Where("int_val > ?", 3).OrderBy("int_val", "ASC").Get()
		require.True(t, ok)
		require.Len(t, rows, 2)
		assert.Equal(t, "4", fmt.Sprint(rows[0]["int_val"]))
	})

	t.Run("Delete", func(t *testing.T) {
		require.True(t, model.Query().Delete("").Where("int_val > ?", 3).Save())
		assert.Equal(t, 3, countRows(t, testModelAlias, TestTableName))
	})
}
