// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import (
	"fmt"

	"github.com/eframework-org/GO.UTIL/XLog"
	"github.com/eframework-org/GO.UTIL/XString"
)

// IModel 定义了数据模型的基础接口。
// 实现此接口的类型可以通过 Query 构建并执行针对其数据表的 SQL 语句。
type IModel interface {
	// Ctor 执行模型的构造初始化。
	// obj 为模型实例，必须是实现了 IModel 接口的结构体指针。
	Ctor(obj any)

	// AliasName 返回数据库别名。
	// 此方法必须由子类实现。
	AliasName() string

	// TableName 返回数据表名称。
	// 此方法必须由子类实现。
	TableName() string

	// ModelUnique 返回模型的唯一标识。
	// 返回值格式为 "数据库别名_表名"。
	ModelUnique() string

	// Executor 返回模型的语句执行器。
	// 同一个模型实例的所有查询共享该执行器，即共享同一个数据库连接与事务。
	Executor() IExecutor

	// Query 创建新的查询构建器，默认数据表为模型的数据表。
	Query() *Query
}

// Model 实现了 IModel 接口的基础模型。
// 所有的具体模型类型都应该嵌入此类型，并通过 XObject.New 创建实例。
//
// 使用示例：
//
//	type User struct {
//	    XOrm.Model
//	}
//
//	func (u *User) AliasName() string { return "main" }
//	func (u *User) TableName() string { return "user" }
//
//	func NewUser() *User { return XObject.New[User]() }
//
//	user, ok := NewUser().Query().Select("", "id,name").Where("id = ?", 1).First()
type Model struct {
	this        IModel    // 模型实例
	modelUnique string    // 模型标识
	executor    IExecutor // 语句执行器
}

// Ctor 初始化模型实例。
// obj 必须实现 IModel 接口。
func (md *Model) Ctor(obj any) {
	md.this = obj.(IModel)
	md.modelUnique = ""
	md.executor = nil
}

// AliasName 返回数据库别名。
// 此方法需要被子类重写，默认会触发 panic。
func (md *Model) AliasName() string { XLog.Panic("Alias name is nil."); return "" }

// TableName 返回数据表名称。
// 此方法需要被子类重写，默认会触发 panic。
func (md *Model) TableName() string { XLog.Panic("Table name is nil."); return "" }

// ModelUnique 返回模型的唯一标识。
func (md *Model) ModelUnique() string {
	if XString.IsEmpty(md.modelUnique) {
		md.modelUnique = fmt.Sprintf("%v_%v", md.this.AliasName(), md.this.TableName())
	}
	return md.modelUnique
}

// Executor 返回模型的语句执行器，首次调用时根据数据库别名创建。
func (md *Model) Executor() IExecutor {
	if md.executor == nil {
		md.executor = NewExecutor(md.this.AliasName())
	}
	return md.executor
}

// Use 替换模型的语句执行器，通常用于测试或复用外部事务。
func (md *Model) Use(executor IExecutor) {
	md.executor = executor
}

// Query 创建新的查询构建器。
func (md *Model) Query() *Query {
	return NewQuery(md.this.Executor(), md.this.TableName())
}
