// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

/*
XRoute 实现了基于路径前缀与 {name} 占位符的请求分发，支持处理函数及控制器方法两种处理器。

功能特性

  - 路由注册：按注册顺序保存路由，支持 GET、POST、PUT、PATCH、DELETE、OPTIONS
  - 路径匹配：前缀按路径片段对齐、忽略大小写，前缀之后的片段按位置作为参数
  - 请求分发：实现了 http.Handler 接口，错误以 JSON 格式响应
  - 参数过滤：参数在调用处理器前依次经过转义、校验、净化

使用手册

1. 路由注册

	table := XRoute.NewTable()

	// 处理函数
	table.Get("/user/profile/{id}/{name}", func(ctx *XRoute.Context, params XRoute.Params) {
	    id, _ := params.Get("id")
	    ctx.JSON(http.StatusOK, map[string]any{"id": id})
	})

	// 控制器方法引用
	table.Post("/user/login", "UserController@login")
	table.Post("/user/register", []string{"UserController", "register"})

	controllers := XRoute.NewControllers().
	    Register("UserController", func() XRoute.IController { return XObject.New[UserController]() })

	router := XRoute.New(table, XRoute.WithControllers(controllers))
	http.ListenAndServe(":8080", router)

2. 分发规则

  - 请求路径移除查询参数及末尾的 / 后，按注册顺序依次匹配
  - 第一个路径匹配的路由即为结果，方法不一致时返回 405
  - 未匹配任何路由时返回 404：{"status":404,"message":"404 - Page not found"}
  - 路由未设置处理器、控制器未注册或方法不存在时返回 500
  - 占位符与参数数量不一致时截断至较短的一方

3. 配置说明

  - Route/Strict：占位符与参数数量不一致时视为未匹配，默认为 false
  - Route/Fallback：路径匹配但方法不一致时继续查找后续路由，默认为 false
  - Route/Namespace：控制器方法引用中可省略的命名空间，如 App\\Controllers

更多信息请参考模块文档。
*/
package XRoute
