// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XRoute

import (
	"net/http"

	"github.com/eframework-org/GO.UTIL/XLog"
	"github.com/eframework-org/GO.UTIL/XObject"
)

// ErrorBody 是错误响应的结构。
type ErrorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Context 是单次请求的上下文，仅在处理该请求的 goroutine 中使用。
type Context struct {
	Writer  http.ResponseWriter
	Request *http.Request
	Route   *Route // 匹配的路由，未匹配时为 nil

	status  int
	written bool
}

func newContext(w http.ResponseWriter, req *http.Request, route *Route) *Context {
	return &Context{Writer: w, Request: req, Route: route, status: http.StatusOK}
}

// Method 返回请求方法。
func (c *Context) Method() string { return c.Request.Method }

// Path 返回去除查询参数及末尾 / 的请求路径。
func (c *Context) Path() string { return CleanURL(c.Request.URL.RequestURI()) }

// Status 返回最近一次写入的状态码，未写入时为 200。
func (c *Context) Status() int { return c.status }

// Written 判断是否已写入响应。
func (c *Context) Written() bool { return c.written }

// JSON 将 v 序列化为 JSON 并以 code 写入响应，序列化失败时写入 500。
func (c *Context) JSON(code int, v any) bool {
	body, err := XObject.ToJson(v)
	if err != nil {
		XLog.Error("XRoute.Context.JSON(%v): %v", c.Request.URL.Path, err)
		code = http.StatusInternalServerError
		body = `{"status":500,"message":"Internal Server Error"}`
	}
	c.Writer.Header().Set("Content-Type", "application/json")
	c.Writer.WriteHeader(code)
	c.status = code
	c.written = true
	if _, werr := c.Writer.Write([]byte(body)); werr != nil {
		XLog.Warn("XRoute.Context.JSON(%v): %v", c.Request.URL.Path, werr)
		return false
	}
	return err == nil
}

// Error 写入 {"status": code, "message": msg} 形式的错误响应。
func (c *Context) Error(code int, msg string) bool {
	return c.JSON(code, ErrorBody{Status: code, Message: msg})
}
