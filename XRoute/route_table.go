// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XRoute

import (
	"strings"
	"sync"

	"github.com/eframework-org/GO.UTIL/XCollect"
	"github.com/eframework-org/GO.UTIL/XLog"
)

// RouteTable 是按注册顺序保存的路由表。
// 路由通常在启动时注册，之后只读，读写均由读写锁保护。
type RouteTable struct {
	mu     sync.RWMutex
	routes []*Route
	paths  []string // 注册的路由，用于判断未匹配的请求是否为已注册的路由
}

// NewTable 创建空的路由表。
func NewTable() *RouteTable {
	return &RouteTable{}
}

// Get 注册 GET 路由。
func (rt *RouteTable) Get(path string, handler any) *Route {
	return rt.Handle(MethodGet, path, handler)
}

// Post 注册 POST 路由。
func (rt *RouteTable) Post(path string, handler any) *Route {
	return rt.Handle(MethodPost, path, handler)
}

// Put 注册 PUT 路由。
func (rt *RouteTable) Put(path string, handler any) *Route {
	return rt.Handle(MethodPut, path, handler)
}

// Patch 注册 PATCH 路由。
func (rt *RouteTable) Patch(path string, handler any) *Route {
	return rt.Handle(MethodPatch, path, handler)
}

// Delete 注册 DELETE 路由。
func (rt *RouteTable) Delete(path string, handler any) *Route {
	return rt.Handle(MethodDelete, path, handler)
}

// Options 注册 OPTIONS 路由。
func (rt *RouteTable) Options(path string, handler any) *Route {
	return rt.Handle(MethodOptions, path, handler)
}

// Handle 注册路由，method 不受支持时触发 panic。
// handler 可以是处理函数 Action、"Controller@action"、[]string{"Controller", "action"}
// 或 [2]string{"Controller", "action"}，为 nil 时请求该路由将返回 500。
func (rt *RouteTable) Handle(method, path string, handler any) *Route {
	method = strings.ToUpper(strings.TrimSpace(method))
	if !routeMethods[method] {
		XLog.Panic("XRoute.RouteTable.Handle(%v): unsupported method %v.", path, method)
		return nil
	}
	route := newRoute(method, path, handler)

	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.routes = append(rt.routes, route)
	rt.paths = append(rt.paths, route.Path)
	return route
}

// Routes 返回按注册顺序排列的路由副本。
func (rt *RouteTable) Routes() []*Route {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return append([]*Route(nil), rt.routes...)
}

// Len 返回路由数量。
func (rt *RouteTable) Len() int {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return len(rt.routes)
}

// hasPath 判断 path 是否与某个注册的路由字面相等，调用方需持有读锁。
func (rt *RouteTable) hasPath(path string) bool {
	return XCollect.Contains(rt.paths, path)
}
