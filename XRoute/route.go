// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XRoute

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/eframework-org/GO.UTIL/XLog"
	"golang.org/x/text/cases"
)

const (
	MethodGet     = http.MethodGet
	MethodPost    = http.MethodPost
	MethodPut     = http.MethodPut
	MethodPatch   = http.MethodPatch
	MethodDelete  = http.MethodDelete
	MethodOptions = http.MethodOptions
)

// routeMethods 是支持注册的请求方法。
var routeMethods = map[string]bool{
	MethodGet:     true,
	MethodPost:    true,
	MethodPut:     true,
	MethodPatch:   true,
	MethodDelete:  true,
	MethodOptions: true,
}

// routeNames 匹配路由中的 /{name} 占位符。
var routeNames = regexp.MustCompile(`/\{([^{}]+)\}`)

// Action 是路由的处理函数，params 为按位置提取的路由参数。
type Action func(ctx *Context, params Params)

type targetKind int

const (
	targetNone       targetKind = iota // 未设置处理器
	targetAction                       // 处理函数
	targetController                   // 控制器方法引用
)

// Route 是注册的路由，注册后不再修改，可以被多个分发器共享。
// 处理器在注册时被解析为处理函数或控制器方法引用，控制器方法引用由各分发器按其控制器注册表解析。
type Route struct {
	Method  string   // 请求方法
	Path    string   // 去除首尾 / 的路由
	Prefix  string   // 第一个占位符之前的字面前缀
	Names   []string // 占位符名称
	Handler any      // 注册时的原始处理器

	segments   []string // 大小写折叠后的前缀片段
	kind       targetKind
	action     Action
	controller string // 控制器名称
	actionName string // 控制器方法名称
}

// newRoute 创建路由并解析其前缀、占位符及处理器。
func newRoute(method, path string, handler any) *Route {
	route := &Route{Method: method, Path: strings.Trim(path, "/"), Handler: handler}

	for _, match := range routeNames.FindAllStringSubmatch("/"+route.Path, -1) {
		route.Names = append(route.Names, match[1])
	}
	if idx := strings.Index(route.Path, "{"); idx >= 0 {
		route.Prefix = strings.Trim(route.Path[:idx], "/")
	} else {
		route.Prefix = route.Path
	}
	if route.Prefix != "" {
		caser := cases.Fold()
		for _, segment := range strings.Split(route.Prefix, "/") {
			route.segments = append(route.segments, caser.String(segment))
		}
	}

	route.parse(handler)
	return route
}

// parse 解析处理器，支持处理函数、"Controller@action"、[]string 及 [2]string 形式。
func (r *Route) parse(handler any) {
	switch h := handler.(type) {
	case nil:
	case Action:
		if h != nil {
			r.kind, r.action = targetAction, h
		}
	case func(*Context, Params):
		if h != nil {
			r.kind, r.action = targetAction, h
		}
	case string:
		r.reference(strings.Split(h, "@"))
	case []string:
		if len(h) == 1 {
			r.reference(strings.Split(h[0], "@"))
		} else {
			r.reference(h)
		}
	case [2]string:
		r.reference(h[:])
	default:
		XLog.Warn("XRoute.Route.Parse(%v): unsupported handler type %T.", r.Path, handler)
	}
}

// reference 记录控制器方法引用，格式错误时视为未设置处理器。
func (r *Route) reference(parts []string) {
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		XLog.Warn("XRoute.Route.Parse(%v): invalid controller reference %v.", r.Path, parts)
		return
	}
	r.kind = targetController
	r.controller = strings.TrimSpace(parts[0])
	r.actionName = strings.TrimSpace(parts[1])
}

// binding 是控制器方法引用在某个控制器注册表中的解析结果。
type binding struct {
	factory func() IController
	kind    Kind // KindHandled、KindClassNotFound 或 KindMethodNotFound
}

// bind 根据控制器注册表解析控制器方法引用，不修改路由。
func (r *Route) bind(controllers *Controllers) *binding {
	factory, ok := controllers.Lookup(r.controller)
	if !ok {
		return &binding{kind: KindClassNotFound}
	}
	instance := factory()
	if instance == nil {
		return &binding{kind: KindClassNotFound}
	}
	if action := instance.Actions()[r.actionName]; action == nil {
		return &binding{kind: KindMethodNotFound}
	}
	return &binding{factory: factory, kind: KindHandled}
}

// Controller 返回控制器方法引用的控制器及方法名称，处理函数路由返回空值。
func (r *Route) Controller() (string, string) {
	return r.controller, r.actionName
}
