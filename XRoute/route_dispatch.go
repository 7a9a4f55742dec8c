// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XRoute

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/eframework-org/GO.UTIL/XLog"
	"github.com/eframework-org/GO.UTIL/XString"
	"github.com/eframework-org/GO.UTIL/XTime"
	"github.com/illumitacit/gostd/quit"
)

// Kind 是分发结果的类型。
type Kind int

const (
	KindHandled          Kind = iota // 匹配成功，调用处理器
	KindNotFound                     // 未匹配任何路由，404
	KindMethodNotAllowed             // 路径匹配但方法不一致，405
	KindHandlerMissing               // 路由未设置处理器，500
	KindClassNotFound                // 控制器未注册，500
	KindMethodNotFound               // 控制器不存在该方法，500
	KindUnhandled                    // 路径与注册的路由字面相同但未匹配（如 /a/x{b}），不写入响应
)

func (k Kind) String() string {
	switch k {
	case KindHandled:
		return "handled"
	case KindNotFound:
		return "not_found"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	case KindHandlerMissing:
		return "handler_missing"
	case KindClassNotFound:
		return "class_not_found"
	case KindMethodNotFound:
		return "method_not_found"
	case KindUnhandled:
		return "unhandled"
	default:
		return "unknown"
	}
}

// Decision 是请求的分发结果。
type Decision struct {
	Kind    Kind
	Status  int          // 响应状态码
	Message string       // 错误信息
	Route   *Route       // 匹配的路由
	Match   *MatchResult // 路径匹配结果
	Params  Params       // 经过过滤链处理的参数

	factory func() IController // 控制器方法引用的控制器工厂
}

// Router 是基于路由表的请求分发器，实现了 http.Handler 接口。
//
// 使用示例：
//
//	table := XRoute.NewTable()
//	table.Get("/user/profile/{id}/{name}", func(ctx *XRoute.Context, params XRoute.Params) {
//	    ctx.JSON(http.StatusOK, params.Map())
//	})
//	table.Post("/user/login", "UserController@login")
//
//	router := XRoute.New(table, XRoute.WithControllers(controllers))
//	http.ListenAndServe(":8080", router)
type Router struct {
	table       *RouteTable
	controllers *Controllers
	filters     []Filter
	strict      bool
	fallback    bool
	bindings    sync.Map // *Route -> *binding，控制器方法引用的解析结果
}

// Option 是分发器的配置项。
type Option func(*Router)

// WithControllers 设置控制器注册表。
func WithControllers(controllers *Controllers) Option {
	return func(r *Router) {
		if controllers != nil {
			r.controllers = controllers
		}
	}
}

// WithFilters 替换参数过滤链，不传参数时关闭过滤。
func WithFilters(filters ...Filter) Option {
	return func(r *Router) { r.filters = filters }
}

// StrictParams 设置占位符与参数数量不一致时是否视为未匹配，默认读取 Route/Strict 配置。
func StrictParams(strict bool) Option {
	return func(r *Router) { r.strict = strict }
}

// MethodFallback 设置路径匹配但方法不一致时是否继续查找后续路由，默认读取 Route/Fallback 配置。
func MethodFallback(fallback bool) Option {
	return func(r *Router) { r.fallback = fallback }
}

// New 创建请求分发器，并使用控制器注册表解析路由表中的控制器方法引用。
// 解析结果由分发器独享，之后注册的路由在第一次分发时解析。
func New(table *RouteTable, opts ...Option) *Router {
	if table == nil {
		XLog.Panic("XRoute.New: route table is nil.")
		return nil
	}
	r := &Router{
		table:    table,
		filters:  DefaultFilters,
		strict:   routeStrict,
		fallback: routeFallback,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.controllers == nil {
		r.controllers = NewControllers()
	}
	for _, route := range table.Routes() {
		if b := r.resolveBinding(route); b != nil && b.kind != KindHandled {
			XLog.Warn("XRoute.New(%v): controller reference %v@%v is unresolved.", route.Path, route.controller, route.actionName)
		}
	}
	return r
}

// resolveBinding 返回控制器方法引用的解析结果，处理函数路由返回 nil。
func (r *Router) resolveBinding(route *Route) *binding {
	if route.kind != targetController {
		return nil
	}
	if b, ok := r.bindings.Load(route); ok {
		return b.(*binding)
	}
	b, _ := r.bindings.LoadOrStore(route, route.bind(r.controllers))
	return b.(*binding)
}

// Table 返回分发器的路由表。
func (r *Router) Table() *RouteTable { return r.table }

// Controllers 返回分发器的控制器注册表。
func (r *Router) Controllers() *Controllers { return r.controllers }

// CleanURL 移除查询参数及末尾的 /。
func CleanURL(uri string) string {
	if idx := strings.Index(uri, "?"); idx >= 0 {
		uri = uri[:idx]
	}
	return strings.TrimRight(uri, "/")
}

// Resolve 按注册顺序查找与请求匹配的路由并返回分发结果，不产生任何副作用。
//
// 默认情况下第一个路径匹配的路由即为结果，方法不一致时返回 405 而不继续查找。
// 未匹配任何路由时返回 404，除非请求路径与某个注册的路由字面相同。
func (r *Router) Resolve(method, uri string) *Decision {
	path := CleanURL(uri)
	method = strings.ToUpper(method)

	r.table.mu.RLock()
	defer r.table.mu.RUnlock()

	var rejected *Decision
	for _, route := range r.table.routes {
		match, ok := Match(path, route)
		if !ok {
			continue
		}
		params, ok := NewParams(route.Names, unescape(match.Values), r.strict)
		if !ok {
			continue
		}
		if route.Method != method {
			decision := &Decision{
				Kind:    KindMethodNotAllowed,
				Status:  http.StatusMethodNotAllowed,
				Message: fmt.Sprintf("Wrong request method: Only %v method is supported for this route", route.Method),
				Route:   route,
				Match:   match,
			}
			if !r.fallback {
				return decision
			}
			if rejected == nil {
				rejected = decision
			}
			continue
		}
		return r.resolveHandler(route, match, params)
	}
	if rejected != nil {
		return rejected
	}

	if r.table.hasPath(unescapeSegment(strings.Trim(path, "/"))) {
		return &Decision{Kind: KindUnhandled, Status: http.StatusOK}
	}
	return &Decision{Kind: KindNotFound, Status: http.StatusNotFound, Message: "404 - Page not found"}
}

// resolveHandler 校验路由的处理器并执行参数过滤链。
func (r *Router) resolveHandler(route *Route, match *MatchResult, params Params) *Decision {
	decision := &Decision{Route: route, Match: match, Status: http.StatusInternalServerError}
	b := r.resolveBinding(route)
	switch {
	case route.kind == targetNone:
		decision.Kind = KindHandlerMissing
		decision.Message = "Route handler not available or not properly written. Please check your route file"
	case b != nil && b.kind == KindClassNotFound:
		decision.Kind = KindClassNotFound
		decision.Message = fmt.Sprintf("Class '%v' does not exist", route.controller)
	case b != nil && b.kind == KindMethodNotFound:
		decision.Kind = KindMethodNotFound
		decision.Message = fmt.Sprintf("Method %v does not exist in the class %v", route.actionName, route.controller)
	default:
		decision.Kind = KindHandled
		decision.Status = http.StatusOK
		decision.Params = applyFilters(params, r.filters)
		if b != nil {
			decision.factory = b.factory
		}
	}
	return decision
}

// unescape 解码参数中的百分号编码，解码失败时保留原文。
func unescape(values []string) []string {
	for i, value := range values {
		values[i] = unescapeSegment(value)
	}
	return values
}

// ServeHTTP 实现 http.Handler 接口。
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.Dispatch(w, req)
}

// Dispatch 分发请求：调用匹配的处理器，或写入 JSON 格式的错误响应，并返回分发结果。
// 处理器中的 panic 会被捕获并记录，未写入响应时返回 500。
func (r *Router) Dispatch(w http.ResponseWriter, req *http.Request) *Decision {
	// 退出时等待处理中的请求完成。
	quit.GetWaiter().Add(1)
	defer quit.GetWaiter().Done()

	start := XTime.GetMicrosecond()
	decision := r.Resolve(req.Method, req.URL.RequestURI())
	ctx := newContext(w, req, decision.Route)

	if tag := XLog.Tag(); tag != nil {
		tag.Set("Route", req.Method+" "+req.URL.Path)
	}

	switch decision.Kind {
	case KindHandled:
		r.invoke(ctx, decision)
	case KindUnhandled:
		XLog.Warn("XRoute.Router.Dispatch(%v %v): route is registered but unhandled.", req.Method, req.URL.Path)
	case KindNotFound, KindMethodNotAllowed:
		XLog.Warn("XRoute.Router.Dispatch(%v %v): %v", req.Method, req.URL.Path, decision.Message)
		ctx.Error(decision.Status, decision.Message)
	default:
		XLog.Error("XRoute.Router.Dispatch(%v %v): %v", req.Method, req.URL.Path, decision.Message)
		ctx.Error(decision.Status, decision.Message)
	}

	status := ctx.Status()
	if decision.Kind != KindHandled {
		status = decision.Status
	}
	cost := XTime.GetMicrosecond() - start
	Metrics().DispatchTotal.WithLabelValues(XString.ToString(status)).Inc()
	Metrics().DispatchCost.Observe(float64(cost) / 1e6)
	if XLog.Able(XLog.LevelInfo) {
		XLog.Info("XRoute.Router.Dispatch(%v %v): [Status:%v] [Cost:%.2fms]", req.Method, req.URL.Path, status, float64(cost)/1e3)
	}
	return decision
}

// invoke 调用处理函数，或通过工厂创建控制器实例并调用其方法。
func (r *Router) invoke(ctx *Context, decision *Decision) {
	route := decision.Route
	action := route.action
	if route.kind == targetController {
		if controller := decision.factory(); controller != nil {
			action = controller.Actions()[route.actionName]
		} else {
			action = nil
		}
		if action == nil {
			decision.Kind = KindMethodNotFound
			decision.Status = http.StatusInternalServerError
			decision.Message = fmt.Sprintf("Method %v does not exist in the class %v", route.actionName, route.controller)
			XLog.Error("XRoute.Router.Dispatch(%v): %v", route.Path, decision.Message)
			ctx.Error(decision.Status, decision.Message)
			return
		}
	}

	defer func() {
		if err := recover(); err != nil {
			XLog.Error("XRoute.Router.Dispatch(%v): handler panic: %v", route.Path, err)
			decision.Status = http.StatusInternalServerError
			if !ctx.Written() {
				ctx.Error(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			}
		}
	}()
	action(ctx, decision.Params)
}
