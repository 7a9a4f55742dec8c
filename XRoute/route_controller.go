// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XRoute

import (
	"sort"
	"strings"
	"sync"

	"github.com/eframework-org/GO.UTIL/XLog"
)

// IController 定义了控制器的基础接口，Actions 返回方法名称到处理函数的映射。
type IController interface {
	Actions() map[string]Action
}

// Controllers 是控制器名称到控制器工厂的注册表，每次请求通过工厂创建新的控制器实例。
//
// 使用示例：
//
//	type UserController struct{}
//
//	func (uc *UserController) Actions() map[string]XRoute.Action {
//	    return map[string]XRoute.Action{"profile": uc.Profile}
//	}
//
//	controllers := XRoute.NewControllers().
//	    Register("UserController", func() XRoute.IController { return XObject.New[UserController]() })
type Controllers struct {
	mu        sync.RWMutex
	factories map[string]func() IController
	namespace string // 引用中可省略的命名空间
}

// NewControllers 创建控制器注册表，命名空间默认读取 Route/Namespace 配置。
func NewControllers(namespace ...string) *Controllers {
	cs := &Controllers{factories: make(map[string]func() IController), namespace: routeNamespace}
	if len(namespace) > 0 {
		cs.namespace = namespace[0]
	}
	cs.namespace = strings.Trim(cs.namespace, "\\")
	return cs
}

// Register 注册控制器工厂，名称为空或工厂为 nil 时触发 panic，重复注册时后者覆盖前者。
func (cs *Controllers) Register(name string, factory func() IController) *Controllers {
	name = cs.normalize(name)
	if name == "" || factory == nil {
		XLog.Panic("XRoute.Controllers.Register(%v): name or factory is nil.", name)
		return cs
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.factories[name] = factory
	return cs
}

// Lookup 查找控制器工厂，name 可以包含注册表的命名空间前缀。
func (cs *Controllers) Lookup(name string) (func() IController, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	factory, ok := cs.factories[cs.normalize(name)]
	return factory, ok
}

// Names 返回已注册的控制器名称。
func (cs *Controllers) Names() []string {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	names := make([]string, 0, len(cs.factories))
	for name := range cs.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// normalize 移除名称中的命名空间前缀。
func (cs *Controllers) normalize(name string) string {
	name = strings.TrimLeft(strings.TrimSpace(name), "\\")
	if cs.namespace != "" {
		name = strings.TrimPrefix(name, cs.namespace+"\\")
	}
	return name
}
