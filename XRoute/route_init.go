// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XRoute

import (
	"github.com/eframework-org/GO.UTIL/XLog"
	"github.com/eframework-org/GO.UTIL/XPrefs"
)

const (
	prefsRouteStrict    = "Route/Strict"
	prefsRouteFallback  = "Route/Fallback"
	prefsRouteNamespace = "Route/Namespace"
)

var (
	// routeStrict 控制占位符与参数数量不一致时是否视为未匹配。
	routeStrict bool

	// routeFallback 控制路径匹配但方法不一致时是否继续查找后续路由。
	routeFallback bool

	// routeNamespace 是控制器方法引用中可省略的命名空间。
	routeNamespace string
)

func init() {
	initRoute(XPrefs.Asset())
}

func initRoute(prefs XPrefs.IBase) {
	if prefs == nil {
		XLog.Panic("XRoute.Init: prefs is nil.")
		return
	}

	routeStrict, routeFallback = false, false
	if value, ok := prefs.Get(prefsRouteStrict).(bool); ok {
		routeStrict = value
	}
	if value, ok := prefs.Get(prefsRouteFallback).(bool); ok {
		routeFallback = value
	}
	routeNamespace = prefs.GetString(prefsRouteNamespace)
}
