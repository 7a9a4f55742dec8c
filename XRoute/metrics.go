// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XRoute

import "github.com/prometheus/client_golang/prometheus"

// metricsInfo 定义了全局的统计信息。
type metricsInfo struct {
	Registry      *prometheus.Registry   // 指标注册表
	DispatchTotal *prometheus.CounterVec // 分发的请求数量，按状态码区分
	DispatchCost  prometheus.Histogram   // 请求处理耗时（秒）
}

var sharedMetrics = newMetrics()

func newMetrics() *metricsInfo {
	m := &metricsInfo{
		Registry: prometheus.NewRegistry(),
		DispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "xroute",
			Name:      "dispatch_total",
			Help:      "Number of dispatched requests by status code.",
		}, []string{"status"}),
		DispatchCost: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "xroute",
			Name:      "dispatch_seconds",
			Help:      "Time spent dispatching requests.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	m.Registry.MustRegister(m.DispatchTotal, m.DispatchCost)
	return m
}

// 提供了统计信息的全局访问点。
func Metrics() *metricsInfo {
	return sharedMetrics
}
