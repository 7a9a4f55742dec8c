// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import "github.com/prometheus/client_golang/prometheus"

// metricsInfo 定义了全局的统计信息。
type metricsInfo struct {
	Registry         *prometheus.Registry   // 指标注册表
	StatementTotal   *prometheus.CounterVec // 预处理的语句数量，按操作类型区分
	StatementError   *prometheus.CounterVec // 执行失败的操作数量，按操作类型区分
	TransactRollback prometheus.Counter     // 回滚的事务数量
}

var sharedMetrics = newMetrics()

func newMetrics() *metricsInfo {
	m := &metricsInfo{
		Registry: prometheus.NewRegistry(),
		StatementTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "xorm",
			Name:      "statement_total",
			Help:      "Number of prepared statements by operation.",
		}, []string{"op"}),
		StatementError: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "xorm",
			Name:      "statement_error_total",
			Help:      "Number of failed query operations by operation.",
		}, []string{"op"}),
		TransactRollback: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "xorm",
			Name:      "transact_rollback_total",
			Help:      "Number of rolled back transactions.",
		}),
	}
	m.Registry.MustRegister(m.StatementTotal, m.StatementError, m.TransactRollback)
	return m
}

// 提供了统计信息的全局访问点。
func Metrics() *metricsInfo {
	return sharedMetrics
}
