// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import (
	"strings"

	"github.com/beego/beego/v2/client/orm"
	"github.com/eframework-org/GO.UTIL/XLog"
	"github.com/eframework-org/GO.UTIL/XPrefs"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	prefsOrmSource   = "Orm/Source/"
	prefsOrmLogError = "Orm/Log/Error"
	prefsOrmAddr     = "Addr"
	prefsOrmPool     = "Pool"
	prefsOrmConn     = "Conn"
)

// ormDrivers 是配置中的数据库类型到 Beego 驱动名称的映射。
var ormDrivers = map[string]string{
	"mysql":      "mysql",
	"postgresql": "postgres",
	"postgres":   "postgres",
	"sqlite3":    "sqlite3",
	"sqlite":     "sqlite3",
}

// logError 控制语句执行失败时是否输出错误日志。
var logError = true

func init() {
	initOrm(XPrefs.Asset())
}

func initOrm(prefs XPrefs.IBase) {
	if prefs == nil {
		XLog.Panic("XOrm.Init: prefs is nil.")
		return
	}

	logError = true
	if value, ok := prefs.Get(prefsOrmLogError).(bool); ok {
		logError = value
	}

	for _, key := range prefs.Keys() {
		if !strings.HasPrefix(key, prefsOrmSource) {
			continue
		}
		parts := strings.Split(key, "/")
		if len(parts) < 4 {
			XLog.Panic("XOrm.Init: invalid prefs key %v.", key)
			return
		}

		ormType := strings.ToLower(parts[2])
		ormAlias := parts[3]
		ormDriver, ok := ormDrivers[ormType]
		if !ok {
			XLog.Panic("XOrm.Init: unsupported database type %v of %v.", parts[2], key)
			return
		}

		if base, ok := prefs.Get(key).(XPrefs.IBase); ok && base != nil {
			ormAddr := base.GetString(prefsOrmAddr)
			ormPool := base.GetInt(prefsOrmPool)
			ormConn := base.GetInt(prefsOrmConn)
			if err := orm.RegisterDataBase(ormAlias, ormDriver, ormAddr,
				orm.MaxIdleConnections(ormPool),
				orm.MaxOpenConnections(ormConn)); err != nil {
				XLog.Panic("XOrm.Init: register database %v failed, err: %v", ormAlias, err)
				return
			}
			XLog.Notice("XOrm.Init: database %v of %v has been registered.", ormAlias, ormDriver)
		} else {
			XLog.Error("XOrm.Init: invalid config for %v", key)
			continue
		}
	}
}
