// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XRoute

import (
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Filter 处理单个路由参数，返回 false 时该参数（名称及值）被移除。
type Filter func(name, value string) (string, bool)

// DefaultFilters 是默认的参数过滤链：转义、校验、净化。
var DefaultFilters = []Filter{Escape, Validate, Sanitize}

// Escape 对 & < > " ' 进行 HTML 实体编码。
func Escape(name, value string) (string, bool) {
	return html.EscapeString(value), true
}

// Validate 移除不是有效 UTF-8 或包含 NUL 字符的参数。
func Validate(name, value string) (string, bool) {
	if !utf8.ValidString(value) || strings.ContainsRune(value, 0) {
		return "", false
	}
	return value, true
}

// Sanitize 将参数规范化为 NFC 形式并移除控制字符。
func Sanitize(name, value string) (string, bool) {
	value = norm.NFC.String(value)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value), true
}

// applyFilters 依次对每个参数执行过滤链。
func applyFilters(params Params, filters []Filter) Params {
	if len(filters) == 0 {
		return params
	}
	filtered := make(Params, 0, len(params))
	for _, p := range params {
		value, ok := p.Value, true
		for _, filter := range filters {
			if value, ok = filter(p.Name, value); !ok {
				break
			}
		}
		if ok {
			filtered = append(filtered, Param{Name: p.Name, Value: value})
		}
	}
	return filtered
}
