// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XRoute

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
)

// MatchResult 是请求路径与路由的匹配结果。
type MatchResult struct {
	Path   string   // 请求中与路由前缀匹配的原文
	Values []string // 前缀之后的非空路径片段
}

// Match 判断请求路径是否与路由的字面前缀匹配，不校验请求方法。
//
// 前缀必须按路径片段对齐：其之前为 /，之后为 / 或路径结尾，因此 /user/profile 不会匹配
// /user/profile2。前缀可以出现在路径的任意位置，以第一次出现为准，比较时忽略大小写，
// 提取的参数保留请求中的原文。请求片段在比较前解码百分号编码，%2F 不构成片段边界。前缀为空的路由锚定在根路径：没有占位符时仅匹配根路径，
// 否则匹配任意路径且所有片段均作为参数。
func Match(requestPath string, route *Route) (*MatchResult, bool) {
	if route == nil {
		return nil, false
	}
	if len(route.segments) == 0 {
		if len(route.Names) == 0 && strings.Trim(requestPath, "/") != "" {
			return nil, false
		}
		return &MatchResult{Values: splitValues(requestPath)}, true
	}

	raw := strings.Split(requestPath, "/")
	caser := cases.Fold()
	// 第一个片段之前没有 /，不参与匹配。
	for start := 1; start+len(route.segments) <= len(raw); start++ {
		matched := true
		for i, segment := range route.segments {
			if caser.String(unescapeSegment(raw[start+i])) != segment {
				matched = false
				break
			}
		}
		if matched {
			end := start + len(route.segments)
			return &MatchResult{
				Path:   strings.Join(raw[start:end], "/"),
				Values: splitValues(strings.Join(raw[end:], "/")),
			}, true
		}
	}
	return nil, false
}

// unescapeSegment 解码片段中的百分号编码，解码失败时保留原文。
func unescapeSegment(segment string) string {
	if !strings.Contains(segment, "%") {
		return segment
	}
	if decoded, err := url.PathUnescape(segment); err == nil {
		return decoded
	}
	return segment
}

// splitValues 按 / 切分路径并丢弃空片段。
func splitValues(path string) []string {
	values := []string{}
	for _, value := range strings.Split(path, "/") {
		if value != "" {
			values = append(values, value)
		}
	}
	return values
}

// Param 是一对路由参数。
type Param struct {
	Name  string
	Value string
}

// Params 是按占位符顺序排列的路由参数。
type Params []Param

// NewParams 将占位符名称与参数值按位置配对。
// 非严格模式下数量不一致时截断至较短的一方，严格模式下数量不一致时返回 false。
func NewParams(names, values []string, strict bool) (Params, bool) {
	if strict && len(names) != len(values) {
		return nil, false
	}
	count := min(len(names), len(values))
	params := make(Params, 0, count)
	for i := 0; i < count; i++ {
		params = append(params, Param{Name: names[i], Value: values[i]})
	}
	return params, true
}

// Get 返回指定名称的参数值。
func (ps Params) Get(name string) (string, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Index 返回指定位置的参数值，越界时返回空字符串。
func (ps Params) Index(i int) string {
	if i < 0 || i >= len(ps) {
		return ""
	}
	return ps[i].Value
}

// Len 返回参数数量。
func (ps Params) Len() int { return len(ps) }

// Names 返回参数名称。
func (ps Params) Names() []string {
	names := make([]string, 0, len(ps))
	for _, p := range ps {
		names = append(names, p.Name)
	}
	return names
}

// Values 返回参数值。
func (ps Params) Values() []string {
	values := make([]string, 0, len(ps))
	for _, p := range ps {
		values = append(values, p.Value)
	}
	return values
}

// Map 返回参数名称到参数值的映射，名称重复时后者覆盖前者。
func (ps Params) Map() map[string]string {
	m := make(map[string]string, len(ps))
	for _, p := range ps {
		m[p.Name] = p.Value
	}
	return m
}
