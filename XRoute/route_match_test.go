// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XRoute

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		route   string
		path    string
		matched bool
		prefix  string
		values  []string
	}{
		{"Literal", "/user/login", "/user/login", true, "user/login", []string{}},
		{"Params", "/user/profile/{id}/{name}", "/user/profile/42/bob", true, "user/profile", []string{"42", "bob"}},
		{"EmptySegments", "/user/profile/{id}", "/user/profile//42//", true, "user/profile", []string{"42"}},
		{"Boundary", "/user/profile/{id}", "/user/profile2/42", false, "", nil},
		{"PartialPrefix", "/user/profile", "/user", false, "", nil},
		{"Substring", "/user/profile/{id}", "/api/user/profile/42", true, "user/profile", []string{"42"}},
		{"FirstOccurrence", "/a/{id}", "/a/a/1", true, "a", []string{"a", "1"}},
		{"CaseFold", "/User/Profile/{id}", "/user/PROFILE/Bob", true, "user/PROFILE", []string{"Bob"}},
		{"Unicode", "/été/{id}", "/ÉTÉ/1", true, "ÉTÉ", []string{"1"}},
		{"NoLeadingSlash", "/user/login", "user/login", false, "", nil},
		{"Root", "/", "", true, "", []string{}},
		{"RootOnly", "/", "/user", false, "", nil},
		{"RootParams", "/{id}/{name}", "/42/bob", true, "", []string{"42", "bob"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route := newRoute(MethodGet, tt.route, nil)
			result, ok := Match(tt.path, route)
			assert.Equal(t, tt.matched, ok)
			if !tt.matched {
				assert.Nil(t, result)
				return
			}
			assert.Equal(t, tt.prefix, result.Path)
			assert.Equal(t, tt.values, result.Values)
		})
	}

	t.Run("NilRoute", func(t *testing.T) {
		_, ok := Match("/user", nil)
		assert.False(t, ok)
	})
}

func TestParams(t *testing.T) {
	t.Run("Pairing", func(t *testing.T) {
		tests := []struct {
			names, values []string
			strict        bool
			ok            bool
			want          Params
		}{
			{[]string{"id", "name"}, []string{"42", "bob"}, false, true, Params{{"id", "42"}, {"name", "bob"}}},
			{[]string{"id", "name"}, []string{"42"}, false, true, Params{{"id", "42"}}},
			{[]string{"id"}, []string{"42", "bob"}, false, true, Params{{"id", "42"}}},
			{nil, []string{"42"}, false, true, Params{}},
			{[]string{"id", "name"}, []string{"42"}, true, false, nil},
			{[]string{"id"}, []string{"42"}, true, true, Params{{"id", "42"}}},
		}
		for _, tt := range tests {
			params, ok := NewParams(tt.names, tt.values, tt.strict)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, params)
			if ok {
				assert.Equal(t, min(len(tt.names), len(tt.values)), params.Len(), "参数数量应当为两者中的较小值。")
			}
		}
	})

	t.Run("Accessors", func(t *testing.T) {
		params := Params{{"id", "42"}, {"name", "bob"}}

		value, ok := params.Get("name")
		assert.True(t, ok)
		assert.Equal(t, "bob", value)
		_, ok = params.Get("city")
		assert.False(t, ok)

		assert.Equal(t, "42", params.Index(0))
		assert.Equal(t, "", params.Index(2))
		assert.Equal(t, "", params.Index(-1))
		assert.Equal(t, []string{"id", "name"}, params.Names())
		assert.Equal(t, []string{"42", "bob"}, params.Values())
		assert.Equal(t, map[string]string{"id": "42", "name": "bob"}, params.Map())
	})
}
