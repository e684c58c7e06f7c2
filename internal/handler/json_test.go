package handler

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadJSON(t *testing.T) {
	h := &Handler{}

	var dst struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name": "test"}`))
	require.NoError(t, h.readJSON(r, &dst))
	require.Equal(t, "test", dst.Name)

	// 解码失败时不应该把原始错误暴露给调用方
	r = httptest.NewRequest("POST", "/", strings.NewReader(`{name:`))
	err := h.readJSON(r, &dst)
	require.EqualError(t, err, "请求体不是合法的 JSON")
}
