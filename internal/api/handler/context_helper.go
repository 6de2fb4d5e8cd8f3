package handler

import (
	"github.com/gin-gonic/gin"

	"clockwise/backend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, "user_id", true)
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, "role", true)
}

// MustGetBusinessUnitID 从 Gin 上下文中安全提取 business_unit_id。
func MustGetBusinessUnitID(c *gin.Context) (string, bool) {
	return mustGetString(c, "business_unit_id", true)
}

// GetUserName 提取展示用姓名，缺失时返回空串（不中断请求）
func GetUserName(c *gin.Context) string {
	s, _ := mustGetString(c, "user_name", false)
	return s
}

func mustGetString(c *gin.Context, key string, required bool) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		if required {
			response.Unauthorized(c, 10002, "未认证")
		}
		return "", false
	}
	s, ok := v.(string)
	if !ok || (required && s == "") {
		if required {
			response.Unauthorized(c, 10002, "未认证")
		}
		return "", false
	}
	return s, true
}
