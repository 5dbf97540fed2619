package dto

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// BindBookID 从 URI 绑定书籍 ID
func BindBookID(c *gin.Context) string {
	return c.Param("bid")
}

// BindChapterID 从 URI 绑定章节 ID
func BindChapterID(c *gin.Context) string {
	return c.Param("cid")
}

// BindIdeaID 从 URI 绑定创意 ID
func BindIdeaID(c *gin.Context) string {
	return c.Param("iid")
}

// QueryBool 解析布尔查询参数，缺失时返回 nil
func QueryBool(c *gin.Context, name string) *bool {
	v, ok := c.GetQuery(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

// QueryString 解析字符串查询参数，缺失时返回 nil
func QueryString(c *gin.Context, name string) *string {
	v, ok := c.GetQuery(name)
	if !ok || v == "" {
		return nil
	}
	return &v
}
