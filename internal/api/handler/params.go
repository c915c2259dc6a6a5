package handler

import (
	"Lokiz/internal/pkg/response"
	"Lokiz/internal/pkg/util"
	"Lokiz/internal/service"

	"github.com/gin-gonic/gin"
)

// pathID 解析路径中的正整数 id，失败时直接写回 400
func pathID(c *gin.Context, name string) (uint64, bool) {
	id, ok := util.ParseUint64(c.Param(name))
	if !ok || id == 0 {
		response.Error(c, service.ErrParamInvalid)
		return 0, false
	}
	return id, true
}
