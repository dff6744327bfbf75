package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ashokgiriii/tweet-nepal/middleware"
)

// currentUserID reads the authenticated user ID placed in the context by the
// session middleware.
func currentUserID(ctx *gin.Context) (uint, bool) {
	v, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// uintParam parses a numeric path parameter.
func uintParam(ctx *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}
