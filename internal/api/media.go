package api

import (
	"github.com/gin-gonic/gin"
)

// RegisterMedia serves files written by the local image store, without
// directory listings.
func RegisterMedia(router *gin.Engine, prefix, root string) {
	if prefix == "" {
		prefix = "/media"
	}
	router.StaticFS(prefix, gin.Dir(root, false))
}
