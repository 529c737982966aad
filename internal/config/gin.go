package config

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupGin() *gin.Engine {
	router := gin.New()

	// Logger + Recovery so a panicking handler cannot take the server down.
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Body size limit (10 MB).
	router.Use(func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 10*1024*1024)
		c.Next()
	})

	return router
}
