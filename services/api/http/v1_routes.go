package http

import "github.com/gin-gonic/gin"

func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware())
	v1.Use(s.bearerAuthMiddleware())

	dives := v1.Group("/dives")
	{
		dives.GET("", s.handleListDives)
		dives.POST("", s.handleCreateDive)
		dives.GET("/:id", s.handleGetDive)
		dives.PUT("/:id", s.handleUpdateDive)
		dives.DELETE("/:id", s.handleDeleteDive)
	}

	imports := v1.Group("/import")
	{
		imports.POST("", s.handleImport)
		imports.GET("/progress/:run_id", s.handleImportProgress)
	}

	v1.GET("/export", s.handleExport)
	v1.GET("/stats", s.handleStats)
}

func apiVersionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-API-Version", "v1")
		c.Next()
	}
}
