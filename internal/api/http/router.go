package http

import "github.com/gin-gonic/gin"

func NewRouter(controller *PrecheckController) *gin.Engine {
	router := gin.Default()

	router.GET("/health", controller.Health)
	router.GET("/status", controller.Status)
	router.GET("/report", controller.Report)
	router.POST("/run", controller.Run)

	return router
}
