package conversion

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router gin.IRouter, service *Service, strictIDValidation bool) {
	controller := NewController(service, strictIDValidation)
	router.POST("/convert", controller.Convert)
}
