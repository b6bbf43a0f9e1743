package operator

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, operatorService OperatorServiceAPI) {
	operatorController := &OperatorController{Service: operatorService}

	resourceGroup := r.Group("/api/v1/resources")
	{
		resourceGroup.GET("/operateur/:siret", operatorController.GetBySiret)
		resourceGroup.PUT("/operateur/:siret", operatorController.Create)
		resourceGroup.PATCH("/operateur/:siret", operatorController.Patch)
		resourceGroup.DELETE("/operateur/:siret", operatorController.Delete)
		resourceGroup.GET("/operateurs-filtres", operatorController.Filter)
		resourceGroup.GET("/operateurs-filtres/export", operatorController.Export)
	}
}
