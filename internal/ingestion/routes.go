package ingestion

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, ingestionService IngestionServiceAPI) {
	ingestionController := &IngestionController{Service: ingestionService}

	r.GET("/create_init_db", ingestionController.CreateInitDB)
}
