package ingestion

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type IngestionController struct {
	Service IngestionServiceAPI
}

func (ic *IngestionController) CreateInitDB(c *gin.Context) {
	report, err := ic.Service.Run(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrFeedUnavailable) {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.String(http.StatusOK,
		"Base de données initiale générée avec succès (%d enregistrements chargés, %d lignes écartées)",
		report.Inserted, report.Discarded)
}
