package operator

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type OperatorController struct {
	Service OperatorServiceAPI
}

func parseSiret(c *gin.Context) (int64, bool) {
	raw := strings.TrimSpace(c.Param("siret"))
	siret, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || siret <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "un numéro SIRET valide est requis"})
		return 0, false
	}
	return siret, true
}

func (oc *OperatorController) GetBySiret(c *gin.Context) {
	siret, ok := parseSiret(c)
	if !ok {
		return
	}

	op, err := oc.Service.GetBySiret(siret)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, op)
}

func (oc *OperatorController) Create(c *gin.Context) {
	siret, ok := parseSiret(c)
	if !ok {
		return
	}

	var input CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	op, err := oc.Service.Create(siret, input)
	if err != nil {
		if errors.Is(err, ErrSiretExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, op)
}

func (oc *OperatorController) Patch(c *gin.Context) {
	siret, ok := parseSiret(c)
	if !ok {
		return
	}

	var input PatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	op, err := oc.Service.Patch(siret, input)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, op)
}

func (oc *OperatorController) Delete(c *gin.Context) {
	siret, ok := parseSiret(c)
	if !ok {
		return
	}

	if err := oc.Service.Delete(siret); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// parseFilters turns the query string into typed equality filters. Unknown
// or mistyped parameters are rejected rather than silently dropped.
func parseFilters(c *gin.Context) (map[string]interface{}, error) {
	filters := map[string]interface{}{}

	for key, values := range c.Request.URL.Query() {
		raw := strings.TrimSpace(values[0])
		switch key {
		case "nom", "organisme_certificateur":
			filters[key] = raw
		case "cp":
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("paramètre cp invalide: %q", raw)
			}
			filters[key] = n
		case "date_engagement":
			d, err := ParseDate(raw)
			if err != nil {
				return nil, fmt.Errorf("paramètre date_engagement invalide: %q (format attendu YYYY-MM-DD)", raw)
			}
			filters[key] = d
		case "producteur", "preparateur", "distributeur", "restaurateur",
			"stockeur", "importateur", "exportateur":
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("paramètre %s invalide: %q", key, raw)
			}
			filters[key] = b
		default:
			return nil, fmt.Errorf("paramètre de filtre inconnu: %s", key)
		}
	}

	return filters, nil
}

func (oc *OperatorController) Filter(c *gin.Context) {
	filters, err := parseFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ops, err := oc.Service.FindByFilters(filters)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyFilter), errors.Is(err, ErrUnknownFilter):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "pas d'opérateur trouvé en base satisfaisant les filtres demandés"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, ops)
}

func (oc *OperatorController) Export(c *gin.Context) {
	filters, err := parseFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filename, contentType, data, err := oc.Service.ExportByFilters(filters)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyFilter), errors.Is(err, ErrUnknownFilter):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "pas d'opérateur trouvé en base satisfaisant les filtres demandés"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}
