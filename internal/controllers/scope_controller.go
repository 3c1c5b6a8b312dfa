package controllers

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/gin-identity-provider/internal/services"
	"github.com/gin-gonic/gin"
)

type ScopeController struct {
	scopeService services.ScopeService
}

func NewScopeController(scopeService services.ScopeService) *ScopeController {
	return &ScopeController{scopeService: scopeService}
}

type scopeRequest struct {
	Code        string `json:"code" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// CreateScope godoc
// @Summary Register scope
// @Description Declare a scope code so it can be granted and carried by tokens
// @Tags Scopes
// @Accept json
// @Produce json
// @Param scope body scopeRequest true "Scope details"
// @Success 201 {object} models.Scope
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/scopes [post]
func (sc *ScopeController) CreateScope(c *gin.Context) {
	var req scopeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scope, err := sc.scopeService.CreateScope(req.Code, req.Description)
	if err != nil {
		if errors.Is(err, services.ErrScopeAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "scope_already_exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "scope_creation_failed"})
		return
	}
	c.JSON(http.StatusCreated, scope)
}

// ListScopes godoc
// @Summary List scopes
// @Tags Scopes
// @Produce json
// @Success 200 {array} models.Scope
// @Router /api/v1/scopes [get]
func (sc *ScopeController) ListScopes(c *gin.Context) {
	scopes, err := sc.scopeService.ListScopes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_retrieve_scopes"})
		return
	}
	c.JSON(http.StatusOK, scopes)
}
