package controllers

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/gin-identity-provider/internal/services"
	"github.com/gin-gonic/gin"
)

type ApplicationController struct {
	applicationService services.ApplicationService
}

func NewApplicationController(applicationService services.ApplicationService) *ApplicationController {
	return &ApplicationController{applicationService: applicationService}
}

type applicationRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	IconURI     string `json:"icon_uri"`
}

// CreateApplication godoc
// @Summary Register client application
// @Description Register an OAuth2 client application. The client secret is only returned in this response.
// @Tags Applications
// @Accept json
// @Produce json
// @Param application body applicationRequest true "Application details"
// @Success 201 {object} map[string]interface{} "Application with client_id and one-time client_secret"
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/applications [post]
func (cc *ApplicationController) CreateApplication(c *gin.Context) {
	var req applicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	application, credentials, err := cc.applicationService.CreateApplication(req.Name, req.Description, req.IconURI)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "application_creation_failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"uid":           application.UID,
		"name":          application.Name,
		"description":   application.Description,
		"icon_uri":      application.IconURI,
		"client_id":     credentials.ClientID,
		"client_secret": credentials.ClientSecret, // Return plain secret only once
	})
}

// ListApplications godoc
// @Summary List client applications
// @Tags Applications
// @Produce json
// @Param name query string false "Filter by name"
// @Success 200 {array} models.Application
// @Security BearerAuth
// @Router /api/v1/applications [get]
func (cc *ApplicationController) ListApplications(c *gin.Context) {
	applications, err := cc.applicationService.SearchApplications(c.Query("name"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_retrieve_applications"})
		return
	}
	c.JSON(http.StatusOK, applications)
}

// GetApplication godoc
// @Summary Get client application
// @Tags Applications
// @Produce json
// @Param uid path string true "Application UID"
// @Success 200 {object} models.Application
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/applications/{uid} [get]
func (cc *ApplicationController) GetApplication(c *gin.Context) {
	application, err := cc.applicationService.GetApplication(c.Param("uid"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "application_not_found"})
		return
	}
	c.JSON(http.StatusOK, application)
}

// UpdateApplication godoc
// @Summary Update client application
// @Description Edit name, description and icon. The client_id is immutable.
// @Tags Applications
// @Accept json
// @Produce json
// @Param uid path string true "Application UID"
// @Param application body applicationRequest true "New details"
// @Success 200 {object} models.Application
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/applications/{uid} [put]
func (cc *ApplicationController) UpdateApplication(c *gin.Context) {
	var req applicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	application, err := cc.applicationService.UpdateApplication(c.Param("uid"), req.Name, req.Description, req.IconURI)
	if err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "application_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "application_update_failed"})
		return
	}
	c.JSON(http.StatusOK, application)
}

// DeleteApplication godoc
// @Summary Delete client application
// @Tags Applications
// @Param uid path string true "Application UID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/applications/{uid} [delete]
func (cc *ApplicationController) DeleteApplication(c *gin.Context) {
	if err := cc.applicationService.DeleteApplication(c.Param("uid")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "application_not_found"})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

type redirectURIRequest struct {
	RedirectURI string `json:"redirect_uri" binding:"required"`
}

// ListRedirectURIs godoc
// @Summary List authorized redirect URIs
// @Tags Applications
// @Produce json
// @Param uid path string true "Application UID"
// @Success 200 {array} models.RedirectURI
// @Security BearerAuth
// @Router /api/v1/applications/{uid}/redirect-uris [get]
func (cc *ApplicationController) ListRedirectURIs(c *gin.Context) {
	uris, err := cc.applicationService.ListRedirectURIs(c.Param("uid"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_retrieve_redirect_uris"})
		return
	}
	c.JSON(http.StatusOK, uris)
}

// AddRedirectURI godoc
// @Summary Register redirect URI
// @Tags Applications
// @Accept json
// @Produce json
// @Param uid path string true "Application UID"
// @Param redirect_uri body redirectURIRequest true "Callback target"
// @Success 201 {object} models.RedirectURI
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/applications/{uid}/redirect-uris [post]
func (cc *ApplicationController) AddRedirectURI(c *gin.Context) {
	var req redirectURIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	uri, err := cc.applicationService.AddRedirectURI(c.Param("uid"), req.RedirectURI)
	if err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "application_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "redirect_uri_creation_failed"})
		return
	}
	c.JSON(http.StatusCreated, uri)
}

// UpdateRedirectURI godoc
// @Summary Update redirect URI
// @Tags Applications
// @Accept json
// @Produce json
// @Param uid path string true "Application UID"
// @Param redirect_uid path string true "Redirect URI UID"
// @Param redirect_uri body redirectURIRequest true "New callback target"
// @Success 200 {object} models.RedirectURI
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/applications/{uid}/redirect-uris/{redirect_uid} [put]
func (cc *ApplicationController) UpdateRedirectURI(c *gin.Context) {
	var req redirectURIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	uri, err := cc.applicationService.UpdateRedirectURI(c.Param("uid"), c.Param("redirect_uid"), req.RedirectURI)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "redirect_uri_not_found"})
		return
	}
	c.JSON(http.StatusOK, uri)
}

// RemoveRedirectURI godoc
// @Summary Remove redirect URI
// @Tags Applications
// @Param uid path string true "Application UID"
// @Param redirect_uid path string true "Redirect URI UID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/applications/{uid}/redirect-uris/{redirect_uid} [delete]
func (cc *ApplicationController) RemoveRedirectURI(c *gin.Context) {
	if err := cc.applicationService.RemoveRedirectURI(c.Param("uid"), c.Param("redirect_uid")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "redirect_uri_not_found"})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
