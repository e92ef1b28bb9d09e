// api/controller/directory_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	zt_errors "github.com/zt-labs/aegis/api/errors"
	logger "github.com/zt-labs/aegis/api/logging"
	"github.com/zt-labs/aegis/api/model"
	"github.com/zt-labs/aegis/api/service"
	"github.com/zt-labs/aegis/api/util"
)

type DirectoryController struct {
	directoryService service.IDirectoryService
}

func NewDirectoryController(directoryService service.IDirectoryService) *DirectoryController {
	return &DirectoryController{
		directoryService: directoryService,
	}
}

// RegisterRoutes registers the administrative registration routes
func (dc *DirectoryController) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/identities", dc.RegisterIdentity)
	r.POST("/identities/bulk", dc.BulkRegisterIdentities)
	r.GET("/identities/:id", dc.GetIdentity)
	r.POST("/devices", dc.RegisterDevice)
	r.POST("/segments", dc.RegisterNetworkSegment)
	r.POST("/policies", dc.RegisterAccessPolicy)
	r.GET("/policies/:id", dc.GetPolicy)
	r.GET("/status", dc.Status)
}

// RegisterIdentity endpoint
func (dc *DirectoryController) RegisterIdentity(c *gin.Context) {
	var identity model.Identity
	if err := c.ShouldBindJSON(&identity); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid identity data", zt_errors.ErrInvalidIdentityData)
		return
	}

	if err := dc.directoryService.RegisterIdentity(c, identity); err != nil {
		if err == zt_errors.ErrInvalidIdentityData {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid identity data", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to register identity", err)
		}
		return
	}

	c.JSON(http.StatusCreated, identity)
}

// BulkRegisterIdentities endpoint: IAM sync batches.
func (dc *DirectoryController) BulkRegisterIdentities(c *gin.Context) {
	var identities []model.Identity
	if err := c.ShouldBindJSON(&identities); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid identity batch", zt_errors.ErrInvalidIdentityData)
		return
	}

	if err := dc.directoryService.BulkRegisterIdentities(c, identities); err != nil {
		if err == zt_errors.ErrInvalidIdentityData {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid identity batch", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to register identity batch", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"registered": len(identities)})
}

// GetIdentity endpoint
func (dc *DirectoryController) GetIdentity(c *gin.Context) {
	identity, err := dc.directoryService.GetIdentity(c, c.Param("id"))
	if err != nil {
		if err == zt_errors.ErrIdentityNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Identity not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to get identity", err)
		}
		return
	}
	c.JSON(http.StatusOK, identity)
}

// RegisterDevice endpoint
func (dc *DirectoryController) RegisterDevice(c *gin.Context) {
	var device model.Device
	if err := c.ShouldBindJSON(&device); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid device data", zt_errors.ErrInvalidDeviceData)
		return
	}

	if err := dc.directoryService.RegisterDevice(c, device); err != nil {
		if err == zt_errors.ErrInvalidDeviceData {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid device data", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to register device", err)
		}
		return
	}

	c.JSON(http.StatusCreated, device)
}

// RegisterNetworkSegment endpoint
func (dc *DirectoryController) RegisterNetworkSegment(c *gin.Context) {
	var segment model.NetworkSegment
	if err := c.ShouldBindJSON(&segment); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid segment data", zt_errors.ErrInvalidSegmentData)
		return
	}

	if err := dc.directoryService.RegisterNetworkSegment(c, segment); err != nil {
		if err == zt_errors.ErrInvalidSegmentData {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid segment data", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to register segment", err)
		}
		return
	}

	c.JSON(http.StatusCreated, segment)
}

// RegisterAccessPolicy endpoint
func (dc *DirectoryController) RegisterAccessPolicy(c *gin.Context) {
	var policy model.AccessPolicy
	if err := c.ShouldBindJSON(&policy); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid policy data", zt_errors.ErrInvalidPolicyData)
		return
	}

	if err := dc.directoryService.RegisterAccessPolicy(c, policy); err != nil {
		if err == zt_errors.ErrInvalidPolicyData {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid policy data", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to register policy", err)
		}
		return
	}

	logger.Info("Access policy registered",
		zap.String("policyID", policy.ID),
		zap.Int("priority", policy.Priority),
		zap.String("registeredBy", util.RequestingAdmin(c)))

	c.JSON(http.StatusCreated, policy)
}

// GetPolicy endpoint
func (dc *DirectoryController) GetPolicy(c *gin.Context) {
	policy, err := dc.directoryService.GetPolicy(c, c.Param("id"))
	if err != nil {
		if err == zt_errors.ErrPolicyNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Policy not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to get policy", err)
		}
		return
	}
	c.JSON(http.StatusOK, policy)
}

// Status endpoint: registry sizes.
func (dc *DirectoryController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, dc.directoryService.Status(c))
}
