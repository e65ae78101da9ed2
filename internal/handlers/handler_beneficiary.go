package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/opengive/donations-backend/internal/core/authz"
	"github.com/opengive/donations-backend/internal/core/domain"
	portssvc "github.com/opengive/donations-backend/internal/core/ports/services"
	"github.com/opengive/donations-backend/internal/dto"
	"github.com/opengive/donations-backend/internal/middleware"
)

type beneficiaryHandler struct {
	beneficiaryService portssvc.BeneficiarySvcFacade

	gatedCreate authz.Operation[dto.CreateBeneficiaryRequest, *domain.Beneficiary]
}

// NewBeneficiaryHandler creates a beneficiaryHandler. Registering a
// beneficiary is restricted to charities and admins; reads are open to any
// authenticated caller.
func NewBeneficiaryHandler(beneficiaryService portssvc.BeneficiarySvcFacade) *beneficiaryHandler {
	h := &beneficiaryHandler{beneficiaryService: beneficiaryService}

	h.gatedCreate = authz.WithAuth(
		func(ctx context.Context, ident *domain.Identity, req dto.CreateBeneficiaryRequest) (*domain.Beneficiary, error) {
			return h.beneficiaryService.CreateBeneficiary(ctx, req)
		},
		authz.HasRole[dto.CreateBeneficiaryRequest](domain.RoleCharity),
		authz.HasRole[dto.CreateBeneficiaryRequest](domain.RoleAdmin),
	)

	return h
}

// RegisterBeneficiaryRoutes registers the beneficiary routes.
func RegisterBeneficiaryRoutes(rg *gin.RouterGroup, beneficiaryService portssvc.BeneficiarySvcFacade) {
	h := NewBeneficiaryHandler(beneficiaryService)

	beneficiaries := rg.Group("/beneficiaries")
	{
		beneficiaries.POST("", h.createBeneficiary)
		beneficiaries.GET("", h.listBeneficiaries)
		beneficiaries.GET("/:beneficiaryID", h.getBeneficiary)
	}
}

// createBeneficiary godoc
// @Summary Register a beneficiary
// @Tags beneficiaries
// @Accept  json
// @Produce  json
// @Param   beneficiary body dto.CreateBeneficiaryRequest true "Beneficiary details"
// @Success 201 {object} dto.BeneficiaryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /beneficiaries [post]
func (h *beneficiaryHandler) createBeneficiary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateBeneficiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBeneficiary", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ident := middleware.GetIdentityFromCtx(c.Request.Context())
	beneficiary, err := h.gatedCreate(c.Request.Context(), ident, req)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Info("Beneficiary registered", slog.Int64("beneficiary_id", beneficiary.BeneficiaryID))
	c.JSON(http.StatusCreated, dto.ToBeneficiaryResponse(beneficiary))
}

// getBeneficiary godoc
// @Summary Get a beneficiary by ID
// @Tags beneficiaries
// @Produce  json
// @Param   beneficiaryID path int true "Beneficiary ID"
// @Success 200 {object} dto.BeneficiaryResponse
// @Failure 404 {object} map[string]string "Beneficiary not found"
// @Security BearerAuth
// @Router /beneficiaries/{beneficiaryID} [get]
func (h *beneficiaryHandler) getBeneficiary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	beneficiaryID, err := strconv.ParseInt(c.Param("beneficiaryID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid beneficiary ID"})
		return
	}

	beneficiary, err := h.beneficiaryService.GetBeneficiaryByID(c.Request.Context(), beneficiaryID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBeneficiaryResponse(beneficiary))
}

// listBeneficiaries godoc
// @Summary List active beneficiaries
// @Tags beneficiaries
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListBeneficiariesResponse
// @Security BearerAuth
// @Router /beneficiaries [get]
func (h *beneficiaryHandler) listBeneficiaries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListBeneficiariesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListBeneficiaries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	beneficiaries, err := h.beneficiaryService.ListBeneficiaries(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListBeneficiariesResponse(beneficiaries))
}
