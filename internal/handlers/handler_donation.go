package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opengive/donations-backend/internal/core/authz"
	"github.com/opengive/donations-backend/internal/core/domain"
	portssvc "github.com/opengive/donations-backend/internal/core/ports/services"
	"github.com/opengive/donations-backend/internal/dto"
	"github.com/opengive/donations-backend/internal/middleware"
)

// donationHandler handles HTTP requests for the donation lifecycle. The
// mutating operations are wrapped by authorization gates at construction
// time, so no service call can happen before the gate allows it.
type donationHandler struct {
	donationService portssvc.DonationSvcFacade

	gatedCreate   authz.Operation[dto.CreateDonationRequest, *dto.CreateDonationResponse]
	gatedComplete authz.Operation[dto.CompleteDonationRequest, *domain.Donation]
}

// NewDonationHandler creates a new donationHandler with its gated
// operations. Creation is open to donors (admins may create on their own
// behalf too). Completion accepts either an admin — confirmations usually
// arrive from a poller or callback running with admin credentials — or the
// original donor referencing their own donor id.
func NewDonationHandler(donationService portssvc.DonationSvcFacade) *donationHandler {
	h := &donationHandler{donationService: donationService}

	h.gatedCreate = authz.WithAuth(
		func(ctx context.Context, ident *domain.Identity, req dto.CreateDonationRequest) (*dto.CreateDonationResponse, error) {
			donation, transfer, err := h.donationService.CreateDonation(ctx, ident.SubjectID, req)
			if err != nil {
				return nil, err
			}
			return &dto.CreateDonationResponse{
				Donation:            dto.ToDonationResponse(donation),
				TransferInstruction: transfer.TransferInstruction,
				MemoInstruction:     transfer.MemoInstruction,
			}, nil
		},
		authz.HasRole[dto.CreateDonationRequest](domain.RoleDonor),
		authz.HasRole[dto.CreateDonationRequest](domain.RoleAdmin),
	)

	h.gatedComplete = authz.WithAuth(
		func(ctx context.Context, ident *domain.Identity, req dto.CompleteDonationRequest) (*domain.Donation, error) {
			return h.donationService.CompleteDonation(ctx, req.DonationID, req.Proof)
		},
		authz.HasRole[dto.CompleteDonationRequest](domain.RoleAdmin),
		authz.MatchesIdentityField("donorId", func(req dto.CompleteDonationRequest) (int64, bool) {
			if req.DonorID == nil {
				return 0, false
			}
			return *req.DonorID, true
		}),
	)

	return h
}

// RegisterDonationRoutes registers the donation routes.
func RegisterDonationRoutes(rg *gin.RouterGroup, donationService portssvc.DonationSvcFacade) {
	h := NewDonationHandler(donationService)

	donations := rg.Group("/donations")
	{
		donations.POST("", h.createDonation)
		donations.POST("/complete", h.completeDonation)
		donations.GET("", h.listDonations)
		donations.GET("/:donationID", h.getDonation)
	}
}

// createDonation godoc
// @Summary Initiate a donation
// @Description Creates a Pending donation and returns the unsigned transfer to sign
// @Tags donations
// @Accept  json
// @Produce  json
// @Param   donation body dto.CreateDonationRequest true "Donation details"
// @Success 201 {object} dto.CreateDonationResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Beneficiary not found"
// @Security BearerAuth
// @Router /donations [post]
func (h *donationHandler) createDonation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDonation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ident := middleware.GetIdentityFromCtx(c.Request.Context())
	resp, err := h.gatedCreate(c.Request.Context(), ident, req)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Info("Donation initiated", slog.String("donation_id", resp.Donation.DonationID))
	c.JSON(http.StatusCreated, resp)
}

// completeDonation godoc
// @Summary Complete a donation
// @Description Finalizes a Pending donation given external proof of payment; idempotent on re-delivery
// @Tags donations
// @Accept  json
// @Produce  json
// @Param   completion body dto.CompleteDonationRequest true "Completion details"
// @Success 200 {object} dto.DonationResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Donation not found"
// @Failure 409 {object} map[string]string "Donation cancelled"
// @Security BearerAuth
// @Router /donations/complete [post]
func (h *donationHandler) completeDonation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CompleteDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CompleteDonation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ident := middleware.GetIdentityFromCtx(c.Request.Context())
	donation, err := h.gatedComplete(c.Request.Context(), ident, req)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Info("Donation completion processed", slog.String("donation_id", donation.DonationID), slog.String("status", string(donation.Status)))
	c.JSON(http.StatusOK, dto.ToDonationResponse(donation))
}

// getDonation godoc
// @Summary Get a donation by ID
// @Description Retrieves a donation; donors only see their own
// @Tags donations
// @Produce  json
// @Param   donationID path string true "Donation ID"
// @Success 200 {object} dto.DonationResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Donation not found"
// @Security BearerAuth
// @Router /donations/{donationID} [get]
func (h *donationHandler) getDonation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ident := middleware.GetIdentityFromCtx(c.Request.Context())
	if ident == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	donation, err := h.donationService.GetDonationByID(c.Request.Context(), c.Param("donationID"))
	if err != nil {
		respondError(c, logger, err)
		return
	}

	// Donors only see their own donations; existence is not revealed.
	if ident.Role == domain.RoleDonor && donation.DonorID != ident.SubjectID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Donation not found"})
		return
	}

	c.JSON(http.StatusOK, dto.ToDonationResponse(donation))
}

// listDonations godoc
// @Summary List the caller's donations
// @Tags donations
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListDonationsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /donations [get]
func (h *donationHandler) listDonations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ident := middleware.GetIdentityFromCtx(c.Request.Context())
	if ident == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListDonationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListDonations", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	donations, err := h.donationService.ListDonationsByDonor(c.Request.Context(), ident.SubjectID, params)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListDonationsResponse(donations))
}
