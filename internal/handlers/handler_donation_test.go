package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/opengive/donations-backend/internal/apperrors"
	"github.com/opengive/donations-backend/internal/core/domain"
	portssvc "github.com/opengive/donations-backend/internal/core/ports/services"
	"github.com/opengive/donations-backend/internal/dto"
	"github.com/opengive/donations-backend/internal/handlers"
	"github.com/opengive/donations-backend/internal/middleware"
	"github.com/opengive/donations-backend/internal/utils"
)

// --- Mock DonationService ---
type MockDonationService struct {
	mock.Mock
}

func (m *MockDonationService) CreateDonation(ctx context.Context, donorID int64, req dto.CreateDonationRequest) (*domain.Donation, *domain.TransferRequest, error) {
	args := m.Called(ctx, donorID, req)
	var donation *domain.Donation
	if args.Get(0) != nil {
		donation = args.Get(0).(*domain.Donation)
	}
	var transfer *domain.TransferRequest
	if args.Get(1) != nil {
		transfer = args.Get(1).(*domain.TransferRequest)
	}
	return donation, transfer, args.Error(2)
}

func (m *MockDonationService) CompleteDonation(ctx context.Context, donationID string, settlementReference string) (*domain.Donation, error) {
	args := m.Called(ctx, donationID, settlementReference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}

func (m *MockDonationService) CancelExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDonationService) GetDonationByID(ctx context.Context, donationID string) (*domain.Donation, error) {
	args := m.Called(ctx, donationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}

func (m *MockDonationService) ListDonationsByDonor(ctx context.Context, donorID int64, params dto.ListDonationsParams) ([]domain.Donation, error) {
	args := m.Called(ctx, donorID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Donation), args.Error(1)
}

var _ portssvc.DonationSvcFacade = (*MockDonationService)(nil)

// --- Test Suite ---
type DonationHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	jwtSecret           string
	mockDonationService *MockDonationService
}

func (suite *DonationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(handlers.RegisterCustomValidators())

	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.router.Use(middleware.IdentityMiddleware(suite.jwtSecret))

	suite.mockDonationService = new(MockDonationService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterDonationRoutes(v1, suite.mockDonationService)
}

func (suite *DonationHandlerTestSuite) generateTestToken(userID int64, role domain.Role) string {
	token, err := utils.GenerateJWT(userID, role, suite.jwtSecret, time.Hour, "donations-test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (suite *DonationHandlerTestSuite) doJSON(method, url, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- CreateDonation Tests ---

func (suite *DonationHandlerTestSuite) TestCreateDonation_Success() {
	donorID := int64(7)
	reqBody := dto.CreateDonationRequest{BeneficiaryID: 42, AmountInBaseUnits: 1_000_000_000, CurrencyCode: "SOL"}

	donation := &domain.Donation{
		DonationID:    uuid.NewString(),
		DonorID:       donorID,
		BeneficiaryID: 42,
		Amount:        1_000_000_000,
		CurrencyCode:  "SOL",
		Status:        domain.DonationPending,
	}
	transfer := &domain.TransferRequest{
		TransferInstruction: domain.TransferInstruction{PayerAddress: "donor-wallet", RecipientAddress: "beneficiary-wallet", Amount: 1_000_000_000},
	}

	suite.mockDonationService.On("CreateDonation", mock.Anything, donorID, reqBody).Return(donation, transfer, nil).Once()

	token := suite.generateTestToken(donorID, domain.RoleDonor)
	w := suite.doJSON(http.MethodPost, "/api/v1/donations", token, reqBody)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.CreateDonationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(donation.DonationID, resp.Donation.DonationID)
	suite.Equal("PENDING", string(resp.Donation.Status))
	suite.EqualValues(1_000_000_000, resp.TransferInstruction.Amount)

	suite.mockDonationService.AssertExpectations(suite.T())
}

func (suite *DonationHandlerTestSuite) TestCreateDonation_UnauthenticatedIsDenied() {
	reqBody := dto.CreateDonationRequest{BeneficiaryID: 42, AmountInBaseUnits: 100, CurrencyCode: "SOL"}

	w := suite.doJSON(http.MethodPost, "/api/v1/donations", "", reqBody)

	suite.Equal(http.StatusUnauthorized, w.Code)
	var resp map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(apperrors.CodeUnauthorized, resp["code"])
	suite.mockDonationService.AssertNotCalled(suite.T(), "CreateDonation", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DonationHandlerTestSuite) TestCreateDonation_CharityRoleIsDenied() {
	reqBody := dto.CreateDonationRequest{BeneficiaryID: 42, AmountInBaseUnits: 100, CurrencyCode: "SOL"}

	token := suite.generateTestToken(9, domain.RoleCharity)
	w := suite.doJSON(http.MethodPost, "/api/v1/donations", token, reqBody)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockDonationService.AssertNotCalled(suite.T(), "CreateDonation", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DonationHandlerTestSuite) TestCreateDonation_InvalidBody() {
	token := suite.generateTestToken(7, domain.RoleDonor)
	w := suite.doJSON(http.MethodPost, "/api/v1/donations", token, map[string]any{
		"beneficiaryId":     42,
		"amountInBaseUnits": -5,
		"currencyCode":      "SOL",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockDonationService.AssertNotCalled(suite.T(), "CreateDonation", mock.Anything, mock.Anything, mock.Anything)
}

// --- CompleteDonation Tests ---

func (suite *DonationHandlerTestSuite) TestCompleteDonation_AdminSuccess() {
	donationID := uuid.NewString()
	ref := "sigA"
	completed := &domain.Donation{DonationID: donationID, DonorID: 7, Status: domain.DonationCompleted, SettlementReference: &ref}

	suite.mockDonationService.On("CompleteDonation", mock.Anything, donationID, ref).Return(completed, nil).Once()

	token := suite.generateTestToken(1, domain.RoleAdmin)
	w := suite.doJSON(http.MethodPost, "/api/v1/donations/complete", token, dto.CompleteDonationRequest{
		DonationID: donationID,
		Proof:      ref,
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.DonationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("COMPLETED", string(resp.Status))
	suite.mockDonationService.AssertExpectations(suite.T())
}

func (suite *DonationHandlerTestSuite) TestCompleteDonation_DonorOwnDonation() {
	donationID := uuid.NewString()
	donorID := int64(7)
	ref := "sigA"
	completed := &domain.Donation{DonationID: donationID, DonorID: donorID, Status: domain.DonationCompleted, SettlementReference: &ref}

	suite.mockDonationService.On("CompleteDonation", mock.Anything, donationID, ref).Return(completed, nil).Once()

	token := suite.generateTestToken(donorID, domain.RoleDonor)
	w := suite.doJSON(http.MethodPost, "/api/v1/donations/complete", token, dto.CompleteDonationRequest{
		DonationID: donationID,
		Proof:      ref,
		DonorID:    &donorID,
	})

	suite.Equal(http.StatusOK, w.Code)
	suite.mockDonationService.AssertExpectations(suite.T())
}

func (suite *DonationHandlerTestSuite) TestCompleteDonation_DonorMismatchedIDIsDenied() {
	otherDonor := int64(8)

	token := suite.generateTestToken(7, domain.RoleDonor)
	w := suite.doJSON(http.MethodPost, "/api/v1/donations/complete", token, dto.CompleteDonationRequest{
		DonationID: uuid.NewString(),
		Proof:      "sigA",
		DonorID:    &otherDonor,
	})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockDonationService.AssertNotCalled(suite.T(), "CompleteDonation", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DonationHandlerTestSuite) TestCompleteDonation_DonorWithoutDonorIDIsRejected() {
	// A donor omitting the donorId correlation field fails validation in
	// the matching strategy, not authorization.
	token := suite.generateTestToken(7, domain.RoleDonor)
	w := suite.doJSON(http.MethodPost, "/api/v1/donations/complete", token, dto.CompleteDonationRequest{
		DonationID: uuid.NewString(),
		Proof:      "sigA",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	var resp map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(apperrors.CodeInvalidArguments, resp["code"])
	suite.mockDonationService.AssertNotCalled(suite.T(), "CompleteDonation", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DonationHandlerTestSuite) TestCompleteDonation_CancelledIsConflict() {
	donationID := uuid.NewString()

	suite.mockDonationService.On("CompleteDonation", mock.Anything, donationID, "sigA").
		Return(nil, apperrors.ErrConflict).Once()

	token := suite.generateTestToken(1, domain.RoleAdmin)
	w := suite.doJSON(http.MethodPost, "/api/v1/donations/complete", token, dto.CompleteDonationRequest{
		DonationID: donationID,
		Proof:      "sigA",
	})

	suite.Equal(http.StatusConflict, w.Code)
	var resp map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(apperrors.CodeConflict, resp["code"])
}

// --- GetDonation Tests ---

func (suite *DonationHandlerTestSuite) TestGetDonation_OwnerSees() {
	donationID := uuid.NewString()
	donation := &domain.Donation{DonationID: donationID, DonorID: 7, Status: domain.DonationPending}

	suite.mockDonationService.On("GetDonationByID", mock.Anything, donationID).Return(donation, nil).Once()

	token := suite.generateTestToken(7, domain.RoleDonor)
	w := suite.doJSON(http.MethodGet, "/api/v1/donations/"+donationID, token, nil)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *DonationHandlerTestSuite) TestGetDonation_OtherDonorGets404() {
	donationID := uuid.NewString()
	donation := &domain.Donation{DonationID: donationID, DonorID: 7, Status: domain.DonationPending}

	suite.mockDonationService.On("GetDonationByID", mock.Anything, donationID).Return(donation, nil).Once()

	token := suite.generateTestToken(8, domain.RoleDonor)
	w := suite.doJSON(http.MethodGet, "/api/v1/donations/"+donationID, token, nil)

	// Existence is not revealed to non-owners.
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *DonationHandlerTestSuite) TestGetDonation_Unauthenticated() {
	w := suite.doJSON(http.MethodGet, "/api/v1/donations/"+uuid.NewString(), "", nil)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockDonationService.AssertNotCalled(suite.T(), "GetDonationByID", mock.Anything, mock.Anything)
}

// --- ListDonations Tests ---

func (suite *DonationHandlerTestSuite) TestListDonations_ScopedToCaller() {
	donorID := int64(7)
	donations := []domain.Donation{
		{DonationID: uuid.NewString(), DonorID: donorID, Status: domain.DonationCompleted},
		{DonationID: uuid.NewString(), DonorID: donorID, Status: domain.DonationPending},
	}

	suite.mockDonationService.On("ListDonationsByDonor", mock.Anything, donorID, mock.MatchedBy(func(p dto.ListDonationsParams) bool {
		return p.Limit == 10 && p.Offset == 0
	})).Return(donations, nil).Once()

	token := suite.generateTestToken(donorID, domain.RoleDonor)
	w := suite.doJSON(http.MethodGet, "/api/v1/donations?limit=10", token, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListDonationsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Donations, 2)
	suite.mockDonationService.AssertExpectations(suite.T())
}

func TestDonationHandler(t *testing.T) {
	suite.Run(t, new(DonationHandlerTestSuite))
}
