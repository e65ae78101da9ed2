package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/opengive/donations-backend/internal/apperrors"
	"github.com/opengive/donations-backend/internal/core/domain"
	portssvc "github.com/opengive/donations-backend/internal/core/ports/services"
	"github.com/opengive/donations-backend/internal/core/services"
	"github.com/opengive/donations-backend/internal/dto"
)

// --- Mock DonationRepository ---
type MockDonationRepository struct {
	mock.Mock
}

func (m *MockDonationRepository) SaveDonation(ctx context.Context, donation domain.Donation) error {
	args := m.Called(ctx, donation)
	return args.Error(0)
}

func (m *MockDonationRepository) FindDonationByID(ctx context.Context, donationID string) (*domain.Donation, error) {
	args := m.Called(ctx, donationID)
	var donation *domain.Donation
	if args.Get(0) != nil {
		donation = args.Get(0).(*domain.Donation)
	}
	return donation, args.Error(1)
}

func (m *MockDonationRepository) ListDonationsByDonor(ctx context.Context, donorID int64, limit int, offset int) ([]domain.Donation, error) {
	args := m.Called(ctx, donorID, limit, offset)
	var donations []domain.Donation
	if args.Get(0) != nil {
		donations = args.Get(0).([]domain.Donation)
	}
	return donations, args.Error(1)
}

func (m *MockDonationRepository) MarkDonationCompleted(ctx context.Context, donationID string, settlementReference string, now time.Time) (bool, error) {
	args := m.Called(ctx, donationID, settlementReference, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockDonationRepository) CancelExpiredDonations(ctx context.Context, cutoff time.Time, now time.Time) (int64, error) {
	args := m.Called(ctx, cutoff, now)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock BeneficiaryReader ---
type MockBeneficiaryReader struct {
	mock.Mock
}

func (m *MockBeneficiaryReader) FindBeneficiaryByID(ctx context.Context, beneficiaryID int64) (*domain.Beneficiary, error) {
	args := m.Called(ctx, beneficiaryID)
	var beneficiary *domain.Beneficiary
	if args.Get(0) != nil {
		beneficiary = args.Get(0).(*domain.Beneficiary)
	}
	return beneficiary, args.Error(1)
}

func (m *MockBeneficiaryReader) ListBeneficiaries(ctx context.Context, limit int, offset int) ([]domain.Beneficiary, error) {
	args := m.Called(ctx, limit, offset)
	var beneficiaries []domain.Beneficiary
	if args.Get(0) != nil {
		beneficiaries = args.Get(0).([]domain.Beneficiary)
	}
	return beneficiaries, args.Error(1)
}

// --- Mock UserReader ---
type MockUserReader struct {
	mock.Mock
}

func (m *MockUserReader) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserReader) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

// --- Mock CurrencyReader ---
type MockCurrencyReader struct {
	mock.Mock
}

func (m *MockCurrencyReader) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	var currency *domain.Currency
	if args.Get(0) != nil {
		currency = args.Get(0).(*domain.Currency)
	}
	return currency, args.Error(1)
}

func (m *MockCurrencyReader) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	var currencies []domain.Currency
	if args.Get(0) != nil {
		currencies = args.Get(0).([]domain.Currency)
	}
	return currencies, args.Error(1)
}

// --- Test Suite ---
type DonationServiceTestSuite struct {
	suite.Suite
	mockDonationRepo    *MockDonationRepository
	mockBeneficiaryRepo *MockBeneficiaryReader
	mockUserRepo        *MockUserReader
	mockCurrencyRepo    *MockCurrencyReader
	service             portssvc.DonationSvcFacade
}

func (suite *DonationServiceTestSuite) SetupTest() {
	suite.mockDonationRepo = new(MockDonationRepository)
	suite.mockBeneficiaryRepo = new(MockBeneficiaryReader)
	suite.mockUserRepo = new(MockUserReader)
	suite.mockCurrencyRepo = new(MockCurrencyReader)
	suite.service = services.NewDonationService(
		suite.mockDonationRepo,
		suite.mockBeneficiaryRepo,
		suite.mockUserRepo,
		suite.mockCurrencyRepo,
		24*time.Hour,
	)
}

func solCurrency() *domain.Currency {
	return &domain.Currency{CurrencyCode: "SOL", Name: "Solana", Decimals: 9}
}

func activeBeneficiary() *domain.Beneficiary {
	return &domain.Beneficiary{BeneficiaryID: 42, Name: "Clean Water Fund", WalletAddress: "BeneficiaryWallet111", IsActive: true}
}

func donorUser() *domain.User {
	return &domain.User{UserID: 7, Email: "donor@example.com", Role: domain.RoleDonor, WalletAddress: "DonorWallet111"}
}

// --- CreateDonation Tests ---

func (suite *DonationServiceTestSuite) TestCreateDonation_Success() {
	ctx := context.Background()
	req := dto.CreateDonationRequest{BeneficiaryID: 42, AmountInBaseUnits: 1_000_000_000, CurrencyCode: "SOL"}

	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "SOL").Return(solCurrency(), nil).Once()
	suite.mockBeneficiaryRepo.On("FindBeneficiaryByID", ctx, int64(42)).Return(activeBeneficiary(), nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, int64(7)).Return(donorUser(), nil).Once()
	suite.mockDonationRepo.On("SaveDonation", ctx, mock.MatchedBy(func(d domain.Donation) bool {
		return d.DonorID == 7 &&
			d.BeneficiaryID == 42 &&
			d.Amount == 1_000_000_000 &&
			d.CurrencyCode == "SOL" &&
			d.Status == domain.DonationPending &&
			d.SettlementReference == nil &&
			d.DonationID != ""
	})).Return(nil).Once()

	donation, transfer, err := suite.service.CreateDonation(ctx, 7, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(donation)
	suite.Require().NotNil(transfer)

	suite.Equal(domain.DonationPending, donation.Status)
	suite.EqualValues(1_000_000_000, donation.Amount)
	suite.Nil(donation.SettlementReference)

	// The unsigned transfer moves the exact base-unit amount between the
	// stored wallet addresses.
	suite.Equal("DonorWallet111", transfer.TransferInstruction.PayerAddress)
	suite.Equal("BeneficiaryWallet111", transfer.TransferInstruction.RecipientAddress)
	suite.EqualValues(1_000_000_000, transfer.TransferInstruction.Amount)

	// The memo correlates the transfer back to the donation: 1e9 lamports
	// is exactly 1 SOL.
	suite.Equal(donation.DonationID, transfer.MemoInstruction.DonationID)
	suite.Equal("1", transfer.MemoInstruction.Amount.String())
	suite.Equal("SOL", transfer.MemoInstruction.Currency)
	suite.Equal(domain.MemoVersion, transfer.MemoInstruction.Version)

	suite.mockDonationRepo.AssertExpectations(suite.T())
	suite.mockBeneficiaryRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockCurrencyRepo.AssertExpectations(suite.T())
}

func (suite *DonationServiceTestSuite) TestCreateDonation_NonPositiveAmount() {
	ctx := context.Background()

	for _, amount := range []int64{0, -1, -1_000_000_000} {
		req := dto.CreateDonationRequest{BeneficiaryID: 42, AmountInBaseUnits: amount, CurrencyCode: "SOL"}
		donation, transfer, err := suite.service.CreateDonation(ctx, 7, req)
		suite.Require().Error(err)
		suite.ErrorIs(err, apperrors.ErrValidation)
		suite.Nil(donation)
		suite.Nil(transfer)
	}

	// Validation fails before any repository is consulted.
	suite.mockDonationRepo.AssertNotCalled(suite.T(), "SaveDonation", mock.Anything, mock.Anything)
	suite.mockCurrencyRepo.AssertNotCalled(suite.T(), "FindCurrencyByCode", mock.Anything, mock.Anything)
}

func (suite *DonationServiceTestSuite) TestCreateDonation_UnsupportedCurrency() {
	ctx := context.Background()
	req := dto.CreateDonationRequest{BeneficiaryID: 42, AmountInBaseUnits: 100, CurrencyCode: "DOGE"}

	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "DOGE").Return(nil, apperrors.ErrNotFound).Once()

	donation, transfer, err := suite.service.CreateDonation(ctx, 7, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(donation)
	suite.Nil(transfer)
	suite.mockDonationRepo.AssertNotCalled(suite.T(), "SaveDonation", mock.Anything, mock.Anything)
}

func (suite *DonationServiceTestSuite) TestCreateDonation_BeneficiaryNotFound() {
	ctx := context.Background()
	req := dto.CreateDonationRequest{BeneficiaryID: 404, AmountInBaseUnits: 100, CurrencyCode: "SOL"}

	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "SOL").Return(solCurrency(), nil).Once()
	suite.mockBeneficiaryRepo.On("FindBeneficiaryByID", ctx, int64(404)).Return(nil, apperrors.ErrNotFound).Once()

	donation, transfer, err := suite.service.CreateDonation(ctx, 7, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(donation)
	suite.Nil(transfer)
	suite.mockDonationRepo.AssertNotCalled(suite.T(), "SaveDonation", mock.Anything, mock.Anything)
}

func (suite *DonationServiceTestSuite) TestCreateDonation_InactiveBeneficiary() {
	ctx := context.Background()
	req := dto.CreateDonationRequest{BeneficiaryID: 42, AmountInBaseUnits: 100, CurrencyCode: "SOL"}

	inactive := activeBeneficiary()
	inactive.IsActive = false

	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "SOL").Return(solCurrency(), nil).Once()
	suite.mockBeneficiaryRepo.On("FindBeneficiaryByID", ctx, int64(42)).Return(inactive, nil).Once()

	_, _, err := suite.service.CreateDonation(ctx, 7, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockDonationRepo.AssertNotCalled(suite.T(), "SaveDonation", mock.Anything, mock.Anything)
}

func (suite *DonationServiceTestSuite) TestCreateDonation_DonorWithoutWallet() {
	ctx := context.Background()
	req := dto.CreateDonationRequest{BeneficiaryID: 42, AmountInBaseUnits: 100, CurrencyCode: "SOL"}

	walletless := donorUser()
	walletless.WalletAddress = ""

	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "SOL").Return(solCurrency(), nil).Once()
	suite.mockBeneficiaryRepo.On("FindBeneficiaryByID", ctx, int64(42)).Return(activeBeneficiary(), nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, int64(7)).Return(walletless, nil).Once()

	_, _, err := suite.service.CreateDonation(ctx, 7, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	// The transfer could not be built, so nothing was persisted.
	suite.mockDonationRepo.AssertNotCalled(suite.T(), "SaveDonation", mock.Anything, mock.Anything)
}

func (suite *DonationServiceTestSuite) TestCreateDonation_SaveFailureIsSettlementError() {
	ctx := context.Background()
	req := dto.CreateDonationRequest{BeneficiaryID: 42, AmountInBaseUnits: 100, CurrencyCode: "SOL"}

	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "SOL").Return(solCurrency(), nil).Once()
	suite.mockBeneficiaryRepo.On("FindBeneficiaryByID", ctx, int64(42)).Return(activeBeneficiary(), nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, int64(7)).Return(donorUser(), nil).Once()
	suite.mockDonationRepo.On("SaveDonation", ctx, mock.AnythingOfType("domain.Donation")).Return(assert.AnError).Once()

	donation, transfer, err := suite.service.CreateDonation(ctx, 7, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrSettlement)
	suite.Nil(donation)
	suite.Nil(transfer)
	suite.mockDonationRepo.AssertExpectations(suite.T())
}

// --- CompleteDonation Tests ---

func (suite *DonationServiceTestSuite) TestCompleteDonation_Success() {
	ctx := context.Background()
	donationID := uuid.NewString()
	ref := "sigA"

	completed := &domain.Donation{
		DonationID:          donationID,
		DonorID:             7,
		Status:              domain.DonationCompleted,
		SettlementReference: &ref,
	}

	suite.mockDonationRepo.On("MarkDonationCompleted", ctx, donationID, ref, mock.AnythingOfType("time.Time")).Return(true, nil).Once()
	suite.mockDonationRepo.On("FindDonationByID", ctx, donationID).Return(completed, nil).Once()

	donation, err := suite.service.CompleteDonation(ctx, donationID, ref)

	suite.Require().NoError(err)
	suite.Equal(domain.DonationCompleted, donation.Status)
	suite.Require().NotNil(donation.SettlementReference)
	suite.Equal("sigA", *donation.SettlementReference)
	suite.mockDonationRepo.AssertExpectations(suite.T())
}

func (suite *DonationServiceTestSuite) TestCompleteDonation_MissingReference() {
	ctx := context.Background()

	donation, err := suite.service.CompleteDonation(ctx, uuid.NewString(), "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(donation)
	suite.mockDonationRepo.AssertNotCalled(suite.T(), "MarkDonationCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DonationServiceTestSuite) TestCompleteDonation_NotFound() {
	ctx := context.Background()
	donationID := uuid.NewString()

	suite.mockDonationRepo.On("MarkDonationCompleted", ctx, donationID, "sigA", mock.AnythingOfType("time.Time")).Return(false, nil).Once()
	suite.mockDonationRepo.On("FindDonationByID", ctx, donationID).Return(nil, apperrors.ErrNotFound).Once()

	donation, err := suite.service.CompleteDonation(ctx, donationID, "sigA")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(donation)
}

// A duplicate confirmation succeeds as a no-op and the original settlement
// reference stands, even when the retry carries a different reference.
func (suite *DonationServiceTestSuite) TestCompleteDonation_DuplicateConfirmationIsIdempotent() {
	ctx := context.Background()
	donationID := uuid.NewString()
	original := "sigA"

	alreadyCompleted := &domain.Donation{
		DonationID:          donationID,
		DonorID:             7,
		Status:              domain.DonationCompleted,
		SettlementReference: &original,
	}

	suite.mockDonationRepo.On("MarkDonationCompleted", ctx, donationID, "sigB", mock.AnythingOfType("time.Time")).Return(false, nil).Once()
	suite.mockDonationRepo.On("FindDonationByID", ctx, donationID).Return(alreadyCompleted, nil).Once()

	donation, err := suite.service.CompleteDonation(ctx, donationID, "sigB")

	suite.Require().NoError(err)
	suite.Equal(domain.DonationCompleted, donation.Status)
	suite.Require().NotNil(donation.SettlementReference)
	suite.Equal("sigA", *donation.SettlementReference)
	suite.mockDonationRepo.AssertExpectations(suite.T())
}

func (suite *DonationServiceTestSuite) TestCompleteDonation_CancelledIsConflict() {
	ctx := context.Background()
	donationID := uuid.NewString()

	cancelled := &domain.Donation{DonationID: donationID, DonorID: 7, Status: domain.DonationCancelled}

	suite.mockDonationRepo.On("MarkDonationCompleted", ctx, donationID, "sigA", mock.AnythingOfType("time.Time")).Return(false, nil).Once()
	suite.mockDonationRepo.On("FindDonationByID", ctx, donationID).Return(cancelled, nil).Once()

	donation, err := suite.service.CompleteDonation(ctx, donationID, "sigA")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(donation)
}

func (suite *DonationServiceTestSuite) TestCompleteDonation_StoreErrorIsSettlementError() {
	ctx := context.Background()
	donationID := uuid.NewString()

	suite.mockDonationRepo.On("MarkDonationCompleted", ctx, donationID, "sigA", mock.AnythingOfType("time.Time")).Return(false, assert.AnError).Once()

	donation, err := suite.service.CompleteDonation(ctx, donationID, "sigA")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrSettlement)
	suite.Nil(donation)
}

// --- CancelExpired Tests ---

func (suite *DonationServiceTestSuite) TestCancelExpired() {
	ctx := context.Background()
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	cutoff := now.Add(-24 * time.Hour)

	suite.mockDonationRepo.On("CancelExpiredDonations", ctx, cutoff, now).Return(int64(3), nil).Once()

	cancelled, err := suite.service.CancelExpired(ctx, now)

	suite.Require().NoError(err)
	suite.EqualValues(3, cancelled)
	suite.mockDonationRepo.AssertExpectations(suite.T())
}

func (suite *DonationServiceTestSuite) TestCancelExpired_DisabledWithoutTTL() {
	service := services.NewDonationService(
		suite.mockDonationRepo,
		suite.mockBeneficiaryRepo,
		suite.mockUserRepo,
		suite.mockCurrencyRepo,
		0,
	)

	cancelled, err := service.CancelExpired(context.Background(), time.Now().UTC())

	suite.Require().NoError(err)
	suite.Zero(cancelled)
	suite.mockDonationRepo.AssertNotCalled(suite.T(), "CancelExpiredDonations", mock.Anything, mock.Anything, mock.Anything)
}

func TestDonationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DonationServiceTestSuite))
}

// --- Concurrency ---

// casDonationStore is a minimal in-memory store whose MarkDonationCompleted
// has the same check-and-set contract as the SQL implementation: the status
// predicate and the update are evaluated under one lock.
type casDonationStore struct {
	mu        sync.Mutex
	donations map[string]*domain.Donation
}

func newCASDonationStore() *casDonationStore {
	return &casDonationStore{donations: make(map[string]*domain.Donation)}
}

func (s *casDonationStore) SaveDonation(ctx context.Context, donation domain.Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := donation
	s.donations[d.DonationID] = &d
	return nil
}

func (s *casDonationStore) FindDonationByID(ctx context.Context, donationID string) (*domain.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[donationID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *d
	return &copied, nil
}

func (s *casDonationStore) ListDonationsByDonor(ctx context.Context, donorID int64, limit int, offset int) ([]domain.Donation, error) {
	return nil, nil
}

func (s *casDonationStore) MarkDonationCompleted(ctx context.Context, donationID string, settlementReference string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[donationID]
	if !ok || d.Status != domain.DonationPending {
		return false, nil
	}
	d.Status = domain.DonationCompleted
	ref := settlementReference
	d.SettlementReference = &ref
	d.LastUpdatedAt = now
	return true, nil
}

func (s *casDonationStore) CancelExpiredDonations(ctx context.Context, cutoff time.Time, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, d := range s.donations {
		if d.Status == domain.DonationPending && d.CreatedAt.Before(cutoff) {
			d.Status = domain.DonationCancelled
			d.LastUpdatedAt = now
			n++
		}
	}
	return n, nil
}

// TestCompleteDonation_ConcurrentConfirmations races many confirmations for
// the same donation against a check-and-set store: every call must succeed,
// and the first reference to win must be the one that sticks.
func TestCompleteDonation_ConcurrentConfirmations(t *testing.T) {
	store := newCASDonationStore()
	service := services.NewDonationService(store, nil, nil, nil, 24*time.Hour)

	donationID := uuid.NewString()
	now := time.Now().UTC()
	err := store.SaveDonation(context.Background(), domain.Donation{
		DonationID:    donationID,
		DonorID:       7,
		BeneficiaryID: 42,
		Amount:        1_000_000_000,
		CurrencyCode:  "SOL",
		Status:        domain.DonationPending,
		AuditFields:   domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	})
	assert.NoError(t, err)

	const confirmations = 32
	var wg sync.WaitGroup
	errs := make([]error, confirmations)
	for i := 0; i < confirmations; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Every goroutine claims a different reference.
			ref := "sig-" + uuid.NewString()
			_, errs[i] = service.CompleteDonation(context.Background(), donationID, ref)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "confirmation %d must succeed", i)
	}

	final, err := store.FindDonationByID(context.Background(), donationID)
	assert.NoError(t, err)
	assert.Equal(t, domain.DonationCompleted, final.Status)
	assert.NotNil(t, final.SettlementReference, "exactly one confirmation must have recorded its reference")
}
