package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	paymentapp "github.com/envio/backend/internal/application/payment"
	remitapp "github.com/envio/backend/internal/application/remittance"
	"github.com/envio/backend/internal/domain/payment"
	"github.com/envio/backend/internal/domain/remittance"
	"github.com/envio/backend/internal/domain/shared"
	"github.com/envio/backend/internal/domain/trade"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type remitTestDeps struct {
	router      *gin.Engine
	remitRepo   *MockRemittanceRepository
	accountRepo *MockAccountRepository
	auditLog    *MockAuditLog
	actorID     uuid.UUID
}

func setupRemittanceTest() remitTestDeps {
	remitRepo := new(MockRemittanceRepository)
	accountRepo := new(MockAccountRepository)
	auditLog := new(MockAuditLog)
	uow := &fakeUnitOfWork{}
	logger := zap.NewNop()

	allocation := paymentapp.NewAllocationService(accountRepo)
	ledger := paymentapp.NewLedgerService(accountRepo, auditLog, uow, logger)
	service := remitapp.NewRemittanceService(remitRepo, allocation, ledger, auditLog, uow, logger)
	h := NewRemittanceHandler(service)

	actorID := uuid.New()
	router := gin.New()
	router.Use(authMiddleware(actorID, "user"))
	router.POST("/remittances", h.Create)
	router.GET("/remittances", h.List)
	router.GET("/remittances/:id", h.GetByID)
	router.POST("/remittances/:id/validate-payment", h.ValidatePayment)
	router.POST("/remittances/:id/reject-payment", h.RejectPayment)
	router.POST("/remittances/:id/process", h.Process)
	router.POST("/remittances/:id/ship", h.Ship)
	router.POST("/remittances/:id/deliver", h.Deliver)
	router.POST("/remittances/:id/complete", h.Complete)
	router.POST("/remittances/:id/cancel", h.Cancel)

	return remitTestDeps{router, remitRepo, accountRepo, auditLog, actorID}
}

func newTestRemittance(t *testing.T) *remittance.Remittance {
	t.Helper()
	recipient := remittance.Recipient{Name: "Ana Diaz", Country: "VE", Phone: "+58 412 5550123"}
	remit, err := remittance.NewRemittance("REM-2026-00001", uuid.New(),
		decimal.NewFromInt(200), decimal.NewFromFloat(36.5), "VES", recipient, uuid.New())
	require.NoError(t, err)
	return remit
}

func TestRemittanceHandler_Create(t *testing.T) {
	t.Run("allocates a collection account and opens the remittance", func(t *testing.T) {
		deps := setupRemittanceTest()

		account, err := payment.NewAccount("Santander Remesas", "Envio SL", false, true, 1)
		require.NoError(t, err)

		deps.accountRepo.On("FindEnabled", mock.Anything).Return([]*payment.Account{account}, nil)
		deps.remitRepo.On("GenerateRemittanceNumber", mock.Anything).Return("REM-2026-00001", nil)
		deps.remitRepo.On("Save", mock.Anything, mock.AnythingOfType("*remittance.Remittance")).Return(nil)
		deps.auditLog.On("Record", mock.Anything, mock.Anything).Return(nil)

		body, _ := json.Marshal(remitapp.CreateRemittanceRequest{
			UserID:           uuid.New(),
			AmountSent:       decimal.NewFromInt(200),
			ExchangeRate:     decimal.NewFromFloat(36.5),
			PayoutCurrency:   "VES",
			RecipientName:    "Ana Diaz",
			RecipientCountry: "VE",
		})

		req := httptest.NewRequest(http.MethodPost, "/remittances", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		deps.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeResponse(t, rec.Body.Bytes())
		assert.True(t, resp.Success)
		deps.remitRepo.AssertExpectations(t)
	})

	t.Run("422 when no account accepts remittances", func(t *testing.T) {
		deps := setupRemittanceTest()

		goodsOnly, err := payment.NewAccount("BBVA Main", "Envio SL", true, false, 1)
		require.NoError(t, err)
		deps.accountRepo.On("FindEnabled", mock.Anything).Return([]*payment.Account{goodsOnly}, nil)

		body, _ := json.Marshal(remitapp.CreateRemittanceRequest{
			UserID:           uuid.New(),
			AmountSent:       decimal.NewFromInt(200),
			ExchangeRate:     decimal.NewFromFloat(36.5),
			PayoutCurrency:   "VES",
			RecipientName:    "Ana Diaz",
			RecipientCountry: "VE",
		})

		req := httptest.NewRequest(http.MethodPost, "/remittances", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		deps.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		resp := decodeResponse(t, rec.Body.Bytes())
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ERR_NO_AVAILABLE_ACCOUNT", resp.Error.Code)
	})

	t.Run("400 when recipient is missing", func(t *testing.T) {
		deps := setupRemittanceTest()

		body, _ := json.Marshal(map[string]any{
			"user_id":         uuid.New(),
			"amount_sent":     "200",
			"exchange_rate":   "36.5",
			"payout_currency": "VES",
		})

		req := httptest.NewRequest(http.MethodPost, "/remittances", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		deps.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRemittanceHandler_ValidatePayment(t *testing.T) {
	t.Run("confirms collection and records account usage", func(t *testing.T) {
		deps := setupRemittanceTest()

		account, err := payment.NewAccount("Santander Remesas", "Envio SL", false, true, 1)
		require.NoError(t, err)
		remit := newTestRemittance(t)
		remit.AssignedAccountID = &account.ID

		deps.remitRepo.On("FindByID", mock.Anything, remit.ID).Return(remit, nil)
		deps.remitRepo.On("SaveWithLock", mock.Anything, remit).Return(nil)
		deps.accountRepo.On("FindByID", mock.Anything, account.ID).Return(account, nil)
		deps.accountRepo.On("SaveWithLock", mock.Anything, account).Return(nil)
		deps.auditLog.On("Record", mock.Anything, mock.Anything).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/remittances/"+remit.ID.String()+"/validate-payment", nil)
		rec := httptest.NewRecorder()
		deps.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, trade.PaymentStatusValidated, remit.PaymentStatus)
		assert.True(t, account.CurrentDailyAmount.Equal(remit.AmountSent))
	})

	t.Run("422 when payment was already validated", func(t *testing.T) {
		deps := setupRemittanceTest()

		remit := newTestRemittance(t)
		require.NoError(t, remit.ValidatePayment())

		deps.remitRepo.On("FindByID", mock.Anything, remit.ID).Return(remit, nil)

		req := httptest.NewRequest(http.MethodPost, "/remittances/"+remit.ID.String()+"/validate-payment", nil)
		rec := httptest.NewRecorder()
		deps.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestRemittanceHandler_Lifecycle(t *testing.T) {
	t.Run("deliver after shipping", func(t *testing.T) {
		deps := setupRemittanceTest()

		remit := newTestRemittance(t)
		require.NoError(t, remit.ValidatePayment())
		require.NoError(t, remit.Process())
		require.NoError(t, remit.Ship())

		deps.remitRepo.On("FindByID", mock.Anything, remit.ID).Return(remit, nil)
		deps.remitRepo.On("SaveWithLock", mock.Anything, remit).Return(nil)
		deps.auditLog.On("Record", mock.Anything, mock.Anything).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/remittances/"+remit.ID.String()+"/deliver", nil)
		rec := httptest.NewRecorder()
		deps.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, remittance.StatusDelivered, remit.Status)
	})

	t.Run("422 when processing before validation", func(t *testing.T) {
		deps := setupRemittanceTest()

		remit := newTestRemittance(t)
		deps.remitRepo.On("FindByID", mock.Anything, remit.ID).Return(remit, nil)

		req := httptest.NewRequest(http.MethodPost, "/remittances/"+remit.ID.String()+"/process", nil)
		rec := httptest.NewRecorder()
		deps.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		resp := decodeResponse(t, rec.Body.Bytes())
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ERR_PAYMENT_NOT_VALIDATED", resp.Error.Code)
	})

	t.Run("cancel requires a reason", func(t *testing.T) {
		deps := setupRemittanceTest()

		remit := newTestRemittance(t)
		req := httptest.NewRequest(http.MethodPost, "/remittances/"+remit.ID.String()+"/cancel", bytes.NewBufferString("{}"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		deps.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRemittanceHandler_List(t *testing.T) {
	t.Run("filters by user", func(t *testing.T) {
		deps := setupRemittanceTest()
		userID := uuid.New()

		remit := newTestRemittance(t)
		deps.remitRepo.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Filters["user_id"] == userID
		})).Return([]remittance.Remittance{*remit}, nil)
		deps.remitRepo.On("Count", mock.Anything, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

		req := httptest.NewRequest(http.MethodGet, "/remittances?user_id="+userID.String(), nil)
		rec := httptest.NewRecorder()
		deps.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec.Body.Bytes())
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(1), resp.Meta.Total)
	})

	t.Run("400 on unknown status", func(t *testing.T) {
		deps := setupRemittanceTest()

		req := httptest.NewRequest(http.MethodGet, "/remittances?status=LOST", nil)
		rec := httptest.NewRecorder()
		deps.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
