package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/eaglebank/payment-service/internal/service"
	"github.com/eaglebank/payment-service/shared/cqrs"
	"github.com/eaglebank/payment-service/shared/middleware"
	"github.com/eaglebank/payment-service/shared/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PaymentCommander defines the write-side operations used by PaymentHandler.
type PaymentCommander interface {
	CreateAccount(context.Context, cqrs.CreateAccountCommand) (*models.Account, error)
	TransferBetweenAccounts(context.Context, cqrs.AccountTransferCommand) error
	TransferBetweenAgreements(context.Context, cqrs.AgreementTransferCommand) error
	ChargeAccount(context.Context, cqrs.ChargeAccountCommand) (bool, error)
}

// AccountQuerier defines the read-side operations used by PaymentHandler.
type AccountQuerier interface {
	GetAccount(context.Context, cqrs.GetAccountQuery) (*models.Account, error)
	ListAccounts(context.Context, cqrs.ListAccountsQuery) ([]*models.Account, error)
}

// PaymentHandler handles account and payment HTTP requests.
type PaymentHandler struct {
	commands PaymentCommander
	queries  AccountQuerier
}

type CreateAccountRequest struct {
	AgreementID int64           `json:"agreementId" validate:"required,gt=0"`
	Number      string          `json:"number" validate:"omitempty,account_number"`
	Type        *int            `json:"type" validate:"required,gte=0"`
	Amount      decimal.Decimal `json:"amount" validate:"decimal_gte0"`
}

type ChargeRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"decimal_gt0"`
}

type AccountTransferRequest struct {
	SourceAccountID      int64           `json:"sourceAccountId" validate:"required,gt=0"`
	DestinationAccountID int64           `json:"destinationAccountId" validate:"required,gt=0"`
	Amount               decimal.Decimal `json:"amount" validate:"decimal_gt0"`
}

type PaymentRequest struct {
	SourceAgreementID      int64           `json:"sourceAgreementId" validate:"required,gt=0"`
	DestinationAgreementID int64           `json:"destinationAgreementId" validate:"required,gt=0"`
	SourceType             int             `json:"sourceType" validate:"gte=0"`
	DestinationType        int             `json:"destinationType" validate:"gte=0"`
	Amount                 decimal.Decimal `json:"amount" validate:"decimal_gt0"`
	Commission             decimal.Decimal `json:"commission" validate:"decimal_gte0"`
}

type ListAccountsResponse struct {
	Accounts []*models.Account `json:"accounts"`
}

type ChargeResponse struct {
	Charged bool `json:"charged"`
}

func NewPaymentHandler(commands PaymentCommander, queries AccountQuerier) *PaymentHandler {
	return &PaymentHandler{commands: commands, queries: queries}
}

func (h *PaymentHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if !bindAndValidate(c, &req) {
		return
	}

	account, err := h.commands.CreateAccount(c.Request.Context(), cqrs.CreateAccountCommand{
		AgreementID: req.AgreementID,
		Number:      req.Number,
		Type:        *req.Type,
		Amount:      req.Amount,
	})
	if err != nil {
		respondWithServiceError(c, err, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, account)
}

func (h *PaymentHandler) GetAccount(c *gin.Context) {
	accountID, ok := pathID(c, "accountId")
	if !ok {
		return
	}

	account, err := h.queries.GetAccount(c.Request.Context(), cqrs.GetAccountQuery{AccountID: accountID})
	if err != nil {
		respondWithServiceError(c, err, "Failed to get account")
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *PaymentHandler) ListAgreementAccounts(c *gin.Context) {
	agreementID, ok := pathID(c, "agreementId")
	if !ok {
		return
	}
	accountType, err := strconv.Atoi(c.DefaultQuery("type", "0"))
	if err != nil || accountType < 0 {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid account type")
		return
	}

	accounts, err := h.queries.ListAccounts(c.Request.Context(), cqrs.ListAccountsQuery{
		AgreementID: agreementID,
		Type:        accountType,
	})
	if err != nil {
		respondWithServiceError(c, err, "Failed to list accounts")
		return
	}
	if accounts == nil {
		accounts = []*models.Account{}
	}

	c.JSON(http.StatusOK, ListAccountsResponse{Accounts: accounts})
}

func (h *PaymentHandler) ChargeAccount(c *gin.Context) {
	accountID, ok := pathID(c, "accountId")
	if !ok {
		return
	}
	var req ChargeRequest
	if !bindAndValidate(c, &req) {
		return
	}

	charged, err := h.commands.ChargeAccount(c.Request.Context(), cqrs.ChargeAccountCommand{
		AccountID: accountID,
		Amount:    req.Amount,
	})
	if err != nil {
		respondWithServiceError(c, err, "Failed to charge account")
		return
	}

	c.JSON(http.StatusOK, ChargeResponse{Charged: charged})
}

func (h *PaymentHandler) TransferBetweenAccounts(c *gin.Context) {
	var req AccountTransferRequest
	if !bindAndValidate(c, &req) {
		return
	}

	err := h.commands.TransferBetweenAccounts(c.Request.Context(), cqrs.AccountTransferCommand{
		SourceAccountID:      req.SourceAccountID,
		DestinationAccountID: req.DestinationAccountID,
		Amount:               req.Amount,
	})
	if err != nil {
		respondWithServiceError(c, err, "Failed to transfer")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *PaymentHandler) MakePayment(c *gin.Context) {
	var req PaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	err := h.commands.TransferBetweenAgreements(c.Request.Context(), cqrs.AgreementTransferCommand{
		SourceAgreementID:      req.SourceAgreementID,
		DestinationAgreementID: req.DestinationAgreementID,
		SourceType:             req.SourceType,
		DestinationType:        req.DestinationType,
		Amount:                 req.Amount,
		Commission:             req.Commission,
	})
	if err != nil {
		respondWithServiceError(c, err, "Failed to make payment")
		return
	}

	c.Status(http.StatusNoContent)
}

func bindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return false
	}
	return true
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// respondWithServiceError maps unresolvable accounts to 404, ambiguous ones
// to 409 and anything else to 500 with the given message.
func respondWithServiceError(c *gin.Context, err error, fallback string) {
	var accountErr *service.AccountError
	switch {
	case service.IsAmbiguous(err):
		middleware.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.As(err, &accountErr):
		middleware.RespondWithError(c, http.StatusNotFound, accountErr.Message)
	default:
		_ = c.Error(err)
		middleware.RespondWithError(c, http.StatusInternalServerError, fallback)
	}
}
