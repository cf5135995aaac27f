package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/procura-api/internal/application/service"
	"github.com/sangkips/procura-api/internal/presentation/http/dto/request"
	"github.com/sangkips/procura-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles tax rates and bank accounts
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// ListTaxRates lists tax rates; ?active=true limits the result to selectable ones
func (h *SettingsHandler) ListTaxRates(c *gin.Context) {
	rates, err := h.settingsService.ListTaxRates(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tax rates retrieved successfully", rates)
}

// CreateTaxRate handles creating a tax rate
func (h *SettingsHandler) CreateTaxRate(c *gin.Context) {
	var req request.TaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	rate, err := h.settingsService.CreateTaxRate(c.Request.Context(), taxRateInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Tax rate created successfully", rate)
}

// UpdateTaxRate handles updating a tax rate
func (h *SettingsHandler) UpdateTaxRate(c *gin.Context) {
	id, ok := paramID(c, "id", "tax rate")
	if !ok {
		return
	}

	var req request.TaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	rate, err := h.settingsService.UpdateTaxRate(c.Request.Context(), id, taxRateInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tax rate updated successfully", rate)
}

// DeleteTaxRate handles deleting a tax rate
func (h *SettingsHandler) DeleteTaxRate(c *gin.Context) {
	id, ok := paramID(c, "id", "tax rate")
	if !ok {
		return
	}

	if err := h.settingsService.DeleteTaxRate(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tax rate deleted successfully", nil)
}

func taxRateInput(req *request.TaxRateRequest) *service.TaxRateInput {
	return &service.TaxRateInput{Name: req.Name, Rate: req.Rate, IsActive: req.IsActive}
}

// ListBankAccounts lists bank accounts, default first
func (h *SettingsHandler) ListBankAccounts(c *gin.Context) {
	accounts, err := h.settingsService.ListBankAccounts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Bank accounts retrieved successfully", accounts)
}

// CreateBankAccount handles creating a bank account
func (h *SettingsHandler) CreateBankAccount(c *gin.Context) {
	var req request.BankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	account, err := h.settingsService.CreateBankAccount(c.Request.Context(), bankAccountInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Bank account created successfully", account)
}

// UpdateBankAccount handles updating a bank account
func (h *SettingsHandler) UpdateBankAccount(c *gin.Context) {
	id, ok := paramID(c, "id", "bank account")
	if !ok {
		return
	}

	var req request.BankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	account, err := h.settingsService.UpdateBankAccount(c.Request.Context(), id, bankAccountInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Bank account updated successfully", account)
}

// DeleteBankAccount handles deleting a bank account
func (h *SettingsHandler) DeleteBankAccount(c *gin.Context) {
	id, ok := paramID(c, "id", "bank account")
	if !ok {
		return
	}

	if err := h.settingsService.DeleteBankAccount(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Bank account deleted successfully", nil)
}

func bankAccountInput(req *request.BankAccountRequest) *service.BankAccountInput {
	return &service.BankAccountInput{
		BankName:      req.BankName,
		AccountHolder: req.AccountHolder,
		AccountNumber: req.AccountNumber,
		BranchName:    req.BranchName,
		IsDefault:     req.IsDefault,
	}
}
