package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/procura-api/internal/application/service"
	"github.com/sangkips/procura-api/internal/domain/enum"
	"github.com/sangkips/procura-api/internal/domain/repository"
	"github.com/sangkips/procura-api/internal/presentation/http/dto/request"
	"github.com/sangkips/procura-api/internal/presentation/http/dto/response"
	"github.com/sangkips/procura-api/pkg/pagination"
)

// StockHandler handles stock adjustments, transfers and the movement ledger
type StockHandler struct {
	stockService *service.StockService
}

// NewStockHandler creates a new stock handler
func NewStockHandler(stockService *service.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// Adjust adds to or removes from one branch's stock
func (h *StockHandler) Adjust(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	movement, err := h.stockService.AdjustStock(c.Request.Context(), &service.AdjustStockInput{
		UserID:    userID,
		ProductID: req.ProductID,
		BranchID:  req.BranchID,
		Quantity:  req.Quantity,
		Direction: req.Direction,
		Reason:    req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Stock adjusted successfully", movement)
}

// Transfer moves stock from one branch to another
func (h *StockHandler) Transfer(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.TransferStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.stockService.TransferStock(c.Request.Context(), &service.TransferStockInput{
		UserID:        userID,
		ProductID:     req.ProductID,
		SourceID:      req.SourceBranchID,
		DestinationID: req.DestinationBranchID,
		Quantity:      req.Quantity,
		Reason:        req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Stock transferred successfully", result)
}

// Movements lists the stock movement ledger
func (h *StockHandler) Movements(c *gin.Context) {
	var filter request.MovementFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.MovementFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		ProductID: optionalUUID(filter.ProductID),
		BranchID:  optionalUUID(filter.BranchID),
	}

	switch t := enum.MovementType(filter.Type); t {
	case enum.MovementAdd, enum.MovementRemove, enum.MovementTransferOut, enum.MovementTransferIn, enum.MovementReceive:
		params.Type = &t
	}

	result, err := h.stockService.ListMovements(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Stock movements retrieved successfully", result)
}
