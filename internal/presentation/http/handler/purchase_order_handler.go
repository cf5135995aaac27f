package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/procura-api/internal/application/service"
	"github.com/sangkips/procura-api/internal/domain/enum"
	"github.com/sangkips/procura-api/internal/domain/repository"
	"github.com/sangkips/procura-api/internal/presentation/http/dto/request"
	"github.com/sangkips/procura-api/internal/presentation/http/dto/response"
	"github.com/sangkips/procura-api/pkg/apperror"
	"github.com/sangkips/procura-api/pkg/pagination"
)

// PurchaseOrderHandler handles purchase order HTTP requests
type PurchaseOrderHandler struct {
	orderService *service.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new purchase order handler
func NewPurchaseOrderHandler(orderService *service.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: orderService}
}

// Preview prices the requested items without saving anything
func (h *PurchaseOrderHandler) Preview(c *gin.Context) {
	var req request.PreviewPurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	draft, err := h.orderService.BuildDraft(c.Request.Context(), orderItems(req.Items))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase order priced successfully", draft)
}

// EditDraft applies one line edit to a submitted draft and returns the recomputed draft
func (h *PurchaseOrderHandler) EditDraft(c *gin.Context) {
	var req request.DraftEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	draft, err := h.orderService.ApplyDraftEdit(c.Request.Context(), &service.DraftEditInput{
		Draft:    req.Draft,
		Index:    req.Index,
		Quantity: req.Quantity,
		Override: overrideInput(req.Override),
		Reset:    req.Reset,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Draft updated successfully", draft)
}

// List handles listing purchase orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var filter request.PurchaseOrderFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.PurchaseOrderFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:     filter.Search,
		SupplierID: optionalUUID(filter.SupplierID),
		BranchID:   optionalUUID(filter.BranchID),
		SortBy:     filter.SortBy,
		SortOrder:  filter.SortOrder,
	}

	switch strings.ToLower(filter.Status) {
	case "pending":
		status := enum.PurchaseOrderStatusPending
		params.Status = &status
	case "received":
		status := enum.PurchaseOrderStatusReceived
		params.Status = &status
	}

	if filter.StartDate != "" {
		if t, err := parseDate(filter.StartDate); err == nil {
			params.StartDate = &t
		}
	}
	if filter.EndDate != "" {
		if t, err := parseDate(filter.EndDate); err == nil {
			params.EndDate = &t
		}
	}

	result, err := h.orderService.ListPurchaseOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Purchase orders retrieved successfully", result)
}

// Create handles creating a purchase order
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.PurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input, fieldErrs := purchaseOrderInput(&req)
	if len(fieldErrs) > 0 {
		response.ValidationError(c, fieldErrs)
		return
	}
	input.UserID = userID

	order, err := h.orderService.CreatePurchaseOrder(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Purchase order created successfully", order)
}

// Get handles getting a single purchase order with its items
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id", "purchase order")
	if !ok {
		return
	}

	order, err := h.orderService.GetPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase order retrieved successfully", order)
}

// Update replaces the header and items of a pending purchase order
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "purchase order")
	if !ok {
		return
	}

	var req request.PurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input, fieldErrs := purchaseOrderInput(&req)
	if len(fieldErrs) > 0 {
		response.ValidationError(c, fieldErrs)
		return
	}
	input.UserID = userID

	order, err := h.orderService.UpdatePurchaseOrder(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase order updated successfully", order)
}

// Delete handles deleting a pending purchase order
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id", "purchase order")
	if !ok {
		return
	}

	if err := h.orderService.DeletePurchaseOrder(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase order deleted successfully", nil)
}

// Receive approves a pending order and books its quantities into the destination branch
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "purchase order")
	if !ok {
		return
	}

	order, err := h.orderService.ReceivePurchaseOrder(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase order received successfully", order)
}

func orderItems(items []request.OrderItemRequest) []service.OrderItemInput {
	out := make([]service.OrderItemInput, len(items))
	for i, item := range items {
		out[i] = service.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Override:  overrideInput(item.Override),
		}
	}
	return out
}

func overrideInput(o *request.LineOverrideRequest) *service.LineOverrideInput {
	if o == nil {
		return nil
	}
	return &service.LineOverrideInput{
		Rate:          o.Rate,
		DiscountType:  o.DiscountType,
		DiscountValue: o.DiscountValue,
		TaxRateID:     o.TaxRateID,
	}
}

func purchaseOrderInput(req *request.PurchaseOrderRequest) (*service.PurchaseOrderInput, []apperror.FieldError) {
	var fieldErrs []apperror.FieldError

	orderDate, err := parseDate(req.OrderDate)
	if err != nil {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "order_date", Message: "must be a date (YYYY-MM-DD)"})
	}

	input := &service.PurchaseOrderInput{
		SupplierID:    req.SupplierID,
		BankAccountID: req.BankAccountID,
		BranchID:      req.BranchID,
		OrderDate:     orderDate,
		Reference:     req.Reference,
		Notes:         req.Notes,
		Items:         orderItems(req.Items),
	}

	if req.DueDate != nil && *req.DueDate != "" {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			fieldErrs = append(fieldErrs, apperror.FieldError{Field: "due_date", Message: "must be a date (YYYY-MM-DD)"})
		} else {
			input.DueDate = &due
		}
	}

	return input, fieldErrs
}
