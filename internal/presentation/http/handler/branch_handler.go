package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/procura-api/internal/application/service"
	"github.com/sangkips/procura-api/internal/presentation/http/dto/request"
	"github.com/sangkips/procura-api/internal/presentation/http/dto/response"
)

// BranchHandler handles branch-related HTTP requests
type BranchHandler struct {
	branchService *service.BranchService
}

// NewBranchHandler creates a new branch handler
func NewBranchHandler(branchService *service.BranchService) *BranchHandler {
	return &BranchHandler{branchService: branchService}
}

// List handles listing branches
func (h *BranchHandler) List(c *gin.Context) {
	branches, err := h.branchService.ListBranches(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Branches retrieved successfully", branches)
}

// Create handles creating a branch
func (h *BranchHandler) Create(c *gin.Context) {
	var req request.BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	branch, err := h.branchService.CreateBranch(c.Request.Context(), branchInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Branch created successfully", branch)
}

// Get handles getting a single branch
func (h *BranchHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id", "branch")
	if !ok {
		return
	}

	branch, err := h.branchService.GetBranch(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Branch retrieved successfully", branch)
}

// Update handles updating a branch
func (h *BranchHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id", "branch")
	if !ok {
		return
	}

	var req request.BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	branch, err := h.branchService.UpdateBranch(c.Request.Context(), id, branchInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Branch updated successfully", branch)
}

// Delete handles deleting a branch
func (h *BranchHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id", "branch")
	if !ok {
		return
	}

	if err := h.branchService.DeleteBranch(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Branch deleted successfully", nil)
}

func branchInput(req *request.BranchRequest) *service.BranchInput {
	return &service.BranchInput{
		Name:       req.Name,
		BranchType: req.BranchType,
		Province:   req.Province,
		City:       req.City,
		District:   req.District,
	}
}
