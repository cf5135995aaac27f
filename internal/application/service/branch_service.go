package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/sangkips/procura-api/internal/domain/entity"
	"github.com/sangkips/procura-api/internal/domain/enum"
	"github.com/sangkips/procura-api/internal/domain/repository"
	infraRepo "github.com/sangkips/procura-api/internal/infrastructure/repository"
	"github.com/sangkips/procura-api/pkg/apperror"
)

// BranchService manages stock locations
type BranchService struct {
	branchRepo repository.BranchRepository
}

// NewBranchService creates a new branch service
func NewBranchService(branchRepo repository.BranchRepository) *BranchService {
	return &BranchService{branchRepo: branchRepo}
}

// BranchInput represents the create and update branch input
type BranchInput struct {
	Name       string
	BranchType enum.BranchType
	Province   *string
	City       *string
	District   *string
}

func (in *BranchInput) validate() error {
	if in.BranchType == "" {
		in.BranchType = enum.BranchTypeWarehouse
	}
	if !in.BranchType.IsValid() {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "branch_type", Message: "must be warehouse, store or office"},
		})
	}
	return nil
}

// CreateBranch creates a new branch
func (s *BranchService) CreateBranch(ctx context.Context, input *BranchInput) (*entity.Branch, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, errTenantRequired
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	branch := &entity.Branch{
		TenantID:   tenantID,
		Name:       input.Name,
		BranchType: input.BranchType,
		Province:   input.Province,
		City:       input.City,
		District:   input.District,
	}
	if err := s.branchRepo.Create(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

// GetBranch retrieves a branch by ID
func (s *BranchService) GetBranch(ctx context.Context, id uuid.UUID) (*entity.Branch, error) {
	branch, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, apperror.NewNotFoundError("Branch")
	}
	return branch, nil
}

// ListBranches lists branches by name
func (s *BranchService) ListBranches(ctx context.Context, search string) ([]entity.Branch, error) {
	return s.branchRepo.List(ctx, search)
}

// UpdateBranch updates a branch
func (s *BranchService) UpdateBranch(ctx context.Context, id uuid.UUID, input *BranchInput) (*entity.Branch, error) {
	branch, err := s.GetBranch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	branch.Name = input.Name
	branch.BranchType = input.BranchType
	branch.Province = input.Province
	branch.City = input.City
	branch.District = input.District
	if err := s.branchRepo.Update(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

// DeleteBranch deletes a branch
func (s *BranchService) DeleteBranch(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetBranch(ctx, id); err != nil {
		return err
	}
	return s.branchRepo.Delete(ctx, id)
}
