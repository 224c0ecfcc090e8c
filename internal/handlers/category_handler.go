package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "zadeet/internal/errors"
	"zadeet/internal/models"
	"zadeet/internal/pagination"
	"zadeet/internal/services"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryService services.CategoryServicer
	reportService   services.ReportServicer
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService services.CategoryServicer, reportService services.ReportServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, reportService: reportService}
}

// CreateCategoryRequest represents the request payload for creating a category
type CreateCategoryRequest struct {
	Name       string              `json:"name" binding:"required,min=1,max=100"`
	Kind       models.CategoryKind `json:"kind" binding:"required,category_kind"`
	ParentID   *uint               `json:"parent_id" binding:"omitempty,min=1"`
	MonthlyCap *decimal.Decimal    `json:"monthly_cap" binding:"omitempty,gte=0" swaggertype:"string"`
}

// UpdateCategoryRequest represents the request payload for patching a category.
// Absent fields are left unchanged.
type UpdateCategoryRequest struct {
	Name            *string              `json:"name" binding:"omitempty,min=1,max=100"`
	Kind            *models.CategoryKind `json:"kind" binding:"omitempty,category_kind"`
	ParentID        *uint                `json:"parent_id" binding:"omitempty,min=1"`
	ClearParent     bool                 `json:"clear_parent"`
	MonthlyCap      *decimal.Decimal     `json:"monthly_cap" binding:"omitempty,gte=0" swaggertype:"string"`
	ClearMonthlyCap bool                 `json:"clear_monthly_cap"`
}

// CreateCategory handles the creation of a new category
// @Summary     Create a category
// @Description Create a new income or expense category, optionally under a root category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     201 {object} models.Category "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Parent category not found"
// @Failure     409 {object} ErrorResponse "Duplicate category name"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	category, err := h.categoryService.CreateCategory(services.CategoryInput{
		Name:       req.Name,
		Kind:       req.Kind,
		ParentID:   req.ParentID,
		MonthlyCap: req.MonthlyCap,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// GetCategories handles listing categories
// @Summary     Get categories
// @Description Get a paginated list of categories ordered by name
// @Tags        categories
// @Produce     json
// @Param       kind      query string false "Filter by kind (income/expense)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Category] "Paginated categories"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	var kind *models.CategoryKind
	if v := c.Query("kind"); v != "" {
		k := models.CategoryKind(v)
		if k != models.CategoryKindIncome && k != models.CategoryKindExpense {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "kind must be 'income' or 'expense'"))
			return
		}
		kind = &k
	}

	result, err := h.categoryService.GetCategories(page, kind)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCategoryTree handles the category tree with lifetime totals
// @Summary     Get the category tree
// @Description Root categories with their children, each annotated with the total booked on it. A root's total includes its children.
// @Tags        categories
// @Produce     json
// @Success     200 {array}  services.CategoryTotalNode "Category tree"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/tree [get]
func (h *CategoryHandler) GetCategoryTree(c *gin.Context) {
	tree, err := h.reportService.GetParentCategoryTotals()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": tree})
}

// GetCategoryTotals handles the per-category totals
// @Summary     Get category totals
// @Description Lifetime total per category id. Categories without transactions are absent.
// @Tags        categories
// @Produce     json
// @Success     200 {object} map[string]string "Totals keyed by category id"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/totals [get]
func (h *CategoryHandler) GetCategoryTotals(c *gin.Context) {
	totals, err := h.reportService.GetCategoryTotals()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"totals": totals})
}

// GetCategoryByID handles the retrieval of a specific category
// @Summary     Get category by ID
// @Tags        categories
// @Produce     json
// @Param       id path int true "Category ID"
// @Success     200 {object} models.Category "Category details"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [get]
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategoryByID(categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// UpdateCategory handles patching a category
// @Summary     Update category
// @Description Apply the fields present in the body. Use clear_parent or clear_monthly_cap to unset those values.
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       id path int true "Category ID"
// @Param       request body UpdateCategoryRequest true "Fields to change"
// @Success     200 {object} models.Category "Updated category"
// @Failure     400 {object} ErrorResponse "Invalid input or category ID"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Duplicate category name"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [patch]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	if req.ClearParent && req.ParentID != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "parent_id and clear_parent are mutually exclusive"))
		return
	}
	if req.ClearMonthlyCap && req.MonthlyCap != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly_cap and clear_monthly_cap are mutually exclusive"))
		return
	}

	category, err := h.categoryService.UpdateCategory(categoryID, services.CategoryPatch{
		Name:            req.Name,
		Kind:            req.Kind,
		ParentID:        req.ParentID,
		ClearParent:     req.ClearParent,
		MonthlyCap:      req.MonthlyCap,
		ClearMonthlyCap: req.ClearMonthlyCap,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory handles deleting a category
// @Summary     Delete category
// @Description Delete a category that no transaction references. Its children become roots and its caps are removed.
// @Tags        categories
// @Produce     json
// @Param       id path int true "Category ID"
// @Success     200 {object} MessageResponse "Category deleted"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Category in use"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteCategory(categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Category deleted successfully"})
}
