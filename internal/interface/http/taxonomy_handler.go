package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-learning-platform/internal/application"
	"github.com/oksasatya/go-learning-platform/pkg/response"
)

type TaxonomyHandler struct {
	Categories *application.CategoryService
	Languages  *application.LanguageService
	Logger     *logrus.Logger
}

func NewTaxonomyHandler(categories *application.CategoryService, languages *application.LanguageService, logger *logrus.Logger) *TaxonomyHandler {
	return &TaxonomyHandler{Categories: categories, Languages: languages, Logger: logger}
}

type categoryRequest struct {
	CategoryName string `json:"categoryname" binding:"required,min=2,max=60"`
	Description  string `json:"description" binding:"max=500"`
}

type languageRequest struct {
	LanguageName string `json:"languagename" binding:"required,min=2,max=60"`
	Description  string `json:"description" binding:"max=500"`
}

// ListCategories GET /api/get/categories
func (h *TaxonomyHandler) ListCategories(c *gin.Context) {
	out, err := h.Categories.List(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, "category list failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Categories fetched successfully", "categories", out)
}

// GetCategory GET /api/get/category/:id
func (h *TaxonomyHandler) GetCategory(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	out, err := h.Categories.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Logger, "category fetch failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Category fetched successfully", "category", out)
}

// PostCategory POST /api/admin/post/category
func (h *TaxonomyHandler) PostCategory(c *gin.Context) {
	var req categoryRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.Categories.Create(c.Request.Context(), req.CategoryName, req.Description)
	if err != nil {
		fail(c, h.Logger, "category create failed", err)
		return
	}
	response.Success(c, http.StatusCreated, "Category added successfully", "category", out)
}

// EditCategory PUT /api/admin/edit/category/:id
func (h *TaxonomyHandler) EditCategory(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req categoryRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.Categories.Edit(c.Request.Context(), id, req.CategoryName, req.Description)
	if err != nil {
		fail(c, h.Logger, "category edit failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Category updated successfully", "category", out)
}

func (h *TaxonomyHandler) setCategoryListed(c *gin.Context, listed bool, message string) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	out, err := h.Categories.SetListed(c.Request.Context(), id, listed)
	if err != nil {
		fail(c, h.Logger, "category status change failed", err)
		return
	}
	response.Success(c, http.StatusOK, message, "category", out)
}

// ListCategory PATCH /api/admin/list/category/:id
func (h *TaxonomyHandler) ListCategory(c *gin.Context) {
	h.setCategoryListed(c, true, "Category listed successfully")
}

// UnlistCategory PATCH /api/admin/unlist/category/:id
func (h *TaxonomyHandler) UnlistCategory(c *gin.Context) {
	h.setCategoryListed(c, false, "Category unlisted successfully")
}

// ListLanguages GET /api/get/languages
func (h *TaxonomyHandler) ListLanguages(c *gin.Context) {
	out, err := h.Languages.List(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, "language list failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Languages fetched successfully", "languages", out)
}

// GetLanguage GET /api/get/language/:id
func (h *TaxonomyHandler) GetLanguage(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	out, err := h.Languages.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Logger, "language fetch failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Language fetched successfully", "language", out)
}

// PostLanguage POST /api/admin/post/language
func (h *TaxonomyHandler) PostLanguage(c *gin.Context) {
	var req languageRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.Languages.Create(c.Request.Context(), req.LanguageName, req.Description)
	if err != nil {
		fail(c, h.Logger, "language create failed", err)
		return
	}
	response.Success(c, http.StatusCreated, "Language added successfully", "language", out)
}

// EditLanguage PUT /api/admin/edit/language/:id
func (h *TaxonomyHandler) EditLanguage(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req languageRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.Languages.Edit(c.Request.Context(), id, req.LanguageName, req.Description)
	if err != nil {
		fail(c, h.Logger, "language edit failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Language updated successfully", "language", out)
}

func (h *TaxonomyHandler) setLanguageListed(c *gin.Context, listed bool, message string) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	out, err := h.Languages.SetListed(c.Request.Context(), id, listed)
	if err != nil {
		fail(c, h.Logger, "language status change failed", err)
		return
	}
	response.Success(c, http.StatusOK, message, "language", out)
}

// ListLanguage PATCH /api/admin/list/language/:id
func (h *TaxonomyHandler) ListLanguage(c *gin.Context) {
	h.setLanguageListed(c, true, "Language listed successfully")
}

// UnlistLanguage PATCH /api/admin/unlist/language/:id
func (h *TaxonomyHandler) UnlistLanguage(c *gin.Context) {
	h.setLanguageListed(c, false, "Language unlisted successfully")
}
