package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liftlog/internal/service"
)

type templateRequest struct {
	Name             string  `json:"name" binding:"required"`
	Category         string  `json:"category"`
	Description      string  `json:"description"`
	DefaultSets      int     `json:"defaultSets"`
	DefaultRepsMin   int     `json:"defaultRepsMin"`
	DefaultRepsMax   int     `json:"defaultRepsMax"`
	DefaultWeight    float64 `json:"defaultWeight"`
	DefaultIncrement float64 `json:"defaultIncrement"`
}

// ListTemplates 获取模板列表
func (a *API) ListTemplates(c *gin.Context) {
	templates, err := a.templates.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		handleServiceError(c, err, "获取模板列表失败")
		return
	}

	response := make([]templateView, 0, len(templates))
	for _, template := range templates {
		response = append(response, newTemplateView(template))
	}
	c.JSON(http.StatusOK, gin.H{"templates": response})
}

// GetTemplate 获取单个模板
func (a *API) GetTemplate(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的模板ID")
		return
	}

	template, err := a.templates.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		handleServiceError(c, err, "获取模板失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": newTemplateView(*template)})
}

// CreateTemplate 创建模板
func (a *API) CreateTemplate(c *gin.Context) {
	var req templateRequest
	if !bindJSON(c, &req, "模板名称不能为空") {
		return
	}

	template, err := a.templates.Create(c.Request.Context(), currentUserID(c), service.TemplateInput{
		Name:             req.Name,
		Category:         req.Category,
		Description:      req.Description,
		DefaultSets:      req.DefaultSets,
		DefaultRepsMin:   req.DefaultRepsMin,
		DefaultRepsMax:   req.DefaultRepsMax,
		DefaultWeight:    req.DefaultWeight,
		DefaultIncrement: req.DefaultIncrement,
	})
	if err != nil {
		handleServiceError(c, err, "创建模板失败")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"template": newTemplateView(*template)})
}

// DeleteTemplate 删除模板，引用它的动作保留
func (a *API) DeleteTemplate(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的模板ID")
		return
	}

	if err := a.templates.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		handleServiceError(c, err, "删除模板失败")
		return
	}
	c.Status(http.StatusNoContent)
}
