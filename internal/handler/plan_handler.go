package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type planRequest struct {
	Name string   `json:"name" binding:"required"`
	Days []string `json:"days"`
}

type dayRequest struct {
	Name   string `json:"name" binding:"required"`
	PlanID *uint  `json:"planId"`
}

// ListPlans 获取计划及其训练日、动作
func (a *API) ListPlans(c *gin.Context) {
	plans, err := a.plans.ListPlans(c.Request.Context(), currentUserID(c))
	if err != nil {
		handleServiceError(c, err, "获取计划列表失败")
		return
	}

	response := make([]planView, 0, len(plans))
	for _, plan := range plans {
		response = append(response, newPlanView(plan))
	}
	c.JSON(http.StatusOK, gin.H{"plans": response})
}

// CreatePlan 创建计划
func (a *API) CreatePlan(c *gin.Context) {
	var req planRequest
	if !bindJSON(c, &req, "计划名称不能为空") {
		return
	}

	plan, err := a.plans.CreatePlan(c.Request.Context(), currentUserID(c), req.Name, req.Days)
	if err != nil {
		handleServiceError(c, err, "创建计划失败")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"plan": newPlanView(*plan)})
}

// DeletePlan 删除计划及其全部训练数据
func (a *API) DeletePlan(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的计划ID")
		return
	}

	if err := a.plans.DeletePlan(c.Request.Context(), currentUserID(c), id); err != nil {
		handleServiceError(c, err, "删除计划失败")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListDays 默认只返回独立训练日，all=1 时包含计划内的训练日
func (a *API) ListDays(c *gin.Context) {
	days, err := a.plans.ListDays(c.Request.Context(), currentUserID(c), parseBoolQuery(c, "all"))
	if err != nil {
		handleServiceError(c, err, "获取训练日失败")
		return
	}

	response := make([]dayView, 0, len(days))
	for _, day := range days {
		response = append(response, newDayView(day))
	}
	c.JSON(http.StatusOK, gin.H{"days": response})
}

// CreateDay 创建训练日
func (a *API) CreateDay(c *gin.Context) {
	var req dayRequest
	if !bindJSON(c, &req, "训练日名称不能为空") {
		return
	}

	day, err := a.plans.CreateDay(c.Request.Context(), currentUserID(c), req.PlanID, req.Name)
	if err != nil {
		handleServiceError(c, err, "创建训练日失败")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"day": newDayView(*day)})
}

// GetDay 获取单个训练日及其动作
func (a *API) GetDay(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的训练日ID")
		return
	}

	day, err := a.plans.GetDay(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		handleServiceError(c, err, "获取训练日失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": newDayView(*day)})
}

// RenameDay 修改训练日名称
func (a *API) RenameDay(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的训练日ID")
		return
	}

	var req dayRequest
	if !bindJSON(c, &req, "训练日名称不能为空") {
		return
	}

	day, err := a.plans.RenameDay(c.Request.Context(), currentUserID(c), id, req.Name)
	if err != nil {
		handleServiceError(c, err, "更新训练日失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": newDayView(*day)})
}

// DeleteDay 删除训练日及其动作
func (a *API) DeleteDay(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的训练日ID")
		return
	}

	if err := a.plans.DeleteDay(c.Request.Context(), currentUserID(c), id); err != nil {
		handleServiceError(c, err, "删除训练日失败")
		return
	}
	c.Status(http.StatusNoContent)
}
