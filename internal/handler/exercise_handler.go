package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liftlog/internal/db"
	"github.com/liftlog/internal/service"
)

type exerciseRequest struct {
	TrainingDayID uint     `json:"trainingDayId" binding:"required"`
	TemplateID    *uint    `json:"templateId"`
	Name          string   `json:"name"`
	Sets          int      `json:"sets"`
	RepsMin       int      `json:"repsMin"`
	RepsMax       int      `json:"repsMax"`
	Weight        *float64 `json:"weight"`
	Increment     *float64 `json:"increment"`
	Order         *int     `json:"order"`
}

type exercisePatchRequest struct {
	Name          *string  `json:"name"`
	Sets          *int     `json:"sets"`
	RepsMin       *int     `json:"repsMin"`
	RepsMax       *int     `json:"repsMax"`
	Weight        *float64 `json:"weight"`
	Increment     *float64 `json:"increment"`
	Order         *int     `json:"order"`
	TemplateID    *uint    `json:"templateId"`
	ClearTemplate bool     `json:"clearTemplate"`
}

// CreateExercise 在训练日中新建动作
func (a *API) CreateExercise(c *gin.Context) {
	var req exerciseRequest
	if !bindJSON(c, &req, "训练日ID不能为空") {
		return
	}

	exercise, err := a.exercises.Create(c.Request.Context(), currentUserID(c), service.ExerciseInput{
		TrainingDayID: req.TrainingDayID,
		TemplateID:    req.TemplateID,
		Name:          req.Name,
		Sets:          req.Sets,
		RepsMin:       req.RepsMin,
		RepsMax:       req.RepsMax,
		Weight:        req.Weight,
		Increment:     req.Increment,
		Order:         req.Order,
	})
	if err != nil {
		handleServiceError(c, err, "创建动作失败")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"exercise": newExerciseView(*exercise)})
}

// UpdateExercise 手动编辑动作
func (a *API) UpdateExercise(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的动作ID")
		return
	}

	var req exercisePatchRequest
	if !bindJSON(c, &req, "请求格式错误") {
		return
	}

	exercise, err := a.exercises.Update(c.Request.Context(), currentUserID(c), id, service.ExercisePatch{
		Name:          req.Name,
		Sets:          req.Sets,
		RepsMin:       req.RepsMin,
		RepsMax:       req.RepsMax,
		Weight:        req.Weight,
		Increment:     req.Increment,
		Order:         req.Order,
		TemplateID:    req.TemplateID,
		ClearTemplate: req.ClearTemplate,
	})
	if err != nil {
		handleServiceError(c, err, "更新动作失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"exercise": newExerciseView(*exercise)})
}

// DeleteExercise 删除动作及其台账与训练日志
func (a *API) DeleteExercise(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的动作ID")
		return
	}

	if err := a.exercises.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		handleServiceError(c, err, "删除动作失败")
		return
	}
	c.Status(http.StatusNoContent)
}

// IncrementExercise 按步长加重
func (a *API) IncrementExercise(c *gin.Context) {
	a.adjustExercise(c, a.exercises.Increment)
}

// DecrementExercise 按步长减重
func (a *API) DecrementExercise(c *gin.Context) {
	a.adjustExercise(c, a.exercises.Decrement)
}

type weightAdjuster func(ctx context.Context, userID, id uint) (*db.Exercise, error)

func (a *API) adjustExercise(c *gin.Context, adjust weightAdjuster) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的动作ID")
		return
	}

	exercise, err := adjust(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		handleServiceError(c, err, "调整重量失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"exercise": newExerciseView(*exercise)})
}

// ExerciseHistory 返回按时间升序的重量台账
func (a *API) ExerciseHistory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的动作ID")
		return
	}

	entries, err := a.ledger.History(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		handleServiceError(c, err, "获取重量历史失败")
		return
	}

	sorted := service.SortLedger(entries)
	response := make([]weightPointView, 0, len(sorted))
	for _, entry := range sorted {
		response = append(response, weightPointView{Weight: entry.Weight, RecordedAt: entry.RecordedAt})
	}
	c.JSON(http.StatusOK, gin.H{"history": response})
}

// LastWorkout 返回动作最近一次完成记录，从未训练时 log 为 null
func (a *API) LastWorkout(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的动作ID")
		return
	}

	last, err := a.logs.LastEntry(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		handleServiceError(c, err, "获取训练记录失败")
		return
	}
	if last == nil {
		c.JSON(http.StatusOK, gin.H{"log": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"log": newWorkoutLogView(*last)})
}
