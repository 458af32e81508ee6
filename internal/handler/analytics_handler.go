package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/liftlog/internal/service"
)

func periodFromQuery(c *gin.Context) service.Period {
	return service.ParsePeriod(c.Query("period"))
}

func formatWindowBound(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// AnalyticsOverview 返回窗口内的进步概览
func (a *API) AnalyticsOverview(c *gin.Context) {
	overview, err := a.analytics.Overview(c.Request.Context(), currentUserID(c), periodFromQuery(c))
	if err != nil {
		handleServiceError(c, err, "获取统计数据失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"period":            string(overview.Period),
		"windowStart":       formatWindowBound(overview.Window.Start),
		"windowEnd":         formatWindowBound(overview.Window.End),
		"totalTrainingDays": overview.TotalTrainingDays,
		"totalSets":         overview.TotalSets,
		"averageChange":     overview.AverageChange,
		"items":             newCategoryGroupViews(overview.Groups),
	})
}

// AnalyticsTemplateDetail 返回模板维度的进步详情
func (a *API) AnalyticsTemplateDetail(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的模板ID")
		return
	}

	detail, err := a.analytics.Detail(c.Request.Context(), currentUserID(c), id, periodFromQuery(c))
	if err != nil {
		handleServiceError(c, err, "获取统计数据失败")
		return
	}
	if detail == nil {
		respondError(c, http.StatusNotFound, "资源不存在")
		return
	}

	history := make([]weightPointView, 0, len(detail.WeightHistory))
	for _, point := range detail.WeightHistory {
		history = append(history, weightPointView{Weight: point.Weight, RecordedAt: point.RecordedAt})
	}

	c.JSON(http.StatusOK, gin.H{
		"templateId":    detail.TemplateID,
		"templateName":  detail.TemplateName,
		"category":      detail.Category,
		"period":        string(detail.Period),
		"totalWorkouts": detail.TotalWorkouts,
		"currentWeight": detail.CurrentWeight,
		"oldWeight":     detail.OldWeight,
		"percentChange": detail.PercentChange,
		"weightHistory": history,
		"enoughData":    detail.EnoughData,
	})
}

// TrainingStatus 返回各计划最近训练与下一次训练推荐
func (a *API) TrainingStatus(c *gin.Context) {
	status, err := a.status.Status(c.Request.Context(), currentUserID(c))
	if err != nil {
		handleServiceError(c, err, "获取训练状态失败")
		return
	}

	lastTrained := make(map[string]gin.H, len(status.LastTrainedByPlan))
	for planID, last := range status.LastTrainedByPlan {
		lastTrained[strconv.FormatUint(uint64(planID), 10)] = gin.H{
			"dayId":     last.DayID,
			"dayName":   last.DayName,
			"trainedAt": last.TrainedAt,
		}
	}

	var suggested gin.H
	if day := status.SuggestedDay; day != nil {
		suggested = gin.H{
			"id":            day.ID,
			"name":          day.Name,
			"planId":        day.PlanID,
			"planName":      day.PlanName,
			"exerciseCount": day.ExerciseCount,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"lastTrainedByPlan": lastTrained,
		"suggestedDay":      suggested,
	})
}
