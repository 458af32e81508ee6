package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liftlog/internal/service"
)

type workoutLogRequest struct {
	ExerciseID    uint      `json:"exerciseId" binding:"required"`
	Weight        *float64  `json:"weight"`
	SetsCompleted int       `json:"setsCompleted"`
	TotalSets     int       `json:"totalSets"`
	RepsAchieved  bool      `json:"repsAchieved"`
	SetWeights    []float64 `json:"setWeights"`
}

// CreateWorkoutLog 记录一次动作完成
func (a *API) CreateWorkoutLog(c *gin.Context) {
	var req workoutLogRequest
	if !bindJSON(c, &req, "动作ID不能为空") {
		return
	}

	result, err := a.logs.Append(c.Request.Context(), currentUserID(c), service.WorkoutLogInput{
		ExerciseID:    req.ExerciseID,
		Weight:        req.Weight,
		SetsCompleted: req.SetsCompleted,
		TotalSets:     req.TotalSets,
		RepsAchieved:  req.RepsAchieved,
		SetWeights:    req.SetWeights,
	})
	if err != nil {
		handleServiceError(c, err, "记录训练失败")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"log":              newWorkoutLogView(result.Log),
		"allSetsCompleted": result.AllSetsCompleted,
		"suggestIncrease":  result.SuggestIncrease,
		"increment":        result.Increment,
	})
}
