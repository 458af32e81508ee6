package service

import (
	"fmt"

	"github.com/liftlog/internal/db"
	"github.com/liftlog/internal/metrics"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// EntityKind 标识需要解析归属的实体类型
type EntityKind string

const (
	KindTemplate EntityKind = "template"
	KindPlan     EntityKind = "plan"
	KindDay      EntityKind = "day"
	KindExercise EntityKind = "exercise"
)

// OwnershipResolver 沿 动作→训练日→用户 的链路解析资源归属。
// 所有写操作和未按用户过滤的读操作都经过这里。
type OwnershipResolver struct {
	metrics *metrics.Manager
}

// NewOwnershipResolver 构造 OwnershipResolver，metrics 可为 nil
func NewOwnershipResolver(m *metrics.Manager) *OwnershipResolver {
	return &OwnershipResolver{metrics: m}
}

// ResolveOwner 返回实体的根归属用户，实体不存在时返回 ErrNotFound
func (r *OwnershipResolver) ResolveOwner(tx *gorm.DB, kind EntityKind, id uint) (uint, error) {
	if id == 0 {
		return 0, ErrNotFound
	}

	var owners []uint
	var query *gorm.DB

	switch kind {
	case KindTemplate:
		query = tx.Model(&db.ExerciseTemplate{}).Where("id = ?", id)
	case KindPlan:
		query = tx.Model(&db.TrainingPlan{}).Where("id = ?", id)
	case KindDay:
		query = tx.Model(&db.TrainingDay{}).Where("id = ?", id)
	case KindExercise:
		if err := tx.Model(&db.Exercise{}).
			Joins("JOIN training_days ON training_days.id = exercises.training_day_id").
			Where("exercises.id = ?", id).
			Limit(1).
			Pluck("training_days.user_id", &owners).Error; err != nil {
			return 0, fmt.Errorf("resolve %s owner: %w", kind, err)
		}
	default:
		return 0, fmt.Errorf("resolve owner: unknown entity kind %q", kind)
	}

	if query != nil {
		if err := query.Limit(1).Pluck("user_id", &owners).Error; err != nil {
			return 0, fmt.Errorf("resolve %s owner: %w", kind, err)
		}
	}

	if len(owners) == 0 {
		return 0, ErrNotFound
	}
	return owners[0], nil
}

// Authorize 校验实体归属于 userID，不匹配时返回 ErrForbidden
func (r *OwnershipResolver) Authorize(tx *gorm.DB, userID uint, kind EntityKind, id uint) error {
	owner, err := r.ResolveOwner(tx, kind, id)
	if err != nil {
		return err
	}
	if owner != userID {
		r.metrics.ObserveForbidden()
		logrus.WithFields(logrus.Fields{
			"entity":  kind,
			"id":      id,
			"user_id": userID,
		}).Warn("rejected access to resource owned by another user")
		return ErrForbidden
	}
	return nil
}
