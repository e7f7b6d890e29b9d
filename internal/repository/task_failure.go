package repository

import (
	"context"

	"github.com/questx-lab/classroom/internal/entity"
	"github.com/questx-lab/classroom/pkg/xcontext"
)

type TaskFailureRepository interface {
	Create(ctx context.Context, data *entity.TaskFailure) error
	GetByTaskID(ctx context.Context, taskID string) ([]entity.TaskFailure, error)
}

type taskFailureRepository struct{}

func NewTaskFailureRepository() *taskFailureRepository {
	return &taskFailureRepository{}
}

func (r *taskFailureRepository) Create(ctx context.Context, data *entity.TaskFailure) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *taskFailureRepository) GetByTaskID(ctx context.Context, taskID string) ([]entity.TaskFailure, error) {
	var result []entity.TaskFailure
	if err := xcontext.DB(ctx).Where("task_id=?", taskID).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
