package repository

import (
	"context"

	"github.com/questx-lab/classroom/internal/entity"
	"github.com/questx-lab/classroom/pkg/xcontext"
)

type CourseActivityRepository interface {
	Create(ctx context.Context, data *entity.CourseActivity) error
	GetByID(ctx context.Context, id string) (*entity.CourseActivity, error)
}

type courseActivityRepository struct{}

func NewCourseActivityRepository() *courseActivityRepository {
	return &courseActivityRepository{}
}

func (r *courseActivityRepository) Create(ctx context.Context, data *entity.CourseActivity) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *courseActivityRepository) GetByID(ctx context.Context, id string) (*entity.CourseActivity, error) {
	var result entity.CourseActivity
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}
