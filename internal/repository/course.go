package repository

import (
	"context"

	"github.com/questx-lab/classroom/internal/entity"
	"github.com/questx-lab/classroom/pkg/xcontext"
)

type CourseRepository interface {
	Create(ctx context.Context, data *entity.Course) error
	GetByID(ctx context.Context, id string) (*entity.Course, error)
}

type courseRepository struct{}

func NewCourseRepository() *courseRepository {
	return &courseRepository{}
}

func (r *courseRepository) Create(ctx context.Context, data *entity.Course) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*entity.Course, error) {
	var result entity.Course
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}
