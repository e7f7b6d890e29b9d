package repository

import (
	"context"

	"github.com/questx-lab/classroom/internal/entity"
	"github.com/questx-lab/classroom/pkg/xcontext"
)

type EnrollmentRepository interface {
	Create(ctx context.Context, data *entity.Enrollment) error

	// GetByID returns the enrollment with its course preloaded.
	GetByID(ctx context.Context, id string) (*entity.Enrollment, error)

	// GetActiveByStudentID returns the enrollments which are not blocked.
	GetActiveByStudentID(ctx context.Context, studentID string) ([]entity.Enrollment, error)
	GetStudentIDsByCourseID(ctx context.Context, courseID string) ([]string, error)
}

type enrollmentRepository struct{}

func NewEnrollmentRepository() *enrollmentRepository {
	return &enrollmentRepository{}
}

func (r *enrollmentRepository) Create(ctx context.Context, data *entity.Enrollment) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *enrollmentRepository) GetByID(ctx context.Context, id string) (*entity.Enrollment, error) {
	var result entity.Enrollment
	if err := xcontext.DB(ctx).Preload("Course").Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *enrollmentRepository) GetActiveByStudentID(
	ctx context.Context, studentID string,
) ([]entity.Enrollment, error) {
	var result []entity.Enrollment
	err := xcontext.DB(ctx).
		Where("student_id=? AND blocked=?", studentID, false).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *enrollmentRepository) GetStudentIDsByCourseID(ctx context.Context, courseID string) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).
		Model(&entity.Enrollment{}).
		Where("course_id=? AND blocked=?", courseID, false).
		Pluck("student_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
