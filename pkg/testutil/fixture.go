package testutil

import (
	"context"

	"github.com/questx-lab/classroom/internal/entity"
	"github.com/questx-lab/classroom/pkg/xcontext"
)

var (
	Teacher1 = &entity.User{Base: entity.Base{ID: "teacher1"}, Username: "teacher1", IsTeacher: true}
	Teacher2 = &entity.User{Base: entity.Base{ID: "teacher2"}, Username: "teacher2", IsTeacher: true}
	Student1 = &entity.User{Base: entity.Base{ID: "student1"}, Username: "student1"}
	Student2 = &entity.User{Base: entity.Base{ID: "student2"}, Username: "student2"}
	Student3 = &entity.User{Base: entity.Base{ID: "student3"}, Username: "student3"}
	Users    = []*entity.User{Teacher1, Teacher2, Student1, Student2, Student3}

	Course1 = &entity.Course{Base: entity.Base{ID: "course1"}, Title: "Algebra", TeacherID: Teacher1.ID}
	Course2 = &entity.Course{Base: entity.Base{ID: "course2"}, Title: "Biology", TeacherID: Teacher2.ID}
	Courses = []*entity.Course{Course1, Course2}

	// Student3 is blocked from Course1.
	Enrollment1 = &entity.Enrollment{Base: entity.Base{ID: "enrollment1"}, CourseID: Course1.ID, StudentID: Student1.ID}
	Enrollment2 = &entity.Enrollment{Base: entity.Base{ID: "enrollment2"}, CourseID: Course1.ID, StudentID: Student2.ID}
	Enrollment3 = &entity.Enrollment{Base: entity.Base{ID: "enrollment3"}, CourseID: Course2.ID, StudentID: Student1.ID}
	Enrollment4 = &entity.Enrollment{Base: entity.Base{ID: "enrollment4"}, CourseID: Course1.ID, StudentID: Student3.ID, Blocked: true}
	Enrollments = []*entity.Enrollment{Enrollment1, Enrollment2, Enrollment3, Enrollment4}

	Activity1  = &entity.CourseActivity{Base: entity.Base{ID: "activity1"}, CourseID: Course1.ID, Title: "Quiz 1"}
	Activities = []*entity.CourseActivity{Activity1}
)

// CreateFixtureDb inserts the sample users, courses, enrollments and
// activities into the database of ctx.
func CreateFixtureDb(ctx context.Context) {
	db := xcontext.DB(ctx)
	for _, u := range Users {
		if err := db.Create(u).Error; err != nil {
			panic(err)
		}
	}

	for _, c := range Courses {
		if err := db.Create(c).Error; err != nil {
			panic(err)
		}
	}

	for _, e := range Enrollments {
		if err := db.Create(e).Error; err != nil {
			panic(err)
		}
	}

	for _, a := range Activities {
		if err := db.Create(a).Error; err != nil {
			panic(err)
		}
	}
}
