package entity

type Course struct {
	Base
	Title     string
	TeacherID string
	Teacher   User `gorm:"foreignKey:TeacherID"`
}

type CourseActivity struct {
	Base
	CourseID string `gorm:"index"`
	Course   Course `gorm:"foreignKey:CourseID"`
	Title    string
}

type Enrollment struct {
	Base
	CourseID  string `gorm:"index"`
	Course    Course `gorm:"foreignKey:CourseID"`
	StudentID string `gorm:"index"`
	Student   User   `gorm:"foreignKey:StudentID"`
	Blocked   bool
}
