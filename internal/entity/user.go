package entity

type User struct {
	Base
	Username  string `gorm:"unique"`
	IsTeacher bool
}
