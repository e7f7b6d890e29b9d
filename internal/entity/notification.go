package entity

type Notification struct {
	Base
	RecipientID string `gorm:"index;<-:create"`
	Recipient   User   `gorm:"foreignKey:RecipientID"`
	Title       string `validate:"notblank,max=100"`
	Message     string `validate:"notblank,max=1000"`
	IsRead      bool   `gorm:"default:false"`
}
