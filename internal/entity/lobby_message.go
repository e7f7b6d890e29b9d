package entity

type LobbyMessage struct {
	SnowFlakeBase
	AuthorID string `gorm:"index"`
	Author   User   `gorm:"foreignKey:AuthorID"`
	Text     string `validate:"notblank,max=1000"`
}
