package entity

type Message struct {
	SnowFlakeBase

	SenderID string `gorm:"index"`
	Sender   User   `gorm:"foreignKey:SenderID"`

	RecipientID string `gorm:"index"`
	Recipient   User   `gorm:"foreignKey:RecipientID"`

	Body string `gorm:"size:4000"`
}
