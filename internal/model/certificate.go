package model

import "time"

// Certificate 结业证书，每个学员至多一张；Sequence 全局递增，
// Number 为其补零格式（"01"、"02"、…、"10"）
// swagger:model Certificate
type Certificate struct {
	BaseModel
	UserID       uint      `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"userId"`
	Sequence     int       `gorm:"uniqueIndex;not null" json:"sequence"`
	Number       string    `gorm:"size:20;uniqueIndex;not null" json:"number"`
	HolderName   string    `gorm:"size:100" json:"holderName"`
	HolderGender string    `gorm:"size:10" json:"holderGender"`
	ValidFrom    time.Time `json:"validFrom"`
	ValidUntil   time.Time `json:"validUntil"`
	IssuedAt     time.Time `json:"issuedAt"`
	IssuedBy     uint      `gorm:"type:bigint unsigned" json:"issuedBy"`
}

func (Certificate) TableName() string {
	return "certificates"
}
