package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice status values. An invoice is Degraded when OCR ran but field
// extraction failed and only the raw content was kept.
const (
	InvoiceStatusPending    = "pending"
	InvoiceStatusProcessing = "processing"
	InvoiceStatusProcessed  = "processed"
	InvoiceStatusDegraded   = "degraded"
	InvoiceStatusFailed     = "failed"
)

type Invoice struct {
	ID            string      `gorm:"type:uuid;primaryKey" json:"id"`
	Vendor        *string     `json:"vendor"`
	InvoiceNumber *string     `json:"invoiceNumber"`
	Amount        float64     `gorm:"not null;default:0" json:"amount"`
	Currency      *string     `json:"currency"`
	Date          time.Time   `gorm:"not null" json:"date"`
	Description   string      `json:"description"`
	Status        string      `gorm:"not null;default:pending" json:"status"`
	FileName      string      `json:"fileName"`
	FileKey       string      `json:"fileKey"`
	OCRData       []byte      `gorm:"type:jsonb" json:"-"`
	CategoryID    *string     `gorm:"type:uuid" json:"categoryId"`
	Category      *Category   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	DepartmentID  *string     `gorm:"type:uuid" json:"departmentId"`
	Department    *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
