package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Property verification states (admin moderation).
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

type Property struct {
	PropertyID         uuid.UUID       `gorm:"column:property_id;type:uuid;primaryKey" json:"property_id"`
	LandlordID         uuid.UUID       `gorm:"column:landlord_id;type:uuid;not null;index" json:"landlord_id"`
	Title              string          `gorm:"column:title;not null" json:"title"`
	Description        string          `gorm:"column:description" json:"description"`
	Address            string          `gorm:"column:address;not null" json:"address"`
	City               string          `gorm:"column:city;not null;index" json:"city"`
	MonthlyRent        float64         `gorm:"column:monthly_rent;type:decimal(18,2);not null" json:"monthly_rent"`
	AllowReservations  bool            `gorm:"column:allow_reservations;default:true" json:"allow_reservations"`
	EnableDownpayment  bool            `gorm:"column:enable_downpayment;default:false" json:"enable_downpayment"`
	DownpaymentAmount  float64         `gorm:"column:downpayment_amount;type:decimal(18,2);default:0" json:"downpayment_amount"`
	VerificationStatus string          `gorm:"column:verification_status;type:varchar(20);default:'pending'" json:"verification_status"`
	Available          bool            `gorm:"column:available;default:true" json:"available"`
	Amenities          datatypes.JSON  `gorm:"column:amenities;type:json" json:"amenities"`
	Images             []PropertyImage `gorm:"foreignKey:PropertyID;references:PropertyID" json:"images,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Property) TableName() string {
	return "properties"
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.PropertyID == uuid.Nil {
		p.PropertyID = uuid.New()
	}
	return nil
}

type PropertyImage struct {
	ImageID    uuid.UUID `gorm:"column:image_id;type:uuid;primaryKey" json:"image_id"`
	PropertyID uuid.UUID `gorm:"column:property_id;type:uuid;not null;index" json:"property_id"`
	URL        string    `gorm:"column:url;not null" json:"url"`
	IsPrimary  bool      `gorm:"column:is_primary;default:false" json:"is_primary"`
	CreatedAt  time.Time `json:"created_at"`
}

func (PropertyImage) TableName() string {
	return "property_images"
}

func (i *PropertyImage) BeforeCreate(tx *gorm.DB) error {
	if i.ImageID == uuid.Nil {
		i.ImageID = uuid.New()
	}
	return nil
}

// SortImagesPrimaryFirst orders images so the primary image comes first,
// keeping the relative order of the rest stable.
func SortImagesPrimaryFirst(images []PropertyImage) {
	sort.SliceStable(images, func(a, b int) bool {
		return images[a].IsPrimary && !images[b].IsPrimary
	})
}

// PrimaryImage returns the primary image URL, or the first image, or "".
func (p *Property) PrimaryImage() string {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}
