package properties

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"unistay-backend/internal/cache"
	"unistay-backend/internal/domain"
	"unistay-backend/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const listingCacheKey = "properties:available"

type Service struct {
	DB       *gorm.DB
	Cache    cache.Cache
	CacheTTL time.Duration
}

type CreatePropertyInput struct {
	LandlordID        uuid.UUID
	Title             string
	Description       string
	Address           string
	City              string
	MonthlyRent       float64
	AllowReservations bool
	EnableDownpayment bool
	DownpaymentAmount float64
	Amenities         datatypes.JSON
	ImageURLs         []string
	PrimaryImageIndex int
}

func (s *Service) CreateProperty(ctx context.Context, in CreatePropertyInput) (*domain.Property, error) {
	property := &domain.Property{
		LandlordID:         in.LandlordID,
		Title:              in.Title,
		Description:        in.Description,
		Address:            in.Address,
		City:               in.City,
		MonthlyRent:        in.MonthlyRent,
		AllowReservations:  in.AllowReservations,
		EnableDownpayment:  in.EnableDownpayment,
		DownpaymentAmount:  in.DownpaymentAmount,
		VerificationStatus: domain.VerificationPending,
		Available:          true,
		Amenities:          in.Amenities,
	}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Create(property).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("Failed to create property: %v", err)
	}
	for i, url := range in.ImageURLs {
		img := domain.PropertyImage{
			PropertyID: property.PropertyID,
			URL:        url,
			IsPrimary:  i == in.PrimaryImageIndex,
		}
		if err := tx.Create(&img).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("Failed to create property image: %v", err)
		}
		property.Images = append(property.Images, img)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("Failed to create property: %v", err)
	}
	s.invalidateListings(ctx)
	return property, nil
}

func (s *Service) GetProperty(ctx context.Context, propertyID uuid.UUID) (*domain.Property, error) {
	var property domain.Property
	if err := s.DB.WithContext(ctx).Preload("Images").Where("property_id = ?", propertyID).First(&property).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Property not found")
		}
		return nil, err
	}
	domain.SortImagesPrimaryFirst(property.Images)
	return &property, nil
}

type ListFilter struct {
	City    string
	MaxRent float64
}

// ListAvailable returns verified, available properties, newest first. The
// unfiltered listing is served through the TTL cache; stale data up to one
// TTL is acceptable here.
func (s *Service) ListAvailable(ctx context.Context, f ListFilter) ([]domain.Property, error) {
	cacheable := f.City == "" && f.MaxRent == 0
	if cacheable && s.Cache != nil {
		if b, ok := s.Cache.Get(ctx, listingCacheKey); ok {
			var cached []domain.Property
			if err := json.Unmarshal(b, &cached); err == nil {
				return cached, nil
			}
		}
	}

	q := s.DB.WithContext(ctx).Preload("Images").
		Where("available = ? AND verification_status = ?", true, domain.VerificationVerified)
	if f.City != "" {
		q = q.Where("city = ?", f.City)
	}
	if f.MaxRent > 0 {
		q = q.Where("monthly_rent <= ?", f.MaxRent)
	}
	var out []domain.Property
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	for i := range out {
		domain.SortImagesPrimaryFirst(out[i].Images)
	}

	if cacheable && s.Cache != nil {
		if b, err := json.Marshal(out); err == nil {
			s.Cache.Set(ctx, listingCacheKey, b, s.CacheTTL)
		}
	}
	return out, nil
}

func (s *Service) GetLandlordProperties(ctx context.Context, landlordID uuid.UUID) ([]domain.Property, error) {
	var out []domain.Property
	if err := s.DB.WithContext(ctx).Preload("Images").
		Where("landlord_id = ?", landlordID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	for i := range out {
		domain.SortImagesPrimaryFirst(out[i].Images)
	}
	return out, nil
}

type UpdatePropertyInput struct {
	Title             *string
	Description       *string
	MonthlyRent       *float64
	AllowReservations *bool
	EnableDownpayment *bool
	DownpaymentAmount *float64
	Available         *bool
}

func (s *Service) UpdateProperty(ctx context.Context, propertyID, landlordID uuid.UUID, in UpdatePropertyInput) (*domain.Property, error) {
	property, err := s.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property.LandlordID != landlordID {
		return nil, apperrors.Authorization("Property does not belong to landlord")
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.MonthlyRent != nil {
		if *in.MonthlyRent <= 0 {
			return nil, apperrors.Validation("Invalid monthly rent")
		}
		updates["monthly_rent"] = *in.MonthlyRent
	}
	if in.AllowReservations != nil {
		updates["allow_reservations"] = *in.AllowReservations
	}
	if in.EnableDownpayment != nil {
		updates["enable_downpayment"] = *in.EnableDownpayment
	}
	if in.DownpaymentAmount != nil {
		updates["downpayment_amount"] = *in.DownpaymentAmount
	}
	if in.Available != nil {
		updates["available"] = *in.Available
	}
	if len(updates) == 0 {
		return nil, apperrors.Validation("No valid changes provided")
	}
	if err := s.DB.WithContext(ctx).Model(&domain.Property{}).
		Where("property_id = ?", propertyID).
		Updates(updates).Error; err != nil {
		return nil, err
	}
	s.invalidateListings(ctx)
	return s.GetProperty(ctx, propertyID)
}

// VerifyProperty records the admin moderation decision.
func (s *Service) VerifyProperty(ctx context.Context, propertyID uuid.UUID, status string) (*domain.Property, error) {
	if status != domain.VerificationVerified && status != domain.VerificationRejected {
		return nil, apperrors.Validation("Status must be verified or rejected")
	}
	property, err := s.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(property).Update("verification_status", status).Error; err != nil {
		return nil, err
	}
	property.VerificationStatus = status
	s.invalidateListings(ctx)
	return property, nil
}

func (s *Service) invalidateListings(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	s.Cache.Invalidate(ctx, listingCacheKey)
	log.Debug().Str("key", listingCacheKey).Msg("Listing cache invalidated")
}
