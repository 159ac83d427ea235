package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"seller-console/internal/backend"
	"seller-console/internal/models"
	"seller-console/internal/util"

	"go.uber.org/zap"
)

// Validation rejections raised before any request is issued.
var (
	ErrCouponMissingFields = errors.New("all coupon fields are required")
	ErrCouponBadOffer      = errors.New("offer percentage must be between 0 and 100")
	ErrCouponBadLimit      = errors.New("redemption limit must be positive")
	ErrCouponExpiryPast    = errors.New("coupon expiry must be in the future")
	ErrCouponExpired       = errors.New("cannot activate an expired coupon")
	ErrCouponApproved      = errors.New("approved coupons cannot be edited")
	ErrImageDimensions     = errors.New("image has wrong dimensions")
)

// Required pixel dimensions for coupon artwork.
const (
	bannerWidth  = 1280
	bannerHeight = 540
	sliderWidth  = 512
	sliderHeight = 512
)

// CouponInput is a coupon creation request before validation.
type CouponInput struct {
	Title     string    `json:"title"`
	Offer     float64   `json:"offer"`
	Limit     int       `json:"limit"`
	FromDate  time.Time `json:"from_date"`
	ValidDays int       `json:"valid_days"`
}

// ExpireDate derives the expiry from the start date and validity window.
func (in CouponInput) ExpireDate() time.Time {
	return in.FromDate.AddDate(0, 0, in.ValidDays)
}

// CouponService validates and manages seller coupons.
type CouponService struct {
	backend *backend.Client
	logger  *zap.Logger
}

// NewCouponService creates a coupon service.
func NewCouponService(backendClient *backend.Client) *CouponService {
	return &CouponService{
		backend: backendClient,
		logger:  util.GetLogger(),
	}
}

// ValidateInput checks the text fields. now is injectable for tests.
func ValidateInput(in CouponInput, now time.Time) error {
	if in.Title == "" || in.FromDate.IsZero() || in.ValidDays == 0 {
		util.CouponValidationFailures.WithLabelValues("missing_fields").Inc()
		return ErrCouponMissingFields
	}
	if in.Offer <= 0 || in.Offer >= 100 {
		util.CouponValidationFailures.WithLabelValues("bad_offer").Inc()
		return ErrCouponBadOffer
	}
	if in.Limit <= 0 {
		util.CouponValidationFailures.WithLabelValues("bad_limit").Inc()
		return ErrCouponBadLimit
	}
	if !in.ExpireDate().After(now) {
		util.CouponValidationFailures.WithLabelValues("expiry_past").Inc()
		return ErrCouponExpiryPast
	}
	return nil
}

// checkDimensions decodes only the image header, mirroring the original's
// naturalWidth/naturalHeight check without loading pixel data.
func checkDimensions(data []byte, wantWidth, wantHeight int) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width != wantWidth || cfg.Height != wantHeight {
		util.CouponValidationFailures.WithLabelValues("image_dimensions").Inc()
		return fmt.Errorf("%w: got %dx%d, want %dx%d",
			ErrImageDimensions, cfg.Width, cfg.Height, wantWidth, wantHeight)
	}
	return nil
}

// List fetches the store's coupons.
func (s *CouponService) List(ctx context.Context, storeID string) ([]models.Coupon, error) {
	return s.backend.Coupons(ctx, storeID)
}

// Create validates the input and optional images, then submits the
// multipart payload. Validation failures return before any request.
func (s *CouponService) Create(ctx context.Context, storeID string, in CouponInput, banner, slider []byte) error {
	ctx, span := util.StartSpan(ctx, "CouponService.Create")
	defer span.End()

	if err := ValidateInput(in, time.Now()); err != nil {
		return err
	}
	if banner != nil {
		if err := checkDimensions(banner, bannerWidth, bannerHeight); err != nil {
			return fmt.Errorf("banner: %w", err)
		}
	}
	if slider != nil {
		if err := checkDimensions(slider, sliderWidth, sliderHeight); err != nil {
			return fmt.Errorf("slider image: %w", err)
		}
	}

	upload := backend.CouponUpload{
		StoreID:    storeID,
		Title:      in.Title,
		Offer:      in.Offer,
		Limit:      in.Limit,
		FromDate:   in.FromDate,
		ValidDays:  in.ValidDays,
		ExpireDate: in.ExpireDate(),
	}
	if banner != nil {
		upload.Banner = bytes.NewReader(banner)
	}
	if slider != nil {
		upload.Slider = bytes.NewReader(slider)
	}

	if err := s.backend.CreateCoupon(ctx, upload); err != nil {
		return err
	}

	s.logger.Info("Coupon created",
		zap.String("store_id", storeID),
		zap.String("title", in.Title))
	return nil
}

// Toggle flips a coupon's active flag. Activating an expired coupon is
// blocked client-side.
func (s *CouponService) Toggle(ctx context.Context, coupon models.Coupon, active bool) error {
	if active && !coupon.ExpireDate.After(time.Now()) {
		util.CouponValidationFailures.WithLabelValues("expired_toggle").Inc()
		return ErrCouponExpired
	}
	return s.backend.EditCoupon(ctx, coupon.ID, map[string]interface{}{"status": active})
}

// Edit updates a coupon's mutable fields. Approved coupons are read-only to
// the seller.
func (s *CouponService) Edit(ctx context.Context, coupon models.Coupon, patch map[string]interface{}) error {
	if coupon.ApprovalStatus == models.CouponApprovalApproved {
		util.CouponValidationFailures.WithLabelValues("edit_approved").Inc()
		return ErrCouponApproved
	}
	return s.backend.EditCoupon(ctx, coupon.ID, patch)
}
