package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"seller-console/internal/models"
)

// CouponUpload is the multipart payload for creating a coupon. Image readers
// may be nil when no image is attached.
type CouponUpload struct {
	StoreID    string
	Title      string
	Offer      float64
	Limit      int
	FromDate   time.Time
	ValidDays  int
	ExpireDate time.Time
	Banner     io.Reader
	Slider     io.Reader
}

// Coupons fetches the store's coupons.
func (c *Client) Coupons(ctx context.Context, storeID string) ([]models.Coupon, error) {
	var resp struct {
		Coupons []models.Coupon `json:"coupons"`
	}
	if err := c.doJSON(ctx, http.MethodGet, pathCoupons+storeID, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch coupons: %w", err)
	}
	return resp.Coupons, nil
}

// CreateCoupon submits a new coupon as a multipart form.
func (c *Client) CreateCoupon(ctx context.Context, upload CouponUpload) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"storeId":    upload.StoreID,
		"title":      upload.Title,
		"offer":      strconv.FormatFloat(upload.Offer, 'f', -1, 64),
		"limit":      strconv.Itoa(upload.Limit),
		"fromTo":     upload.FromDate.Format("2006-01-02"),
		"validDays":  strconv.Itoa(upload.ValidDays),
		"expireDate": upload.ExpireDate.Format(time.RFC3339),
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", k, err)
		}
	}

	if upload.Banner != nil {
		part, err := w.CreateFormFile("image", "banner.png")
		if err != nil {
			return fmt.Errorf("failed to attach banner: %w", err)
		}
		if _, err := io.Copy(part, upload.Banner); err != nil {
			return fmt.Errorf("failed to copy banner: %w", err)
		}
	}
	if upload.Slider != nil {
		part, err := w.CreateFormFile("file", "slider.png")
		if err != nil {
			return fmt.Errorf("failed to attach slider image: %w", err)
		}
		if _, err := io.Copy(part, upload.Slider); err != nil {
			return fmt.Errorf("failed to copy slider image: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, pathCreateCoupon, &buf, w.FormDataContentType())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// EditCoupon updates mutable coupon fields or flips the active flag.
func (c *Client) EditCoupon(ctx context.Context, couponID string, patch map[string]interface{}) error {
	if err := c.doJSON(ctx, http.MethodPost, pathEditCoupon+couponID, patch, nil); err != nil {
		return fmt.Errorf("failed to edit coupon %s: %w", couponID, err)
	}
	return nil
}
