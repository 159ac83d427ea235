package service

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"seller-console/internal/backend"
	"seller-console/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCouponInput(now time.Time) CouponInput {
	return CouponInput{
		Title:     "Weekend Sale",
		Offer:     15,
		Limit:     100,
		FromDate:  now,
		ValidDays: 7,
	}
}

func TestValidateInput(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateInput(validCouponInput(now), now))

	missing := validCouponInput(now)
	missing.Title = ""
	assert.ErrorIs(t, ValidateInput(missing, now), ErrCouponMissingFields)

	badOffer := validCouponInput(now)
	badOffer.Offer = 0
	assert.ErrorIs(t, ValidateInput(badOffer, now), ErrCouponBadOffer)

	badOffer.Offer = 100
	assert.ErrorIs(t, ValidateInput(badOffer, now), ErrCouponBadOffer)

	badLimit := validCouponInput(now)
	badLimit.Limit = -1
	assert.ErrorIs(t, ValidateInput(badLimit, now), ErrCouponBadLimit)

	past := validCouponInput(now)
	past.FromDate = now.AddDate(0, 0, -30)
	assert.ErrorIs(t, ValidateInput(past, now), ErrCouponExpiryPast)
}

func TestCouponExpireDate(t *testing.T) {
	in := CouponInput{
		FromDate:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		ValidDays: 10,
	}
	assert.Equal(t, time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC), in.ExpireDate())
}

func pngImage(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))
	return buf.Bytes()
}

// couponBackend counts requests so tests can prove a rejection never left
// the process.
type couponBackend struct {
	coupons    []models.Coupon
	createHits int64
	editHits   int64
}

func (b *couponBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/seller-coupons/create":
		atomic.AddInt64(&b.createHits, 1)
		json.NewEncoder(w).Encode(map[string]string{"message": "created"})
	case strings.HasPrefix(r.URL.Path, "/seller-coupons/edit/"):
		atomic.AddInt64(&b.editHits, 1)
		json.NewEncoder(w).Encode(map[string]string{"message": "updated"})
	case strings.HasPrefix(r.URL.Path, "/seller-coupons/"):
		json.NewEncoder(w).Encode(map[string]interface{}{"coupons": b.coupons})
	default:
		http.NotFound(w, r)
	}
}

func newCouponHarness(t *testing.T, stub *couponBackend) (*CouponService, func()) {
	t.Helper()
	srv := httptest.NewServer(stub)
	client := backend.NewClient(srv.URL, 5*time.Second)
	return NewCouponService(client), srv.Close
}

func TestCreateCoupon(t *testing.T) {
	stub := &couponBackend{}
	svc, closeFn := newCouponHarness(t, stub)
	defer closeFn()

	in := validCouponInput(time.Now())
	banner := pngImage(t, 1280, 540)
	slider := pngImage(t, 512, 512)

	require.NoError(t, svc.Create(context.Background(), "store-1", in, banner, slider))
	assert.Equal(t, int64(1), atomic.LoadInt64(&stub.createHits))
}

func TestCreateCouponRejectsBadInput(t *testing.T) {
	stub := &couponBackend{}
	svc, closeFn := newCouponHarness(t, stub)
	defer closeFn()

	in := validCouponInput(time.Now())
	in.Offer = -5

	err := svc.Create(context.Background(), "store-1", in, nil, nil)
	assert.ErrorIs(t, err, ErrCouponBadOffer)
	assert.Zero(t, atomic.LoadInt64(&stub.createHits))
}

func TestCreateCouponRejectsWrongDimensions(t *testing.T) {
	stub := &couponBackend{}
	svc, closeFn := newCouponHarness(t, stub)
	defer closeFn()

	in := validCouponInput(time.Now())

	err := svc.Create(context.Background(), "store-1", in, pngImage(t, 800, 600), nil)
	assert.ErrorIs(t, err, ErrImageDimensions)
	assert.Contains(t, err.Error(), "banner")

	err = svc.Create(context.Background(), "store-1", in, nil, pngImage(t, 512, 256))
	assert.ErrorIs(t, err, ErrImageDimensions)
	assert.Contains(t, err.Error(), "slider")

	assert.Zero(t, atomic.LoadInt64(&stub.createHits))
}

func TestCreateCouponRejectsGarbageImage(t *testing.T) {
	stub := &couponBackend{}
	svc, closeFn := newCouponHarness(t, stub)
	defer closeFn()

	err := svc.Create(context.Background(), "store-1", validCouponInput(time.Now()), []byte("not an image"), nil)
	assert.Error(t, err)
	assert.Zero(t, atomic.LoadInt64(&stub.createHits))
}

func TestToggleExpiredCoupon(t *testing.T) {
	stub := &couponBackend{}
	svc, closeFn := newCouponHarness(t, stub)
	defer closeFn()

	expired := models.Coupon{ID: "c1", ExpireDate: time.Now().AddDate(0, 0, -1)}

	err := svc.Toggle(context.Background(), expired, true)
	assert.ErrorIs(t, err, ErrCouponExpired)
	assert.Zero(t, atomic.LoadInt64(&stub.editHits))

	// deactivating an expired coupon is still allowed
	require.NoError(t, svc.Toggle(context.Background(), expired, false))
	assert.Equal(t, int64(1), atomic.LoadInt64(&stub.editHits))
}

func TestEditApprovedCoupon(t *testing.T) {
	stub := &couponBackend{}
	svc, closeFn := newCouponHarness(t, stub)
	defer closeFn()

	approved := models.Coupon{ID: "c1", ApprovalStatus: models.CouponApprovalApproved}

	err := svc.Edit(context.Background(), approved, map[string]interface{}{"title": "New"})
	assert.ErrorIs(t, err, ErrCouponApproved)
	assert.Zero(t, atomic.LoadInt64(&stub.editHits))

	pending := models.Coupon{ID: "c2", ApprovalStatus: models.CouponApprovalPending}
	require.NoError(t, svc.Edit(context.Background(), pending, map[string]interface{}{"title": "New"}))
	assert.Equal(t, int64(1), atomic.LoadInt64(&stub.editHits))
}
