package models

import "time"

// Order is a read/write projection of a marketplace order. The backend owns
// the record; the console mutates it only through status-update calls.
type Order struct {
	ID            string      `json:"_id"`
	OrderID       string      `json:"orderId"`
	Items         []OrderItem `json:"items"`
	Address       *Address    `json:"addressId,omitempty"`
	PaymentStatus string      `json:"paymentStatus"`
	OrderStatus   string      `json:"orderStatus"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// OrderItem is a single ordered line.
type OrderItem struct {
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Image       string  `json:"image"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	VariantName string  `json:"variantName,omitempty"`
}

// Address is the delivery address referenced by an order.
type Address struct {
	ID          string `json:"_id"`
	FullAddress string `json:"fullAddress"`
}

// DeliveryStatus is a catalog entry mapping a status code to its display
// title and icon. Immutable from the console's perspective.
type DeliveryStatus struct {
	ID          string `json:"_id"`
	StatusCode  string `json:"statusCode"`
	StatusTitle string `json:"statusTitle"`
	Image       string `json:"image"`
}

// SellerProduct is a product listed by a store, with its variants.
type SellerProduct struct {
	ID          string           `json:"sellerProductId"`
	ProductName string           `json:"productName"`
	Thumbnail   string           `json:"productThumbnailUrl"`
	CategoryID  string           `json:"categoryId,omitempty"`
	Commission  float64          `json:"commission"`
	Active      bool             `json:"status"`
	Variants    []ProductVariant `json:"variants"`
}

// ProductVariant is a purchasable configuration of a product. Commission is
// read-only, set by the platform.
type ProductVariant struct {
	ID            string  `json:"_id"`
	AttributeName string  `json:"attributeName"`
	VariantValue  string  `json:"variantValue"`
	Stock         int     `json:"stock"`
	SellPrice     float64 `json:"sell_price"`
	MRP           float64 `json:"mrp"`
}

// Category is a seller category mapping entry.
type Category struct {
	ID         string  `json:"_id"`
	Name       string  `json:"name"`
	Commission float64 `json:"commission"`
}

// Coupon approval statuses.
const (
	CouponApprovalPending  = "pending"
	CouponApprovalApproved = "approved"
	CouponApprovalRejected = "rejected"
)

// Coupon is a seller promotion. Approved coupons are immutable to the seller.
type Coupon struct {
	ID             string    `json:"_id"`
	Title          string    `json:"title"`
	Offer          float64   `json:"offer"`
	Limit          int       `json:"limit"`
	FromTo         time.Time `json:"fromTo"`
	ValidDays      int       `json:"validDays"`
	ExpireDate     time.Time `json:"expireDate"`
	ApprovalStatus string    `json:"approvalStatus"`
	Active         bool      `json:"status"`
	Image          string    `json:"image,omitempty"`
	SliderImage    string    `json:"sliderImage,omitempty"`
}

// Wallet transaction types and withdrawal states.
const (
	TxnTypeCredit = "Credit"
	TxnTypeDebit  = "Debit"

	WithdrawalPending  = "pending"
	WithdrawalAccepted = "accepted"
	WithdrawalDeclined = "declined"
)

// WalletTransaction is one ledger entry; CurrentAmount is the running
// balance after the transaction.
type WalletTransaction struct {
	ID            string    `json:"_id"`
	Type          string    `json:"type"`
	Amount        float64   `json:"amount"`
	CurrentAmount float64   `json:"currentAmount"`
	Description   string    `json:"description,omitempty"`
	OrderID       string    `json:"orderId,omitempty"`
	Status        string    `json:"status,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// DashboardStats is the store's headline numbers for the current month.
type DashboardStats struct {
	TotalEarning           float64 `json:"totalEarning"`
	TotalMonthlyOrders     int     `json:"totalMonthlyOrders"`
	TotalProducts          int     `json:"totalProducts"`
	TotalCategories        int     `json:"totalCategories"`
	CompletedMonthlyOrders int     `json:"completedMonthlyOrders"`
	PendingMonthlyOrders   int     `json:"pendingMonthlyOrders"`
	StoreOpen              bool    `json:"storeStatus"`
}

// Session is the explicit per-login context that replaces ambient
// browser-storage state. Populated at login, cleared at logout.
type Session struct {
	ID        string    `json:"session_id"`
	StoreID   string    `json:"store_id"`
	SellerID  string    `json:"seller_id"`
	Token     string    `json:"token"`
	UserType  string    `json:"user_type"`
	FCMToken  string    `json:"fcm_token,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
