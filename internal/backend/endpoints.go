package backend

// Marketplace API paths consumed by the console. Paths ending in a slash are
// completed with a resource ID by the caller.
const (
	pathLogin             = "/storeLogin"
	pathSendOTP           = "/sendOtp"
	pathVerifyOTP         = "/seller/verifyOtp"
	pathDeviceToken       = "/seller/updateFcmToken"
	pathDeliveryStatuses  = "/getdeliveryStatus"
	pathOrders            = "/orders"
	pathOrderStatus       = "/orderStatus/"
	pathThermalInvoice    = "/thermal-invoice/"
	pathSellerProducts    = "/getSellerProducts"
	pathUpdateStock       = "/updateStock/"
	pathProductStatus     = "/updateSellerProductStatus/"
	pathSellerCategories  = "/getSellerCategories/"
	pathAddCategory       = "/addCategoryInSeller"
	pathCoupons           = "/seller-coupons/"
	pathCreateCoupon      = "/seller-coupons/create"
	pathEditCoupon        = "/seller-coupons/edit/"
	pathTransactions      = "/getStoreTransaction/"
	pathWithdrawalRequest = "/seller/withdrawalRequest"
	pathDashboardStats    = "/getStoreDashboardStats/"
	pathStoreStatus       = "/updateStoreStatus/"
)
