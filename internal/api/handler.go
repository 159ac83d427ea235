package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"seller-console/internal/backend"
	"seller-console/internal/models"
	"seller-console/internal/notify"
	"seller-console/internal/service"
	"seller-console/internal/session"
	"seller-console/internal/status"
	"seller-console/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	sessions *session.Service
	orders   *service.OrderService
	stock    *service.StockService
	coupons  *service.CouponService
	wallet   *service.WalletService
	seller   *service.SellerService
	catalog  *status.Catalog
	notifier *notify.OrderNotifier
}

// NewHandler creates a new HTTP handler
func NewHandler(
	sessions *session.Service,
	orders *service.OrderService,
	stock *service.StockService,
	coupons *service.CouponService,
	wallet *service.WalletService,
	seller *service.SellerService,
	catalog *status.Catalog,
	notifier *notify.OrderNotifier,
) *Handler {
	return &Handler{
		sessions: sessions,
		orders:   orders,
		stock:    stock,
		coupons:  coupons,
		wallet:   wallet,
		seller:   seller,
		catalog:  catalog,
		notifier: notifier,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := router.Group("/auth")
	{
		auth.POST("/login", h.login)
		auth.POST("/otp/send", h.sendOTP)
		auth.POST("/otp/verify", h.verifyOTP)
		auth.POST("/logout", h.authorized, h.logout)
		auth.POST("/device-token", h.authorized, h.registerDeviceToken)
	}

	v1 := router.Group("/api/v1", h.authorized)
	{
		v1.GET("/orders", h.listOrders)
		v1.POST("/orders/subscribe", h.subscribeOrders)
		v1.POST("/orders/unsubscribe", h.unsubscribeOrders)
		v1.GET("/orders/statuses", h.listStatuses)
		v1.GET("/orders/:id/transitions", h.allowedTransitions)
		v1.PUT("/orders/:id/status", h.updateOrderStatus)
		v1.GET("/orders/:id/invoice", h.downloadInvoice)

		v1.GET("/stock", h.loadStock)
		v1.POST("/stock/edits", h.stageStockEdit)
		v1.DELETE("/stock/edits", h.discardStockEdits)
		v1.POST("/stock/save", h.saveStock)

		v1.GET("/coupons", h.listCoupons)
		v1.POST("/coupons", h.createCoupon)
		v1.POST("/coupons/:id/toggle", h.toggleCoupon)
		v1.POST("/coupons/:id", h.editCoupon)

		v1.GET("/wallet", h.walletOverview)
		v1.POST("/wallet/withdraw", h.requestWithdrawal)

		v1.GET("/products", h.listProducts)
		v1.PUT("/products/:id/status", h.toggleProductStatus)
		v1.GET("/categories", h.listCategories)
		v1.POST("/categories", h.addCategory)

		v1.GET("/dashboard", h.dashboardStats)
		v1.PUT("/dashboard/store-status", h.setStoreStatus)
	}
}

// authorized resolves the session header and stores the session context on
// the request.
func (h *Handler) authorized(c *gin.Context) {
	sess, err := h.sessions.Get(c.Request.Context(), c.GetHeader("X-Session-ID"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.Set("session", sess)
	c.Next()
}

func currentSession(c *gin.Context) *models.Session {
	return c.MustGet("session").(*models.Session)
}

// respondError maps service errors to HTTP responses: guard/validation
// rejections become 400s, upstream API errors pass their status through,
// and transport failures become 502s.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSameStatus),
		errors.Is(err, service.ErrTransitionNotAllowed),
		errors.Is(err, service.ErrInvoiceUnavailable),
		errors.Is(err, service.ErrBadWithdrawalAmount),
		errors.Is(err, service.ErrCouponMissingFields),
		errors.Is(err, service.ErrCouponBadOffer),
		errors.Is(err, service.ErrCouponBadLimit),
		errors.Is(err, service.ErrCouponExpiryPast),
		errors.Is(err, service.ErrCouponExpired),
		errors.Is(err, service.ErrCouponApproved),
		errors.Is(err, service.ErrImageDimensions):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSaveInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend unavailable", "details": err.Error()})
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	sess, err := h.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *Handler) sendOTP(c *gin.Context) {
	var req struct {
		Mobile string `json:"mobile" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := h.sessions.SendOTP(c.Request.Context(), req.Mobile); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent"})
}

func (h *Handler) verifyOTP(c *gin.Context) {
	var req struct {
		Mobile string `json:"mobile" binding:"required"`
		OTP    string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	sess, err := h.sessions.VerifyOTP(c.Request.Context(), req.Mobile, req.OTP)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *Handler) logout(c *gin.Context) {
	sess := currentSession(c)
	h.notifier.Leave(sess.StoreID)
	if err := h.sessions.Logout(c.Request.Context(), sess.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *Handler) registerDeviceToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	sess := currentSession(c)
	if err := h.sessions.RegisterDeviceToken(c.Request.Context(), sess.ID, req.Token); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "device token registered"})
}

func (h *Handler) listOrders(c *gin.Context) {
	sess := currentSession(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.orders.List(c.Request.Context(), sess.StoreID, service.ListQuery{
		Page:     page,
		PageSize: limit,
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) subscribeOrders(c *gin.Context) {
	h.notifier.Join(currentSession(c).StoreID)
	c.JSON(http.StatusOK, gin.H{"message": "subscribed"})
}

func (h *Handler) unsubscribeOrders(c *gin.Context) {
	h.notifier.Leave(currentSession(c).StoreID)
	c.JSON(http.StatusOK, gin.H{"message": "unsubscribed"})
}

func (h *Handler) listStatuses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"statuses": h.catalog.Actionable()})
}

func (h *Handler) allowedTransitions(c *gin.Context) {
	sess := currentSession(c)
	titles, err := h.orders.AllowedTransitions(sess.StoreID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transitions": titles})
}

func (h *Handler) updateOrderStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	sess := currentSession(c)
	updated, err := h.orders.SubmitTransition(c.Request.Context(), sess.StoreID, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"update": gin.H{"orderStatus": updated}})
}

func (h *Handler) downloadInvoice(c *gin.Context) {
	sess := currentSession(c)
	data, filename, err := h.orders.Invoice(c.Request.Context(), sess.StoreID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *Handler) loadStock(c *gin.Context) {
	sess := currentSession(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))

	result, err := h.stock.Load(c.Request.Context(), backend.ProductQuery{
		StoreID:  sess.StoreID,
		Page:     page,
		PageSize: limit,
		Search:   c.Query("search"),
		Category: c.Query("category"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) stageStockEdit(c *gin.Context) {
	var req struct {
		ProductID string   `json:"product_id" binding:"required"`
		VariantID string   `json:"variant_id" binding:"required"`
		Stock     *int     `json:"stock"`
		Price     *float64 `json:"price"`
		MRP       *float64 `json:"mrp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	sess := currentSession(c)
	h.stock.StageEdit(sess.StoreID, req.ProductID, req.VariantID, service.VariantEdit{
		Stock: req.Stock,
		Price: req.Price,
		MRP:   req.MRP,
	})
	c.JSON(http.StatusOK, gin.H{"message": "edit staged"})
}

func (h *Handler) discardStockEdits(c *gin.Context) {
	h.stock.DiscardEdits(currentSession(c).StoreID)
	c.JSON(http.StatusOK, gin.H{"message": "edits discarded"})
}

func (h *Handler) saveStock(c *gin.Context) {
	sess := currentSession(c)
	result, err := h.stock.Save(c.Request.Context(), sess.StoreID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) listCoupons(c *gin.Context) {
	coupons, err := h.coupons.List(c.Request.Context(), currentSession(c).StoreID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coupons": coupons})
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *Handler) createCoupon(c *gin.Context) {
	offer, _ := strconv.ParseFloat(c.PostForm("offer"), 64)
	limit, _ := strconv.Atoi(c.PostForm("limit"))
	validDays, _ := strconv.Atoi(c.PostForm("validDays"))
	fromDate, _ := time.Parse("2006-01-02", c.PostForm("fromTo"))

	input := service.CouponInput{
		Title:     c.PostForm("title"),
		Offer:     offer,
		Limit:     limit,
		FromDate:  fromDate,
		ValidDays: validDays,
	}

	var banner, slider []byte
	if fh, err := c.FormFile("image"); err == nil {
		data, err := readFormFile(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read banner image"})
			return
		}
		banner = data
	}
	if fh, err := c.FormFile("file"); err == nil {
		data, err := readFormFile(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read slider image"})
			return
		}
		slider = data
	}

	sess := currentSession(c)
	if err := h.coupons.Create(c.Request.Context(), sess.StoreID, input, banner, slider); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "coupon created"})
}

func (h *Handler) findCoupon(c *gin.Context) (models.Coupon, bool) {
	sess := currentSession(c)
	coupons, err := h.coupons.List(c.Request.Context(), sess.StoreID)
	if err != nil {
		respondError(c, err)
		return models.Coupon{}, false
	}
	id := c.Param("id")
	for _, coupon := range coupons {
		if coupon.ID == id {
			return coupon, true
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "coupon not found"})
	return models.Coupon{}, false
}

func (h *Handler) toggleCoupon(c *gin.Context) {
	var req struct {
		Status bool `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	coupon, ok := h.findCoupon(c)
	if !ok {
		return
	}
	if err := h.coupons.Toggle(c.Request.Context(), coupon, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "coupon updated"})
}

func (h *Handler) editCoupon(c *gin.Context) {
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	coupon, ok := h.findCoupon(c)
	if !ok {
		return
	}
	if err := h.coupons.Edit(c.Request.Context(), coupon, patch); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "coupon updated"})
}

func (h *Handler) walletOverview(c *gin.Context) {
	overview, err := h.wallet.Overview(c.Request.Context(), currentSession(c).StoreID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *Handler) requestWithdrawal(c *gin.Context) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	sess := currentSession(c)
	pending, message, err := h.wallet.RequestWithdrawal(c.Request.Context(), sess.StoreID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "pendingWithdrawal": pending})
}

func (h *Handler) listProducts(c *gin.Context) {
	sess := currentSession(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	products, total, err := h.seller.Products(c.Request.Context(), backend.ProductQuery{
		StoreID:  sess.StoreID,
		Page:     page,
		PageSize: limit,
		Search:   c.Query("search"),
		Category: c.Query("category"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "totalCount": total})
}

func (h *Handler) toggleProductStatus(c *gin.Context) {
	var req struct {
		Status bool `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	sess := currentSession(c)
	if err := h.seller.ToggleProductStatus(c.Request.Context(), sess.StoreID, c.Param("id"), req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product updated"})
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.seller.Categories(c.Request.Context(), currentSession(c).StoreID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) addCategory(c *gin.Context) {
	var req struct {
		CategoryID string `json:"category_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	sess := currentSession(c)
	if err := h.seller.AddCategory(c.Request.Context(), sess.StoreID, req.CategoryID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category added"})
}

func (h *Handler) dashboardStats(c *gin.Context) {
	stats, err := h.seller.DashboardStats(c.Request.Context(), currentSession(c).StoreID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) setStoreStatus(c *gin.Context) {
	var req struct {
		Open bool `json:"open"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	sess := currentSession(c)
	if err := h.seller.SetStoreOpen(c.Request.Context(), sess.StoreID, req.Open); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "store status updated"})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			statusCode,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			statusCode,
		).Inc()
	}
}
