package backend

import (
	"context"
	"fmt"
	"net/http"
)

// LoginResult is the backend's response to a successful login or OTP
// verification.
type LoginResult struct {
	StoreID  string `json:"storeId"`
	SellerID string `json:"sellerId"`
	Token    string `json:"token"`
	UserType string `json:"userType"`
}

// StoreLogin authenticates with email and password.
func (c *Client) StoreLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result LoginResult
	if err := c.doJSON(ctx, http.MethodPost, pathLogin, body, &result); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return &result, nil
}

// SendOTP requests a one-time code for the given mobile number.
func (c *Client) SendOTP(ctx context.Context, mobile string) error {
	body := map[string]string{"mobile": mobile}
	if err := c.doJSON(ctx, http.MethodPost, pathSendOTP, body, nil); err != nil {
		return fmt.Errorf("failed to send OTP: %w", err)
	}
	return nil
}

// VerifyOTP exchanges a one-time code for a login result.
func (c *Client) VerifyOTP(ctx context.Context, mobile, otp string) (*LoginResult, error) {
	body := map[string]string{"mobile": mobile, "otp": otp}
	var result LoginResult
	if err := c.doJSON(ctx, http.MethodPost, pathVerifyOTP, body, &result); err != nil {
		return nil, fmt.Errorf("OTP verification failed: %w", err)
	}
	return &result, nil
}

// RegisterDeviceToken stores a push-notification device token for the store.
func (c *Client) RegisterDeviceToken(ctx context.Context, storeID, token string) error {
	body := map[string]string{"storeId": storeID, "fcmToken": token}
	if err := c.doJSON(ctx, http.MethodPost, pathDeviceToken, body, nil); err != nil {
		return fmt.Errorf("failed to register device token: %w", err)
	}
	return nil
}
