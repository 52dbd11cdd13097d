package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"BidVault/internal/models"
)

type RazorpayService struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	AccountNo string // RazorpayX source account for payouts
}

// Razorpay API response structures
type OrderResponse struct {
	ID         string `json:"id"`
	Entity     string `json:"entity"`
	Amount     int    `json:"amount"` // Amount in paise (₹1 = 100 paise)
	AmountPaid int    `json:"amount_paid"`
	AmountDue  int    `json:"amount_due"`
	Currency   string `json:"currency"`
	Receipt    string `json:"receipt"`
	Status     string `json:"status"` // created, attempted, paid
	CreatedAt  int64  `json:"created_at"`
}

type PaymentResponse struct {
	ID          string `json:"id"`
	Entity      string `json:"entity"`
	Amount      int    `json:"amount"`
	Currency    string `json:"currency"`
	Status      string `json:"status"` // created, authorized, captured, refunded, failed
	OrderID     string `json:"order_id"`
	Method      string `json:"method"`
	Email       string `json:"email"`
	Contact     string `json:"contact"`
	ErrorCode   string `json:"error_code,omitempty"`
	ErrorReason string `json:"error_reason,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

type PayoutResponse struct {
	ID            string `json:"id"`
	Entity        string `json:"entity"`
	Amount        int    `json:"amount"`
	Currency      string `json:"currency"`
	Status        string `json:"status"` // queued, pending, processing, processed, reversed, failed
	Mode          string `json:"mode"`
	Purpose       string `json:"purpose"`
	ReferenceID   string `json:"reference_id"`
	UTR           string `json:"utr,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
	CreatedAt     int64  `json:"created_at"`
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// NewRazorpayService creates a new Razorpay service instance
func NewRazorpayService() *RazorpayService {
	return &RazorpayService{
		KeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		KeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		BaseURL:   "https://api.razorpay.com/v1",
		AccountNo: os.Getenv("RAZORPAY_ACCOUNT_NUMBER"),
	}
}

// makeRequest makes HTTP request to the Razorpay API
func (rs *RazorpayService) makeRequest(method, endpoint string, payload interface{}) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, rs.BaseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth(rs.KeyID, rs.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	return client.Do(req)
}

func decodeOrError(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Description != "" {
			return fmt.Errorf("razorpay error: %s", apiErr.Error.Description)
		}
		return fmt.Errorf("razorpay error: HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// CreateOrder creates a payment order for bonus-pool funding
func (rs *RazorpayService) CreateOrder(amount float64, receipt string, notes map[string]string) (*OrderResponse, error) {
	// Convert amount to paise
	amountInPaise := int(amount * 100)

	payload := map[string]interface{}{
		"amount":   amountInPaise,
		"currency": "INR",
		"receipt":  receipt,
		"notes":    notes,
	}

	resp, err := rs.makeRequest("POST", "/orders", payload)
	if err != nil {
		return nil, err
	}

	var result OrderResponse
	if err := decodeOrError(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FetchPayment retrieves a payment so captures can be verified server-side
func (rs *RazorpayService) FetchPayment(paymentID string) (*PaymentResponse, error) {
	resp, err := rs.makeRequest("GET", "/payments/"+paymentID, nil)
	if err != nil {
		return nil, err
	}

	var result PaymentResponse
	if err := decodeOrError(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreatePayout initiates a bank transfer to a contributor's account
func (rs *RazorpayService) CreatePayout(account models.BankAccount, amount float64, reference, narration string) (*PayoutResponse, error) {
	// Convert amount to paise
	amountInPaise := int(amount * 100)

	payload := map[string]interface{}{
		"account_number":       rs.AccountNo,
		"amount":               amountInPaise,
		"currency":             "INR",
		"mode":                 "IMPS",
		"purpose":              "payout",
		"reference_id":         reference,
		"narration":            narration,
		"queue_if_low_balance": true,
		"fund_account": map[string]interface{}{
			"account_type": "bank_account",
			"bank_account": map[string]string{
				"name":           account.AccountName,
				"ifsc":           account.IFSCCode,
				"account_number": account.AccountNumber,
			},
		},
	}

	resp, err := rs.makeRequest("POST", "/payouts", payload)
	if err != nil {
		return nil, err
	}

	var result PayoutResponse
	if err := decodeOrError(resp, &result); err != nil {
		return nil, err
	}

	if result.Status == "failed" || result.Status == "reversed" {
		return nil, fmt.Errorf("razorpay payout %s: %s", result.Status, result.FailureReason)
	}
	return &result, nil
}

// FetchPayout retrieves a payout for reconciliation
func (rs *RazorpayService) FetchPayout(payoutID string) (*PayoutResponse, error) {
	resp, err := rs.makeRequest("GET", "/payouts/"+payoutID, nil)
	if err != nil {
		return nil, err
	}

	var result PayoutResponse
	if err := decodeOrError(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
