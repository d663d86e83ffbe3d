// Package client is a typed consumer of the Sledge Mentorship API. It is
// used by the adminctl tool and validates response shapes strictly so a
// drifting server surfaces as an error instead of a half-filled struct.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/semzi/sledge/pkg/paginate"
)

// ErrBadReceiptShape is returned when the receipt response does not match
// the documented shape. No partial record is returned alongside it.
var ErrBadReceiptShape = errors.New("receipt response was not in the expected format")

// APIError is a non-2xx response with the server's message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// ValidationError carries the per-field labels from a rejected submission.
type ValidationError struct {
	Missing []string
	Invalid []string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d missing, %d invalid", len(e.Missing), len(e.Invalid))
}

// Client calls the API over HTTP. Token is set by Login and sent as a
// Bearer credential on admin endpoints.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// New creates a client for the given API base URL.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// RegistrationForm is the application payload as the register endpoint
// expects it. The two confirmations are "yes"/"no".
type RegistrationForm struct {
	FullName                  string `json:"full_name"`
	Email                     string `json:"email"`
	Phone                     string `json:"phone"`
	Country                   string `json:"country"`
	LinkedInURL               string `json:"linkedin_url"`
	CurrentStatus             string `json:"current_status"`
	InstitutionOrOrganization string `json:"institution_or_organization"`
	FieldOrRole               string `json:"field_or_role"`
	HighestEducation          string `json:"highest_education"`
	Motivation                string `json:"motivation"`
	EnergyInterest            string `json:"energy_interest"`
	PreviousExperience        string `json:"previous_experience"`
	ClarityToolsExpectation   string `json:"clarity_tools_expectation"`
	ConfirmCommitment         string `json:"confirm_commitment"`
	AgreePayment              string `json:"agree_payment"`
}

// CheckoutHandoff is the successful registration result.
type CheckoutHandoff struct {
	CheckoutURL       string `json:"checkout_url"`
	RegistrationID    int64  `json:"registration_id"`
	CheckoutSessionID string `json:"checkout_session_id"`
}

// VerifyResult is the payment verification outcome.
type VerifyResult struct {
	Success            bool   `json:"success"`
	RegistrationStatus string `json:"registration_status"`
}

// Receipt is a validated payment receipt. Optional fields are nil when
// the server omitted them.
type Receipt struct {
	Name               *string
	Email              *string
	DateTime           string
	Cohort             *string
	Subtotal           string
	Total              string
	Currency           string
	RegistrationStatus *string
}

// ScheduleItem mirrors one week of the curriculum.
type ScheduleItem struct {
	ID               int64  `json:"id"`
	Week             int    `json:"week"`
	Theme            string `json:"theme"`
	KeyLearningFocus string `json:"key_learning_focus"`
	Facilitator      string `json:"facilitator"`
	TentativeDate    string `json:"tentative_date"`
}

// AdminAccount identifies the logged-in admin.
type AdminAccount struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// RegistrationRow is one listed registration.
type RegistrationRow struct {
	ID                 int64  `json:"id"`
	FullName           string `json:"full_name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Country            string `json:"country"`
	RegistrationStatus string `json:"registration_status"`
	CreatedAt          string `json:"created_at"`
}

// RegistrationPage is one page of the admin registration listing.
type RegistrationPage struct {
	Items []RegistrationRow `json:"items"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Total int               `json:"total"`
}

// DashboardSummary is the admin dashboard aggregate payload.
type DashboardSummary struct {
	TotalRegistrations int    `json:"total_registrations"`
	Verified           int    `json:"verified"`
	Pending            int    `json:"pending"`
	Revenue            string `json:"revenue"`
	Currency           string `json:"currency"`
	DailySignups       []struct {
		Date  string `json:"date"`
		Count int    `json:"count"`
	} `json:"daily_signups"`
}

// Login authenticates an admin and stores the session token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*AdminAccount, error) {
	body := map[string]string{"email": email, "password": password}
	var out struct {
		Success bool         `json:"success"`
		Token   string       `json:"token"`
		Admin   AdminAccount `json:"admin"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	c.Token = out.Token
	return &out.Admin, nil
}

// Logout ends the admin session and clears the stored token.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		return err
	}
	c.Token = ""
	return nil
}

// Register submits an application. Exactly one request is made per call;
// a rejected form comes back as a *ValidationError with the field labels.
func (c *Client) Register(ctx context.Context, form RegistrationForm) (*CheckoutHandoff, error) {
	var out CheckoutHandoff
	if err := c.do(ctx, http.MethodPost, "/api/register", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyPayment confirms a checkout session. Both ids are required; with
// either missing the call fails locally and no request is sent.
func (c *Client) VerifyPayment(ctx context.Context, rid, sessionID string) (*VerifyResult, error) {
	if rid == "" || sessionID == "" {
		return nil, errors.New("rid and session_id are required")
	}
	q := url.Values{"rid": {rid}, "session_id": {sessionID}}
	var out VerifyResult
	if err := c.do(ctx, http.MethodGet, "/api/verify-payment?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchReceipt loads the receipt for a registration and checks the
// response shape strictly: money and date values must be JSON strings and
// the optional fields must be strings or null. Anything else returns
// ErrBadReceiptShape with no partial record.
func (c *Client) FetchReceipt(ctx context.Context, rid string) (*Receipt, error) {
	if rid == "" {
		return nil, errors.New("rid is required")
	}
	var raw struct {
		Name               json.RawMessage `json:"name"`
		Email              json.RawMessage `json:"email"`
		DateTime           json.RawMessage `json:"date_time"`
		Cohort             json.RawMessage `json:"cohort"`
		Subtotal           json.RawMessage `json:"subtotal"`
		Total              json.RawMessage `json:"total"`
		Currency           json.RawMessage `json:"currency"`
		RegistrationStatus json.RawMessage `json:"registration_status"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/receipt", map[string]string{"rid": rid}, &raw); err != nil {
		return nil, err
	}

	var rec Receipt
	var err error
	if rec.DateTime, err = requireString(raw.DateTime); err != nil {
		return nil, ErrBadReceiptShape
	}
	if rec.Subtotal, err = requireString(raw.Subtotal); err != nil {
		return nil, ErrBadReceiptShape
	}
	if rec.Total, err = requireString(raw.Total); err != nil {
		return nil, ErrBadReceiptShape
	}
	if rec.Currency, err = requireString(raw.Currency); err != nil {
		return nil, ErrBadReceiptShape
	}
	if rec.Name, err = optionalString(raw.Name); err != nil {
		return nil, ErrBadReceiptShape
	}
	if rec.Email, err = optionalString(raw.Email); err != nil {
		return nil, ErrBadReceiptShape
	}
	if rec.Cohort, err = optionalString(raw.Cohort); err != nil {
		return nil, ErrBadReceiptShape
	}
	if rec.RegistrationStatus, err = optionalString(raw.RegistrationStatus); err != nil {
		return nil, ErrBadReceiptShape
	}
	return &rec, nil
}

// FetchVerifiedReceipt runs the receipt-page flow: when a session id is
// present the payment is verified first, and a failed verification
// short-circuits without fetching the receipt.
func (c *Client) FetchVerifiedReceipt(ctx context.Context, rid, sessionID string) (*Receipt, error) {
	if sessionID != "" {
		if _, err := c.VerifyPayment(ctx, rid, sessionID); err != nil {
			return nil, err
		}
	}
	return c.FetchReceipt(ctx, rid)
}

// DownloadReceiptPDF fetches the receipt PDF bytes for a registration.
func (c *Client) DownloadReceiptPDF(ctx context.Context, rid string) ([]byte, error) {
	if rid == "" {
		return nil, errors.New("rid is required")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.BaseURL+"/api/receipt/pdf?rid="+url.QueryEscape(rid), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	return io.ReadAll(resp.Body)
}

// ListSchedule fetches the public curriculum.
func (c *Client) ListSchedule(ctx context.Context) ([]ScheduleItem, error) {
	var out struct {
		Items []ScheduleItem `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/schedule", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// CreateSchedule adds a curriculum week (admin) and returns its id.
func (c *Client) CreateSchedule(ctx context.Context, item ScheduleItem) (int64, error) {
	var out struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/schedule", item, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// UpdateSchedule replaces a curriculum week (admin).
func (c *Client) UpdateSchedule(ctx context.Context, id int64, item ScheduleItem) error {
	path := "/api/schedule/" + strconv.FormatInt(id, 10)
	return c.do(ctx, http.MethodPut, path, item, nil)
}

// DeleteSchedule removes a curriculum week (admin). The id is validated
// locally: a non-numeric or non-positive id fails without a request.
func (c *Client) DeleteSchedule(ctx context.Context, id string) error {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return errors.New("invalid schedule id")
	}
	return c.do(ctx, http.MethodDelete, "/api/schedule/"+id, nil, nil)
}

// ListRegistrations fetches one page of the admin registration listing.
func (c *Client) ListRegistrations(ctx context.Context, p paginate.Params) (*RegistrationPage, error) {
	q := url.Values{
		"page":  {strconv.Itoa(p.Page)},
		"limit": {strconv.Itoa(p.Limit)},
	}
	if p.Query != "" {
		q.Set("q", p.Query)
	}
	var out RegistrationPage
	if err := c.do(ctx, http.MethodGet, "/api/admin/registrations?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Dashboard fetches the admin dashboard aggregates.
func (c *Client) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	var out DashboardSummary
	if err := c.do(ctx, http.MethodGet, "/api/admin/dashboard", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LookupReceipt finds the newest verified registration id for an email (admin).
func (c *Client) LookupReceipt(ctx context.Context, email string) (int64, error) {
	var out struct {
		Success        bool  `json:"success"`
		RegistrationID int64 `json:"registration_id"`
	}
	body := map[string]string{"email": email}
	if err := c.do(ctx, http.MethodPost, "/api/admin/receipts/lookup", body, &out); err != nil {
		return 0, err
	}
	return out.RegistrationID, nil
}

// Contact sends a contact form message.
func (c *Client) Contact(ctx context.Context, fullName, email, message string) error {
	body := map[string]string{"full_name": fullName, "email": email, "message": message}
	return c.do(ctx, http.MethodPost, "/api/contact", body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError turns a non-2xx response into a typed error. A 400 body
// carrying missing/invalid field labels becomes a *ValidationError.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusBadRequest {
		var fields struct {
			Missing []string `json:"missing"`
			Invalid []string `json:"invalid"`
			Message string   `json:"message"`
		}
		if err := json.Unmarshal(raw, &fields); err == nil &&
			(len(fields.Missing) > 0 || len(fields.Invalid) > 0) {
			return &ValidationError{Missing: fields.Missing, Invalid: fields.Invalid, Message: fields.Message}
		}
	}

	var msg struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &msg)
	if msg.Message == "" {
		msg.Message = resp.Status
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg.Message}
}

func requireString(raw json.RawMessage) (string, error) {
	var s string
	if raw == nil {
		return "", errors.New("missing")
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	return s, nil
}

func optionalString(raw json.RawMessage) (*string, error) {
	if raw == nil || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
