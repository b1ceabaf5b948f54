package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bz888/loanchat/internal/domain"
	"github.com/bz888/loanchat/internal/logger"
	"github.com/bz888/loanchat/internal/session"
	"github.com/google/uuid"
)

const (
	chatPath          = "/chat"
	uploadSalaryPath  = "/upload-salary-slip"
	uploadPanPath     = "/upload-pan"
	uploadAadhaarPath = "/upload-aadhaar"
	signupPath        = "/crm/signup"
	loginPath         = "/crm/login"
	profilePath       = "/profile/"
	loansPath         = "/offer-mart/user/%d/loans"
	downloadPath      = "/download-sanction/"
)

// ClientConfig holds the configuration for the client
type ClientConfig struct {
	BaseURL string
	// Timeout bounds each request; zero means no timeout.
	Timeout time.Duration
}

// Client talks to the loan backend. It reads the session id and cached
// customer from the store and writes back what the backend hands out.
type Client struct {
	base        *url.URL
	http        *http.Client
	store       session.Store
	localLogger *logger.Logger
}

type chatRequest struct {
	Message   string          `json:"message"`
	Customer  json.RawMessage `json:"customer,omitempty"`
	SessionID string          `json:"session_id,omitempty"`
}

// SignupRequest is the CRM signup payload.
type SignupRequest struct {
	Name          string  `json:"name"`
	Age           int     `json:"age"`
	City          string  `json:"city"`
	Phone         string  `json:"phone"`
	Salary        float64 `json:"salary"`
	Email         string  `json:"email"`
	Password      string  `json:"password"`
	PANNumber     string  `json:"pan_number"`
	AadhaarNumber string  `json:"aadhaar_number"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type customerResponse struct {
	Success  bool            `json:"success"`
	Customer json.RawMessage `json:"customer"`
}

type loansResponse struct {
	Loans []domain.Loan `json:"loans"`
}

// NewClient creates a backend client rooted at config.BaseURL.
func NewClient(config ClientConfig, store session.Store) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(config.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	return &Client{
		base:        base,
		http:        &http.Client{Timeout: config.Timeout},
		store:       store,
		localLogger: logger.NewLogger("api client"),
	}, nil
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// SendMessage posts text to /chat along with the cached customer, forwarded
// exactly as stored, and the session id.
func (c *Client) SendMessage(ctx context.Context, text string) (*domain.ChatReply, error) {
	sess, err := c.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	body, err := json.Marshal(chatRequest{Message: text, Customer: sess.CustomerJSON, SessionID: sess.SessionID})
	if err != nil {
		return nil, err
	}

	var reply domain.ChatReply
	if err := c.do(ctx, http.MethodPost, c.resolve(chatPath, nil), "application/json", bytes.NewReader(body), "Failed to send message", &reply); err != nil {
		return nil, err
	}
	if err := c.rememberSession(ctx, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (c *Client) UploadSalarySlip(ctx context.Context, doc domain.Document) (*domain.ChatReply, error) {
	return c.upload(ctx, uploadSalaryPath, doc)
}

func (c *Client) UploadPan(ctx context.Context, doc domain.Document) (*domain.ChatReply, error) {
	return c.upload(ctx, uploadPanPath, doc)
}

func (c *Client) UploadAadhaar(ctx context.Context, doc domain.Document) (*domain.ChatReply, error) {
	return c.upload(ctx, uploadAadhaarPath, doc)
}

func (c *Client) upload(ctx context.Context, path string, doc domain.Document) (*domain.ChatReply, error) {
	sessionID, err := c.store.SessionID(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", doc.Name)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, doc.Body); err != nil {
		return nil, fmt.Errorf("read %s: %w", doc.Name, err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	query := url.Values{}
	if sessionID != "" {
		query.Set("session_id", sessionID)
	}

	var reply domain.ChatReply
	if err := c.do(ctx, http.MethodPost, c.resolve(path, query), mw.FormDataContentType(), &buf, "Upload failed", &reply); err != nil {
		return nil, err
	}
	if err := c.rememberSession(ctx, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (c *Client) rememberSession(ctx context.Context, reply *domain.ChatReply) error {
	if reply.SessionID == "" {
		return nil
	}
	if err := c.store.SetSessionID(ctx, reply.SessionID); err != nil {
		return fmt.Errorf("store session id: %w", err)
	}
	return nil
}

// Signup creates the CRM account and caches the returned customer.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*domain.Customer, error) {
	return c.postCustomer(ctx, signupPath, req)
}

// Login authenticates and caches the returned customer.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*domain.Customer, error) {
	return c.postCustomer(ctx, loginPath, req)
}

// postCustomer keeps the customer object of the reply verbatim in the store.
func (c *Client) postCustomer(ctx context.Context, path string, payload interface{}) (*domain.Customer, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var resp customerResponse
	// no fallback: the raw body is shown, as the web client did
	if err := c.do(ctx, http.MethodPost, c.resolve(path, nil), "application/json", bytes.NewReader(body), "", &resp); err != nil {
		return nil, err
	}
	if len(resp.Customer) == 0 || string(resp.Customer) == "null" {
		return nil, &Error{StatusCode: http.StatusOK, Message: "response carried no customer"}
	}
	customer, err := c.store.SetCustomerJSON(ctx, resp.Customer)
	if err != nil {
		return nil, fmt.Errorf("store customer: %w", err)
	}
	return customer, nil
}

func (c *Client) GetProfile(ctx context.Context, id int) (*domain.Customer, error) {
	raw, err := c.GetProfileJSON(ctx, id)
	if err != nil {
		return nil, err
	}
	var customer domain.Customer
	if err := json.Unmarshal(raw, &customer); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &customer, nil
}

// GetProfileJSON returns the customer record exactly as the backend sent it.
func (c *Client) GetProfileJSON(ctx context.Context, id int) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, c.resolve(profilePath+strconv.Itoa(id), nil), "", nil, "Failed to fetch profile", &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) GetUserLoans(ctx context.Context, id int) ([]domain.Loan, error) {
	var resp loansResponse
	if err := c.do(ctx, http.MethodGet, c.resolve(fmt.Sprintf(loansPath, id), nil), "", nil, "Failed to fetch loans", &resp); err != nil {
		return nil, err
	}
	if resp.Loans == nil {
		return []domain.Loan{}, nil
	}
	return resp.Loans, nil
}

// SanctionURL is where the backend serves a generated sanction letter.
func (c *Client) SanctionURL(filename string) string {
	u := *c.base
	u.Path = c.base.Path + downloadPath + filename
	u.RawPath = c.base.EscapedPath() + downloadPath + url.PathEscape(filename)
	return u.String()
}

// DownloadSanction streams the sanction letter into w.
func (c *Client) DownloadSanction(ctx context.Context, filename string, w io.Writer) error {
	resp, requestID, err := c.send(ctx, http.MethodGet, c.SanctionURL(filename), "", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return newError(resp.StatusCode, body, "Failed to download sanction letter", requestID)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("save sanction letter: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, target, contentType string, body io.Reader) (*http.Response, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		c.localLogger.Error("Failed to create request:", err)
		return nil, "", err
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.localLogger.Errorw("request failed", "method", method, "url", target, "request_id", requestID, "error", err)
		return nil, requestID, err
	}
	c.localLogger.Infow("request", "method", method, "url", target, "status", resp.StatusCode,
		"request_id", requestID, "duration_ms", time.Since(start).Milliseconds())
	return resp, requestID, nil
}

// do performs the request and decodes a 2xx JSON body into out.
func (c *Client) do(ctx context.Context, method, target, contentType string, body io.Reader, fallback string, out interface{}) error {
	resp, requestID, err := c.send(ctx, method, target, contentType, body)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.localLogger.Error("Failed to close response body:", err)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newError(resp.StatusCode, data, fallback, requestID)
		c.localLogger.Warnw("backend reported failure", "status", resp.StatusCode, "message", apiErr.Message, "request_id", requestID)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.localLogger.Error("Failed to decode response:", err)
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
