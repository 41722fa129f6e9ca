// Package client talks to the studentz HTTP API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DefaultTimeout bounds every call that has no earlier context deadline.
const DefaultTimeout = 10 * time.Second

// Report mirrors the server's report document.
type Report struct {
	ID          string    `json:"_id,omitempty"`
	ReferenceID string    `json:"referenceId"`
	Name        string    `json:"name"`
	College     string    `json:"college"`
	Email       string    `json:"email,omitempty"`
	Category    string    `json:"category,omitempty"`
	Details     string    `json:"details"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

const (
	StatusActive      = "Active Member"
	StatusPendingSync = "Pending Sync"
)

// Member mirrors the server's member document. The same shape is kept in the
// local cache for offline registrations.
type Member struct {
	ID        string    `json:"_id,omitempty"`
	MemberID  string    `json:"memberId"`
	Name      string    `json:"name"`
	College   string    `json:"college"`
	Email     string    `json:"email"`
	WhatsApp  string    `json:"whatsapp"`
	Photo     string    `json:"photo,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

type NewReport struct {
	Name     string `json:"name"`
	College  string `json:"college"`
	Email    string `json:"email,omitempty"`
	Category string `json:"category,omitempty"`
	Details  string `json:"details"`
}

type NewMember struct {
	Name     string `json:"name"`
	College  string `json:"college"`
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`
	Photo    string `json:"photo,omitempty"`
}

// TransportError means the server could not be reached or did not answer in
// time. No response body is available.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a non-2xx answer from the server. Message is empty when the
// body carried no error text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error %d", e.Status)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Retryable reports whether the same request may succeed later.
func (e *APIError) Retryable() bool {
	return e.Status >= 500
}

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

type Client struct {
	BaseURL string
	Timeout time.Duration
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Timeout: DefaultTimeout,
	}
}

type Health struct {
	OK   bool   `json:"ok"`
	Time string `json:"time"`
}

func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.do(ctx, "health", fiber.MethodGet, "/api/health", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitReport(ctx context.Context, in NewReport) (*Report, error) {
	var out struct {
		Report Report `json:"report"`
	}
	if err := c.do(ctx, "submit report", fiber.MethodPost, "/api/reports", "", in, &out); err != nil {
		return nil, err
	}
	return &out.Report, nil
}

func (c *Client) SubmitMember(ctx context.Context, in NewMember) (*Member, error) {
	var out struct {
		Member Member `json:"member"`
	}
	if err := c.do(ctx, "submit member", fiber.MethodPost, "/api/members", "", in, &out); err != nil {
		return nil, err
	}
	return &out.Member, nil
}

// ListReports returns up to limit reports, newest first. A limit <= 0 leaves
// the server default in place.
func (c *Client) ListReports(ctx context.Context, limit int) ([]Report, error) {
	var out struct {
		Reports []Report `json:"reports"`
	}
	if err := c.do(ctx, "list reports", fiber.MethodGet, "/api/reports", limitQuery(limit), nil, &out); err != nil {
		return nil, err
	}
	return out.Reports, nil
}

func (c *Client) ListMembers(ctx context.Context, limit int) ([]Member, error) {
	var out struct {
		Members []Member `json:"members"`
	}
	if err := c.do(ctx, "list members", fiber.MethodGet, "/api/members", limitQuery(limit), nil, &out); err != nil {
		return nil, err
	}
	return out.Members, nil
}

func limitQuery(limit int) string {
	if limit <= 0 {
		return ""
	}
	return "limit=" + strconv.Itoa(limit)
}

func (c *Client) do(ctx context.Context, op, method, path, query string, body, out any) error {
	if err := ctx.Err(); err != nil {
		return &TransportError{Op: op, Err: err}
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return &TransportError{Op: op, Err: context.DeadlineExceeded}
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.BaseURL + path)
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return &TransportError{Op: op, Err: err}
	}
	a.Timeout(timeout)
	if query != "" {
		a.QueryString(query)
	}
	if body != nil {
		a.JSON(body)
	}

	// Bytes releases the agent.
	code, raw, errs := a.Bytes()
	if len(errs) > 0 {
		return &TransportError{Op: op, Err: errors.Join(errs...)}
	}

	if code < 200 || code >= 300 {
		return decodeAPIError(code, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func decodeAPIError(code int, raw []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(raw, &payload)
	return &APIError{Status: code, Message: payload.Error}
}
