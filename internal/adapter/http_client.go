package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/medescala/shiftsync/models"
)

type HTTPClientConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type httpServerAdapter struct {
	client *resty.Client

	mu     sync.RWMutex
	token  string
	userID string
}

// NewHTTPServerAdapter builds the REST adapter for the MedEscala API.
func NewHTTPServerAdapter(cfg HTTPClientConfig) ServerAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	h := &httpServerAdapter{client: cli}
	if cfg.Token != "" {
		h.SetToken(cfg.Token)
	}
	return h
}

func (h *httpServerAdapter) SetToken(token string) {
	token = strings.TrimSpace(token)

	// Subject extraction is best-effort: signature verification is the
	// server's job, the client only needs the user id for logging.
	var userID string
	if token != "" {
		if sub, err := parseSubjectFromJWT(token); err == nil {
			userID = sub
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = token
	h.userID = userID
}

func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpServerAdapter) UserID() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.userID
}

func (h *httpServerAdapter) ListShifts(ctx context.Context, f models.ShiftFilters) ([]models.Shift, error) {
	resp, err := h.authedRequest(ctx).
		SetQueryParams(filterParams(f)).
		Get("/api/shifts")
	if err != nil {
		return nil, fmt.Errorf("list shifts request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var shifts []models.Shift
	if err = json.Unmarshal(resp.Body(), &shifts); err != nil {
		return nil, fmt.Errorf("decode shifts response: %w", err)
	}
	return shifts, nil
}

func (h *httpServerAdapter) ListPayments(ctx context.Context, f models.ShiftFilters) ([]models.Payment, error) {
	resp, err := h.authedRequest(ctx).
		SetQueryParams(filterParams(f)).
		Get("/api/payments")
	if err != nil {
		return nil, fmt.Errorf("list payments request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var payments []models.Payment
	if err = json.Unmarshal(resp.Body(), &payments); err != nil {
		return nil, fmt.Errorf("decode payments response: %w", err)
	}
	return payments, nil
}

func (h *httpServerAdapter) CreatePayment(ctx context.Context, p models.Payment) (models.Payment, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(p).
		Post("/api/payments")
	if err != nil {
		return models.Payment{}, fmt.Errorf("create payment request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Payment{}, err
	}

	var created models.Payment
	if err = json.Unmarshal(resp.Body(), &created); err != nil {
		return models.Payment{}, fmt.Errorf("decode create payment response: %w", err)
	}
	return created, nil
}

func (h *httpServerAdapter) DeletePayment(ctx context.Context, paymentID string) error {
	if paymentID == "" {
		return errors.New("delete payment: empty payment id")
	}

	resp, err := h.authedRequest(ctx).Delete("/api/payments/" + paymentID)
	if err != nil {
		return fmt.Errorf("delete payment request: %w", err)
	}
	return mapHTTPError(resp)
}

func (h *httpServerAdapter) ListLocations(ctx context.Context) ([]models.Location, error) {
	resp, err := h.authedRequest(ctx).Get("/api/locations")
	if err != nil {
		return nil, fmt.Errorf("list locations request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var locations []models.Location
	if err = json.Unmarshal(resp.Body(), &locations); err != nil {
		return nil, fmt.Errorf("decode locations response: %w", err)
	}
	return locations, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// filterParams renders the filter state as query parameters, omitting the
// canonical absent value (empty string) for each dimension.
func filterParams(f models.ShiftFilters) map[string]string {
	params := make(map[string]string, 4)
	if f.Month != "" {
		params["month"] = f.Month
	}
	if f.LocationID != "" {
		params["locationId"] = f.LocationID
	}
	if f.ContractorID != "" {
		params["contractorId"] = f.ContractorID
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		params["search"] = s
	}
	return params
}

func parseSubjectFromJWT(tokenString string) (string, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	return claims.GetSubject()
}
