package gateway

//go:generate go run go.uber.org/mock/mockgen -source=./gateway.go -destination=./mocks/gateway_mock.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"voyage/config"
	"voyage/infras/otel"
	"voyage/shared/constant"
)

type Status string

const (
	StatusAuthorized Status = "authorized"
	StatusCancelled  Status = "cancelled"
	StatusFailed     Status = "failed"
	StatusPending    Status = "requires_authorization"
)

const (
	intentsPath = "/v1/payment_intents"

	headerClientSecret = "X-Client-Secret"

	otelAttrIntentID = "payment.intent_id"

	defaultHTTPTimeout   = 30 * time.Second
	defaultPollInterval  = time.Second
	defaultAuthorization = 5 * time.Minute
	cancelAttempts       = 3
	createAttempts       = 3
)

var ErrUnexpectedStatus = errors.New("unexpected payment gateway response")

// ResponseError is a non-2xx answer from the gateway.
type ResponseError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: %s %s returned %d: %s", ErrUnexpectedStatus, e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *ResponseError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

// isRetryable is true for transport errors, throttling and 5xx answers.
// Other 4xx answers are final.
func isRetryable(err error) bool {
	var resErr *ResponseError
	if !errors.As(err, &resErr) {
		return true
	}

	return resErr.StatusCode == http.StatusTooManyRequests || resErr.StatusCode >= http.StatusInternalServerError
}

type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// Authorization is the resolved outcome of an intent. Reference is set only
// when Status is StatusAuthorized.
type Authorization struct {
	Status    Status
	Reference string
	Reason    string
}

type Gateway interface {
	// CreateIntent is idempotent per (orderReference, attemptID): transient
	// failures are retried with the same Idempotency-Key, so the gateway
	// returns the intent it already created instead of a second one.
	CreateIntent(ctx context.Context, amount int64, currency, orderReference, attemptID string) (Intent, error)
	// PresentAuthorization blocks until the customer authorizes, aborts or is
	// declined. An intent left pending past the authorization window is
	// cancelled at the gateway and reported as cancelled.
	PresentAuthorization(ctx context.Context, intent Intent) (Authorization, error)
}

type createIntentRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	OrderReference string `json:"order_reference"`
}

type intentResponse struct {
	ID            string `json:"id"`
	ClientSecret  string `json:"client_secret"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Status        Status `json:"status"`
	Reference     string `json:"payment_reference"`
	FailureReason string `json:"failure_reason"`
}

func (r intentResponse) authorization() (Authorization, bool) {
	switch r.Status {
	case StatusAuthorized:
		return Authorization{Status: StatusAuthorized, Reference: r.Reference}, true
	case StatusCancelled:
		return Authorization{Status: StatusCancelled}, true
	case StatusFailed:
		return Authorization{Status: StatusFailed, Reason: r.FailureReason}, true
	default:
		return Authorization{}, false
	}
}

type gatewayImpl struct {
	client        *http.Client
	baseURL       string
	secretKey     string
	pollInterval  time.Duration
	authorization time.Duration
	otel          otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) Gateway {
	timeout := time.Duration(cfg.Payment.Gateway.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	pollInterval := time.Duration(cfg.Payment.PollIntervalMillis) * time.Millisecond
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	authorization := time.Duration(cfg.Payment.AuthorizationTimeoutSeconds) * time.Second
	if authorization <= 0 {
		authorization = defaultAuthorization
	}

	return &gatewayImpl{
		client:        &http.Client{Timeout: timeout},
		baseURL:       strings.TrimRight(cfg.Payment.Gateway.BaseURL, "/"),
		secretKey:     cfg.Payment.Gateway.SecretKey,
		pollInterval:  pollInterval,
		authorization: authorization,
		otel:          otel,
	}
}

// IdempotencyKey identifies one payment attempt for one booking.
func IdempotencyKey(orderReference, attemptID string) string {
	return orderReference + ":" + attemptID
}

func (g *gatewayImpl) CreateIntent(ctx context.Context, amount int64, currency, orderReference, attemptID string) (intent Intent, err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".CreateIntent")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelBookingIDAttributeKey, orderReference)

	body, err := json.Marshal(createIntentRequest{
		Amount:         amount,
		Currency:       currency,
		OrderReference: orderReference,
	})
	if err != nil {
		return intent, fmt.Errorf("failed to encode intent request: %w", err)
	}

	key := IdempotencyKey(orderReference, attemptID)

	var res intentResponse

	for attempt := 1; attempt <= createAttempts; attempt++ {
		var req *http.Request

		req, err = g.newRequest(ctx, http.MethodPost, intentsPath, body)
		if err != nil {
			return intent, err
		}

		req.Header.Set(constant.RequestHeaderIdempotencyKey, key)

		res, err = g.do(req)
		if err == nil || !isRetryable(err) || attempt == createAttempts {
			break
		}

		log.Warn().Err(err).Str("booking_id", orderReference).Int("attempt", attempt).Msg("retrying payment intent creation")

		select {
		case <-ctx.Done():
			return intent, fmt.Errorf("payment intent creation interrupted: %w", ctx.Err())
		case <-time.After(g.pollInterval * time.Duration(attempt)):
		}
	}

	if err != nil {
		log.Error().Err(err).Str("booking_id", orderReference).Msg("failed to create payment intent")

		return intent, err
	}

	return Intent{
		ID:           res.ID,
		ClientSecret: res.ClientSecret,
		Amount:       res.Amount,
		Currency:     res.Currency,
	}, nil
}

func (g *gatewayImpl) PresentAuthorization(ctx context.Context, intent Intent) (auth Authorization, err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".PresentAuthorization")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelAttrIntentID, intent.ID)

	deadline := time.NewTimer(g.authorization)
	defer deadline.Stop()

	ticker := time.NewTicker(g.pollInterval)
	defer ticker.Stop()

	failedPolls := 0

	for {
		res, pollErr := g.fetch(ctx, intent)
		if pollErr == nil {
			if auth, done := res.authorization(); done {
				return auth, nil
			}
		} else if ctx.Err() == nil {
			// the intent stays live at the gateway, so a failed poll is not an outcome
			failedPolls++
			log.Warn().Err(pollErr).Str("intent_id", intent.ID).Int("failed_polls", failedPolls).Msg("failed to poll payment intent, will retry")
		}

		select {
		case <-ctx.Done():
			return auth, fmt.Errorf("authorization of intent %s interrupted: %w", intent.ID, ctx.Err())
		case <-deadline.C:
			log.Warn().Str("intent_id", intent.ID).Msg("authorization window elapsed, cancelling intent")

			return g.cancel(ctx, intent)
		case <-ticker.C:
		}
	}
}

func (g *gatewayImpl) fetch(ctx context.Context, intent Intent) (intentResponse, error) {
	req, err := g.newRequest(ctx, http.MethodGet, intentsPath+"/"+intent.ID, nil)
	if err != nil {
		return intentResponse{}, err
	}

	req.Header.Set(headerClientSecret, intent.ClientSecret)

	return g.do(req)
}

// cancel aborts a pending intent. The gateway answers with the intent's final
// state, which may already be authorized if the customer finished in time.
func (g *gatewayImpl) cancel(ctx context.Context, intent Intent) (Authorization, error) {
	var (
		res intentResponse
		err error
	)

	for attempt := 1; attempt <= cancelAttempts; attempt++ {
		var req *http.Request

		req, err = g.newRequest(ctx, http.MethodPost, intentsPath+"/"+intent.ID+"/cancel", nil)
		if err != nil {
			return Authorization{}, err
		}

		res, err = g.do(req)
		if err == nil {
			break
		}

		log.Warn().Err(err).Str("intent_id", intent.ID).Int("attempt", attempt).Msg("failed to cancel payment intent")

		select {
		case <-ctx.Done():
			return Authorization{}, fmt.Errorf("cancel of intent %s interrupted: %w", intent.ID, ctx.Err())
		case <-time.After(g.pollInterval * time.Duration(attempt)):
		}
	}

	if err != nil {
		return Authorization{}, fmt.Errorf("failed to cancel intent %s: %w", intent.ID, err)
	}

	if auth, done := res.authorization(); done {
		return auth, nil
	}

	return Authorization{}, fmt.Errorf("%w: intent %s still %s after cancel", ErrUnexpectedStatus, intent.ID, res.Status)
}

func (g *gatewayImpl) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}

	req.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+g.secretKey)
	req.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)

	return req, nil
}

func (g *gatewayImpl) do(req *http.Request) (res intentResponse, err error) {
	resp, err := g.client.Do(req)
	if err != nil {
		return res, fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

		return res, &ResponseError{
			Method:     req.Method,
			Path:       req.URL.Path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if err = json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return res, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	return res, nil
}
