package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/posqa/posuite/internal/config"
	"github.com/posqa/posuite/internal/models"
)

// Verb names of the backend API
const (
	RequestVerifyUser            = "verifyUser"
	RequestGetCustomers          = "getCustomers"
	RequestCalculateShoppingCart = "calculateShoppingCart"
	RequestGetSalesDocuments     = "getSalesDocuments"

	productPath = "/v1/matrix/product"
)

// SessionSource provides the current session key of a client
type SessionSource interface {
	LoadSession(clientCode string) (string, error)
}

// Client is the test oracle's access to the POS backend
type Client interface {
	VerifyUser(ctx context.Context, username, password string) (string, error)
	GetProducts(ctx context.Context, productIDs []int) ([]json.RawMessage, error)
	GetCustomers(ctx context.Context, customerID int) ([]json.RawMessage, error)
	CalculateShoppingCart(ctx context.Context, cart models.CartSpec) (*models.CartResult, error)
	GetSalesDocuments(ctx context.Context, number string, docType models.DocumentType) ([]models.SalesDocument, error)
	GetSalesDocument(ctx context.Context, number string, docType models.DocumentType) (*models.SalesDocument, error)
}

// HTTPClient implements Client over the verb and catalog endpoints
type HTTPClient struct {
	config     *config.BackendConfig
	sessions   SessionSource
	httpClient *http.Client
}

// NewClient creates a backend API client
func NewClient(cfg *config.BackendConfig, sessions SessionSource) Client {
	return NewClientWithHTTPClient(cfg, sessions, &http.Client{Timeout: 60 * time.Second})
}

// NewClientWithHTTPClient creates a backend API client with a specific HTTP client
func NewClientWithHTTPClient(cfg *config.BackendConfig, sessions SessionSource, httpClient *http.Client) *HTTPClient {
	return &HTTPClient{
		config:     cfg,
		sessions:   sessions,
		httpClient: httpClient,
	}
}

// status is the envelope header of every verb API response
type status struct {
	Request        string `json:"request"`
	ResponseStatus string `json:"responseStatus"`
	ErrorCode      int    `json:"errorCode"`
	ErrorField     string `json:"errorField"`
}

type envelope struct {
	Status  *status           `json:"status"`
	Records []json.RawMessage `json:"records"`
}

// error codes the verb API uses for credential and session problems
var authErrorCodes = map[int]bool{
	1050: true, // username or password missing
	1051: true, // login failed
	1052: true, // user temporarily blocked
	1054: true, // session expired
	1055: true, // session key invalid
	1056: true, // session key expired
}

// VerifyUser exchanges credentials for a session key
func (c *HTTPClient) VerifyUser(ctx context.Context, username, password string) (string, error) {
	params := map[string]string{
		"request":         RequestVerifyUser,
		"clientCode":      c.config.ClientCode,
		"username":        username,
		"password":        password,
		"sessionLength":   strconv.Itoa(c.config.SessionLength),
		"sendContentType": "1",
	}

	body, err := c.send(ctx, http.MethodPost, c.config.APIURL, RequestVerifyUser, params, nil)
	if err != nil {
		return "", asAuthError(err)
	}

	records, err := decodeEnvelope(RequestVerifyUser, body)
	if err != nil {
		return "", asAuthError(err)
	}
	if len(records) == 0 {
		return "", &Error{Kind: KindMalformedResponse, Request: RequestVerifyUser, Body: excerpt(body), Err: errors.New("no records")}
	}

	var record struct {
		SessionKey string `json:"sessionKey"`
	}
	if err := json.Unmarshal(records[0], &record); err != nil || record.SessionKey == "" {
		return "", &Error{Kind: KindMalformedResponse, Request: RequestVerifyUser, Body: excerpt(records[0]), Err: errors.New("record has no sessionKey")}
	}

	slog.Debug("verified user", "clientCode", c.config.ClientCode, "username", username)
	return record.SessionKey, nil
}

// asAuthError reclassifies a rejected login as an authentication failure.
// Transport errors and undecodable bodies keep their kind.
func asAuthError(err error) error {
	var apiErr *Error
	if errors.As(err, &apiErr) && (apiErr.StatusCode != 0 || apiErr.ErrorCode != 0) {
		apiErr.Kind = KindAuthentication
	}
	return err
}

// GetProducts fetches catalog records. Records are returned undecoded so the
// caller can keep every field and skip individual malformed entries.
func (c *HTTPClient) GetProducts(ctx context.Context, productIDs []int) ([]json.RawMessage, error) {
	headers, err := c.authHeaders()
	if err != nil {
		return nil, err
	}
	// the catalog endpoint spells the header in lower case
	headers["clientcode"] = c.config.ClientCode

	ids := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		ids = append(ids, strconv.Itoa(id))
	}
	params := map[string]string{"productIDs": strings.Join(ids, ",")}

	body, err := c.send(ctx, http.MethodGet, c.config.PIMURL+productPath, productPath, params, headers)
	if err != nil {
		return nil, err
	}

	var products []json.RawMessage
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, &Error{Kind: KindMalformedResponse, Request: productPath, Body: excerpt(body), Err: errors.New("response is not an array")}
	}
	return products, nil
}

// GetCustomers fetches the records of one customer including balance information
func (c *HTTPClient) GetCustomers(ctx context.Context, customerID int) ([]json.RawMessage, error) {
	params := map[string]string{
		"request":                      RequestGetCustomers,
		"customerID":                   strconv.Itoa(customerID),
		"getBalanceWithoutPrepayments": "1",
		"getBalanceInfo":               "1",
	}
	return c.verb(ctx, http.MethodGet, RequestGetCustomers, params, false)
}

// CalculateShoppingCart asks the backend to price a cart. The backend answers
// either with an envelope or with a bare array; the first row of either is returned.
func (c *HTTPClient) CalculateShoppingCart(ctx context.Context, cart models.CartSpec) (*models.CartResult, error) {
	if cart.ClientCode == "" {
		cart.ClientCode = c.config.ClientCode
	}
	if cart.WarehouseID == "" {
		cart.WarehouseID = c.config.WarehouseID
	}
	if err := cart.Validate(); err != nil {
		return nil, &Error{Kind: KindValidation, Request: RequestCalculateShoppingCart, Err: err}
	}

	params := cart.Params()
	params["request"] = RequestCalculateShoppingCart

	headers, err := c.authHeaders()
	if err != nil {
		return nil, err
	}
	headers["clientcode"] = c.config.ClientCode

	body, err := c.send(ctx, http.MethodGet, c.config.APIURL, RequestCalculateShoppingCart, params, headers)
	if err != nil {
		return nil, err
	}

	row, err := firstCartRecord(body)
	if err != nil {
		return nil, err
	}

	var result models.CartResult
	if err := json.Unmarshal(row, &result); err != nil {
		return nil, &Error{Kind: KindMalformedResponse, Request: RequestCalculateShoppingCart, Body: excerpt(row), Err: err}
	}
	return &result, nil
}

// firstCartRecord normalizes {records:[row,...]} and [row,...] to row
func firstCartRecord(body []byte) (json.RawMessage, error) {
	malformed := func(reason string) error {
		return &Error{Kind: KindMalformedResponse, Request: RequestCalculateShoppingCart, Body: excerpt(body), Err: errors.New(reason)}
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, malformed("empty response")
	}

	switch trimmed[0] {
	case '[':
		var rows []json.RawMessage
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, malformed("invalid array")
		}
		if len(rows) == 0 {
			return nil, malformed("no rows")
		}
		return rows[0], nil
	case '{':
		records, err := decodeEnvelope(RequestCalculateShoppingCart, trimmed)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, malformed("no records")
		}
		return records[0], nil
	default:
		return nil, malformed("unexpected response shape")
	}
}

// GetSalesDocuments looks up sales documents by number and type
func (c *HTTPClient) GetSalesDocuments(ctx context.Context, number string, docType models.DocumentType) ([]models.SalesDocument, error) {
	params := map[string]string{
		"request": RequestGetSalesDocuments,
		"number":  number,
		"type":    string(docType),
	}
	records, err := c.verb(ctx, http.MethodPost, RequestGetSalesDocuments, params, true)
	if err != nil {
		return nil, err
	}

	docs := make([]models.SalesDocument, 0, len(records))
	for _, record := range records {
		var doc models.SalesDocument
		if err := json.Unmarshal(record, &doc); err != nil {
			return nil, &Error{Kind: KindMalformedResponse, Request: RequestGetSalesDocuments, Body: excerpt(record), Err: err}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// GetSalesDocument returns the first document matching number and type
func (c *HTTPClient) GetSalesDocument(ctx context.Context, number string, docType models.DocumentType) (*models.SalesDocument, error) {
	docs, err := c.GetSalesDocuments(ctx, number, docType)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, &Error{Kind: KindNotFound, Request: RequestGetSalesDocuments, Err: fmt.Errorf("%s %s", docType, number)}
	}
	return &docs[0], nil
}

// verb issues an authenticated verb API call and returns its records
func (c *HTTPClient) verb(ctx context.Context, method, request string, params map[string]string, keyInParams bool) ([]json.RawMessage, error) {
	headers, err := c.authHeaders()
	if err != nil {
		return nil, err
	}
	params["clientCode"] = c.config.ClientCode
	if keyInParams {
		params["sessionKey"] = headers["sessionKey"]
	}

	body, err := c.send(ctx, method, c.config.APIURL, request, params, headers)
	if err != nil {
		return nil, err
	}
	return decodeEnvelope(request, body)
}

// authHeaders reads the session key fresh from the session source
func (c *HTTPClient) authHeaders() (map[string]string, error) {
	key, err := c.sessions.LoadSession(c.config.ClientCode)
	if err != nil {
		return nil, &Error{Kind: KindAuthentication, Request: "session", Err: err}
	}
	return map[string]string{"sessionKey": key}, nil
}

// send performs the request and returns the body of a successful response
func (c *HTTPClient) send(ctx context.Context, method, endpoint, request string, params, headers map[string]string) ([]byte, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	query := u.Query()
	for k, v := range params {
		query.Set(k, v)
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		// the backend expects the header names exactly as written
		req.Header[k] = []string{v}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Request: request, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Request: request, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("backend API error", "request", request, "status", resp.StatusCode, "body", excerpt(body))
		return nil, &Error{Kind: kindForStatus(resp.StatusCode), Request: request, StatusCode: resp.StatusCode, Body: excerpt(body)}
	}

	slog.Debug("backend API call", "request", request, "status", resp.StatusCode, "bytes", len(body))
	return body, nil
}

func kindForStatus(code int) Kind {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return KindAuthentication
	case code >= 500:
		return KindNetwork
	default:
		return KindValidation
	}
}

// decodeEnvelope checks the status header of a verb response and returns its records
func decodeEnvelope(request string, body []byte) ([]json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &Error{Kind: KindMalformedResponse, Request: request, Body: excerpt(body), Err: err}
	}

	if env.Status != nil && env.Status.ResponseStatus == "error" {
		kind := KindValidation
		if authErrorCodes[env.Status.ErrorCode] {
			kind = KindAuthentication
		}
		return nil, &Error{Kind: kind, Request: request, ErrorCode: env.Status.ErrorCode, Body: excerpt(body)}
	}

	if env.Records == nil {
		return nil, &Error{Kind: KindMalformedResponse, Request: request, Body: excerpt(body), Err: errors.New("missing records")}
	}
	return env.Records, nil
}
