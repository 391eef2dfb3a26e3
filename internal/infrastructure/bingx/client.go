package bingx

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"signal-gateway/internal/domain"
)

const (
	prodBaseURL = "https://open-api.bingx.com"
	demoBaseURL = "https://open-api-vst.bingx.com" // virtual funds (VST) host

	orderPath     = "/openApi/swap/v2/trade/order"
	orderTestPath = "/openApi/swap/v2/trade/order/test"
	positionsPath = "/openApi/swap/v2/user/positions"
)

// apiCodeNoPosition is BingX's "No position to close". Closing a position the
// exchange doesn't have is a soft no-op, not a hard failure.
const apiCodeNoPosition = 101205

// Client handles authenticated BingX perpetual swap API requests for one
// account. The account mode picks the host: test and live talk to production
// (test only hits the validation endpoint), demo talks to the VST host.
type Client struct {
	accountID  string
	mode       domain.Mode
	apiKey     string
	secretKey  string
	sourceKey  string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for an account, resolving credentials from the
// env vars the account config references. Dry accounts never get a client.
func NewClient(account domain.AccountConfig) (*Client, error) {
	if account.Mode == domain.ModeDry {
		return nil, fmt.Errorf("account %s is in dry mode and has no exchange client", account.AccountID)
	}

	apiKey := os.Getenv(account.APIKeyEnv)
	secretKey := os.Getenv(account.SecretKeyEnv)
	if apiKey == "" || secretKey == "" {
		return nil, fmt.Errorf("missing API credentials for account %s", account.AccountID)
	}
	sourceKey := ""
	if account.SourceKeyEnv != "" {
		sourceKey = os.Getenv(account.SourceKeyEnv)
	}

	baseURL := prodBaseURL
	if account.Mode == domain.ModeDemo {
		baseURL = demoBaseURL
	}

	return newClient(account.AccountID, account.Mode, apiKey, secretKey, sourceKey, baseURL), nil
}

// newClient wires an explicit base URL, which tests point at a local server
func newClient(accountID string, mode domain.Mode, apiKey, secretKey, sourceKey, baseURL string) *Client {
	return &Client{
		accountID:  accountID,
		mode:       mode,
		apiKey:     apiKey,
		secretKey:  secretKey,
		sourceKey:  sourceKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ValidateOrder sends the action to the order-validation endpoint. No order
// is placed on the exchange side.
func (c *Client) ValidateOrder(ctx context.Context, action domain.OrderAction) (string, error) {
	return c.placeOrder(ctx, orderTestPath, action)
}

// SubmitOrder places the order and returns the exchange-assigned order id
func (c *Client) SubmitOrder(ctx context.Context, action domain.OrderAction) (string, error) {
	return c.placeOrder(ctx, orderPath, action)
}

func (c *Client) placeOrder(ctx context.Context, path string, action domain.OrderAction) (string, error) {
	symbol := ToExchangeSymbol(action.Symbol)
	isExit := action.Kind == domain.ActionReduce || action.Kind == domain.ActionClose

	// Entry: long -> BUY, short -> SELL. Exit flips: closing a long sells,
	// closing a short buys. positionSide stays with the logical side (hedge
	// mode).
	side := "BUY"
	if (action.Side == domain.SideShort) != isExit {
		side = "SELL"
	}
	positionSide := "LONG"
	if action.Side == domain.SideShort {
		positionSide = "SHORT"
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("side", side)
	params.Set("positionSide", positionSide)
	params.Set("type", string(action.EntryType))
	params.Set("quantity", strconv.FormatFloat(action.Quantity, 'f', -1, 64))
	if action.ClientOrderID != "" {
		params.Set("clientOrderID", action.ClientOrderID)
	}
	if action.EntryType == domain.EntryLimit && action.EntryPrice != nil {
		params.Set("price", strconv.FormatFloat(*action.EntryPrice, 'f', -1, 64))
	}
	if action.Leverage != nil {
		params.Set("leverage", strconv.Itoa(int(*action.Leverage)))
	}

	log.Printf("BingX order request: account=%s mode=%s kind=%s symbol=%s side=%s positionSide=%s quantity=%s endpoint=%s",
		c.accountID, c.mode, action.Kind, symbol, side, positionSide, params.Get("quantity"), path)

	body, err := c.signedRequest(ctx, http.MethodPost, path, params)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
		Data struct {
			OrderID int64 `json:"orderId"`
			Order   struct {
				OrderID int64 `json:"orderId"`
			} `json:"order"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &domain.ExchangeError{Err: fmt.Errorf("decode order response: %w", err)}
	}

	// BingX returns 200 OK even for API errors; the code field decides.
	if parsed.Code != 0 {
		exErr := &domain.ExchangeError{
			Code:       parsed.Code,
			Message:    parsed.Msg,
			NoPosition: parsed.Code == apiCodeNoPosition,
		}
		if exErr.NoPosition {
			log.Printf("BingX soft error (no position): account=%s symbol=%s code=%d msg=%s",
				c.accountID, symbol, parsed.Code, parsed.Msg)
		} else {
			log.Printf("BingX API error: account=%s symbol=%s code=%d msg=%s",
				c.accountID, symbol, parsed.Code, parsed.Msg)
		}
		return "", exErr
	}

	orderID := parsed.Data.Order.OrderID
	if orderID == 0 {
		orderID = parsed.Data.OrderID
	}
	if orderID == 0 {
		// The validation endpoint doesn't assign an id.
		return "", nil
	}
	return strconv.FormatInt(orderID, 10), nil
}

// OpenPositions reports all open positions for the account
func (c *Client) OpenPositions(ctx context.Context) ([]domain.ExchangePosition, error) {
	body, err := c.signedRequest(ctx, http.MethodGet, positionsPath, url.Values{})
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
		Data []struct {
			Symbol       string `json:"symbol"`
			PositionSide string `json:"positionSide"`
			PositionAmt  string `json:"positionAmt"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &domain.ExchangeError{Err: fmt.Errorf("decode positions response: %w", err)}
	}
	if parsed.Code != 0 {
		return nil, &domain.ExchangeError{Code: parsed.Code, Message: parsed.Msg}
	}

	positions := make([]domain.ExchangePosition, 0, len(parsed.Data))
	for _, p := range parsed.Data {
		amt, _ := strconv.ParseFloat(p.PositionAmt, 64)
		if amt == 0 {
			continue
		}
		side := domain.PositionLong
		if strings.EqualFold(p.PositionSide, "SHORT") {
			side = domain.PositionShort
		}
		positions = append(positions, domain.ExchangePosition{
			Symbol:   FromExchangeSymbol(p.Symbol),
			Side:     side,
			Quantity: math.Abs(amt),
		})
	}
	return positions, nil
}

// signedRequest signs the query with HMAC-SHA256 over the sorted parameters
// and performs the request. The body is returned for any 2xx status;
// everything else becomes an ExchangeError.
func (c *Client) signedRequest(ctx context.Context, method, endpoint string, params url.Values) ([]byte, error) {
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))

	// url.Values.Encode sorts keys lexicographically, which is what the
	// signature scheme requires.
	queryString := params.Encode()
	signature := c.sign(queryString)
	fullURL := c.baseURL + endpoint + "?" + queryString + "&signature=" + signature

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, &domain.ExchangeError{Err: err}
	}
	req.Header.Set("X-BX-APIKEY", c.apiKey)
	if c.sourceKey != "" {
		req.Header.Set("X-SOURCE-KEY", c.sourceKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.ExchangeError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.ExchangeError{Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, parseAPIError(resp.StatusCode, body)
	}
	return body, nil
}

func parseAPIError(statusCode int, body []byte) error {
	var parsed struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && (parsed.Code != 0 || parsed.Msg != "") {
		return &domain.ExchangeError{
			HTTPStatus: statusCode,
			Code:       parsed.Code,
			Message:    parsed.Msg,
			NoPosition: parsed.Code == apiCodeNoPosition,
		}
	}
	return &domain.ExchangeError{HTTPStatus: statusCode, Message: string(body)}
}

// sign creates HMAC SHA256 signature
func (c *Client) sign(message string) string {
	mac := hmac.New(sha256.New, []byte(c.secretKey))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}
