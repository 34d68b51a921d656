// Package api は物件REST APIのHTTPクライアントを提供する（ブラウザ側の呼び出し元）。
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"PropertyMap-App/internal/domain/model"
	"PropertyMap-App/internal/domain/repository"
)

// APIError 2xx 以外のレスポンス
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("APIエラー (%d): %s: %s", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("APIエラー (%d): %s", e.StatusCode, e.Message)
}

// Is 404 は repository.ErrPropertyNotFound として扱う
func (e *APIError) Is(target error) bool {
	return e.StatusCode == http.StatusNotFound && target == repository.ErrPropertyNotFound
}

// PropertyAPIClient 物件REST APIのクライアント
type PropertyAPIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewPropertyAPIClient は新しいクライアントを生成する。httpClient が nil の場合は10秒タイムアウトのクライアントを使う
func NewPropertyAPIClient(baseURL string, httpClient *http.Client) *PropertyAPIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &PropertyAPIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Query GET /api/properties でフィルタに一致する物件を取得する
func (c *PropertyAPIClient) Query(ctx context.Context, filter *model.PropertyFilter) ([]model.Property, error) {
	reqURL := c.baseURL + "/api/properties"
	if params := EncodeFilter(filter); len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	properties := []model.Property{}
	if err := c.do(ctx, http.MethodGet, reqURL, nil, &properties); err != nil {
		return nil, fmt.Errorf("物件一覧の取得に失敗: %w", err)
	}
	return properties, nil
}

// Get GET /api/properties/:id で物件を取得する
func (c *PropertyAPIClient) Get(ctx context.Context, id int64) (*model.Property, error) {
	reqURL := fmt.Sprintf("%s/api/properties/%d", c.baseURL, id)

	var property model.Property
	if err := c.do(ctx, http.MethodGet, reqURL, nil, &property); err != nil {
		return nil, fmt.Errorf("物件の取得に失敗: %w", err)
	}
	return &property, nil
}

// Create POST /api/properties で物件を作成し、採番済みのレコードを返す
func (c *PropertyAPIClient) Create(ctx context.Context, req *model.CreatePropertyRequest) (*model.Property, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("リクエストのエンコードに失敗: %w", err)
	}

	var property model.Property
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/api/properties", body, &property); err != nil {
		return nil, fmt.Errorf("物件の作成に失敗: %w", err)
	}
	return &property, nil
}

func (c *PropertyAPIClient) do(ctx context.Context, method, reqURL string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("JSONのパースに失敗: %w", err)
	}
	return nil
}

// decodeError サーバーの {"message", "error"} 形式を APIError に変換する
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Message != "" {
			apiErr.Message = payload.Message
		}
		apiErr.Detail = payload.Error
	}
	return apiErr
}

// EncodeFilter 検索条件をクエリパラメータに変換する。未設定の条件は含めない
func EncodeFilter(filter *model.PropertyFilter) url.Values {
	params := url.Values{}
	if filter == nil {
		return params
	}
	if filter.Search != "" {
		params.Set("search", filter.Search)
	}
	if filter.HasTypeFilter() {
		params.Set("propertyType", filter.PropertyType)
	}
	setFloat(params, "minPrice", filter.MinPrice)
	setFloat(params, "maxPrice", filter.MaxPrice)
	setFloat(params, "minLandSize", filter.MinLandSize)
	setFloat(params, "maxLandSize", filter.MaxLandSize)
	return params
}

func setFloat(params url.Values, key string, v *float64) {
	if v != nil {
		params.Set(key, strconv.FormatFloat(*v, 'f', -1, 64))
	}
}
