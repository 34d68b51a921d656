package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PropertyMap-App/internal/domain/model"
	"PropertyMap-App/internal/domain/repository"
)

func floatPtr(v float64) *float64 { return &v }

func TestEncodeFilter(t *testing.T) {
	t.Run("設定済みの条件のみ含める", func(t *testing.T) {
		params := EncodeFilter(&model.PropertyFilter{
			Search:      "farm",
			MinPrice:    floatPtr(1000),
			MaxLandSize: floatPtr(2500.5),
		})
		assert.Equal(t, "farm", params.Get("search"))
		assert.Equal(t, "1000", params.Get("minPrice"))
		assert.Equal(t, "2500.5", params.Get("maxLandSize"))
		assert.False(t, params.Has("maxPrice"))
		assert.False(t, params.Has("propertyType"))
	})

	t.Run("All は送らない", func(t *testing.T) {
		params := EncodeFilter(&model.PropertyFilter{PropertyType: model.PropertyTypeAll})
		assert.Empty(t, params)
	})

	t.Run("nil は空", func(t *testing.T) {
		assert.Empty(t, EncodeFilter(nil))
	})
}

func TestPropertyAPIClient(t *testing.T) {
	ctx := context.Background()

	t.Run("Query はクエリを付けて一覧を取得", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/properties", r.URL.Path)
			assert.Equal(t, "Land", r.URL.Query().Get("propertyType"))
			_ = json.NewEncoder(w).Encode([]model.Property{{ID: 7, Title: "Lot"}})
		}))
		defer srv.Close()

		client := NewPropertyAPIClient(srv.URL+"/", srv.Client())
		props, err := client.Query(ctx, &model.PropertyFilter{PropertyType: "Land"})
		require.NoError(t, err)
		require.Len(t, props, 1)
		assert.Equal(t, int64(7), props[0].ID)
	})

	t.Run("Create はJSONを送信して作成結果を返す", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req model.CreatePropertyRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "Lot", req.Title)

			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(model.Property{ID: 12, Title: req.Title})
		}))
		defer srv.Close()

		client := NewPropertyAPIClient(srv.URL, nil)
		created, err := client.Create(ctx, &model.CreatePropertyRequest{
			Title:        "Lot",
			PropertyType: "Land",
			Price:        floatPtr(10),
			Location:     &model.LatLng{Lat: 32, Lng: 20},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(12), created.ID)
	})

	t.Run("エラーレスポンスはメッセージを保持", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"Missing required fields"}`))
		}))
		defer srv.Close()

		client := NewPropertyAPIClient(srv.URL, nil)
		_, err := client.Create(ctx, &model.CreatePropertyRequest{})
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Equal(t, "Missing required fields", apiErr.Message)
	})

	t.Run("404 は ErrPropertyNotFound", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/properties/5", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Property not found"}`))
		}))
		defer srv.Close()

		client := NewPropertyAPIClient(srv.URL, nil)
		_, err := client.Get(ctx, 5)
		assert.ErrorIs(t, err, repository.ErrPropertyNotFound)
	})

	t.Run("JSON以外のエラー本文", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		}))
		defer srv.Close()

		client := NewPropertyAPIClient(srv.URL, nil)
		_, err := client.Query(ctx, nil)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		assert.Equal(t, "502 Bad Gateway", apiErr.Message)
	})
}
