package controller_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	httpAPI "github.com/nutrikeep/product-db/internal/http"
	"github.com/nutrikeep/product-db/internal/http/controller"
	"github.com/nutrikeep/product-db/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(backend *fakeBackend) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return httpAPI.InitRouter(gin.New(), httpAPI.Controllers{
		Base:            controller.New(nil, backend),
		MissingProducts: controller.NewMissingProductController(backend),
		ProductRequests: controller.NewProductRequestController(backend),
		Products:        controller.NewProductController(backend),
	})
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func testDescriptionPayload(id, name string) controller.ProductDescriptionPayload {
	protein := 12.5
	return controller.ProductDescriptionPayload{
		ID:           id,
		Name:         name,
		QuantityType: string(model.QuantityWeight),
		Portion:      100.0,
		Nutrients: controller.NutrientsPayload{
			KCal:    250.0,
			Protein: &protein,
		},
	}
}

func TestPing(t *testing.T) {
	router := newTestRouter(newFakeBackend())

	w := doJSON(t, router, http.MethodGet, "/ping", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}

func TestReportMissingProduct(t *testing.T) {
	t.Run("successful report returns id and date", func(t *testing.T) {
		backend := newFakeBackend()
		router := newTestRouter(backend)

		w := doJSON(t, router, http.MethodPost, "/user/missing_products",
			controller.ReportMissingProductRequest{ProductID: "ean-123"})

		require.Equal(t, http.StatusCreated, w.Code)
		resp := decodeBody[controller.ReportResponse](t, w)
		require.NotNil(t, resp.ID)
		require.NotNil(t, resp.Date)
		assert.Equal(t, "ean-123", backend.reports[*resp.ID].ProductID)
	})

	t.Run("missing product id is rejected", func(t *testing.T) {
		router := newTestRouter(newFakeBackend())

		w := doJSON(t, router, http.MethodPost, "/user/missing_products", map[string]string{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("backend failure yields 500 without internals", func(t *testing.T) {
		backend := newFakeBackend()
		backend.err = assert.AnError
		router := newTestRouter(backend)

		w := doJSON(t, router, http.MethodPost, "/user/missing_products",
			controller.ReportMissingProductRequest{ProductID: "ean-123"})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	})
}

func TestGetMissingProduct(t *testing.T) {
	backend := newFakeBackend()
	router := newTestRouter(backend)

	w := doJSON(t, router, http.MethodPost, "/user/missing_products",
		controller.ReportMissingProductRequest{ProductID: "ean-123"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody[controller.ReportResponse](t, w)

	t.Run("found", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/admin/missing_products/1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody[controller.GetMissingProductResponse](t, w)
		require.NotNil(t, resp.MissingProduct)
		assert.Equal(t, "ean-123", resp.MissingProduct.ProductID)
		assert.Equal(t, *created.Date, resp.MissingProduct.Date)
	})

	t.Run("unknown id yields 404", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/admin/missing_products/999", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id yields 400", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/admin/missing_products/abc", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestQueryAndDeleteMissingProducts(t *testing.T) {
	backend := newFakeBackend()
	router := newTestRouter(backend)

	for _, id := range []string{"ean-1", "ean-1", "ean-2"} {
		w := doJSON(t, router, http.MethodPost, "/user/missing_products",
			controller.ReportMissingProductRequest{ProductID: id})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	t.Run("query filtered by product id", func(t *testing.T) {
		productID := "ean-1"
		w := doJSON(t, router, http.MethodPost, "/admin/missing_products/query",
			controller.MissingProductQueryPayload{ProductID: &productID})

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody[controller.MissingProductsQueryResponse](t, w)
		assert.Len(t, resp.MissingProducts, 2)
	})

	t.Run("unknown order is rejected", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/admin/missing_products/query",
			controller.MissingProductQueryPayload{Order: "sideways"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		first := doJSON(t, router, http.MethodDelete, "/admin/missing_products/1", nil)
		assert.Equal(t, http.StatusOK, first.Code)

		second := doJSON(t, router, http.MethodDelete, "/admin/missing_products/1", nil)
		assert.Equal(t, http.StatusOK, second.Code)

		assert.NotContains(t, backend.reports, model.DBId(1))
	})
}

func TestProductRequestLifecycle(t *testing.T) {
	backend := newFakeBackend()
	router := newTestRouter(backend)

	payload := testDescriptionPayload("ean-9", "Rye Bread")
	payload.Preview = &controller.ProductImagePayload{ContentType: "image/png", Data: []byte{1, 2}}
	payload.FullImage = &controller.ProductImagePayload{ContentType: "image/jpeg", Data: []byte{0xff, 0xd8}}

	w := doJSON(t, router, http.MethodPost, "/user/product_request", payload)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody[controller.ReportResponse](t, w)
	require.NotNil(t, created.ID)

	t.Run("get without preview omits the image", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/admin/product_request/1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody[controller.GetProductRequestResponse](t, w)
		require.NotNil(t, resp.ProductRequest)
		assert.Equal(t, "Rye Bread", resp.ProductRequest.Description.Name)
		assert.Nil(t, resp.ProductRequest.Description.Preview)
	})

	t.Run("get with preview attaches the image", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/admin/product_request/1?with_preview=true", nil)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody[controller.GetProductRequestResponse](t, w)
		require.NotNil(t, resp.ProductRequest)
		require.NotNil(t, resp.ProductRequest.Description.Preview)
		assert.Equal(t, "image/png", resp.ProductRequest.Description.Preview.ContentType)
	})

	t.Run("full image is served raw", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/admin/product_request/1/image", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
		assert.Equal(t, []byte{0xff, 0xd8}, w.Body.Bytes())
	})

	t.Run("query by search term", func(t *testing.T) {
		search := "rye"
		w := doJSON(t, router, http.MethodPost, "/admin/product_request/query",
			controller.ProductQueryPayload{Search: &search})

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody[controller.ProductRequestQueryResponse](t, w)
		assert.Len(t, resp.ProductRequests, 1)
	})

	t.Run("delete then 404 on get", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/admin/product_request/1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, http.MethodGet, "/admin/product_request/1", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestProductRequestValidation(t *testing.T) {
	router := newTestRouter(newFakeBackend())

	t.Run("volume product without ratio is rejected", func(t *testing.T) {
		payload := testDescriptionPayload("ean-9", "Oat Milk")
		payload.QuantityType = string(model.QuantityVolume)

		w := doJSON(t, router, http.MethodPost, "/user/product_request", payload)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing name is rejected by binding", func(t *testing.T) {
		payload := testDescriptionPayload("ean-9", "")

		w := doJSON(t, router, http.MethodPost, "/user/product_request", payload)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProductLifecycle(t *testing.T) {
	backend := newFakeBackend()
	router := newTestRouter(backend)

	payload := testDescriptionPayload("ean-1", "Oat Crunch")

	t.Run("create", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/admin/product", payload)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("duplicate create yields 409", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/admin/product", payload)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "already exists")
	})

	t.Run("get round-trips the description", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/product/ean-1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody[controller.GetProductResponse](t, w)
		require.NotNil(t, resp.Product)
		assert.Equal(t, "Oat Crunch", resp.Product.Name)
		require.NotNil(t, resp.Product.Nutrients.Protein)
		assert.InDelta(t, 12.5, *resp.Product.Nutrients.Protein, 1e-9)
	})

	t.Run("unknown product yields 404", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/product/unknown", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("product without full image yields 404 on image route", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/product/ean-1/image", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("query by search", func(t *testing.T) {
		search := "crunch"
		w := doJSON(t, router, http.MethodPost, "/product/query",
			controller.ProductQueryPayload{Search: &search})

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody[controller.ProductQueryResponse](t, w)
		assert.Len(t, resp.Products, 1)
	})

	t.Run("similarity sort without search yields 400", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/product/query",
			controller.ProductQueryPayload{
				Sorting: &controller.SortingPayload{Field: "similarity"},
			})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown sorting field yields 400", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/product/query",
			controller.ProductQueryPayload{
				Sorting: &controller.SortingPayload{Field: "price"},
			})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		first := doJSON(t, router, http.MethodDelete, "/admin/product/ean-1", nil)
		assert.Equal(t, http.StatusOK, first.Code)

		second := doJSON(t, router, http.MethodDelete, "/admin/product/ean-1", nil)
		assert.Equal(t, http.StatusOK, second.Code)
	})
}

func TestMutuallyExclusiveFilters(t *testing.T) {
	router := newTestRouter(newFakeBackend())

	productID := "ean-1"
	search := "oat"
	w := doJSON(t, router, http.MethodPost, "/product/query",
		controller.ProductQueryPayload{ProductID: &productID, Search: &search})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
