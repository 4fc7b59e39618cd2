package products

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mytheresa/catalog-web/app/session"
	"github.com/mytheresa/catalog-web/app/web"
	"github.com/mytheresa/catalog-web/app/web/webtest"
	"github.com/mytheresa/catalog-web/models"
)

// --- Mock Repo ---

// MockCatalog serves both provider interfaces from in-memory slices.
type MockCatalog struct {
	Categories []models.Category
	Products   []models.Product
	Err        error
	CreateErr  error
	ListErr    error

	createCalls int
}

func (m *MockCatalog) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Products, nil
}

func (m *MockCatalog) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, p := range m.Products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, models.ErrProductNotFound
}

func (m *MockCatalog) GetByCategory(ctx context.Context, categoryID uint) ([]models.Product, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var products []models.Product
	for _, p := range m.Products {
		if p.CategoryID == categoryID {
			products = append(products, p)
		}
	}
	return products, nil
}

func (m *MockCatalog) CreateInCategory(ctx context.Context, categoryID uint, product *models.Product) error {
	m.createCalls++
	if m.CreateErr != nil {
		return m.CreateErr
	}
	for _, p := range m.Products {
		if p.CategoryID == categoryID && p.Name == product.Name {
			return models.ErrDuplicateProduct
		}
	}
	product.ID = uint(len(m.Products) + 1)
	product.CategoryID = categoryID
	m.Products = append(m.Products, *product)
	return nil
}

func (m *MockCatalog) countIn(categoryID uint) int {
	n := 0
	for _, p := range m.Products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n
}

// mockCategories adapts MockCatalog to CategoryProvider.
type mockCategories struct{ *MockCatalog }

func (m mockCategories) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, c := range m.Categories {
		if c.Slug == slug {
			category := c
			return &category, nil
		}
	}
	return nil, models.ErrCategoryNotFound
}

// --- Helpers ---

var fixedNow = time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)

func newTestHandler(catalog *MockCatalog) (*ProductHandler, *webtest.Recorder) {
	view := &webtest.Recorder{}
	h := NewProductHandler(catalog, mockCategories{catalog}, view)
	h.now = func() time.Time { return fixedNow }
	return h, view
}

func postForm(path string, vars map[string]string, values url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return mux.SetURLVars(req, vars)
}

func fruitCatalog() *MockCatalog {
	return &MockCatalog{
		Categories: []models.Category{
			{ID: 1, Name: "Fruit", Slug: "fruit", Description: "Fresh fruit"},
			{ID: 2, Name: "Veg", Slug: "veg", Description: "Vegetables"},
		},
	}
}

// --- Tests: GET /products/recent ---

func TestHandleRecent(t *testing.T) {
	sess := &session.Session{ID: "sid", UserID: 1, Username: "alice"}

	t.Run("Lists only recent products newest first", func(t *testing.T) {
		catalog := fruitCatalog()
		catalog.Products = []models.Product{
			{ID: 1, Name: "Old", CreatedAt: fixedNow.Add(-25 * time.Hour)},
			{ID: 2, Name: "Fresh", CreatedAt: fixedNow.Add(-2 * time.Hour)},
			{ID: 3, Name: "Fresher", CreatedAt: fixedNow.Add(-time.Hour)},
		}
		h, view := newTestHandler(catalog)
		rec := httptest.NewRecorder()

		h.HandleRecent(rec, httptest.NewRequest("GET", "/products/recent", nil), sess)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, web.TemplateLastAdded, view.Name)
		page := view.Data.(web.RecentProductsPage)
		require.Len(t, page.Products, 2)
		assert.Equal(t, "Fresher", page.Products[0].Name)
		assert.Equal(t, "Fresh", page.Products[1].Name)
		assert.Same(t, sess, page.Session)
	})

	t.Run("Repository error", func(t *testing.T) {
		catalog := fruitCatalog()
		catalog.Err = errors.New("db down")
		h, view := newTestHandler(catalog)
		rec := httptest.NewRecorder()

		h.HandleRecent(rec, httptest.NewRequest("GET", "/products/recent", nil), sess)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, web.TemplateServerError, view.Name)
	})
}

// --- Tests: GET /product/{id} ---

func TestHandleGet(t *testing.T) {
	catalog := fruitCatalog()
	catalog.Products = []models.Product{
		{ID: 7, CategoryID: 1, Name: "Apple", Description: "Red", Price: decimal.NewFromFloat(1.5)},
	}

	testCases := []struct {
		name               string
		id                 string
		repoErr            error
		expectedStatusCode int
		expectedTemplate   string
	}{
		{name: "Success", id: "7", expectedStatusCode: http.StatusOK, expectedTemplate: web.TemplateDetailProduct},
		{name: "Product not found", id: "99", expectedStatusCode: http.StatusNotFound, expectedTemplate: web.TemplateNotFound},
		{name: "Malformed id", id: "abc", expectedStatusCode: http.StatusNotFound, expectedTemplate: web.TemplateNotFound},
		{name: "Repository error", id: "7", repoErr: errors.New("db down"), expectedStatusCode: http.StatusInternalServerError, expectedTemplate: web.TemplateServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			catalog.Err = tc.repoErr
			h, view := newTestHandler(catalog)
			req := mux.SetURLVars(httptest.NewRequest("GET", "/product/"+tc.id, nil), map[string]string{"id": tc.id})
			rec := httptest.NewRecorder()

			h.HandleGet(rec, req, &session.Session{})

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			assert.Equal(t, tc.expectedTemplate, view.Name)
			if tc.expectedStatusCode == http.StatusOK {
				page := view.Data.(web.ProductPage)
				assert.Equal(t, "Apple", page.Product.Name)
				assert.Equal(t, 1.5, page.Product.Price.InexactFloat64())
			}
		})
	}
}

// --- Tests: GET /category/{slug}/product/create ---

func TestHandleCreateForm(t *testing.T) {
	t.Run("Known category", func(t *testing.T) {
		h, view := newTestHandler(fruitCatalog())
		req := mux.SetURLVars(httptest.NewRequest("GET", "/category/fruit/product/create", nil), map[string]string{"slug": "fruit"})
		rec := httptest.NewRecorder()

		h.HandleCreateForm(rec, req, &session.Session{})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, web.TemplateCreateProduct, view.Name)
		assert.Equal(t, "Fruit", view.Data.(web.ProductFormPage).Category.Name)
	})

	t.Run("Unknown category", func(t *testing.T) {
		h, view := newTestHandler(fruitCatalog())
		req := mux.SetURLVars(httptest.NewRequest("GET", "/category/nuts/product/create", nil), map[string]string{"slug": "nuts"})
		rec := httptest.NewRecorder()

		h.HandleCreateForm(rec, req, &session.Session{})

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, web.TemplateNotFound, view.Name)
	})
}

// --- Tests: POST /category/{slug}/product/create ---

func TestHandleCreate(t *testing.T) {
	apple := url.Values{"name": {"Apple"}, "slug": {"apple"}, "description": {"Red apple"}, "price": {"1.5"}}

	testCases := []struct {
		name               string
		slug               string
		values             url.Values
		mockSetup          func() *MockCatalog
		expectedStatusCode int
		expectedTemplate   string
		check              func(t *testing.T, catalog *MockCatalog, view *webtest.Recorder)
	}{
		{
			name:               "Success renders category detail",
			slug:               "fruit",
			values:             apple,
			mockSetup:          fruitCatalog,
			expectedStatusCode: http.StatusOK,
			expectedTemplate:   web.TemplateDetailCategory,
			check: func(t *testing.T, catalog *MockCatalog, view *webtest.Recorder) {
				require.Len(t, catalog.Products, 1)
				p := catalog.Products[0]
				assert.Equal(t, uint(1), p.CategoryID)
				assert.Equal(t, "Apple", p.Name)
				assert.Equal(t, 1.5, p.Price.InexactFloat64())
				assert.Equal(t, fixedNow, p.CreatedAt)
				assert.Equal(t, fixedNow, p.ModifiedAt)

				page := view.Data.(web.CategoryPage)
				assert.Equal(t, "fruit", page.Category.Slug)
				require.Len(t, page.Category.Products, 1)
				assert.Equal(t, "Apple", page.Category.Products[0].Name)
			},
		},
		{
			name:   "Duplicate name in same category",
			slug:   "fruit",
			values: apple,
			mockSetup: func() *MockCatalog {
				c := fruitCatalog()
				c.Products = []models.Product{{ID: 1, CategoryID: 1, Name: "Apple"}}
				return c
			},
			expectedStatusCode: http.StatusConflict,
			expectedTemplate:   web.TemplateCreateProduct,
			check: func(t *testing.T, catalog *MockCatalog, view *webtest.Recorder) {
				assert.Equal(t, 1, catalog.countIn(1), "no second record")
				page := view.Data.(web.ProductFormPage)
				assert.Equal(t, DuplicateProductMessage, page.ErrorMessage)
				assert.Equal(t, "Apple", page.Form.Name)
			},
		},
		{
			name:   "Same name in another category is allowed",
			slug:   "fruit",
			values: apple,
			mockSetup: func() *MockCatalog {
				c := fruitCatalog()
				c.Products = []models.Product{{ID: 1, CategoryID: 2, Name: "Apple"}}
				return c
			},
			expectedStatusCode: http.StatusOK,
			expectedTemplate:   web.TemplateDetailCategory,
			check: func(t *testing.T, catalog *MockCatalog, view *webtest.Recorder) {
				assert.Equal(t, 1, catalog.countIn(1))
				assert.Equal(t, 1, catalog.countIn(2))
			},
		},
		{
			name:   "Name match is case sensitive",
			slug:   "fruit",
			values: url.Values{"name": {"apple"}, "slug": {"apple"}, "description": {"d"}},
			mockSetup: func() *MockCatalog {
				c := fruitCatalog()
				c.Products = []models.Product{{ID: 1, CategoryID: 1, Name: "Apple"}}
				return c
			},
			expectedStatusCode: http.StatusOK,
			expectedTemplate:   web.TemplateDetailCategory,
			check: func(t *testing.T, catalog *MockCatalog, view *webtest.Recorder) {
				assert.Equal(t, 2, catalog.countIn(1))
			},
		},
		{
			name:               "Unknown category slug",
			slug:               "nuts",
			values:             apple,
			mockSetup:          fruitCatalog,
			expectedStatusCode: http.StatusNotFound,
			expectedTemplate:   web.TemplateNotFound,
			check: func(t *testing.T, catalog *MockCatalog, view *webtest.Recorder) {
				assert.Empty(t, catalog.Products)
				assert.Zero(t, catalog.createCalls)
			},
		},
		{
			name:               "Invalid form",
			slug:               "fruit",
			values:             url.Values{"name": {""}, "slug": {"apple"}, "description": {"d"}, "price": {"cheap"}},
			mockSetup:          fruitCatalog,
			expectedStatusCode: http.StatusUnprocessableEntity,
			expectedTemplate:   web.TemplateCreateProduct,
			check: func(t *testing.T, catalog *MockCatalog, view *webtest.Recorder) {
				assert.Zero(t, catalog.createCalls)
				page := view.Data.(web.ProductFormPage)
				assert.Contains(t, page.Errors, "name")
				assert.Contains(t, page.Errors, "price")
				assert.Equal(t, "cheap", page.Form.Price)
			},
		},
		{
			name:   "Repository error on create",
			slug:   "fruit",
			values: apple,
			mockSetup: func() *MockCatalog {
				c := fruitCatalog()
				c.CreateErr = errors.New("insert failed")
				return c
			},
			expectedStatusCode: http.StatusInternalServerError,
			expectedTemplate:   web.TemplateServerError,
		},
		{
			name:   "Listing products after create fails",
			slug:   "fruit",
			values: apple,
			mockSetup: func() *MockCatalog {
				c := fruitCatalog()
				c.ListErr = errors.New("select failed")
				return c
			},
			expectedStatusCode: http.StatusInternalServerError,
			expectedTemplate:   web.TemplateServerError,
			check: func(t *testing.T, catalog *MockCatalog, view *webtest.Recorder) {
				assert.Equal(t, 1, catalog.countIn(1))
			},
		},
		{
			name:   "Category removed while creating",
			slug:   "fruit",
			values: apple,
			mockSetup: func() *MockCatalog {
				c := fruitCatalog()
				c.CreateErr = models.ErrCategoryNotFound
				return c
			},
			expectedStatusCode: http.StatusNotFound,
			expectedTemplate:   web.TemplateNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			catalog := tc.mockSetup()
			h, view := newTestHandler(catalog)
			req := postForm("/category/"+tc.slug+"/product/create", map[string]string{"slug": tc.slug}, tc.values)
			rec := httptest.NewRecorder()

			// Act
			h.HandleCreate(rec, req, &session.Session{})

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			assert.Equal(t, tc.expectedTemplate, view.Name)
			if tc.check != nil {
				tc.check(t, catalog, view)
			}
		})
	}
}

func TestHandleCreate_ResubmitScenario(t *testing.T) {
	catalog := fruitCatalog()
	h, view := newTestHandler(catalog)
	apple := url.Values{"name": {"Apple"}, "slug": {"apple"}, "description": {"Red apple"}, "price": {"1.5"}}
	vars := map[string]string{"slug": "fruit"}

	rec := httptest.NewRecorder()
	h.HandleCreate(rec, postForm("/category/fruit/product/create", vars, apple), &session.Session{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Apple", view.Data.(web.CategoryPage).Category.Products[0].Name)

	rec = httptest.NewRecorder()
	h.HandleCreate(rec, postForm("/category/fruit/product/create", vars, apple), &session.Session{})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, DuplicateProductMessage, view.Data.(web.ProductFormPage).ErrorMessage)
	assert.Equal(t, 1, catalog.countIn(1))
}
