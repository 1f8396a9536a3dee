package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"orbio/internal/app"
	"orbio/internal/config"
	"orbio/internal/models"
	"orbio/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupApp builds the full service on in-memory tables with the development admin seeded.
func setupApp(t *testing.T) *app.App {
	t.Helper()

	v := viper.New()
	v.Set("BACKEND", "memory")
	v.Set("APP_ENV", "development")
	v.Set("JWT_SECRET", "test_jwt_secret")
	cfg := config.FromViper(v)

	a, err := app.New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return a
}

func doJSON(t *testing.T, fa *fiber.App, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := fa.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func login(t *testing.T, fa *fiber.App, email, password string) string {
	t.Helper()

	status, body := doJSON(t, fa, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, status, string(body))

	var resp struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// registerCustomer creates a regular user directly through the local identity store.
func registerCustomer(t *testing.T, a *app.App, email, password string) {
	t.Helper()
	ctx := context.Background()

	au, err := services.NewLocalIdentityProvider(a.Repos.Credentials).SignUp(ctx, email, password)
	require.NoError(t, err)
	_, err = a.Repos.Profiles.Create(ctx, &models.Profile{
		Record: models.Record{ID: au.ID},
		Name:   "고객",
		Email:  email,
		Role:   models.RoleUser,
	})
	require.NoError(t, err)
}

func TestHealth(t *testing.T) {
	a := setupApp(t)

	status, body := doJSON(t, a.Fiber, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "memory", resp["backend"])
}

func TestAuthLoginAndMe(t *testing.T) {
	a := setupApp(t)

	status, _ := doJSON(t, a.Fiber, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "admin@orbio.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	token := login(t, a.Fiber, "admin@orbio.com", "admin123")

	status, body := doJSON(t, a.Fiber, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	var me struct {
		User    models.User `json:"user"`
		IsAdmin bool        `json:"is_admin"`
	}
	require.NoError(t, json.Unmarshal(body, &me))
	assert.True(t, me.IsAdmin)
	assert.Equal(t, "admin@orbio.com", me.User.Email)

	status, _ = doJSON(t, a.Fiber, http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, a.Fiber, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	a := setupApp(t)

	status, _ := doJSON(t, a.Fiber, http.MethodGet, "/api/v1/admin/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, a.Fiber, http.MethodGet, "/api/v1/admin/products", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	registerCustomer(t, a, "customer@example.com", "password123")
	token := login(t, a.Fiber, "customer@example.com", "password123")

	status, _ = doJSON(t, a.Fiber, http.MethodGet, "/api/v1/admin/products", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestAdminProductLifecycle(t *testing.T) {
	a := setupApp(t)
	token := login(t, a.Fiber, "admin@orbio.com", "admin123")

	status, body := doJSON(t, a.Fiber, http.MethodPost, "/api/v1/admin/products", token, map[string]any{
		"name":        "X",
		"price":       -1,
		"category":    "easy-clean",
		"description": "too short a name",
	})
	assert.Equal(t, http.StatusBadRequest, status, string(body))

	status, body = doJSON(t, a.Fiber, http.MethodPost, "/api/v1/admin/products", token, map[string]any{
		"name":        "Tumbler 350ml",
		"description": "물만으로 세척되는 텀블러",
		"price":       25000,
		"category":    "easy-clean",
		"specifications": map[string]string{
			"material": "스테인리스",
			"capacity": "350ml",
		},
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	var created struct {
		Item  models.Product   `json:"item"`
		Items []models.Product `json:"items"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotEmpty(t, created.Item.ID)
	assert.Equal(t, int64(25000), created.Item.Price)
	require.Len(t, created.Items, 1)
	assert.Equal(t, created.Item.ID, created.Items[0].ID)

	status, body = doJSON(t, a.Fiber, http.MethodGet, "/api/v1/products/"+created.Item.ID, "", nil)
	require.Equal(t, http.StatusOK, status)
	var fetched models.Product
	require.NoError(t, json.Unmarshal(body, &fetched))
	assert.Equal(t, "Tumbler 350ml", fetched.Name)

	status, body = doJSON(t, a.Fiber, http.MethodPut, "/api/v1/admin/products/"+created.Item.ID, token, map[string]any{
		"price": 27000,
	})
	require.Equal(t, http.StatusOK, status, string(body))
	var updated struct {
		Item models.Product `json:"item"`
	}
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, int64(27000), updated.Item.Price)
	assert.Equal(t, "Tumbler 350ml", updated.Item.Name)

	status, body = doJSON(t, a.Fiber, http.MethodDelete, "/api/v1/admin/products/"+created.Item.ID, token, nil)
	require.Equal(t, http.StatusOK, status)
	var remaining struct {
		Items []models.Product `json:"items"`
	}
	require.NoError(t, json.Unmarshal(body, &remaining))
	assert.Empty(t, remaining.Items)

	status, _ = doJSON(t, a.Fiber, http.MethodGet, "/api/v1/products/"+created.Item.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestContactRequiresPrivacyConsent(t *testing.T) {
	a := setupApp(t)

	form := map[string]any{
		"name":           "홍길동",
		"email":          "hong@example.com",
		"subject":        "대량 구매 문의",
		"message":        "견적 부탁드립니다.",
		"privacy_agreed": false,
	}
	status, body := doJSON(t, a.Fiber, http.MethodPost, "/api/v1/contact", "", form)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "개인정보 수집 및 이용에 동의해주세요.")

	all, err := a.Repos.Inquiries.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	form["privacy_agreed"] = true
	status, body = doJSON(t, a.Fiber, http.MethodPost, "/api/v1/contact", "", form)
	require.Equal(t, http.StatusCreated, status, string(body))

	var resp struct {
		Inquiry models.Inquiry `json:"inquiry"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, models.InquiryPending, resp.Inquiry.Status)
	assert.Equal(t, "general", resp.Inquiry.InquiryType)

	token := login(t, a.Fiber, "admin@orbio.com", "admin123")
	status, body = doJSON(t, a.Fiber, http.MethodGet, "/api/v1/admin/dashboard", token, nil)
	require.Equal(t, http.StatusOK, status)
	var dash struct {
		Summary       models.DashboardSummary `json:"summary"`
		PendingReview []models.Inquiry        `json:"pending_review"`
	}
	require.NoError(t, json.Unmarshal(body, &dash))
	assert.Len(t, dash.PendingReview, 1)
}

func TestCustomerPlacesOrder(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()

	product, err := a.Repos.Products.Create(ctx, &models.Product{
		Name:           "항균 도마",
		Price:          15000,
		Category:       models.CategoryAntimicrobial,
		Specifications: models.Specifications{
			Material: "PP",
		},
	})
	require.NoError(t, err)

	order := map[string]any{
		"products": []map[string]any{{"product_id": product.ID, "quantity": 2}},
		"shipping_address": map[string]string{
			"name":    "고객",
			"address": "서울시 강남구",
			"phone":   "010-0000-0000",
		},
	}

	status, _ := doJSON(t, a.Fiber, http.MethodPost, "/api/v1/orders", "", order)
	assert.Equal(t, http.StatusUnauthorized, status)

	registerCustomer(t, a, "buyer@example.com", "password123")
	token := login(t, a.Fiber, "buyer@example.com", "password123")

	status, body := doJSON(t, a.Fiber, http.MethodPost, "/api/v1/orders", token, order)
	require.Equal(t, http.StatusCreated, status, string(body))

	var created models.Order
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, int64(30000), created.TotalAmount)
	assert.Equal(t, models.OrderPending, created.Status)
	assert.Equal(t, "고객", created.UserName)
}

func TestPublicFAQsAreSeeded(t *testing.T) {
	a := setupApp(t)

	status, body := doJSON(t, a.Fiber, http.MethodGet, "/api/v1/faqs?category=order", "", nil)
	require.Equal(t, http.StatusOK, status)

	var faqs []models.FAQ
	require.NoError(t, json.Unmarshal(body, &faqs))
	require.NotEmpty(t, faqs)
	for _, f := range faqs {
		assert.Equal(t, "order", f.Category)
	}
}

func TestRelatedBlogPosts(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()

	create := func(title string, tags ...string) *models.BlogPost {
		post, err := a.Repos.Blog.Create(ctx, &models.BlogPost{Title: title, Content: "<p>x</p>", Author: "오르비오", Tags: tags})
		require.NoError(t, err)
		return post
	}
	current := create("세척 팁", "cleaning")
	related := create("물때 제거", "cleaning", "tips")
	create("친환경 소재", "eco")

	status, body := doJSON(t, a.Fiber, http.MethodGet, "/api/v1/blog/"+current.ID+"/related", "", nil)
	require.Equal(t, http.StatusOK, status, string(body))

	var posts []models.BlogPost
	require.NoError(t, json.Unmarshal(body, &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, related.ID, posts[0].ID)
}

func TestProductionRefusesDefaultSecret(t *testing.T) {
	v := viper.New()
	v.Set("BACKEND", "memory")
	v.Set("APP_ENV", "production")

	_, err := app.New(context.Background(), config.FromViper(v), zap.NewNop())
	var cfgErr *config.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Insecure, "JWT_SECRET")
}
