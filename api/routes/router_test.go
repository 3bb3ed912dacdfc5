package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	authsvc "github.com/stockroomhq/stockroom-backend/internal/auth"
	"github.com/stockroomhq/stockroom-backend/internal/components"
	"github.com/stockroomhq/stockroom-backend/internal/products"
	"github.com/stockroomhq/stockroom-backend/internal/suppliers"
	"github.com/stockroomhq/stockroom-backend/internal/users"
	"github.com/stockroomhq/stockroom-backend/pkg/config"
	"github.com/stockroomhq/stockroom-backend/pkg/db"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Supplier{}, &models.Component{}, &models.Product{}, &models.SupplierComponent{}, &models.ProductComponent{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	client := db.FromGorm(conn)

	cfg := &config.Config{
		App:      config.AppConfig{Env: "development"},
		JWT:      config.JWTConfig{Secret: "router-test-secret", Issuer: "stockroom-test", ExpirationMinutes: 15},
		Password: config.PasswordConfig{BcryptCost: 4},
		CORS:     config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}

	supplierSvc, err := suppliers.NewService(suppliers.NewRepository(conn), client)
	if err != nil {
		t.Fatalf("supplier service: %v", err)
	}
	componentSvc, err := components.NewService(components.NewRepository(conn), client)
	if err != nil {
		t.Fatalf("component service: %v", err)
	}
	productSvc, err := products.NewService(products.NewRepository(conn), client)
	if err != nil {
		t.Fatalf("product service: %v", err)
	}
	authService, err := authsvc.NewService(users.NewRepository(conn), client, cfg.JWT, cfg.Password)
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}

	return NewRouter(Deps{
		Config:           cfg,
		Logger:           nil,
		DBPinger:         client,
		SupplierService:  supplierSvc,
		ComponentService: componentSvc,
		ProductService:   productSvc,
		AuthService:      authService,
	})
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	if dest != nil {
		if err := json.Unmarshal(envelope.Data, dest); err != nil {
			t.Fatalf("decode data: %v (body %s)", err, rec.Body.String())
		}
	}
}

func signupAndSignin(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/auth/signup", "", map[string]string{
		"email":    "ops@example.com",
		"password": "s3cret-pass",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var identity struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
	}
	decodeData(t, rec, &identity)
	if identity.ID == 0 || identity.Email != "ops@example.com" {
		t.Fatalf("signup should return the flat created identity, got %s", rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPost, "/auth/signin", "", map[string]string{
		"email":    "ops@example.com",
		"password": "s3cret-pass",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("signin: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var session struct {
		Token     string `json:"token"`
		ExpiresIn int64  `json:"expiresIn"`
	}
	decodeData(t, rec, &session)
	if session.Token == "" || session.ExpiresIn == 0 {
		t.Fatalf("incomplete session payload: %+v", session)
	}
	return session.Token
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/health/live", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("live: expected 200, got %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/health/ready", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestWritesRequireAuth(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/suppliers", "", map[string]string{"name": "Acme"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/suppliers", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reads should be public, got %d", rec.Code)
	}
}

func TestFullInventoryFlow(t *testing.T) {
	h := newTestRouter(t)
	token := signupAndSignin(t, h)

	rec := doJSON(t, h, http.MethodPost, "/suppliers", token, map[string]any{
		"name":         "Acme Metals",
		"contact_info": "sales@acme.test",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create supplier: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var supplier struct {
		ID uint `json:"id"`
	}
	decodeData(t, rec, &supplier)

	rec = doJSON(t, h, http.MethodPost, "/components", token, map[string]any{
		"name":        "Bolt",
		"supplierIds": []uint{supplier.ID},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create component: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var component struct {
		ID        uint `json:"id"`
		Suppliers []struct {
			ID uint `json:"id"`
		} `json:"suppliers"`
	}
	decodeData(t, rec, &component)
	if len(component.Suppliers) != 1 || component.Suppliers[0].ID != supplier.ID {
		t.Fatalf("component should carry its supplier, got %+v", component)
	}

	rec = doJSON(t, h, http.MethodPost, "/products", token, map[string]any{
		"name":             "Widget",
		"product_code":     "WID-1",
		"quantity_on_hand": 5,
		"componentIds":     []uint{component.ID},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var product struct {
		ID         uint `json:"id"`
		Components []struct {
			ID uint `json:"id"`
		} `json:"components"`
	}
	decodeData(t, rec, &product)
	if len(product.Components) != 1 {
		t.Fatalf("product should carry its component, got %+v", product)
	}

	// Duplicate product code conflicts.
	rec = doJSON(t, h, http.MethodPost, "/products", token, map[string]any{
		"name":         "Widget Clone",
		"product_code": "WID-1",
		"componentIds": []uint{component.ID},
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate code: expected 409, got %d (%s)", rec.Code, rec.Body.String())
	}

	// Unknown component id rolls the create back entirely.
	rec = doJSON(t, h, http.MethodPost, "/products", token, map[string]any{
		"name":         "Ghost",
		"product_code": "GHO-1",
		"componentIds": []uint{9999},
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing component: expected 404, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/products", "", nil)
	var productList []struct {
		ID uint `json:"id"`
	}
	decodeData(t, rec, &productList)
	if len(productList) != 1 {
		t.Fatalf("expected exactly one persisted product, got %d", len(productList))
	}

	rec = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/products/%d", product.ID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete product: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/products/%d", product.ID), token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rec.Code)
	}

	// The component survives the product deletion.
	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/components/%d", component.ID), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("component should survive, got %d", rec.Code)
	}
}

func TestAssociationFieldsUseDocumentedNames(t *testing.T) {
	h := newTestRouter(t)
	token := signupAndSignin(t, h)

	rec := doJSON(t, h, http.MethodPost, "/components", token, map[string]any{"name": "Bolt"})
	var component struct {
		ID uint `json:"id"`
	}
	decodeData(t, rec, &component)

	// The documented body shape creates the product.
	rec = doJSON(t, h, http.MethodPost, "/products", token, map[string]any{
		"name":         "Widget",
		"product_code": "WID-1",
		"componentIds": []uint{component.ID},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("documented field names must be accepted, got %d (%s)", rec.Code, rec.Body.String())
	}

	// Anything else is an unknown field under strict decoding.
	rec = doJSON(t, h, http.MethodPost, "/products", token, map[string]any{
		"name":          "Widget 2",
		"product_code":  "WID-2",
		"component_ids": []uint{component.ID},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("undocumented field names should be rejected, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestValidationDetailsAreItemized(t *testing.T) {
	h := newTestRouter(t)
	token := signupAndSignin(t, h)

	rec := doJSON(t, h, http.MethodPost, "/products", token, map[string]any{
		"product_code": "",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", rec.Code, rec.Body.String())
	}

	var payload struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if payload.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected code %q", payload.Error.Code)
	}
	if _, ok := payload.Error.Details["name"]; !ok {
		t.Fatalf("expected field-level detail for name, got %v", payload.Error.Details)
	}
	if _, ok := payload.Error.Details["componentIds"]; !ok {
		t.Fatalf("expected field-level detail for componentIds, got %v", payload.Error.Details)
	}
}

func TestUnknownFieldsAreRejected(t *testing.T) {
	h := newTestRouter(t)
	token := signupAndSignin(t, h)

	rec := doJSON(t, h, http.MethodPost, "/suppliers", token, map[string]any{
		"name":     "Acme",
		"surprise": true,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown field should be rejected, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestSigninFailuresShareOneMessage(t *testing.T) {
	h := newTestRouter(t)
	_ = signupAndSignin(t, h)

	wrongPassword := doJSON(t, h, http.MethodPost, "/auth/signin", "", map[string]string{
		"email":    "ops@example.com",
		"password": "not-the-password",
	})
	unknownEmail := doJSON(t, h, http.MethodPost, "/auth/signin", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "whatever-pass",
	})

	if wrongPassword.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPassword.Code, unknownEmail.Code)
	}
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Fatalf("failure payloads must be identical:\n%s\n%s", wrongPassword.Body.String(), unknownEmail.Body.String())
	}
}

func TestPartialProductUpdateKeepsEdges(t *testing.T) {
	h := newTestRouter(t)
	token := signupAndSignin(t, h)

	rec := doJSON(t, h, http.MethodPost, "/components", token, map[string]any{"name": "Bolt"})
	var component struct {
		ID uint `json:"id"`
	}
	decodeData(t, rec, &component)

	rec = doJSON(t, h, http.MethodPost, "/products", token, map[string]any{
		"name":         "Widget",
		"product_code": "WID-1",
		"componentIds": []uint{component.ID},
	})
	var product struct {
		ID uint `json:"id"`
	}
	decodeData(t, rec, &product)

	rec = doJSON(t, h, http.MethodPut, fmt.Sprintf("/products/%d", product.ID), token, map[string]any{
		"quantity_on_hand": 12,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var updated struct {
		QuantityOnHand int `json:"quantity_on_hand"`
		Components     []struct {
			ID uint `json:"id"`
		} `json:"components"`
	}
	decodeData(t, rec, &updated)
	if updated.QuantityOnHand != 12 {
		t.Fatalf("unexpected quantity %d", updated.QuantityOnHand)
	}
	if len(updated.Components) != 1 {
		t.Fatalf("edges should be untouched by a field-only update, got %+v", updated.Components)
	}

	// An explicit empty set is rejected.
	rec = doJSON(t, h, http.MethodPut, fmt.Sprintf("/products/%d", product.ID), token, map[string]any{
		"componentIds": []uint{},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty component set should 400, got %d (%s)", rec.Code, rec.Body.String())
	}
}
