//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	httpapi "github.com/swapmarket/swapmarket/internal/api/http"
	"github.com/swapmarket/swapmarket/internal/application/auth"
	"github.com/swapmarket/swapmarket/internal/application/chain"
	"github.com/swapmarket/swapmarket/internal/application/claim"
	"github.com/swapmarket/swapmarket/internal/application/match"
	appOffer "github.com/swapmarket/swapmarket/internal/application/offer"
	appProduct "github.com/swapmarket/swapmarket/internal/application/product"
	"github.com/swapmarket/swapmarket/internal/infrastructure/postgres"
	"github.com/swapmarket/swapmarket/internal/infrastructure/sse"
)

const testPassword = "S3cure!Passw0rd"

func TestTradeLifecycleIntegration(t *testing.T) {
	server, cleanup := newTestServer(t)
	defer cleanup()

	alice := newAuthedClient(t, server.URL, "alice")
	bob := newAuthedClient(t, server.URL, "bob")
	carol := newAuthedClient(t, server.URL, "carol")

	aliceProduct := createProduct(t, alice, server.URL, "camera", 200)
	bobProduct := createProduct(t, bob, server.URL, "guitar", 180)
	carolProduct := createProduct(t, carol, server.URL, "bike", 210)

	// Alice and Carol both want Bob's guitar.
	offerA := createOffer(t, alice, server.URL, aliceProduct, bobProduct)
	offerC := createOffer(t, carol, server.URL, carolProduct, bobProduct)

	// Bob accepts Alice's offer.
	var accepted map[string]interface{}
	doJSON(t, bob, http.MethodPost, server.URL+"/v1/offers/"+offerA+"/accept", nil, http.StatusOK, &accepted)
	if accepted["status"] != "ACCEPTED" {
		t.Fatalf("expected ACCEPTED, got %v", accepted["status"])
	}

	// Carol's competing offer was cascade-rejected.
	var losing map[string]interface{}
	doJSON(t, carol, http.MethodGet, server.URL+"/v1/offers/"+offerC, nil, http.StatusOK, &losing)
	if losing["status"] != "REJECTED" {
		t.Fatalf("expected competing offer REJECTED, got %v", losing["status"])
	}

	// Both traded products are sold; Carol's bike is untouched.
	for id, want := range map[string]string{aliceProduct: "SOLD", bobProduct: "SOLD", carolProduct: "ACTIVE"} {
		var p map[string]interface{}
		doJSON(t, alice, http.MethodGet, server.URL+"/v1/products/"+id, nil, http.StatusOK, &p)
		if p["status"] != want {
			t.Fatalf("product %s: expected %s, got %v", id, want, p["status"])
		}
	}

	// Accepting the rejected offer again fails as a conflict.
	doJSON(t, bob, http.MethodPost, server.URL+"/v1/offers/"+offerC+"/accept", nil, http.StatusConflict, nil)

	// Either party may complete, and a retry is a no-op.
	doJSON(t, alice, http.MethodPost, server.URL+"/v1/offers/"+offerA+"/complete", nil, http.StatusOK, nil)
	doJSON(t, alice, http.MethodPost, server.URL+"/v1/offers/"+offerA+"/complete", nil, http.StatusOK, nil)
}

func TestCounterOfferChainIntegration(t *testing.T) {
	server, cleanup := newTestServer(t)
	defer cleanup()

	alice := newAuthedClient(t, server.URL, "alice")
	bob := newAuthedClient(t, server.URL, "bob")

	p1 := createProduct(t, alice, server.URL, "camera", 200)
	p2 := createProduct(t, bob, server.URL, "guitar", 180)
	p3 := createProduct(t, bob, server.URL, "amp", 120)

	root := createOffer(t, alice, server.URL, p1, p2)

	// Bob counters with a different product of his.
	body := map[string]interface{}{"offeredProductId": p3, "requestedProductId": p1}
	var counter map[string]interface{}
	doJSON(t, bob, http.MethodPost, server.URL+"/v1/offers/"+root+"/counter", body, http.StatusCreated, &counter)
	if counter["isCounterOffer"] != true {
		t.Fatalf("expected counter offer flag")
	}

	var tree map[string]interface{}
	doJSON(t, alice, http.MethodGet, server.URL+"/v1/offers/"+root+"/chain", nil, http.StatusOK, &tree)
	children, _ := tree["children"].([]interface{})
	if len(children) != 1 {
		t.Fatalf("expected one child in chain, got %d", len(children))
	}
}

func newTestServer(t *testing.T) (*httptest.Server, func()) {
	t.Helper()
	dsn := testDatabaseURL(t)

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, dsn)
	if err != nil {
		t.Fatalf("db pool: %v", err)
	}

	root := repoRoot(t)
	if err := postgres.RunMigrations(ctx, pool, filepath.Join(root, "internal", "migrations")); err != nil {
		pool.Close()
		t.Fatalf("migrations: %v", err)
	}
	if err := resetDatabase(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("reset db: %v", err)
	}

	logger := zerolog.Nop()
	store := postgres.NewStore(pool)
	offerRepo := postgres.NewOfferRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)

	sseHub := sse.NewHub(logger)
	coordinator := claim.NewCoordinator(store, logger)
	authSvc := auth.NewService(userRepo, sessionRepo, 24*time.Hour, logger)
	productSvc := appProduct.NewService(productRepo, logger)
	offerSvc := appOffer.NewService(offerRepo, productRepo, coordinator, sseHub, 168*time.Hour, logger)
	chainSvc := chain.NewService(offerRepo, 0, logger)
	matchSvc := match.NewService(productRepo, 0, logger)

	apiServer := httpapi.NewServer(authSvc, productSvc, offerSvc, chainSvc, matchSvc, sseHub, "swapmarket_session", false)
	server := httptest.NewServer(apiServer.Router())

	cleanup := func() {
		server.Close()
		sseHub.Stop()
		pool.Close()
	}

	return server, cleanup
}

func newAuthedClient(t *testing.T, baseURL, username string) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	client := &http.Client{Timeout: 10 * time.Second, Jar: jar}

	doJSON(t, client, http.MethodPost, baseURL+"/v1/auth/register",
		map[string]interface{}{"username": username, "password": testPassword}, http.StatusCreated, nil)
	doJSON(t, client, http.MethodPost, baseURL+"/v1/auth/login",
		map[string]interface{}{"username": username, "password": testPassword}, http.StatusOK, nil)
	return client
}

func createProduct(t *testing.T, client *http.Client, baseURL, title string, price float64) string {
	t.Helper()
	var p map[string]interface{}
	doJSON(t, client, http.MethodPost, baseURL+"/v1/products/", map[string]interface{}{
		"title":              title,
		"categoryId":         "8e5b3f92-4c4e-4c38-9d4e-17e9a3a7b001",
		"price":              price,
		"acceptsTradeOffers": true,
	}, http.StatusCreated, &p)
	return p["productId"].(string)
}

func createOffer(t *testing.T, client *http.Client, baseURL, offered, requested string) string {
	t.Helper()
	var o map[string]interface{}
	doJSON(t, client, http.MethodPost, baseURL+"/v1/offers/", map[string]interface{}{
		"offeredProductId":   offered,
		"requestedProductId": requested,
	}, http.StatusCreated, &o)
	return o["offerId"].(string)
}

func doJSON(t *testing.T, client *http.Client, method, url string, body interface{}, wantStatus int, out interface{}) {
	t.Helper()
	var reqBody *bytes.Buffer = bytes.NewBuffer(nil)
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	}
	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		var raw json.RawMessage
		_ = json.NewDecoder(resp.Body).Decode(&raw)
		t.Fatalf("%s %s: status %d, want %d (%s)", method, url, resp.StatusCode, wantStatus, string(raw))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func testDatabaseURL(t *testing.T) string {
	t.Helper()
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		return dsn
	}
	t.Skip("TEST_DATABASE_URL not set; skipping integration tests")
	return ""
}

func repoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}

func resetDatabase(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		TRUNCATE TABLE
			trade_offers,
			products,
			sessions,
			users
		RESTART IDENTITY CASCADE
	`)
	return err
}
