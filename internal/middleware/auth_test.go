package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quiz_backend/internal/config"
	"quiz_backend/internal/model"
	"quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return cfg
}

func testRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	identityEcho := func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": claims.UserID, "email": claims.Email})
	}

	router.GET("/public", identityEcho)
	router.GET("/protected", AuthMiddleware(cfg), identityEcho)
	router.GET("/optional", TryAuthMiddleware(cfg), identityEcho)
	return router
}

func issueToken(t *testing.T, cfg *config.Config, expiration time.Duration) string {
	t.Helper()
	user := &model.User{Name: "Alice Doe", Email: "alice@example.com"}
	user.ID = 42
	token, err := util.GenerateJWT(user, cfg.JWT.Secret, expiration)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func request(router *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestProtectedRejectsMissingHeader(t *testing.T) {
	router := testRouter(testConfig())

	if w := request(router, "/protected", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestProtectedRejectsMalformedHeader(t *testing.T) {
	cfg := testConfig()
	router := testRouter(cfg)
	token := issueToken(t, cfg, time.Hour)

	cases := []struct {
		name   string
		header string
	}{
		{"scheme only", "Bearer"},
		{"three parts", "Bearer " + token + " extra"},
		{"wrong scheme", "Basic " + token},
		{"no scheme", token},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := request(router, "/protected", tc.header); w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
		})
	}
}

func TestProtectedRejectsInvalidToken(t *testing.T) {
	router := testRouter(testConfig())

	if w := request(router, "/protected", "Bearer not.a.token"); w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d, want 401", w.Code)
	}

	// Signed with a different secret.
	other := testConfig()
	other.JWT.Secret = "some-other-secret"
	foreign := issueToken(t, other, time.Hour)
	if w := request(router, "/protected", "Bearer "+foreign); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong signature: status = %d, want 401", w.Code)
	}
}

func TestProtectedRejectsExpiredToken(t *testing.T) {
	cfg := testConfig()
	router := testRouter(cfg)

	expired := issueToken(t, cfg, -time.Hour)
	if w := request(router, "/protected", "Bearer "+expired); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestProtectedAcceptsValidToken(t *testing.T) {
	cfg := testConfig()
	router := testRouter(cfg)

	token := issueToken(t, cfg, time.Hour)
	w := request(router, "/protected", "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if body == "" || body == `{"anonymous":true}` {
		t.Errorf("handler did not observe the decoded identity: %s", body)
	}
}

func TestBearerSchemeIsCaseInsensitive(t *testing.T) {
	cfg := testConfig()
	router := testRouter(cfg)

	token := issueToken(t, cfg, time.Hour)
	if w := request(router, "/protected", "bearer "+token); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestPublicPathIgnoresCredential(t *testing.T) {
	router := testRouter(testConfig())

	// Even a garbage credential must not fail a public path.
	if w := request(router, "/public", "Bearer garbage"); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestTryAuthAttachesIdentityWhenValid(t *testing.T) {
	cfg := testConfig()
	router := testRouter(cfg)

	w := request(router, "/optional", "")
	if w.Code != http.StatusOK || w.Body.String() != `{"anonymous":true}` {
		t.Errorf("anonymous request: status=%d body=%s", w.Code, w.Body.String())
	}

	token := issueToken(t, cfg, time.Hour)
	w = request(router, "/optional", "Bearer "+token)
	if w.Code != http.StatusOK || w.Body.String() == `{"anonymous":true}` {
		t.Errorf("authenticated request not recognized: status=%d body=%s", w.Code, w.Body.String())
	}

	// Invalid credentials degrade to anonymous rather than failing.
	w = request(router, "/optional", "Bearer garbage")
	if w.Code != http.StatusOK || w.Body.String() != `{"anonymous":true}` {
		t.Errorf("invalid credential should degrade to anonymous: status=%d body=%s", w.Code, w.Body.String())
	}
}
