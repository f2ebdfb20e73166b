package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/entity"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/event"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/repository/memory"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/service"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/session"
)

var testSecret = []byte("test-admin-secret")

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "plain:" + password, nil }
func (plainHasher) Verify(encodedHash, password string) bool {
	return encodedHash == "plain:"+password
}

type adminFixture struct {
	router   *gin.Engine
	registry *session.Registry
	accounts *service.AccountService
	account  *entity.Account
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	bus := event.NewBus(zap.NewNop())
	accountRepo := memory.NewAccountRepository()
	accounts := service.NewAccountService(accountRepo, plainHasher{}, bus, zap.NewNop())
	registry := session.NewRegistry(nil, zap.NewNop())
	server := NewServer(registry, accounts, zap.NewNop())

	account, err := accounts.Register(context.Background(), "alice", "secret-password")
	require.NoError(t, err)

	return &adminFixture{
		router:   server.Router(testSecret),
		registry: registry,
		accounts: accounts,
		account:  account,
	}
}

func signToken(t *testing.T, roles []string) string {
	t.Helper()
	claims := Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ops",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func (fx *adminFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
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
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)
	return rec
}

func TestAdmin_Healthz(t *testing.T) {
	fx := newAdminFixture(t)
	rec := fx.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdmin_Metrics(t *testing.T) {
	fx := newAdminFixture(t)
	rec := fx.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdmin_AuthRequired(t *testing.T) {
	fx := newAdminFixture(t)

	rec := fx.do(t, http.MethodGet, "/admin/sessions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = fx.do(t, http.MethodGet, "/admin/sessions", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = fx.do(t, http.MethodGet, "/admin/sessions", signToken(t, []string{"support"}), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdmin_ListSessions(t *testing.T) {
	fx := newAdminFixture(t)
	_, err := fx.registry.Register(context.Background(), 1, fx.account)
	require.NoError(t, err)

	rec := fx.do(t, http.MethodGet, "/admin/sessions", signToken(t, []string{"admin"}), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count    int           `json:"count"`
		Sessions []sessionView `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, uint64(1), body.Sessions[0].ConnectionID)
	assert.Equal(t, "alice", body.Sessions[0].Username)
}

func TestAdmin_GetSession(t *testing.T) {
	fx := newAdminFixture(t)
	_, err := fx.registry.Register(context.Background(), 42, fx.account)
	require.NoError(t, err)
	token := signToken(t, []string{"admin"})

	rec := fx.do(t, http.MethodGet, "/admin/sessions/42", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = fx.do(t, http.MethodGet, "/admin/sessions/99", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = fx.do(t, http.MethodGet, "/admin/sessions/not-a-number", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdmin_AccountTransitions(t *testing.T) {
	fx := newAdminFixture(t)
	token := signToken(t, []string{"admin"})
	base := "/admin/accounts/" + fx.account.ID.String()

	rec := fx.do(t, http.MethodPost, base+"/activate", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = fx.do(t, http.MethodPost, base+"/ban", token, map[string]string{"reason": "abuse"})
	assert.Equal(t, http.StatusOK, rec.Code)

	stored, err := fx.accounts.GetByID(context.Background(), fx.account.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AccountBanned, stored.State)

	// Banned accounts cannot be suspended: the policy rejects it.
	rec = fx.do(t, http.MethodPost, base+"/suspend", token,
		map[string]string{"reason": "spam", "duration": "24h"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdmin_AccountTransitions_Validation(t *testing.T) {
	fx := newAdminFixture(t)
	token := signToken(t, []string{"admin"})

	rec := fx.do(t, http.MethodPost, "/admin/accounts/not-a-uuid/activate", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	base := "/admin/accounts/" + fx.account.ID.String()
	rec = fx.do(t, http.MethodPost, base+"/ban", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = fx.do(t, http.MethodPost, base+"/suspend", token,
		map[string]string{"reason": "spam", "duration": "soon"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	unknown := "/admin/accounts/" + "00000000-0000-0000-0000-000000000001" + "/activate"
	rec = fx.do(t, http.MethodPost, unknown, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
