package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"codebox/api/handler"
	"codebox/api/middleware"
	"codebox/internal/entity"
	"codebox/internal/repository/memory"
	"codebox/internal/service"
	"codebox/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixedOTP string

func (f fixedOTP) Generate() (string, error) { return string(f), nil }

type testServer struct {
	echo  *echo.Echo
	users *memory.UserRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	users := memory.NewUserRepository()
	snippets := memory.NewSnippetRepository()
	logs := memory.NewSecurityLogRepository()
	jwt := &utils.JWTManager{Secret: []byte("test-secret"), Issuer: "codebox", AccessTokenTTL: time.Hour}
	hasher := service.BcryptPasswordHasher{Cost: bcrypt.MinCost}
	validate := validator.New()

	userService := service.NewUserService(users, logs, hasher, service.JWTAccessIssuer{Manager: jwt}, nil, nil, nil)
	resetService := service.NewResetService(users, service.NewResetSessions(time.Minute, nil), fixedOTP("123456"), hasher, logs, nil)
	snippetService := service.NewSnippetService(snippets, users)

	e := echo.New()
	e.HTTPErrorHandler = handler.ErrorHandler
	NewRouter(
		e,
		handler.NewUserHandler(userService, validate, nil),
		handler.NewResetHandler(resetService, validate),
		handler.NewSnippetHandler(snippetService, validate),
		middleware.AuthMiddleware{JWT: jwt},
		userService,
		"",
	).RegisterRoutes()
	return &testServer{echo: e, users: users}
}

func (s *testServer) do(t *testing.T, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), rec.Body.String())
	return payload
}

func (s *testServer) login(t *testing.T, identifier, password string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/login", `{"emailOrUsername":"`+identifier+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token, _ := decode(t, rec)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHome(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `"Home GET Request"`, rec.Body.String())
}

func TestSignupAndLogin(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/signup", `{"username":"alice","email":"a@x.io","password":"pw1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	payload := decode(t, rec)
	assert.Equal(t, "User Register Successfully", payload["message"])
	result, ok := payload["result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", result["username"])
	assert.Equal(t, false, result["isDeleted"])
	assert.NotContains(t, result, "password")

	rec = s.do(t, http.MethodPost, "/api/signup", `{"username":"alice","email":"b@x.io","password":"pw"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.ErrDuplicateUsername.Error(), decode(t, rec)["error"])

	rec = s.do(t, http.MethodPost, "/api/signup", `{"username":"bob","email":"b@x.io"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.ErrMissingPassword.Error(), decode(t, rec)["error"])

	token := s.login(t, "alice", "pw1")
	assert.NotEmpty(t, token)

	rec = s.do(t, http.MethodPost, "/api/login", `{"emailOrUsername":"alice","password":"nope"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/login", `{"emailOrUsername":"ghost","password":"pw1"}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Can't find User!", decode(t, rec)["error"])

	rec = s.do(t, http.MethodGet, "/api/authenticate?emailOrUsername=a@x.io", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/getUsersCount", "", "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["usersCount"])
}

func TestPasswordResetFlow(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/signup", `{"username":"alice","email":"a@x.io","password":"old"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPatch, "/api/resetPassword", `{"emailOrUsername":"alice","password":"new"}`, "")
	assert.Equal(t, handler.StatusSessionExpired, rec.Code)
	assert.Equal(t, "Session expired!", decode(t, rec)["error"])

	rec = s.do(t, http.MethodGet, "/api/createResetSession?emailOrUsername=alice", "", "")
	assert.Equal(t, handler.StatusSessionExpired, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/generateOTP?emailOrUsername=alice", "", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "123456", decode(t, rec)["code"])

	rec = s.do(t, http.MethodGet, "/api/verifyOTP?emailOrUsername=alice&code=999999", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/verifyOTP?emailOrUsername=alice&code=123456", "", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Verify Successfully!", decode(t, rec)["message"])

	rec = s.do(t, http.MethodGet, "/api/createResetSession?emailOrUsername=alice", "", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, decode(t, rec)["flag"])

	rec = s.do(t, http.MethodPatch, "/api/resetPassword", `{"emailOrUsername":"alice","password":"new"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	s.login(t, "alice", "new")
}

func TestSnippetRoutes(t *testing.T) {
	s := newTestServer(t)
	for _, name := range []string{"alice", "aaron"} {
		rec := s.do(t, http.MethodPost, "/api/signup", `{"username":"`+name+`","email":"`+name+`@x.io","password":"pw"}`, "")
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	aliceToken := s.login(t, "alice", "pw")
	aaronToken := s.login(t, "aaron", "pw")

	rec := s.do(t, http.MethodPost, "/api/createCode", `{"code":"x","title":"t"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication Failed!", decode(t, rec)["error"])

	rec = s.do(t, http.MethodPost, "/api/createCode", `{"code":"print(1)","codeLanguage":"python","title":"one"}`, aliceToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created, ok := decode(t, rec)["userCode"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", created["username"])
	assert.NotEmpty(t, created["user"], "owner defaults to the token's user id")
	codeID, _ := created["_id"].(string)
	require.NotEmpty(t, codeID)

	rec = s.do(t, http.MethodPost, "/api/createCode", `{"code":"puts 1","title":"two"}`, aaronToken)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/getAllCodesByUsername", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Less(t, strings.Index(body, `"aaron"`), strings.Index(body, `"alice"`))

	rec = s.do(t, http.MethodPatch, "/api/updateCode?id="+codeID, `{"title":"renamed"}`, aliceToken)
	require.Equal(t, http.StatusOK, rec.Code)
	updated, _ := decode(t, rec)["userCode"].(map[string]any)
	assert.Equal(t, "renamed", updated["title"])

	rec = s.do(t, http.MethodPatch, "/api/deleteCode?id="+codeID, "", aliceToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/getCodeById?id="+codeID, "", aliceToken)
	require.Equal(t, http.StatusOK, rec.Code)
	fetched, _ := decode(t, rec)["userCode"].(map[string]any)
	assert.Equal(t, true, fetched["isDeleted"])

	rec = s.do(t, http.MethodGet, "/api/getOnlyDeletedCodesByUsername", "", aliceToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPatch, "/api/revertDeletedCode?id=missing", "", aliceToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode(t, rec)["revertDeletedCode"])
}

func TestCreateResetSessionWithoutIdentifier(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/signup", `{"username":"alice","email":"a@x.io","password":"old"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/createResetSession", "", "")
	assert.Equal(t, handler.StatusSessionExpired, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/generateOTP?emailOrUsername=alice", "", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/verifyOTP?emailOrUsername=alice&code=123456", "", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/createResetSession", "", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode(t, rec)["flag"])
}

func TestUpdateUserWithoutID(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/signup", `{"username":"alice","email":"a@x.io","password":"pw"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	token := s.login(t, "alice", "pw")

	rec = s.do(t, http.MethodPatch, "/api/updateUser", `{"firstName":"Alice"}`, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User ID not provided...!", decode(t, rec)["error"])
}

func TestTrashViewsRequireAdmin(t *testing.T) {
	s := newTestServer(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("root"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, s.users.Create(context.Background(), &entity.User{
		Username:     "root",
		Email:        "root@x.io",
		PasswordHash: string(hash),
		Role:         entity.UserRoleAdmin,
	}))
	rec := s.do(t, http.MethodPost, "/api/signup", `{"username":"alice","email":"a@x.io","password":"pw"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	userToken := s.login(t, "alice", "pw")
	adminToken := s.login(t, "root", "root")

	rec = s.do(t, http.MethodGet, "/api/getDeletedUsersCount", "", userToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/getDeletedUsersCount", "", adminToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, float64(0), decode(t, rec)["usersCount"])
}
