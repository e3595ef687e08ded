package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/slowish/internal/auth"
	"github.com/prn-tf/slowish/internal/repository/sqlite"
	"github.com/prn-tf/slowish/internal/service"
)

const unauthorizedBody = `{"unauthorized":{"code":401,"message":"Unable to authenticate user with credentials provided."}}`

// testEnv is a full server stack over an in-memory database.
type testEnv struct {
	server *httptest.Server
	users  *service.UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.NewDB(context.Background(), sqlite.DefaultConfig("file::memory:"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(context.Background()))

	repos := sqlite.NewRepositories(db)
	logger := zerolog.Nop()

	authService := service.NewAuthService(repos.User, 48*time.Hour, logger)
	accountService := service.NewAccountService(repos.Account, repos.Container, logger)
	containerService := service.NewContainerService(repos.Container, repos.File, logger)
	fileService := service.NewFileService(repos.Container, repos.File, logger)
	userService := service.NewUserService(repos.Account, repos.User, 150, logger)

	router := NewRouter(RouterConfig{
		AuthHandler:      NewAuthHandler(authService, logger),
		AccountHandler:   NewAccountHandler(accountService, logger),
		ContainerHandler: NewContainerHandler(containerService, logger),
		FileHandler:      NewFileHandler(containerService, fileService, logger),
		AuthMiddleware:   auth.Middleware(authService),
		Logger:           logger,
	})

	server := httptest.NewServer(router.Handler())
	t.Cleanup(server.Close)

	return &testEnv{server: server, users: userService}
}

// createUser provisions a user and returns its bearer token.
func (env *testEnv) createUser(t *testing.T, accountID int64, username, password string) string {
	t.Helper()
	out, err := env.users.CreateUser(context.Background(), service.CreateUserInput{
		AccountID: accountID,
		Username:  username,
		Password:  password,
	})
	require.NoError(t, err)
	return out.User.Token
}

// do sends a request with an optional token and returns the response
// plus its drained body.
func (env *testEnv) do(t *testing.T, method, path, token, body string) (*http.Response, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, env.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set(auth.HeaderAuthToken, token)
	}

	resp, err := env.server.Client().Do(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	return resp, string(data)
}

func tokenBody(tenantField, tenant, username, password string) string {
	return fmt.Sprintf(
		`{"auth":{"passwordCredentials":{"username":%q,"password":%q},%q:%q}}`,
		username, password, tenantField, tenant,
	)
}

// =============================================================================
// Token issuance
// =============================================================================

func TestIssueToken(t *testing.T) {
	env := newTestEnv(t)
	token := env.createUser(t, 1234, "bob", "secret")

	resp, body := env.do(t, http.MethodPost, "/tokens", "", tokenBody("tenantId", "1234", "bob", "secret"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Access struct {
			Token struct {
				ID      string `json:"id"`
				Expires string `json:"expires"`
				Tenant  struct {
					ID   string `json:"id"`
					Name string `json:"name"`
				} `json:"tenant"`
			} `json:"token"`
			ServiceCatalog []struct {
				Name      string `json:"name"`
				Type      string `json:"type"`
				Endpoints []struct {
					Region    string `json:"region"`
					TenantID  string `json:"tenantId"`
					PublicURL string `json:"publicURL"`
				} `json:"endpoints"`
			} `json:"serviceCatalog"`
			User struct {
				Name string `json:"name"`
			} `json:"user"`
		} `json:"access"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	require.Equal(t, token, payload.Access.Token.ID)
	require.Equal(t, "1234", payload.Access.Token.Tenant.ID)
	require.Equal(t, "1234", payload.Access.Token.Tenant.Name)
	require.Equal(t, "bob", payload.Access.User.Name)

	expires, err := time.Parse("2006-01-02T15:04:05Z", payload.Access.Token.Expires)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().UTC().Add(48*time.Hour), expires, time.Minute)

	require.Len(t, payload.Access.ServiceCatalog, 1)
	catalog := payload.Access.ServiceCatalog[0]
	require.Equal(t, "cloudFiles", catalog.Name)
	require.Equal(t, "object-store", catalog.Type)
	require.Len(t, catalog.Endpoints, 1)
	require.Equal(t, "SLOW", catalog.Endpoints[0].Region)
	require.Equal(t, "1234", catalog.Endpoints[0].TenantID)
	require.Equal(t, env.server.URL+"/slowish/files/1234", catalog.Endpoints[0].PublicURL)
}

func TestIssueToken_TenantName(t *testing.T) {
	env := newTestEnv(t)
	token := env.createUser(t, 1234, "bob", "secret")

	// tenantName carries the same numeric identifier as tenantId.
	resp, body := env.do(t, http.MethodPost, "/tokens", "", tokenBody("tenantName", "1234", "bob", "secret"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, token)
}

func TestIssueToken_Failures(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, 1234, "bob", "secret")

	tests := []struct {
		name string
		body string
	}{
		{"wrong password", tokenBody("tenantId", "1234", "bob", "wrong")},
		{"unknown user", tokenBody("tenantId", "1234", "alice", "secret")},
		{"wrong account", tokenBody("tenantId", "9999", "bob", "secret")},
		{"non-numeric tenant", tokenBody("tenantName", "acme", "bob", "secret")},
		{"missing credentials", `{"auth":{"tenantId":"1234"}}`},
		{"malformed body", `{"auth":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.do(t, http.MethodPost, "/tokens", "", tt.body)
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			require.JSONEq(t, unauthorizedBody, body)
		})
	}
}

// The stored token is returned unchanged by repeated issuance.
func TestIssueToken_Stable(t *testing.T) {
	env := newTestEnv(t)
	token := env.createUser(t, 1234, "bob", "secret")

	for i := 0; i < 2; i++ {
		resp, body := env.do(t, http.MethodPost, "/tokens", "", tokenBody("tenantId", "1234", "bob", "secret"))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body, token)
	}
}

// =============================================================================
// Authorization gate
// =============================================================================

// An invalid token is rejected before resource existence is consulted:
// the same request that would 404 with a valid token yields 401 without
// one.
func TestGate_AuthPrecedesNotFound(t *testing.T) {
	env := newTestEnv(t)
	token := env.createUser(t, 1234, "bob", "secret")

	resp, body := env.do(t, http.MethodGet, "/files/1234/missing", "bad-token", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.JSONEq(t, unauthorizedBody, body)

	resp, _ = env.do(t, http.MethodGet, "/files/1234/missing", token, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGate_Rejections(t *testing.T) {
	env := newTestEnv(t)
	token := env.createUser(t, 1234, "bob", "secret")
	otherToken := env.createUser(t, 5678, "carol", "hunter2")

	tests := []struct {
		name  string
		path  string
		token string
	}{
		{"missing token", "/files/1234", ""},
		{"token of another account", "/files/1234", otherToken},
		{"non-numeric account", "/files/acme", token},
		{"unknown account", "/files/4321", token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.do(t, http.MethodGet, tt.path, tt.token, "")
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			require.JSONEq(t, unauthorizedBody, body)
		})
	}
}

// =============================================================================
// Containers
// =============================================================================

func TestContainerLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.createUser(t, 1234, "bob", "secret")

	// First PUT creates, second PUT finds.
	resp, _ := env.do(t, http.MethodPut, "/files/1234/documents", token, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = env.do(t, http.MethodPut, "/files/1234/documents", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Existence check carries no body.
	resp, body := env.do(t, http.MethodGet, "/files/1234/documents", token, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Empty(t, body)

	resp, _ = env.do(t, http.MethodGet, "/files/1234/missing", token, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestContainerNameTooLong(t *testing.T) {
	env := newTestEnv(t)
	token := env.createUser(t, 1234, "bob", "secret")

	resp, _ := env.do(t, http.MethodPut, "/files/1234/"+strings.Repeat("a", 256), token, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListContainers(t *testing.T) {
	env := newTestEnv(t)
	token := env.createUser(t, 1234, "bob", "secret")

	// Empty account lists as an empty JSON array.
	resp, body := env.do(t, http.MethodGet, "/files/1234", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `[]`, body)

	for _, name := range []string{"foo", "bar", "baz"} {
		resp, _ := env.do(t, http.MethodPut, "/files/1234/"+name, token, "")
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, body = env.do(t, http.MethodGet, "/files/1234", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `[
		{"count":0,"bytes":0,"name":"bar"},
		{"count":0,"bytes":0,"name":"baz"},
		{"count":0,"bytes":0,"name":"foo"}
	]`, body)

	resp, body = env.do(t, http.MethodGet, "/files/1234?marker=bar&end_marker=foo", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `[{"count":0,"bytes":0,"name":"baz"}]`, body)

	resp, body = env.do(t, http.MethodGet, "/files/1234?prefix=ba", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `[
		{"count":0,"bytes":0,"name":"bar"},
		{"count":0,"bytes":0,"name":"baz"}
	]`, body)
}

func TestListContainers_Range(t *testing.T) {
	env := newTestEnv(t)
	token := env.createUser(t, 1234, "bob", "secret")

	names := []string{"this", "is", "a", "collection", "of", "container", "names", "in", "no", "particular", "order"}
	for _, name := range names {
		resp, _ := env.do(t, http.MethodPut, "/files/1234/"+name, token, "")
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, body := env.do(t, http.MethodGet, "/files/1234?marker=order", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `[
		{"count":0,"bytes":0,"name":"particular"},
		{"count":0,"bytes":0,"name":"this"}
	]`, body)

	resp, body = env.do(t, http.MethodGet, "/files/1234?end_marker=container", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `[
		{"count":0,"bytes":0,"name":"a"},
		{"count":0,"bytes":0,"name":"collection"}
	]`, body)
}

// =============================================================================
// Files
// =============================================================================

func TestFileLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.createUser(t, 1234, "bob", "secret")

	// A file PUT creates its container on demand; any body is ignored.
	resp, _ := env.do(t, http.MethodPut, "/files/1234/documents/reports/q1.txt", token, "content that is discarded")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = env.do(t, http.MethodPut, "/files/1234/documents/reports/q1.txt", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/files/1234/documents", token, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Existence check returns an empty 200; content is never stored.
	resp, body := env.do(t, http.MethodGet, "/files/1234/documents/reports/q1.txt", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, body)

	resp, _ = env.do(t, http.MethodGet, "/files/1234/documents/missing.txt", token, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Missing container reads as a missing file.
	resp, _ = env.do(t, http.MethodGet, "/files/1234/nowhere/file.txt", token, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFilePathTooLong(t *testing.T) {
	env := newTestEnv(t)
	token := env.createUser(t, 1234, "bob", "secret")

	resp, _ := env.do(t, http.MethodPut, "/files/1234/documents/"+strings.Repeat("a", 1025), token, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListFiles(t *testing.T) {
	env := newTestEnv(t)
	token := env.createUser(t, 1234, "bob", "secret")

	for _, path := range []string{"b/2.txt", "a/1.txt", "c.txt"} {
		resp, _ := env.do(t, http.MethodPut, "/files/1234/documents/"+path, token, "")
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	// The trailing-slash form of the container path is its listing.
	resp, body := env.do(t, http.MethodGet, "/files/1234/documents/", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `[
		{"bytes":0,"content_type":"application/directory","name":"a/1.txt"},
		{"bytes":0,"content_type":"application/directory","name":"b/2.txt"},
		{"bytes":0,"content_type":"application/directory","name":"c.txt"}
	]`, body)

	resp, body = env.do(t, http.MethodGet, "/files/1234/documents/?prefix=a/", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `[{"bytes":0,"content_type":"application/directory","name":"a/1.txt"}]`, body)

	resp, body = env.do(t, http.MethodGet, "/files/1234/documents/?marker=a/1.txt&end_marker=c.txt", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `[{"bytes":0,"content_type":"application/directory","name":"b/2.txt"}]`, body)

	resp, _ = env.do(t, http.MethodGet, "/files/1234/missing/", token, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// Full flow
// =============================================================================

// Provision, authenticate, follow the catalog URL, create and list.
func TestEndToEndFlow(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, 1234, "bob", "secret")

	resp, body := env.do(t, http.MethodPost, "/tokens", "", tokenBody("tenantId", "1234", "bob", "secret"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Access struct {
			Token struct {
				ID string `json:"id"`
			} `json:"token"`
			ServiceCatalog []struct {
				Endpoints []struct {
					PublicURL string `json:"publicURL"`
				} `json:"endpoints"`
			} `json:"serviceCatalog"`
		} `json:"access"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	token := payload.Access.Token.ID
	publicURL := payload.Access.ServiceCatalog[0].Endpoints[0].PublicURL
	require.True(t, strings.HasSuffix(publicURL, "/slowish/files/1234"))

	// The account path from the catalog URL routes to this server.
	accountPath := strings.TrimPrefix(publicURL, env.server.URL+"/slowish")

	resp, _ = env.do(t, http.MethodPut, accountPath+"/photos", token, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = env.do(t, http.MethodPut, accountPath+"/photos/2024/cat.jpg", token, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, accountPath, token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `[{"count":0,"bytes":0,"name":"photos"}]`, body)

	resp, body = env.do(t, http.MethodGet, accountPath+"/photos/", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `[{"bytes":0,"content_type":"application/directory","name":"2024/cat.jpg"}]`, body)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"status":"healthy"}`, body)
}
