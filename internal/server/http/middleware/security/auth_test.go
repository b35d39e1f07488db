package security

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sysadmin/internal/security/jwt"
	"go-sysadmin/internal/util/retcode"
)

func newAuthRouter(j *jwt.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(j))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":     c.GetInt64("user_id"),
			"username":    c.GetString("username"),
			"permissions": c.GetStringSlice("permissions"),
		})
	})
	return r
}

func doAuth(t *testing.T, r *gin.Engine, header string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bodyCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var body struct {
		Code int `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code
}

func TestAuthRejectsBadHeaders(t *testing.T) {
	j := jwt.NewManager("unit-test-secret-0123456789", 3600, "test")
	r := newAuthRouter(j)

	cases := []struct {
		name   string
		header string
	}{
		{"缺失", ""},
		{"非 Bearer 方案", "Token abc"},
		{"小写 bearer", "bearer abc"},
		{"只有 Bearer", "Bearer"},
		{"三段", "Bearer a b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doAuth(t, r, tc.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, retcode.AUTH_ERROR, bodyCode(t, w))
		})
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	j := jwt.NewManager("unit-test-secret-0123456789", 3600, "test")
	r := newAuthRouter(j)

	w := doAuth(t, r, "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, retcode.AUTH_ERROR, bodyCode(t, w))
}

func TestAuthExpiredTokenDistinctCode(t *testing.T) {
	j := jwt.NewManager("unit-test-secret-0123456789", -60, "test")
	token, err := j.Issue(7, "lisi", nil)
	require.NoError(t, err)

	r := newAuthRouter(j)
	w := doAuth(t, r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, retcode.ACCESS_TOKEN_TIMEOUT, bodyCode(t, w))
}

func TestAuthValidTokenSetsIdentity(t *testing.T) {
	j := jwt.NewManager("unit-test-secret-0123456789", 3600, "test")
	token, err := j.Issue(7, "lisi", []string{"/api/add_user"})
	require.NoError(t, err)

	r := newAuthRouter(j)
	w := doAuth(t, r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		UserID      int64    `json:"user_id"`
		Username    string   `json:"username"`
		Permissions []string `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.UserID)
	assert.Equal(t, "lisi", body.Username)
	assert.Equal(t, []string{"/api/add_user"}, body.Permissions)
}

func TestAuthWrongSecretRejected(t *testing.T) {
	other := jwt.NewManager("another-secret-9876543210", 3600, "test")
	token, err := other.Issue(7, "lisi", nil)
	require.NoError(t, err)

	j := jwt.NewManager("unit-test-secret-0123456789", 3600, "test")
	r := newAuthRouter(j)
	w := doAuth(t, r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, retcode.AUTH_ERROR, bodyCode(t, w))
}
