package ez

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profile-service/internal/domain"
	mdw "profile-service/internal/transport/http/middleware"
)

type echoIn struct {
	Name string `json:"name" binding:"required,max=8"`
}

type echoOut struct {
	Hello string `json:"hello"`
}

func newEngine(actions func(EZ)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	actions(New(r.Group("")))
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterJSONAction(t *testing.T) {
	r := newEngine(func(e EZ) {
		Register(e, Action[echoIn, echoOut]{
			Method: http.MethodPost, Path: "/echo", Binder: BindJSON, Status: http.StatusCreated,
			Handler: func(_ *gin.Context, in *echoIn) (echoOut, error) { return echoOut{Hello: in.Name}, nil },
		})
	})

	w := do(r, http.MethodPost, "/echo", `{"name":"bob"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"hello":"bob"}`, w.Body.String())

	w = do(r, http.MethodPost, "/echo", `{"name":"much-too-long"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"VALIDATION_ERROR"`)

	w = do(r, http.MethodPost, "/echo", ``)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "request body is empty")
}

func TestRegisterOptionalJSON(t *testing.T) {
	type in struct {
		Bio *string `json:"bio"`
	}
	var got *in
	r := newEngine(func(e EZ) {
		Register(e, Action[in, struct{}]{
			Method: http.MethodPatch, Path: "/p", Binder: BindOptionalJSON,
			Handler: func(_ *gin.Context, i *in) (struct{}, error) { got = i; return struct{}{}, nil },
		})
	})

	w := do(r, http.MethodPatch, "/p", ``)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got)
	assert.Nil(t, got.Bio)

	w = do(r, http.MethodPatch, "/p", `{"bio":"x"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got.Bio)
	assert.Equal(t, "x", *got.Bio)

	w = do(r, http.MethodPatch, "/p", `{"bio":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterNoContentAndErrors(t *testing.T) {
	r := newEngine(func(e EZ) {
		Register(e, Action[struct{}, struct{}]{
			Method: http.MethodPost, Path: "/ok", Binder: BindNone, Status: http.StatusNoContent,
			Handler: func(*gin.Context, *struct{}) (struct{}, error) { return struct{}{}, nil },
		})
		Register(e, Action[struct{}, struct{}]{
			Method: http.MethodPost, Path: "/fail", Binder: BindNone,
			Handler: func(*gin.Context, *struct{}) (struct{}, error) {
				return struct{}{}, domain.WrapError(domain.CodeOldPasswordIncorrect, "old password is incorrect", errors.New("x"))
			},
		})
	})

	w := do(r, http.MethodPost, "/ok", `{"ignored":true}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(r, http.MethodPost, "/fail", ``)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "OLD_PASSWORD_INCORRECT", body["code"])
	assert.Equal(t, "old password is incorrect", body["msg"])
}

func TestRegisterAuthRequiresCaller(t *testing.T) {
	r := newEngine(func(e EZ) {
		Register(e, Action[struct{}, string]{
			Method: http.MethodGet, Path: "/me", Auth: true,
			Handler: func(c *gin.Context, _ *struct{}) (string, error) {
				u, _ := mdw.CurrentUser(c)
				return u.ID, nil
			},
		})
	})

	w := do(r, http.MethodGet, "/me", ``)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHENTICATED")
}

func TestBodyTooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mdw.MaxBodyBytes(16))
	Register(New(r.Group("")), Action[echoIn, echoOut]{
		Method: http.MethodPost, Path: "/echo", Binder: BindJSON,
		Handler: func(_ *gin.Context, in *echoIn) (echoOut, error) { return echoOut{Hello: in.Name}, nil },
	})

	big := `{"name":"` + string(bytes.Repeat([]byte("a"), 64)) + `"}`
	w := do(r, http.MethodPost, "/echo", big)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "request body too large")
}
