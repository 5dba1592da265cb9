package render

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_JSONWithStatus(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	JSONWithStatus(w, map[string]string{"hello": "world"}, http.StatusCreated)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	require.JSONEq(t, `{"hello": "world"}`, w.Body.String())
}

func Test_ServiceError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	ServiceError(w, "Something went badly", http.StatusConflict)

	require.Equal(t, http.StatusConflict, w.Code)
	require.JSONEq(t, `
		{
			"error": "service_error",
			"message": "Something went badly"
		}`, w.Body.String())
}

func Test_BindAndValidate(t *testing.T) {
	t.Parallel()

	type request struct {
		Email    string `json:"email" validate:"required,email"`
		Username string `json:"username" validate:"required,min=2"`
		Ignored  string `json:"-"`
	}

	newRequest := func(body string) *http.Request {
		return httptest.NewRequest("POST", "/whatever", strings.NewReader(body))
	}

	t.Run("valid body decoded", func(t *testing.T) {
		w := httptest.NewRecorder()
		got, err := BindAndValidate[request](w, newRequest(`{"email": "a@b.io", "username": "alice"}`))

		require.NoError(t, err)
		assert.Equal(t, "a@b.io", got.Email)
		assert.Equal(t, "alice", got.Username)
	})

	t.Run("malformed json is decoding error", func(t *testing.T) {
		w := httptest.NewRecorder()
		_, err := BindAndValidate[request](w, newRequest(`{"email": `))

		require.Error(t, err)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), DecodingErrorType)
	})

	t.Run("wrong field type names the field", func(t *testing.T) {
		w := httptest.NewRecorder()
		_, err := BindAndValidate[request](w, newRequest(`{"email": 42, "username": "alice"}`))

		require.Error(t, err)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid data type for field 'email'")
	})

	t.Run("validation errors use json tag names", func(t *testing.T) {
		w := httptest.NewRecorder()
		_, err := BindAndValidate[request](w, newRequest(`{"email": "not-an-email", "username": "a"}`))

		require.Error(t, err)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.JSONEq(t, `
			{
				"error": "validation_failed",
				"message": "Request validation failed",
				"fields": {
					"email": "Value is not a valid email address",
					"username": "Value is too short (minimum 2)"
				}
			}`, w.Body.String())
	})

	t.Run("missing required fields reported", func(t *testing.T) {
		w := httptest.NewRecorder()
		_, err := BindAndValidate[request](w, newRequest(`{}`))

		require.Error(t, err)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "This field is required")
	})
}
