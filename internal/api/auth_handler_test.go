package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	var resp AuthResponse
	rec := env.do(t, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada@Example.com",
		Password:  "password123",
	}, &resp)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, "Ada", resp.User.FirstName)
	assert.NotEmpty(t, resp.Token)

	// The issued token is immediately usable on a protected route.
	listRec := env.do(t, http.MethodGet, "/api/tasks", resp.Token, nil, nil)
	assert.Equal(t, http.StatusOK, listRec.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.register(t, "ada@example.com")

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "ada@example.com",
		Password:  "different456",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already exists")
}

func TestRegister_ValidationErrors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{
			name: "missing email",
			req:  RegisterRequest{FirstName: "Ada", LastName: "Lovelace", Password: "password123"},
		},
		{
			name: "malformed email",
			req:  RegisterRequest{FirstName: "Ada", LastName: "Lovelace", Email: "nope", Password: "password123"},
		},
		{
			name: "short password",
			req:  RegisterRequest{FirstName: "Ada", LastName: "Lovelace", Email: "a@x.com", Password: "short"},
		},
		{
			name: "missing names",
			req:  RegisterRequest{Email: "a@x.com", Password: "password123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := env.do(t, http.MethodPost, "/api/auth/register", "", tt.req, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.register(t, "ada@example.com")

	var resp AuthResponse
	rec := env.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email:    "ada@example.com",
		Password: "password123",
	}, &resp)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.Token)
}

func TestLogin_BadCredentials(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.register(t, "ada@example.com")

	tests := []struct {
		name string
		req  LoginRequest
	}{
		{"wrong password", LoginRequest{Email: "ada@example.com", Password: "wrong-password"}},
		{"unknown account", LoginRequest{Email: "nobody@example.com", Password: "password123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := env.do(t, http.MethodPost, "/api/auth/login", "", tt.req, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "Invalid email or password")
		})
	}
}

func TestLogin_MalformedBody(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", "not-an-object", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
