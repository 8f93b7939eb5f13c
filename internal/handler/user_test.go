package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserHandler_Register(t *testing.T) {
	env := newAPITestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"username": "bento",
		"password": "rahasia",
		"name":     "Bento",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data := dataOf(t, rec)
	assert.NotEmpty(t, data["id"])
	assert.Equal(t, "bento", data["username"])
	assert.Equal(t, "Bento", data["name"])
	assert.NotContains(t, data, "password")
	assert.NotContains(t, data, "token")
}

func TestUserHandler_RegisterInvalid(t *testing.T) {
	env := newAPITestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"username": "",
		"password": "",
		"name":     "",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs := errorsOf(t, rec)
	assert.Equal(t, []any{"The username field is required."}, errs["username"])
	assert.Equal(t, []any{"The password field is required."}, errs["password"])
	assert.Equal(t, []any{"The name field is required."}, errs["name"])
}

func TestUserHandler_RegisterDuplicate(t *testing.T) {
	env := newAPITestEnv(t)
	env.register(t, "bento")

	rec := env.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"username": "bento",
		"password": "rahasia",
		"name":     "Bento Lagi",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, map[string]any{"username": "bento", "name": "Bento Lagi"}, body["data"])
	assert.Equal(t, map[string]any{"username": []any{"username already registered"}}, body["errors"])
}

func TestUserHandler_MalformedBody(t *testing.T) {
	env := newAPITestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/users", "", `{"username":`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", messageOf(t, rec))
}

func TestUserHandler_Login(t *testing.T) {
	env := newAPITestEnv(t)
	env.register(t, "bento")

	rec := env.do(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"username": "bento",
		"password": "rahasia",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := dataOf(t, rec)
	assert.Equal(t, "bento", data["username"])
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)

	current := env.do(t, http.MethodGet, "/api/users/current", token, nil)
	assert.Equal(t, http.StatusOK, current.Code)
}

func TestUserHandler_LoginFailures(t *testing.T) {
	env := newAPITestEnv(t)
	env.register(t, "bento")

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
	}{
		{"wrong password", map[string]string{"username": "bento", "password": "salah"}, http.StatusUnauthorized},
		{"unknown username", map[string]string{"username": "salah", "password": "rahasia"}, http.StatusUnauthorized},
		{"missing fields", map[string]string{}, http.StatusBadRequest},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/users/login", "", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "username or password wrong", messageOf(t, rec))
			}
		})
	}
}

func TestUserHandler_Current(t *testing.T) {
	env := newAPITestEnv(t)
	token := env.login(t, "bento")

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"raw token", token, http.StatusOK},
		{"bearer token", "Bearer " + token, http.StatusOK},
		{"missing token", "", http.StatusUnauthorized},
		{"wrong token", "salah", http.StatusUnauthorized},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/api/users/current", tt.header, nil)
			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				data := dataOf(t, rec)
				assert.Equal(t, "bento", data["username"])
				assert.Equal(t, "bento", data["name"])
				return
			}
			assert.Equal(t, "unauthorized", messageOf(t, rec))
		})
	}
}

func TestUserHandler_UpdateName(t *testing.T) {
	env := newAPITestEnv(t)
	token := env.login(t, "bento")

	rec := env.do(t, http.MethodPatch, "/api/users/current", token, map[string]string{"name": "Eko"})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Eko", dataOf(t, rec)["name"])

	current := env.do(t, http.MethodGet, "/api/users/current", token, nil)
	assert.Equal(t, "Eko", dataOf(t, current)["name"])
}

func TestUserHandler_UpdatePassword(t *testing.T) {
	env := newAPITestEnv(t)
	token := env.login(t, "bento")

	rec := env.do(t, http.MethodPatch, "/api/users/current", token, map[string]string{"password": "baru"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	old := env.do(t, http.MethodPost, "/api/users/login", "", map[string]string{"username": "bento", "password": "rahasia"})
	assert.Equal(t, http.StatusUnauthorized, old.Code)

	fresh := env.do(t, http.MethodPost, "/api/users/login", "", map[string]string{"username": "bento", "password": "baru"})
	assert.Equal(t, http.StatusOK, fresh.Code)
}

func TestUserHandler_UpdateInvalid(t *testing.T) {
	env := newAPITestEnv(t)
	token := env.login(t, "bento")

	rec := env.do(t, http.MethodPatch, "/api/users/current", token, map[string]string{"name": ""})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorsOf(t, rec), "name")
}

func TestUserHandler_Logout(t *testing.T) {
	env := newAPITestEnv(t)
	token := env.login(t, "bento")

	rec := env.do(t, http.MethodDelete, "/api/users/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["data"])

	again := env.do(t, http.MethodDelete, "/api/users/logout", token, nil)
	assert.Equal(t, http.StatusUnauthorized, again.Code)

	current := env.do(t, http.MethodGet, "/api/users/current", token, nil)
	assert.Equal(t, http.StatusUnauthorized, current.Code)
}
