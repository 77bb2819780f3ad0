package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/mkline/member-portal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type authPayload struct {
	Message string      `json:"message"`
	User    userPayload `json:"user"`
}

func postJSON(t *testing.T, client *http.Client, url string, body map[string]string) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := client.Post(url, "application/json", bytes.NewBuffer(data))
	require.NoError(t, err)
	return resp
}

func TestAuthHandler_Register(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := ts.Client(t)

	tests := []struct {
		name           string
		request        map[string]string
		setup          func()
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name: "successful registration",
			request: map[string]string{
				"name":     "Ada Lovelace",
				"email":    "ada@x.com",
				"password": "Secret123",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *http.Response) {
				body := testutil.ReadBody(t, resp)
				// The hash must never leak in any form.
				assert.NotContains(t, body, "password")
				assert.NotContains(t, body, "$2a$")

				var result authPayload
				require.NoError(t, json.Unmarshal([]byte(body), &result))
				assert.Equal(t, "Ada Lovelace", result.User.Name)
				assert.Equal(t, "ada@x.com", result.User.Email)
				assert.NotEmpty(t, result.User.ID)
			},
		},
		{
			name: "email normalized before storage",
			request: map[string]string{
				"name":     "Ada Lovelace",
				"email":    " Ada@X.com ",
				"password": "Secret123",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result authPayload
				testutil.AssertJSONResponse(t, resp, &result)
				assert.Equal(t, "ada@x.com", result.User.Email)
			},
		},
		{
			name: "weak password",
			request: map[string]string{
				"name":     "Ada Lovelace",
				"email":    "ada@x.com",
				"password": "secret",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "short name",
			request: map[string]string{
				"name":     "A",
				"email":    "ada@x.com",
				"password": "Secret123",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "malformed email",
			request: map[string]string{
				"name":     "Ada Lovelace",
				"email":    "not-an-email",
				"password": "Secret123",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate email differing in case",
			request: map[string]string{
				"name":     "Second Ada",
				"email":    "ADA@X.COM",
				"password": "Secret123",
			},
			setup: func() {
				testutil.NewUserBuilder().WithEmail("ada@x.com").Build(t, ts.DB.DB)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "empty request body",
			request:        map[string]string{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.DB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			resp := postJSON(t, client, ts.APIURL("/auth/register"), tt.request)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, rawPassword := testutil.NewUserBuilder().
		WithEmail("login@example.com").
		WithPassword("Correctpass1").
		Build(t, ts.DB.DB)

	t.Run("successful login sets the session cookie", func(t *testing.T) {
		client := ts.Client(t)
		resp := postJSON(t, client, ts.APIURL("/auth/login"), map[string]string{
			"email":    user.Email,
			"password": rawPassword,
		})
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result authPayload
		testutil.AssertJSONResponse(t, resp, &result)
		assert.Equal(t, user.Email, result.User.Email)

		var token *http.Cookie
		for _, c := range resp.Cookies() {
			if c.Name == "token" {
				token = c
			}
		}
		require.NotNil(t, token, "login must set the token cookie")
		assert.NotEmpty(t, token.Value)
		assert.True(t, token.HttpOnly)
		assert.Equal(t, "/", token.Path)
		assert.Greater(t, token.MaxAge, 0)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		client := ts.Client(t)

		wrongPass := postJSON(t, client, ts.APIURL("/auth/login"), map[string]string{
			"email":    user.Email,
			"password": "Wrongpass1",
		})
		defer wrongPass.Body.Close()

		unknown := postJSON(t, client, ts.APIURL("/auth/login"), map[string]string{
			"email":    "nobody@example.com",
			"password": "Wrongpass1",
		})
		defer unknown.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, wrongPass.StatusCode)
		assert.Equal(t, http.StatusUnauthorized, unknown.StatusCode)
		assert.Equal(t, testutil.ReadBody(t, wrongPass), testutil.ReadBody(t, unknown))
	})

	t.Run("missing fields rejected before hitting the store", func(t *testing.T) {
		client := ts.Client(t)
		resp := postJSON(t, client, ts.APIURL("/auth/login"), map[string]string{
			"email": user.Email,
		})
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	ts := testutil.NewTestServer(t)

	t.Run("logout without a session still succeeds", func(t *testing.T) {
		client := ts.Client(t)
		resp := postJSON(t, client, ts.APIURL("/auth/logout"), map[string]string{})
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result map[string]bool
		testutil.AssertJSONResponse(t, resp, &result)
		assert.True(t, result["success"])
	})

	t.Run("logout clears the cookie and kills the session", func(t *testing.T) {
		ts.DB.Truncate(t)
		user, rawPassword := testutil.NewUserBuilder().
			WithEmail("logout@example.com").
			WithPassword("Correctpass1").
			Build(t, ts.DB.DB)

		client := ts.Client(t)

		login := postJSON(t, client, ts.APIURL("/auth/login"), map[string]string{
			"email":    user.Email,
			"password": rawPassword,
		})
		login.Body.Close()
		require.Equal(t, http.StatusOK, login.StatusCode)

		profile, err := client.Get(ts.APIURL("/profile"))
		require.NoError(t, err)
		profile.Body.Close()
		require.Equal(t, http.StatusOK, profile.StatusCode)

		logout := postJSON(t, client, ts.APIURL("/auth/logout"), map[string]string{})
		defer logout.Body.Close()
		require.Equal(t, http.StatusOK, logout.StatusCode)

		var cleared *http.Cookie
		for _, c := range logout.Cookies() {
			if c.Name == "token" {
				cleared = c
			}
		}
		require.NotNil(t, cleared)
		assert.Empty(t, cleared.Value)
		assert.Less(t, cleared.MaxAge, 0)

		after, err := client.Get(ts.APIURL("/profile"))
		require.NoError(t, err)
		defer after.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, after.StatusCode)
	})
}

func TestAuth_EndToEndScenario(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := ts.Client(t)

	register := postJSON(t, client, ts.APIURL("/auth/register"), map[string]string{
		"name":     "Ada Lovelace",
		"email":    "Ada@X.com",
		"password": "Secret123",
	})
	register.Body.Close()
	require.Equal(t, http.StatusCreated, register.StatusCode)

	login := postJSON(t, client, ts.APIURL("/auth/login"), map[string]string{
		"email":    "ada@x.com",
		"password": "Secret123",
	})
	login.Body.Close()
	require.Equal(t, http.StatusOK, login.StatusCode)

	profile, err := client.Get(ts.APIURL("/profile"))
	require.NoError(t, err)
	defer profile.Body.Close()
	require.Equal(t, http.StatusOK, profile.StatusCode)

	var result struct {
		User userPayload `json:"user"`
	}
	testutil.AssertJSONResponse(t, profile, &result)
	assert.Equal(t, "Ada Lovelace", result.User.Name)
	assert.Equal(t, "ada@x.com", result.User.Email)
	assert.NotEmpty(t, result.User.ID)
}

func TestRouteGuard(t *testing.T) {
	ts := testutil.NewTestServer(t)

	login := func(t *testing.T, client *http.Client) {
		ts.DB.Truncate(t)
		user, rawPassword := testutil.NewUserBuilder().
			WithEmail("guard@example.com").
			WithPassword("Correctpass1").
			Build(t, ts.DB.DB)

		resp := postJSON(t, client, ts.APIURL("/auth/login"), map[string]string{
			"email":    user.Email,
			"password": rawPassword,
		})
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	t.Run("profile page without token redirects to login", func(t *testing.T) {
		client := ts.Client(t)
		resp, err := client.Get(ts.BaseURL() + "/profile")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/auth/login", resp.Header.Get("Location"))
	})

	t.Run("profile page with invalid token redirects to login", func(t *testing.T) {
		client := ts.Client(t)
		u, err := url.Parse(ts.BaseURL())
		require.NoError(t, err)
		client.Jar.SetCookies(u, []*http.Cookie{{Name: "token", Value: "notavalidjwt", Path: "/"}})

		resp, err := client.Get(ts.BaseURL() + "/profile")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/auth/login", resp.Header.Get("Location"))
	})

	t.Run("login page with a valid session redirects to profile", func(t *testing.T) {
		client := ts.Client(t)
		login(t, client)

		resp, err := client.Get(ts.BaseURL() + "/auth/login")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/profile", resp.Header.Get("Location"))
	})

	t.Run("login page without a session is served", func(t *testing.T) {
		client := ts.Client(t)
		resp, err := client.Get(ts.BaseURL() + "/auth/login")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))
	})

	t.Run("profile page with a valid session is served", func(t *testing.T) {
		client := ts.Client(t)
		login(t, client)

		resp, err := client.Get(ts.BaseURL() + "/profile")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("home page is never intercepted", func(t *testing.T) {
		client := ts.Client(t)
		resp, err := client.Get(ts.BaseURL() + "/")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
