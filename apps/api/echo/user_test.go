package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/academiplan/backend/core/user"
)

func Test_userApi_register(t *testing.T) {
	app, svcs := newTestServer(t)

	registerUser(t, svcs.usrSvc, "taken", "v3ryS3cur3!")

	tests := []httpTest{
		{
			name: "empty body", body: []byte("{}"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"username": "this field is required",
				"password": "this field is required",
			}),
		},
		{
			name: "short username", body: marchallObj(t, user.NewUser{Username: "ab", Password: "v3ryS3cur3!"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"username": "username must be at least 3 characters in length"}),
		},
		{
			name: "weak password", body: marchallObj(t, user.NewUser{Username: "newbie", Password: "12345678"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"password": "password cannot be entirely numeric"}),
		},
		{
			name: "username taken", body: marchallObj(t, user.NewUser{Username: "taken", Password: "v3ryS3cur3!"}),
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: "a user with this username already exists"}),
		},
		{
			name: "ok", body: marchallObj(t, user.NewUser{Name: "Awa", Username: "awa_01", Email: "awa@test.cd", Password: "v3ryS3cur3!"}),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/register", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("created user", func(t *testing.T) {
		body := marchallObj(t, user.NewUser{Username: "checked", Password: "v3ryS3cur3!"})
		req, rec := newRequest(http.MethodPost, "/register", body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v, want %v", rec.Code, http.StatusCreated)
		}
		var usr user.User
		if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if usr.ID == "" {
			t.Error("response has empty id")
		}
		if !usr.IsActive {
			t.Error("account must be active on registration")
		}
	})
}

func Test_userApi_login(t *testing.T) {
	app, svcs := newTestServer(t)

	registerUser(t, svcs.usrSvc, "awa_01", "v3ryS3cur3!")

	invalidCreds := marchallObj(t, httpErr{Error: "invalid credentials"})
	tests := []httpTest{
		{
			name: "empty body", body: []byte("{}"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"username": "this field is required",
				"password": "this field is required",
			}),
		},
		{
			name: "unknown user", body: marchallObj(t, LoginRequest{Username: "ghost", Password: "v3ryS3cur3!"}),
			wantCode: http.StatusUnauthorized, wantData: invalidCreds,
		},
		{
			name: "wrong password", body: marchallObj(t, LoginRequest{Username: "awa_01", Password: "wr0ngPass!"}),
			wantCode: http.StatusUnauthorized, wantData: invalidCreds,
		},
		{
			name: "ok", body: marchallObj(t, LoginRequest{Username: "awa_01", Password: "v3ryS3cur3!"}),
			wantCode: http.StatusOK,
		},
		{
			name: "ok (case-insensitive username)", body: marchallObj(t, LoginRequest{Username: "AWA_01", Password: "v3ryS3cur3!"}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/login", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var resp LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				if resp.Token == "" {
					t.Error("response has empty token")
				}
				if resp.Username != "awa_01" {
					t.Errorf("username = %q, want awa_01", resp.Username)
				}
			}
		})
	}
}

func Test_userApi_refreshToken(t *testing.T) {
	app, svcs := newTestServer(t)

	usr := registerUser(t, svcs.usrSvc, "awa_01", "v3ryS3cur3!")
	token := getToken(t, usr)

	// mint an already-expired token
	origDelta := jwtExpirationDelta
	jwtExpirationDelta = -time.Minute
	expiredToken := getToken(t, usr)
	jwtExpirationDelta = origDelta

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "garbage token", token: "lol.lmao.rofl", wantCode: http.StatusUnauthorized},
		{name: "expired token", token: expiredToken, wantCode: http.StatusUnauthorized},
		{name: "ok", token: token, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/token-refresh", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var resp LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				if resp.Token == "" {
					t.Error("response has empty token")
				}
			}
		})
	}
}
