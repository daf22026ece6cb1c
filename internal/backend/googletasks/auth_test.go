package googletasks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/oauth2"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"tasker/internal/config"
)

func TestSaveAndLoadToken(t *testing.T) {
	cfg := &config.Config{Dir: filepath.Join(t.TempDir(), "nested")}

	err := SaveToken(cfg, &oauth2.Token{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer"})
	assert.NilError(t, err)

	info, err := os.Stat(cfg.TokenPath())
	assert.NilError(t, err)
	assert.Equal(t, info.Mode().Perm(), os.FileMode(0600))

	token, err := LoadToken(cfg)
	assert.NilError(t, err)
	assert.Equal(t, token.AccessToken, "a")
	assert.Equal(t, token.RefreshToken, "r")
}

func TestLoadToken_Invalid(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}

	_, err := LoadToken(cfg)
	assert.ErrorContains(t, err, "failed to read token.json")

	assert.NilError(t, os.WriteFile(cfg.TokenPath(), []byte("{"), 0600))
	_, err = LoadToken(cfg)
	assert.ErrorContains(t, err, "invalid token.json")
}

func TestTokenUsable_NoRefreshToken(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	assert.NilError(t, SaveToken(cfg, &oauth2.Token{AccessToken: "a"}))

	assert.Check(t, !TokenUsable(context.Background(), cfg))
}

func TestCallbackHandler(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		status   int
		wantCode string
		wantErr  string
	}{
		{name: "code", query: "?state=s1&code=abc", status: http.StatusOK, wantCode: "abc"},
		{name: "state mismatch", query: "?state=other&code=abc", status: http.StatusBadRequest},
		{name: "denied", query: "?state=s1&error=access_denied", status: http.StatusForbidden, wantErr: "authorization denied: access_denied"},
		{name: "no code", query: "?state=s1", status: http.StatusBadRequest, wantErr: "no code in callback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codeCh := make(chan string, 1)
			errCh := make(chan error, 1)
			h := callbackHandler("s1", codeCh, errCh)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback"+tt.query, nil))
			assert.Equal(t, rec.Code, tt.status)

			select {
			case code := <-codeCh:
				assert.Equal(t, code, tt.wantCode)
			case err := <-errCh:
				assert.Check(t, is.ErrorContains(err, tt.wantErr))
				assert.Check(t, tt.wantErr != "")
			default:
				assert.Equal(t, tt.wantCode+tt.wantErr, "")
			}
		})
	}
}

func TestCallbackHandler_SecondRedirectDoesNotBlock(t *testing.T) {
	codeCh := make(chan string, 1)
	h := callbackHandler("s1", codeCh, make(chan error, 1))

	for _, code := range []string{"first", "second"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s1&code="+code, nil))
		assert.Equal(t, rec.Code, http.StatusOK)
	}
	assert.Equal(t, <-codeCh, "first")
}
