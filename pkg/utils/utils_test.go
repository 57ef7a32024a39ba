package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateJWT("user-1", "admin@example.com", RoleAdmin, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	claims, err := ExtractClaims(req)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.True(t, claims.IsAdmin())
}

func TestExtractClaims_Cookie(t *testing.T) {
	SetSecret("test-secret")
	token, err := GenerateJWT("user-2", "", "customer", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})

	claims, err := ExtractClaims(req)
	require.NoError(t, err)
	assert.False(t, claims.IsAdmin())
}

func TestExtractClaims_Rejects(t *testing.T) {
	SetSecret("test-secret")
	expired, err := GenerateJWT("user-3", "", RoleAdmin, -time.Minute)
	require.NoError(t, err)

	SetSecret("other-secret")
	foreign, err := GenerateJWT("user-4", "", RoleAdmin, time.Minute)
	require.NoError(t, err)
	SetSecret("test-secret")

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"garbage", "Bearer not-a-token"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + foreign},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			_, err := ExtractClaims(req)
			assert.Error(t, err)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"valid", `{"name":"Shirt"}`, false},
		{"empty", ``, true},
		{"unknown field", `{"name":"Shirt","slug":"x"}`, true},
		{"trailing object", `{"name":"a"}{"name":"b"}`, true},
		{"malformed", `{"name":`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.payload))
			var got body
			err := DecodeJSON(req, &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Shirt", got.Name)
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusBadRequest, "name is required")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"name is required"}`, rec.Body.String())
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Navy Blue", NormalizeName("  Navy \t  Blue "))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestOptionalString(t *testing.T) {
	assert.Nil(t, OptionalString(nil))
	blank := "  "
	assert.Nil(t, OptionalString(&blank))
	text := " cotton "
	got := OptionalString(&text)
	require.NotNil(t, got)
	assert.Equal(t, "cotton", *got)
}

func TestProcessImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, MaxImageWidth+100, 10))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var src bytes.Buffer
	require.NoError(t, png.Encode(&src, img))

	out, contentType, err := ProcessImage(&src, "wide.png")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.True(t, IsImage(contentType))

	decoded, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, MaxImageWidth, decoded.Bounds().Dx())
}

func TestProcessImage_NotAnImage(t *testing.T) {
	_, _, err := ProcessImage(strings.NewReader("plain text"), "notes.txt")
	assert.Error(t, err)
}
