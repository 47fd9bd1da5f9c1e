package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCredentials struct {
	token   string
	expired int
}

func (f *fakeCredentials) Token() string { return f.token }

func (f *fakeCredentials) Expire(ctx context.Context) {
	f.expired++
	f.token = ""
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	var gotRequestIDs []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestIDs = r.Header.Values(RequestIDHeader)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"products":[]}`))
	}))
	defer ts.Close()

	creds := &fakeCredentials{token: "t1"}
	client := NewClient(Config{APIURL: ts.URL}).WithCredentials(creds)

	err := client.JSON(context.Background(), http.MethodGet, "/api/v1/product", nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, "Bearer t1", gotAuth)
	require.Len(t, gotRequestIDs, 1)
	_, err = uuid.Parse(gotRequestIDs[0])
	assert.NoError(t, err)
}

func TestClient_AnonymousSendsNoAuthorization(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success":true}`))
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL})
	assert.NoError(t, client.JSON(context.Background(), http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "a@b.com"}, nil))
	assert.Empty(t, gotAuth)
}

func TestClient_UnauthorizedWithTokenExpires(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"Token expired"}`))
	}))
	defer ts.Close()

	creds := &fakeCredentials{token: "stale"}
	client := NewClient(Config{APIURL: ts.URL}).WithCredentials(creds)

	err := client.JSON(context.Background(), http.MethodGet, "/api/v1/user/profile", nil, nil)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Token expired", err.Error())
	assert.Equal(t, 1, creds.expired)
}

func TestClient_UnauthorizedWithoutTokenDoesNotExpire(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"Invalid email or password"}`))
	}))
	defer ts.Close()

	creds := &fakeCredentials{}
	client := NewClient(Config{APIURL: ts.URL}).WithCredentials(creds)

	err := client.JSON(context.Background(), http.MethodPost, "/api/v1/auth/login", map[string]string{}, nil)
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", err.Error())
	assert.Equal(t, 0, creds.expired)
}

func TestClient_ErrorWithoutEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL})
	err := client.JSON(context.Background(), http.MethodGet, "/api/v1/product", nil, nil)
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Failed to fetch products", Message(err, "Failed to fetch products"))
}

func TestClient_SuccessFalseIsAnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"Product not found"}`))
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL})
	var out map[string]any
	err := client.JSON(context.Background(), http.MethodGet, "/api/v1/product/9", nil, &out)
	require.Error(t, err)
	assert.Equal(t, "Product not found", Message(err, "Failed to fetch product"))
}

func TestClient_InvalidJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`invalid-json`))
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL})
	var out map[string]any
	err := client.JSON(context.Background(), http.MethodGet, "/api/v1/product", nil, &out)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid character")
	assert.Equal(t, "Failed to fetch products", Message(err, "Failed to fetch products"))
}

func TestClient_NetworkErrorUsesFallback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	client := NewClient(Config{APIURL: url})
	err := client.JSON(context.Background(), http.MethodGet, "/api/v1/product", nil, nil)
	require.Error(t, err)
	assert.Equal(t, "Login failed", Message(err, "Login failed"))
}

func TestClient_DecodesBrotli(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "br", r.Header.Get("Accept-Encoding"))
		w.Header().Set("Content-Encoding", "br")
		bw := brotli.NewWriter(w)
		json.NewEncoder(bw).Encode(map[string]any{"success": true, "message": "compressed"})
		bw.Close()
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL})
	var out Envelope
	require.NoError(t, client.JSON(context.Background(), http.MethodGet, "/", nil, &out))
	assert.Equal(t, "compressed", out.Message)
}

func TestClient_EmptyBodyOnDelete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL + "/"})
	var out Envelope
	assert.NoError(t, client.JSON(context.Background(), http.MethodDelete, "/api/v1/product/1", nil, &out))
}

func TestClient_Multipart(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Lamp", r.FormValue("name"))
		assert.Equal(t, "199", r.FormValue("price"))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "lamp.png", header.Filename)
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))
		assert.True(t, bytes.Equal(png, data))

		w.Write([]byte(`{"success":true}`))
	}))
	defer ts.Close()

	form := NewForm().
		Set("name", "Lamp").
		Set("price", "199").
		SetFile("image", &File{Name: "lamp.png", Data: png})

	client := NewClient(Config{APIURL: ts.URL})
	assert.NoError(t, client.Multipart(context.Background(), http.MethodPost, "/api/v1/product", form, nil))
}
