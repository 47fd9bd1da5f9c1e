package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/console/internal/apiclient"
	"storefront/console/internal/store"
)

func newBackend(t *testing.T, token string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/v1/auth/login":
			w.Write([]byte(`{"success":true,"token":"t1","user":{"id":7,"fullName":"Ada Lovelace","email":"a@b.com"}}`))
		case r.Header.Get("Authorization") != "Bearer "+token:
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false,"message":"Token expired"}`))
		case r.URL.Path == "/api/v1/product/1":
			w.Write([]byte(`{"success":true,"product":{"id":"1","name":"Lamp","price":"75","originalPrice":"100","discountedPrice":"75"}}`))
		case r.URL.Path == "/api/v1/product":
			w.Write([]byte(`{"success":true,"products":[{"id":"1","name":"Lamp","price":"75","originalPrice":"100","discountedPrice":"75"},{"id":"2","name":"Desk","price":2500}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func runCLI(t *testing.T, ts *httptest.Server, path, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	api := apiclient.NewClient(apiclient.Config{APIURL: ts.URL})
	a := newApp(api, store.NewFileStore(path), strings.NewReader(stdin), &out)
	err := a.run(context.Background(), args)
	return out.String(), err
}

func TestCLI_LoginThenListProducts(t *testing.T) {
	ts := newBackend(t, "t1")
	path := filepath.Join(t.TempDir(), "session.json")

	out, err := runCLI(t, ts, path, "pw\n", "login", "-email", "a@b.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Password: ")
	assert.Contains(t, out, "signed in as Ada Lovelace")

	st := store.NewFileStore(path)
	assert.Equal(t, "t1", st.Token())

	out, err = runCLI(t, ts, path, "", "products", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Lamp")
	assert.Contains(t, out, "25% OFF")
	assert.Contains(t, out, "₹2,500.00")

	out, err = runCLI(t, ts, path, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Email:  a@b.com")
	assert.Contains(t, out, "Mobile: Not provided")
}

func TestCLI_ShowDiscountedProduct(t *testing.T) {
	ts := newBackend(t, "t1")
	path := filepath.Join(t.TempDir(), "session.json")

	_, err := runCLI(t, ts, path, "", "login", "-email", "a@b.com", "-password", "pw")
	require.NoError(t, err)

	out, err := runCLI(t, ts, path, "", "products", "show", "-id", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Price:       ₹75.00 (was ₹100.00, 25% OFF)")
	assert.Equal(t, 1, strings.Count(out, "Price:"))
}

func TestCLI_ExpiredTokenSignsOut(t *testing.T) {
	ts := newBackend(t, "other")
	path := filepath.Join(t.TempDir(), "session.json")

	_, err := runCLI(t, ts, path, "", "login", "-email", "a@b.com", "-password", "pw")
	require.NoError(t, err)

	out, err := runCLI(t, ts, path, "", "products", "list")
	require.Error(t, err)
	assert.Equal(t, "Token expired", err.Error())
	assert.Contains(t, out, "Your session has expired")

	st := store.NewFileStore(path)
	assert.Empty(t, st.Token())
	assert.Nil(t, st.User())

	_, err = runCLI(t, ts, path, "", "products", "list")
	assert.ErrorIs(t, err, errSignedOut)
}

func TestCLI_Usage(t *testing.T) {
	ts := newBackend(t, "t1")
	path := filepath.Join(t.TempDir(), "session.json")

	_, err := runCLI(t, ts, path, "")
	assert.ErrorIs(t, err, errUsage)

	_, err = runCLI(t, ts, path, "", "logout")
	require.NoError(t, err)

	_, err = runCLI(t, ts, path, "", "whoami")
	assert.ErrorIs(t, err, errSignedOut)
}
