package netsvc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNetworkSessionFetchBlockedByCSP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should have been blocked before reaching the network")
	}))
	defer srv.Close()

	session := NewNetworkSession(NewClient(), NewJar(), nil)
	session.SetCurrentURL(srv.URL + "/")
	session.SetCSP(ParseCSP("script-src 'self'"))

	_, err := session.Fetch(context.Background(), http.MethodGet, "https://evil.example/app.js",
		map[string]string{"Accept": "application/javascript"}, nil)
	require.Error(t, err)
}

func TestNetworkSessionFetchAllowsSameOriginUnderCSP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	session := NewNetworkSession(NewClient(), NewJar(), nil)
	session.SetCurrentURL(srv.URL + "/")
	session.SetCSP(ParseCSP("script-src 'self'"))

	resp, err := session.Fetch(context.Background(), http.MethodGet, srv.URL+"/app.js",
		map[string]string{"Accept": "application/javascript"}, nil)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
}

// S3 — a Set-Cookie response from one origin is attached to subsequent
// requests to that same origin but not to a different one.
func TestNetworkSessionSetCookieScopedToIssuingOrigin(t *testing.T) {
	var sawCookie string
	srvA := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			w.Header().Set("Set-Cookie", "session=abc123; Path=/")
			w.WriteHeader(200)
			return
		}
		sawCookie = r.Header.Get("Cookie")
		w.WriteHeader(200)
	}))
	defer srvA.Close()
	srvB := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawCookie = r.Header.Get("Cookie")
		w.WriteHeader(200)
	}))
	defer srvB.Close()

	session := NewNetworkSession(NewClient(), NewJar(), nil)

	_, err := session.Fetch(context.Background(), http.MethodGet, srvA.URL+"/login", nil, nil)
	require.NoError(t, err)

	sawCookie = ""
	_, err = session.Fetch(context.Background(), http.MethodGet, srvA.URL+"/page", nil, nil)
	require.NoError(t, err)
	require.Contains(t, sawCookie, "session=abc123")

	sawCookie = ""
	_, err = session.Fetch(context.Background(), http.MethodGet, srvB.URL+"/page", nil, nil)
	require.NoError(t, err)
	require.NotContains(t, sawCookie, "session=abc123")
}

func TestFetchDocumentAdoptsResponsePolicyHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			w.Header().Set("Content-Security-Policy", "script-src 'none'")
			w.Write([]byte("<html></html>"))
			return
		}
		t.Fatalf("subresource %s should have been blocked by the document's CSP", r.URL.Path)
	}))
	defer srv.Close()

	session := NewNetworkSession(NewClient(), NewJar(), nil)
	_, err := session.FetchDocument(context.Background(), srv.URL+"/", nil)
	require.NoError(t, err)

	_, err = session.Fetch(context.Background(), http.MethodGet, srv.URL+"/app.js",
		map[string]string{"Accept": "application/javascript"}, nil)
	require.Error(t, err)
}

func TestNetworkSessionMergesBrowserHeadersOverUserHeaders(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(200)
	}))
	defer srv.Close()

	session := NewNetworkSession(NewClient(), NewJar(), map[string]string{"User-Agent": "EngineCore-Browser/1.0"})
	_, err := session.Fetch(context.Background(), http.MethodGet, srv.URL+"/",
		map[string]string{"User-Agent": "SomethingElse/9.9"}, nil)
	require.NoError(t, err)
	require.Equal(t, "EngineCore-Browser/1.0", gotUA)
}
