package server

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"io"
	"log/slog"
	"math/big"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/ai"
	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/config"
	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/document"
	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeParser struct {
	mu     sync.Mutex
	last   document.File
	result document.ParsedDocument
}

func (p *fakeParser) Parse(_ context.Context, f document.File) document.ParsedDocument {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = f
	return p.result
}

type fakeOCR struct {
	available bool
}

func (o fakeOCR) GetModelInfo(context.Context) any {
	return &ai.ModelInfo{Name: "gemini-test", Available: o.available}
}

func (o fakeOCR) GetCircuitBreakerStats() map[string]any {
	return map[string]any{"overall_healthy": true}
}

func newTestServer(t *testing.T, modify func(*ServerConfig)) (*Server, *fakeParser) {
	t.Helper()
	parser := &fakeParser{result: document.ParsedDocument{
		Text:   "Jane Doe",
		Method: document.MethodPDFTextLayer,
	}}
	cfg := ServerConfig{
		Host:           "localhost",
		Port:           "0",
		Version:        "test",
		TLSConfig:      config.TLSConfig{Mode: "disabled"},
		MaxRequestSize: 1 << 20,
		Parser:         parser,
	}
	if modify != nil {
		modify(&cfg)
	}
	s := NewServer(&config.Config{}, cfg, errors.NewLoggerWithWriter(io.Discard, slog.LevelDebug))
	t.Cleanup(s.cleanupRateLimiter)
	return s, parser
}

type upload struct {
	formMediaType string
	partType      string
	content       []byte
}

func multipartRequest(t *testing.T, u upload) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if u.formMediaType != "" {
		require.NoError(t, mw.WriteField("mediaType", u.formMediaType))
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="resume.bin"`)
	if u.partType != "" {
		header.Set("Content-Type", u.partType)
	}
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(u.content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/parse", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestParseHandlerSuccess(t *testing.T) {
	s, parser := newTestServer(t, nil)

	rec := serve(s, multipartRequest(t, upload{
		formMediaType: document.MediaTypePDF,
		partType:      "image/png",
		content:       []byte("%PDF-1.4"),
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Jane Doe", body["text"])
	assert.Equal(t, "PdfTextLayer", body["method"])
	assert.Equal(t, document.MediaTypePDF, parser.last.MediaType, "form field wins")
	assert.Equal(t, "resume.bin", parser.last.Name)
}

func TestParseHandlerMediaTypeFallbacks(t *testing.T) {
	s, parser := newTestServer(t, nil)

	serve(s, multipartRequest(t, upload{partType: "image/png", content: []byte("x")}))
	assert.Equal(t, "image/png", parser.last.MediaType)

	serve(s, multipartRequest(t, upload{partType: "application/octet-stream", content: []byte("%PDF-1.7\n")}))
	assert.Equal(t, document.MediaTypePDF, parser.last.MediaType, "octet-stream falls through to sniffing")
}

func TestParseHandlerExtractionFailure(t *testing.T) {
	s, parser := newTestServer(t, nil)
	parser.result = document.ParsedDocument{
		Method:    document.MethodError,
		Error:     "Unsupported file type: text/plain",
		ErrorKind: document.ErrorKindUnsupportedFormat,
	}

	rec := serve(s, multipartRequest(t, upload{formMediaType: "text/plain", content: []byte("hi")}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "UnsupportedFormat", body["error"])
	assert.Equal(t, "Unsupported file type: text/plain", body["message"])
}

func TestParseHandlerMissingFile(t *testing.T) {
	s, _ := newTestServer(t, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("mediaType", document.MediaTypePDF))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/parse", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := serve(s, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing file", decode(t, rec)["error"])
}

func TestParseHandlerTooLarge(t *testing.T) {
	s, _ := newTestServer(t, func(c *ServerConfig) { c.MaxRequestSize = 64 })

	rec := serve(s, multipartRequest(t, upload{formMediaType: document.MediaTypePDF, content: bytes.Repeat([]byte("x"), 1024)}))
	assert.Contains(t, []int{http.StatusBadRequest, http.StatusRequestEntityTooLarge}, rec.Code)
}

func TestScoreEndpoints(t *testing.T) {
	s, _ := newTestServer(t, nil)

	tests := []struct {
		path  string
		body  string
		field string
	}{
		{"/score/ats", `{"resumeText": "Led a team of 5 engineers and increased revenue by 20%"}`, "score"},
		{"/score/star", `{"answer": "The situation was tense. I decided to act and the result was a 30% gain."}`, "overallScore"},
		{"/score/tone", `{"rewritten": "Hi team, could you please review the draft by Friday? Thanks!", "targetTone": "friendly"}`, "score"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(s, jsonRequest(tt.path, tt.body))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Contains(t, decode(t, rec), tt.field)
		})
	}
}

func TestScoreEndpointsRejectInvalidBodies(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := serve(s, jsonRequest("/score/ats", `{"text": "wrong field"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid request body", resp.Error)
	assert.NotEmpty(t, resp.Details)

	rec = serve(s, jsonRequest("/score/tone", `{"rewritten": "hi"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(s, jsonRequest("/score/star", `{not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/score/ats", strings.NewReader(`{"resumeText": "x"}`))
	req.Header.Set("Content-Type", "text/plain")
	rec = serve(s, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "content-type must be application/json")
}

func TestScoreEndpointAcceptsCharsetParameter(t *testing.T) {
	s, _ := newTestServer(t, nil)
	req := jsonRequest("/score/ats", `{"resumeText": "Managed budgets"}`)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	assert.Equal(t, http.StatusOK, serve(s, req).Code)
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/score/ats", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAuthMiddleware(t *testing.T) {
	s, _ := newTestServer(t, func(c *ServerConfig) { c.APIKeys = []string{"secret-key-123"} })
	body := `{"resumeText": "Built things"}`

	rec := serve(s, jsonRequest("/score/ats", body))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Missing API key", decode(t, rec)["error"])

	req := jsonRequest("/score/ats", body)
	req.Header.Set("X-API-Key", "wrong")
	assert.Equal(t, http.StatusUnauthorized, serve(s, req).Code)

	req = jsonRequest("/score/ats", body)
	req.Header.Set("X-API-Key", "secret-key-123")
	assert.Equal(t, http.StatusOK, serve(s, req).Code)

	req = jsonRequest("/score/ats", body)
	req.Header.Set("Authorization", "Bearer secret-key-123")
	assert.Equal(t, http.StatusOK, serve(s, req).Code)

	assert.Equal(t, http.StatusOK, serve(s, httptest.NewRequest(http.MethodGet, "/health", nil)).Code,
		"health is public")
}

func TestRateLimitMiddleware(t *testing.T) {
	s, _ := newTestServer(t, func(c *ServerConfig) {
		c.RateLimit = &config.RateLimitConfig{Enabled: true, RequestsPerMin: 1, BurstCapacity: 1, ByIP: true}
	})
	body := `{"answer": "I did it"}`

	first := jsonRequest("/score/star", body)
	first.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, http.StatusOK, serve(s, first).Code)

	second := jsonRequest("/score/star", body)
	second.RemoteAddr = "10.0.0.1:5678"
	assert.Equal(t, http.StatusTooManyRequests, serve(s, second).Code)

	other := jsonRequest("/score/star", body)
	other.RemoteAddr = "10.0.0.2:1234"
	assert.Equal(t, http.StatusOK, serve(s, other).Code, "limits are per client")

	stats := decode(t, serve(s, httptest.NewRequest(http.MethodGet, "/stats", nil)))
	limiting := stats["rate_limiting"].(map[string]any)
	assert.EqualValues(t, 2, limiting["active_limiters"])
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(60, time.Minute, 2, errors.NewLoggerWithWriter(io.Discard, slog.LevelDebug))
	t.Cleanup(rl.Close)

	assert.True(t, rl.Allow("ip:10.0.0.1"))
	assert.True(t, rl.Allow("ip:10.0.0.2"))
	assert.EqualValues(t, 2, rl.GetStats()["active_limiters"])

	rl.evictIdle(time.Now().Add(30 * time.Second))
	assert.EqualValues(t, 2, rl.GetStats()["active_limiters"], "recently seen clients stay")

	rl.evictIdle(time.Now().Add(2 * time.Minute))
	assert.EqualValues(t, 0, rl.GetStats()["active_limiters"])

	rl.Close()
	rl.Close()
}

func TestRequestIDMiddleware(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	_, err := uuid.Parse(rec.Header().Get("X-Request-ID"))
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = serve(s, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestHealthHandler(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, map[string]any{"enabled": false}, body["ocr"])

	s, _ = newTestServer(t, func(c *ServerConfig) { c.OCR = fakeOCR{available: false} })
	rec = serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", decode(t, rec)["status"])

	s, _ = newTestServer(t, func(c *ServerConfig) { c.OCR = fakeOCR{available: true} })
	rec = serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeclaredMediaType(t *testing.T) {
	pdf := []byte("%PDF-1.4\n")
	assert.Equal(t, "image/png", declaredMediaType("image/png", document.MediaTypePDF, pdf))
	assert.Equal(t, "image/jpeg", declaredMediaType("", "image/jpeg", pdf))
	assert.Equal(t, document.MediaTypePDF, declaredMediaType("", "", pdf))
	assert.Equal(t, document.MediaTypePDF, declaredMediaType("", "application/octet-stream", pdf))
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:4000"
	assert.Equal(t, "192.0.2.1", getClientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "garbage, 203.0.113.9")
	assert.Equal(t, "203.0.113.9", getClientIP(req))
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "abcdefgh****", maskAPIKey("abcdefghijkl"))
	assert.Equal(t, "api:abcdefgh****", maskRateLimitKey("api:abcdefghijkl"))
	assert.Equal(t, "ip:10.0.0.1", maskRateLimitKey("ip:10.0.0.1"))
}

func selfSignedPEM(t *testing.T) (certPEM, keyPEM string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "careerassist-test"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		DNSNames:              []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	certPEM = string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))
	keyPEM = string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}))
	return certPEM, keyPEM
}

func TestListenerTLS(t *testing.T) {
	certPEM, keyPEM := selfSignedPEM(t)

	t.Run("disabled", func(t *testing.T) {
		for _, mode := range []string{"", "disabled"} {
			tlsCfg, err := listenerTLS(config.TLSConfig{Mode: mode})
			require.NoError(t, err)
			assert.Nil(t, tlsCfg)
		}
	})

	t.Run("invalid mode", func(t *testing.T) {
		_, err := listenerTLS(config.TLSConfig{Mode: "bogus"})
		assert.ErrorContains(t, err, "invalid TLS mode")
	})

	t.Run("server mode needs cert and key", func(t *testing.T) {
		_, err := listenerTLS(config.TLSConfig{Mode: "server", CertContent: certPEM})
		assert.ErrorContains(t, err, "TLS certificate and key are required")
	})

	t.Run("server mode from content", func(t *testing.T) {
		tlsCfg, err := listenerTLS(config.TLSConfig{
			Mode:         "server",
			CertContent:  certPEM,
			KeyContent:   keyPEM,
			MinVersion:   "1.3",
			CipherSuites: []string{"TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305", "NOT_A_SUITE"},
		})
		require.NoError(t, err)
		require.Len(t, tlsCfg.Certificates, 1)
		assert.Equal(t, uint16(tls.VersionTLS13), tlsCfg.MinVersion)
		assert.Equal(t, []uint16{tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256}, tlsCfg.CipherSuites)
		assert.Nil(t, tlsCfg.ClientCAs)
		assert.Equal(t, tls.NoClientCert, tlsCfg.ClientAuth)
	})

	t.Run("mutual mode from files", func(t *testing.T) {
		dir := t.TempDir()
		certFile := filepath.Join(dir, "cert.pem")
		keyFile := filepath.Join(dir, "key.pem")
		require.NoError(t, os.WriteFile(certFile, []byte(certPEM), 0o600))
		require.NoError(t, os.WriteFile(keyFile, []byte(keyPEM), 0o600))

		tlsCfg, err := listenerTLS(config.TLSConfig{
			Mode:             "mutual",
			CertFile:         certFile,
			KeyFile:          keyFile,
			CAContent:        certPEM,
			ClientAuthPolicy: "verify",
		})
		require.NoError(t, err)
		assert.Equal(t, uint16(tls.VersionTLS12), tlsCfg.MinVersion)
		assert.NotNil(t, tlsCfg.ClientCAs)
		assert.Equal(t, tls.VerifyClientCertIfGiven, tlsCfg.ClientAuth)
	})

	t.Run("mutual mode needs a CA", func(t *testing.T) {
		_, err := listenerTLS(config.TLSConfig{Mode: "mutual", CertContent: certPEM, KeyContent: keyPEM})
		assert.ErrorContains(t, err, "CA certificate is required")

		_, err = listenerTLS(config.TLSConfig{Mode: "mutual", CertContent: certPEM, KeyContent: keyPEM, CAContent: "junk"})
		assert.ErrorContains(t, err, "no PEM certificates found")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := listenerTLS(config.TLSConfig{Mode: "server", CertFile: "/does/not/exist", KeyContent: keyPEM})
		assert.ErrorContains(t, err, "server certificate")
	})
}

func TestSetupHTTPServerAddress(t *testing.T) {
	s, _ := newTestServer(t, func(c *ServerConfig) { c.Host = "::1"; c.Port = "9090" })
	assert.Equal(t, "[::1]:9090", s.setupHTTPServer().Addr)
}
