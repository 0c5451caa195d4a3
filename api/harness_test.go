package api_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"testing"
	"time"

	svix "github.com/svix/svix-webhooks/go"

	"github.com/garnizeh/jobboard/api"
	"github.com/garnizeh/jobboard/internal/blob"
	"github.com/garnizeh/jobboard/internal/config"
	"github.com/garnizeh/jobboard/internal/db"
	"github.com/garnizeh/jobboard/internal/testutil"
)

const (
	testIssuer = "https://idp.test"
	testJWT    = "test-jwt-secret"
)

var testWebhookSecret = "whsec_" + base64.StdEncoding.EncodeToString([]byte("api-webhook-secret"))

type harness struct {
	t       *testing.T
	handler http.Handler
	db      *db.DB
	store   *blob.MemoryStore
	key     *testutil.SessionKey
}

func testConfig(key *testutil.SessionKey) *config.Config {
	return &config.Config{
		Env:          "development",
		Addr:         ":0",
		DatabasePath: "unused",
		JWTSecret:    testJWT,
		BcryptCost:   4,
		CORSOrigin:   "*",
		Identity: config.IdentityConfig{
			WebhookSecret:    testWebhookSecret,
			SessionPublicKey: string(key.PublicPEM),
			Issuer:           testIssuer,
		},
		Blob: config.BlobConfig{Type: "memory"},
	}
}

func newHarness(t *testing.T, mutate ...func(c *config.Config)) *harness {
	t.Helper()

	api.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	key := testutil.NewSessionKey(t)
	cfg := testConfig(key)
	for _, m := range mutate {
		m(cfg)
	}

	d := testutil.NewTestDB(t)
	store := blob.NewMemoryStore("job-portal")
	h, err := api.SetupRoutes(cfg, "1.0.0", "now", d, store)
	if err != nil {
		t.Fatalf("SetupRoutes: %v", err)
	}

	return &harness{t: t, handler: h, db: d, store: store, key: key}
}

type reqOpt func(r *http.Request)

func bearer(token string) reqOpt {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func sessionCookie(token string) reqOpt {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: api.SessionCookie, Value: token}) }
}

func (h *harness) do(method, path string, body any, opts ...reqOpt) *httptest.ResponseRecorder {
	h.t.Helper()

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	case []byte:
		rdr = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			h.t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, o := range opts {
		o(req)
	}

	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)
	return w
}

func (h *harness) send(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return m
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) map[string]any {
	t.Helper()
	if w.Code != want {
		t.Fatalf("want status %d got %d: %s", want, w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if success, _ := body["success"].(bool); success != (want < 400) {
		t.Fatalf("success flag %v does not match status %d: %s", body["success"], want, w.Body.String())
	}
	return body
}

// registerCompany returns the token and id of a new company.
func (h *harness) registerCompany(name, email string) (string, string) {
	h.t.Helper()
	w := h.do(http.MethodPost, "/company/register", map[string]string{"name": name, "email": email, "password": "secret1"})
	body := expectStatus(h.t, w, http.StatusCreated)
	company := body["company"].(map[string]any)
	return body["token"].(string), company["id"].(string)
}

func (h *harness) createJob(token, title string) string {
	h.t.Helper()
	w := h.do(http.MethodPost, "/jobs", map[string]any{
		"title": title, "description": "Build things", "location": "Remote",
		"category": "Programming", "level": "Senior", "salary": 120000,
	}, bearer(token))
	body := expectStatus(h.t, w, http.StatusCreated)
	return body["job"].(map[string]any)["id"].(string)
}

// webhook posts a signed identity event.
func (h *harness) webhook(payload string) *httptest.ResponseRecorder {
	h.t.Helper()
	return h.send(signedWebhook(h.t, testWebhookSecret, payload))
}

func signedWebhook(t *testing.T, secret, payload string) *http.Request {
	t.Helper()

	wh, err := svix.NewWebhook(secret)
	if err != nil {
		t.Fatalf("NewWebhook: %v", err)
	}
	ts := time.Now()
	sig, err := wh.Sign("msg_test", ts, []byte(payload))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/webhooks/identity-provider", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("svix-id", "msg_test")
	req.Header.Set("svix-timestamp", strconv.FormatInt(ts.Unix(), 10))
	req.Header.Set("svix-signature", sig)
	return req
}

// syncUser creates a local applicant profile through the webhook.
func (h *harness) syncUser(id, first, email string) {
	h.t.Helper()
	payload := `{"type":"user.created","data":{"id":"` + id + `","first_name":"` + first + `","last_name":"","image_url":"","email_addresses":[{"email_address":"` + email + `"}]}}`
	expectStatus(h.t, h.webhook(payload), http.StatusOK)
}

func (h *harness) session(userID string) string {
	return h.key.Sign(h.t, userID, testIssuer, time.Hour)
}

type filePart struct {
	field, filename, contentType string
	data                         []byte
}

func multipartRequest(t *testing.T, method, path string, fields map[string]string, file *filePart) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if file != nil {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="`+file.field+`"; filename="`+file.filename+`"`)
		hdr.Set("Content-Type", file.contentType)
		part, err := mw.CreatePart(hdr)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(file.data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
	pdfBytes = []byte("%PDF-1.4\n1 0 obj << /Type /Catalog >> endobj\ntrailer\n%%EOF\n")
)
