package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdumary/HawkEye/internal/access"
	"github.com/fdumary/HawkEye/internal/audit"
	"github.com/fdumary/HawkEye/internal/credential"
	"github.com/fdumary/HawkEye/internal/database/mock"
	"github.com/fdumary/HawkEye/internal/identity"
	"github.com/fdumary/HawkEye/internal/web/middleware"
)

// testApp bundles a full handler stack over in-memory backends.
type testApp struct {
	identities *identity.Store
	store      *mock.CredentialStore
	verifier   *credential.Verifier
	ledger     *audit.Ledger
	sessions   *middleware.SessionManager
	engine     *access.Engine

	auth        *AuthHandler
	credentials *CredentialsHandler
	access      *AccessHandler
	profile     *ProfileHandler
	auditlog    *AuditHandler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	identities, err := identity.LoadStore("")
	if err != nil {
		t.Fatalf("failed to load embedded roster: %v", err)
	}

	cmp, err := credential.NewComparator(credential.ComparatorExact)
	if err != nil {
		t.Fatalf("failed to create comparator: %v", err)
	}

	store := mock.NewCredentialStore()
	verifier := credential.NewVerifier(store, cmp, 1.0, time.Second)
	ledger := audit.NewLedger()
	sessions := middleware.NewSessionManager("test-secret", time.Hour, nil)
	t.Cleanup(sessions.Stop)
	engine := access.NewEngine(identities, ledger)

	return &testApp{
		identities:  identities,
		store:       store,
		verifier:    verifier,
		ledger:      ledger,
		sessions:    sessions,
		engine:      engine,
		auth:        NewAuthHandler(verifier, identities, ledger, sessions),
		credentials: NewCredentialsHandler(verifier, identities),
		access:      NewAccessHandler(engine),
		profile:     NewProfileHandler(identities),
		auditlog:    NewAuditHandler(ledger),
	}
}

// requestAs injects a session and the roster identity into the
// request context, standing in for RequireAuth.
func (app *testApp) requestAs(t *testing.T, r *http.Request, identityID string) *http.Request {
	t.Helper()
	rec, err := app.identities.Get(identityID)
	if err != nil {
		t.Fatalf("identity %s not on roster: %v", identityID, err)
	}
	session := &middleware.Session{
		ID:         "test-session",
		IdentityID: identityID,
		CreatedAt:  time.Now(),
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	ctx := middleware.WithTestIdentity(r.Context(), session, rec)
	return r.WithContext(ctx)
}

// samplePNG generates a deterministic image; different seeds give
// images with different exact hashes.
func samplePNG(t *testing.T, seed uint8) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 24, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 24; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x*11) + seed, G: uint8(y * 9), B: seed, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode sample: %v", err)
	}
	return buf.Bytes()
}

// multipartImage builds a multipart/form-data body with an image part
// and optional extra form fields.
func multipartImage(t *testing.T, img []byte, fields map[string]string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "sample.png")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(img); err != nil {
		t.Fatalf("failed to write image part: %v", err)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field %s: %v", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

// enroll registers a sample for an identity directly via the verifier.
func (app *testApp) enroll(t *testing.T, identityID string, img []byte) {
	t.Helper()
	if _, err := app.verifier.Enroll(context.Background(), identityID, img); err != nil {
		t.Fatalf("failed to enroll %s: %v", identityID, err)
	}
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}
