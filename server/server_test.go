package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"lilmail/config"
	"lilmail/handlers/api"
	"lilmail/mailbox"
)

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Server.RateLimit = 0
	cfg.Server.Assets = t.TempDir()
	for _, fn := range mutate {
		fn(cfg)
	}
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(srv.Close)
	return srv
}

// browser keeps cookies between requests and sends the CSRF token on unsafe methods
type browser struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

func newBrowser(t *testing.T, srv *Server) *browser {
	return &browser{t: t, app: srv.App, cookies: make(map[string]string)}
}

func (b *browser) do(method, path string, body io.Reader, contentType string) *http.Response {
	b.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for name, value := range b.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	if method != http.MethodGet {
		if token := b.cookies["csrf_token"]; token != "" {
			req.Header.Set("X-CSRF-Token", token)
		}
	}

	resp, err := b.app.Test(req, -1)
	if err != nil {
		b.t.Fatalf("%s %s failed: %v", method, path, err)
	}
	for _, ck := range resp.Cookies() {
		b.cookies[ck.Name] = ck.Value
	}
	return resp
}

func (b *browser) get(path string) (*http.Response, string) {
	b.t.Helper()
	resp := b.do(http.MethodGet, path, nil, "")
	return resp, readBody(b.t, resp)
}

func (b *browser) postForm(path string, form url.Values) *http.Response {
	b.t.Helper()
	return b.do(http.MethodPost, path, strings.NewReader(form.Encode()), fiber.MIMEApplicationForm)
}

func (b *browser) sendJSON(method, path string, payload interface{}) *http.Response {
	b.t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			b.t.Fatalf("marshal failed: %v", err)
		}
		body = strings.NewReader(string(data))
	}
	return b.do(method, path, body, fiber.MIMEApplicationJSON)
}

func (b *browser) view() mailbox.View {
	b.t.Helper()
	resp := b.do(http.MethodGet, "/api/view", nil, "")
	var v mailbox.View
	decode(b.t, resp, &v)
	return v
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body failed: %v", err)
	}
	return string(data)
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
}

// operation decodes a mutating endpoint's response into a fresh value
func operation(t *testing.T, resp *http.Response) api.OperationResponse {
	t.Helper()
	var op api.OperationResponse
	decode(t, resp, &op)
	return op
}

func TestIndexRendersInbox(t *testing.T) {
	b := newBrowser(t, newTestServer(t))

	resp, body := b.get("/")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	for _, want := range []string{
		"<title>Correo - Gestor de Emails</title>",
		"Bandeja de entrada",
		`<span class="badge">2</span>`,
		"4 correos",
		"Reunión de equipo - Viernes 2pm",
		"Selecciona un correo para leerlo",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
	if b.cookies["csrf_token"] == "" || b.cookies["session_id"] == "" {
		t.Errorf("expected csrf and session cookies, got %v", b.cookies)
	}
}

func TestSelectMessageFlow(t *testing.T) {
	b := newBrowser(t, newTestServer(t))
	b.get("/")

	resp := b.postForm("/messages/1/select", url.Values{})
	if resp.StatusCode != fiber.StatusSeeOther || resp.Header.Get("Location") != "/" {
		t.Fatalf("expected redirect to /, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}

	_, body := b.get("/")
	if !strings.Contains(body, "<p>Quería confirmar la reunión del viernes a las 2pm. ¿Podrías confirmar tu asistencia?</p>") {
		t.Error("expected message body paragraphs in the content pane")
	}
	if !strings.Contains(body, `<span class="badge">1</span>`) {
		t.Error("expected unread badge to drop to 1")
	}
}

func TestStarDoesNotSelect(t *testing.T) {
	b := newBrowser(t, newTestServer(t))
	b.get("/")

	b.postForm("/messages/3/star", url.Values{})
	v := b.view()
	if v.Selected != nil {
		t.Errorf("starring must not select, got %+v", v.Selected)
	}
	for _, m := range v.Messages {
		if m.ID == 3 && (!m.Starred || !m.Read) {
			t.Errorf("unexpected flags for message 3: %+v", m)
		}
	}

	resp, body := b.get("/folder/starred")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "2 correos") || strings.Contains(body, "Resumen semanal de noticias") {
		t.Error("expected starred folder to list only messages 2 and 3")
	}
}

func TestDeleteSelectedClearsSelection(t *testing.T) {
	b := newBrowser(t, newTestServer(t))
	b.get("/")
	b.postForm("/messages/2/select", url.Values{})
	b.postForm("/messages/2/delete", url.Values{})

	_, body := b.get("/")
	if !strings.Contains(body, "Correo eliminado") {
		t.Error("expected delete notice")
	}
	if !strings.Contains(body, "Selecciona un correo para leerlo") {
		t.Error("expected empty content pane after deleting the selected message")
	}
	if strings.Contains(body, "Proyecto Q4") {
		t.Error("deleted message still listed")
	}
}

func TestCSRFRequired(t *testing.T) {
	srv := newTestServer(t)
	b := newBrowser(t, srv)
	b.get("/")

	req := httptest.NewRequest(http.MethodPost, "/messages/1/select", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: b.cookies["session_id"]})
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: b.cookies["csrf_token"]})
	resp, err := srv.App.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("expected 403 without token, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/compose", nil)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: b.cookies["csrf_token"]})
	req.Header.Set("X-CSRF-Token", "wrong")
	resp, err = srv.App.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var body map[string]interface{}
	decode(t, resp, &body)
	if resp.StatusCode != fiber.StatusForbidden || body["reason"] != "mismatch" {
		t.Errorf("expected 403 mismatch, got %d %v", resp.StatusCode, body)
	}
}

func TestWebSendValidation(t *testing.T) {
	b := newBrowser(t, newTestServer(t))
	b.get("/")
	b.postForm("/compose", url.Values{})

	resp := b.postForm("/compose/send", url.Values{"subject": {"Sin destinatario"}})
	body := readBody(t, resp)
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Completa todos los campos antes de enviar") {
		t.Error("expected incomplete draft notice")
	}
	if !strings.Contains(body, `value="Sin destinatario"`) {
		t.Error("expected typed subject to be kept in the form")
	}
	if v := b.view(); !v.Composing || v.Total != 4 {
		t.Errorf("failed send must keep compose mode and collection, got %+v", v)
	}
}

func TestWebSendSuccess(t *testing.T) {
	b := newBrowser(t, newTestServer(t))
	b.get("/")
	b.postForm("/compose", url.Values{})

	resp := b.postForm("/compose/send", url.Values{
		"to":      {"ana@ejemplo.com"},
		"subject": {"Hola Ana"},
		"body":    {"Primera línea\nSegunda línea"},
	})
	if resp.StatusCode != fiber.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}

	_, body := b.get("/")
	if !strings.Contains(body, "¡Correo enviado exitosamente!") {
		t.Error("expected send confirmation")
	}
	if !strings.Contains(body, "5 correos") || !strings.Contains(body, "Hola Ana") {
		t.Error("expected the sent message in the list")
	}

	_, body = b.get("/")
	if strings.Contains(body, "¡Correo enviado exitosamente!") {
		t.Error("confirmation must only show once")
	}

	v := b.view()
	if v.Messages[0].Subject != "Hola Ana" || v.Messages[0].From != "tu@correo.com" || !v.Messages[0].Read {
		t.Errorf("unexpected first message %+v", v.Messages[0])
	}
}

func TestAPIOperations(t *testing.T) {
	b := newBrowser(t, newTestServer(t))
	if v := b.view(); v.UnreadCount != 2 || len(v.Messages) != 4 {
		t.Fatalf("unexpected initial view %+v", v)
	}

	op := operation(t, b.sendJSON(http.MethodPost, "/api/messages/4/select", nil))
	if op.Event.Kind != mailbox.EventMessageRead || op.View.UnreadCount != 1 || op.View.Selected == nil {
		t.Errorf("unexpected select response %+v", op)
	}

	op = operation(t, b.sendJSON(http.MethodPost, "/api/compose", nil))
	if !op.View.Composing || op.View.Selected != nil {
		t.Errorf("compose must clear selection, got %+v", op.View)
	}

	resp := b.sendJSON(http.MethodPost, "/api/draft/send", nil)
	var errBody struct {
		Error   string   `json:"error"`
		Kind    string   `json:"kind"`
		Missing []string `json:"missing"`
	}
	decode(t, resp, &errBody)
	if resp.StatusCode != fiber.StatusUnprocessableEntity || errBody.Kind != "incomplete_draft" || len(errBody.Missing) != 3 {
		t.Fatalf("expected 422 incomplete draft, got %d %+v", resp.StatusCode, errBody)
	}

	for field, value := range map[string]string{"recipient": "x@y.z", "subject": "Asunto", "body": "Cuerpo"} {
		resp := b.sendJSON(http.MethodPut, "/api/draft", api.DraftRequest{Field: field, Value: value})
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("draft update %s failed: %d", field, resp.StatusCode)
		}
	}
	if resp := b.sendJSON(http.MethodPut, "/api/draft", api.DraftRequest{Field: "cc", Value: "x"}); resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400 for unknown field, got %d", resp.StatusCode)
	}

	op = operation(t, b.sendJSON(http.MethodPost, "/api/draft/send", nil))
	if op.Event.Kind != mailbox.EventMessageSent || op.View.Messages[0].ID != 5 || op.View.Messages[0].Preview != "Cuerpo..." {
		t.Errorf("unexpected send response %+v", op)
	}
	if op.View.Composing || op.View.Draft.To != "" {
		t.Error("send must reset the draft and leave compose mode")
	}

	op = operation(t, b.sendJSON(http.MethodDelete, "/api/messages/5", nil))
	if op.Event.Kind != mailbox.EventMessageDeleted || op.View.Total != 4 {
		t.Errorf("unexpected delete response %+v", op)
	}
	op = operation(t, b.sendJSON(http.MethodDelete, "/api/messages/5", nil))
	if op.Event.Kind != mailbox.EventNone {
		t.Errorf("deleting twice must be a no-op, got %s", op.Event.Kind)
	}

	op = operation(t, b.sendJSON(http.MethodPut, "/api/folder/starred", nil))
	if op.View.Folder != "starred" || len(op.View.Messages) != 1 || op.View.UnreadCount != 1 {
		t.Errorf("unexpected starred view %+v", op.View)
	}
	if resp := b.sendJSON(http.MethodPut, "/api/folder/spam", nil); resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400 for unknown folder, got %d", resp.StatusCode)
	}
	if resp := b.sendJSON(http.MethodPost, "/api/messages/abc/star", nil); resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400 for bad id, got %d", resp.StatusCode)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	srv := newTestServer(t)
	alice := newBrowser(t, srv)
	bob := newBrowser(t, srv)
	alice.get("/")
	bob.get("/")

	alice.sendJSON(http.MethodDelete, "/api/messages/1", nil)
	if v := bob.view(); v.Total != 4 {
		t.Errorf("bob should still see 4 messages, got %d", v.Total)
	}
	if v := alice.view(); v.Total != 3 {
		t.Errorf("alice should see 3 messages, got %d", v.Total)
	}
	if srv.Mailboxes.Len() != 2 {
		t.Errorf("expected 2 mailbox sessions, got %d", srv.Mailboxes.Len())
	}
}

func TestLocaleSelection(t *testing.T) {
	b := newBrowser(t, newTestServer(t))

	_, body := b.get("/?lang=en")
	if !strings.Contains(body, "Inbox") || !strings.Contains(body, `<html lang="en">`) {
		t.Error("expected English page")
	}
	// The choice sticks through the lang cookie
	_, body = b.get("/")
	if !strings.Contains(body, "Select an email to read it") {
		t.Error("expected English to persist via cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/i18n/xx", nil)
	resp, err := b.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var tr struct {
		Lang         string            `json:"lang"`
		Translations map[string]string `json:"translations"`
	}
	decode(t, resp, &tr)
	if tr.Lang != "es" || tr.Translations["folder_sent"] != "Enviados" {
		t.Errorf("unexpected translations %+v", tr)
	}
}

func TestNotFoundAndHealth(t *testing.T) {
	b := newBrowser(t, newTestServer(t))

	resp := b.do(http.MethodGet, "/api/nope", nil, "")
	var body map[string]interface{}
	decode(t, resp, &body)
	if resp.StatusCode != fiber.StatusNotFound || body["error"] != "Página no encontrada" {
		t.Errorf("expected JSON 404, got %d %v", resp.StatusCode, body)
	}

	resp, page := b.get("/nope")
	if resp.StatusCode != fiber.StatusNotFound || !strings.Contains(page, "Página no encontrada") {
		t.Errorf("expected HTML 404, got %d", resp.StatusCode)
	}

	resp = b.do(http.MethodGet, "/health", nil, "")
	decode(t, resp, &body)
	if body["status"] != "ok" {
		t.Errorf("unexpected health response %v", body)
	}
}

func TestHTMXRefreshesAllPanes(t *testing.T) {
	srv := newTestServer(t)
	b := newBrowser(t, srv)
	b.get("/")

	req := httptest.NewRequest(http.MethodPost, "/messages/1/select", nil)
	for name, value := range b.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	req.Header.Set("X-CSRF-Token", b.cookies["csrf_token"])
	req.Header.Set("HX-Request", "true")
	resp, err := srv.App.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if strings.Contains(body, "<html") {
		t.Error("HTMX responses must not include the layout")
	}
	for _, want := range []string{
		"Quería confirmar la reunión del viernes a las 2pm.",
		`id="email-list" hx-swap-oob="true"`,
		`id="sidebar" hx-swap-oob="true"`,
		`<span class="badge">1</span>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected HTMX response to contain %q", want)
		}
	}
	if strings.Contains(body, `class="email-item unread selected"`) {
		t.Error("list must show message 1 as read")
	}

	// full page renders never carry out-of-band markers
	_, page := b.get("/")
	if strings.Contains(page, "hx-swap-oob") {
		t.Error("full page must not mark panes out of band")
	}
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.RateLimit = 2
	})

	codes := make([]int, 3)
	for i := range codes {
		resp, err := srv.App.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		codes[i] = resp.StatusCode
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != fiber.StatusTooManyRequests {
		t.Errorf("expected 200, 200, 429, got %v", codes)
	}
}

func TestCloseStopsBackgroundWork(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Assets = t.TempDir()
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	srv.Close()
	select {
	case <-srv.web.Done():
	default:
		t.Error("expected the notice sweeper to be stopped")
	}
}
