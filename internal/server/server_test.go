package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sharein/sharein/internal/auth"
	"github.com/sharein/sharein/internal/events"
	"github.com/sharein/sharein/internal/service"
	"github.com/sharein/sharein/internal/storage/sqlite"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)

	srv := New(
		service.NewAuthService(authenticator, jwtManager),
		service.NewExpenseService(store, events.NopPublisher{}),
		service.NewGroupService(store, events.NopPublisher{}),
	)

	ts := httptest.NewServer(srv.Handler(jwtManager, nil))
	t.Cleanup(ts.Close)
	return &testServer{ts}
}

// do issues a JSON request, optionally authenticated, and decodes the
// response body into a generic map.
func (ts *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, ts.URL+path, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	// Some endpoints return arrays; those callers only check the status.
	var raw any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	decoded, _ := raw.(map[string]any)
	return resp.StatusCode, decoded
}

// register signs up a user and returns their id and session token.
func (ts *testServer) register(t *testing.T, firstName, email string) (id, token string) {
	t.Helper()

	status, body := ts.do(t, http.MethodPost, "/api/v1/auth/create_user", "", map[string]any{
		"firstName":       firstName,
		"lastName":        "Tester",
		"email":           email,
		"password":        "secret123",
		"confirmPassword": "secret123",
	})
	if status != http.StatusOK {
		t.Fatalf("register returned %d: %v", status, body)
	}

	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("register response missing user: %v", body)
	}
	token, ok = body["token"].(string)
	if !ok || token == "" {
		t.Fatalf("register response missing token: %v", body)
	}
	return user["id"].(string), token
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	_, _ = ts.register(t, "Alice", "alice@x.com")

	// Duplicate registration is rejected.
	status, _ := ts.do(t, http.MethodPost, "/api/v1/auth/create_user", "", map[string]any{
		"firstName":       "Alice",
		"lastName":        "Again",
		"email":           "alice@x.com",
		"password":        "secret123",
		"confirmPassword": "secret123",
	})
	if status != http.StatusConflict {
		t.Errorf("duplicate register = %d, want %d", status, http.StatusConflict)
	}

	status, body := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "alice@x.com",
		"password": "secret123",
	})
	if status != http.StatusOK {
		t.Fatalf("login returned %d: %v", status, body)
	}
	if body["token"] == "" {
		t.Error("login response missing token")
	}

	status, _ = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "alice@x.com",
		"password": "wrong",
	})
	if status != http.StatusUnauthorized {
		t.Errorf("bad login = %d, want %d", status, http.StatusUnauthorized)
	}
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	status, _ := ts.do(t, http.MethodPost, "/api/v1/expenses/create_expense", "", map[string]any{
		"cost": "10", "description": "dinner",
	})
	if status != http.StatusUnauthorized {
		t.Errorf("no token = %d, want %d", status, http.StatusUnauthorized)
	}

	status, _ = ts.do(t, http.MethodGet, "/api/v1/groups/get_groups", "not-a-token", nil)
	if status != http.StatusUnauthorized {
		t.Errorf("garbage token = %d, want %d", status, http.StatusUnauthorized)
	}
}

func TestExpenseLifecycle(t *testing.T) {
	ts := newTestServer(t)
	_, aliceToken := ts.register(t, "Alice", "alice@x.com")
	_, bobToken := ts.register(t, "Bob", "b@x.com")

	status, expense := ts.do(t, http.MethodPost, "/api/v1/expenses/create_expense", aliceToken, map[string]any{
		"cost":         "100",
		"description":  "dinner",
		"splitEqually": true,
	})
	if status != http.StatusOK {
		t.Fatalf("create expense returned %d: %v", status, expense)
	}
	expenseID := expense["id"].(string)

	participants, ok := expense["participants"].([]any)
	if !ok || len(participants) != 1 {
		t.Fatalf("participants = %v, want single creator share", expense["participants"])
	}
	creatorShare := participants[0].(map[string]any)
	if paid := creatorShare["paidShare"]; fmt.Sprint(paid) != "100" {
		t.Errorf("paidShare = %v, want 100", paid)
	}
	if owed := creatorShare["owedShare"]; fmt.Sprint(owed) != "50" {
		t.Errorf("owedShare = %v, want 50", owed)
	}
	if net := creatorShare["netBalance"]; fmt.Sprint(net) != "50" {
		t.Errorf("netBalance = %v, want 50", net)
	}

	// Bob cannot update Alice's expense.
	status, _ = ts.do(t, http.MethodPut, "/api/v1/expenses/update_expense/"+expenseID, bobToken, map[string]any{
		"description": "hijacked",
	})
	if status != http.StatusForbidden {
		t.Errorf("update by non-creator = %d, want %d", status, http.StatusForbidden)
	}

	// Alice can.
	status, updated := ts.do(t, http.MethodPut, "/api/v1/expenses/update_expense/"+expenseID, aliceToken, map[string]any{
		"description": "team dinner",
	})
	if status != http.StatusOK {
		t.Fatalf("update expense returned %d: %v", status, updated)
	}
	if updated["description"] != "team dinner" {
		t.Errorf("description = %v, want team dinner", updated["description"])
	}

	// Bob cannot delete it either.
	status, _ = ts.do(t, http.MethodDelete, "/api/v1/expenses/delete_expense/"+expenseID, bobToken, nil)
	if status != http.StatusForbidden {
		t.Errorf("delete by non-creator = %d, want %d", status, http.StatusForbidden)
	}

	status, deleted := ts.do(t, http.MethodDelete, "/api/v1/expenses/delete_expense/"+expenseID, aliceToken, nil)
	if status != http.StatusOK {
		t.Fatalf("delete expense returned %d: %v", status, deleted)
	}
	if deleted["success"] != "expense has been deleted" {
		t.Errorf("unexpected delete response: %v", deleted)
	}

	status, _ = ts.do(t, http.MethodGet, "/api/v1/expenses/get_expense/"+expenseID, aliceToken, nil)
	if status != http.StatusNotFound {
		t.Errorf("get after delete = %d, want %d", status, http.StatusNotFound)
	}
}

func TestCreateExpenseValidationErrors(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.register(t, "Alice", "alice@x.com")

	status, body := ts.do(t, http.MethodPost, "/api/v1/expenses/create_expense", token, map[string]any{
		"cost":        "0",
		"description": "",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", status, http.StatusBadRequest)
	}
	fields, ok := body["errors"].([]any)
	if !ok || len(fields) == 0 {
		t.Errorf("expected field errors, got %v", body)
	}
}

func TestGroupLifecycle(t *testing.T) {
	ts := newTestServer(t)
	_, aliceToken := ts.register(t, "Alice", "alice@x.com")
	bobID, bobToken := ts.register(t, "Bob", "b@x.com")

	status, group := ts.do(t, http.MethodPost, "/api/v1/groups/create_group", aliceToken, map[string]any{
		"name":      "Trip",
		"groupType": "Travel",
	})
	if status != http.StatusOK {
		t.Fatalf("create group returned %d: %v", status, group)
	}
	groupID := group["id"].(string)

	members := group["members"].([]any)
	if len(members) != 1 {
		t.Fatalf("members = %d, want 1", len(members))
	}
	creator := group["creator"].(map[string]any)
	if creator["email"] != "alice@x.com" {
		t.Errorf("creator email = %v, want alice@x.com", creator["email"])
	}

	// Add Bob.
	status, added := ts.do(t, http.MethodPost, "/api/v1/groups/add_user_to_group", aliceToken, map[string]any{
		"userId":  bobID,
		"groupId": groupID,
	})
	if status != http.StatusOK {
		t.Fatalf("add member returned %d: %v", status, added)
	}
	members = added["members"].([]any)
	if len(members) != 2 {
		t.Fatalf("members = %d, want 2", len(members))
	}
	if members[1].(map[string]any)["email"] != "b@x.com" {
		t.Errorf("second member = %v, want b@x.com", members[1])
	}

	// Adding him again conflicts.
	status, _ = ts.do(t, http.MethodPost, "/api/v1/groups/add_user_to_group", aliceToken, map[string]any{
		"userId":  bobID,
		"groupId": groupID,
	})
	if status != http.StatusConflict {
		t.Errorf("duplicate add = %d, want %d", status, http.StatusConflict)
	}

	// Remove him.
	status, removal := ts.do(t, http.MethodPost, "/api/v1/groups/remove_user_from_group", aliceToken, map[string]any{
		"userId":  bobID,
		"groupId": groupID,
	})
	if status != http.StatusOK {
		t.Fatalf("remove member returned %d: %v", status, removal)
	}
	removed := removal["removed"].(map[string]any)
	if removed["email"] != "b@x.com" {
		t.Errorf("removed email = %v, want b@x.com", removed["email"])
	}
	members = removal["group"].(map[string]any)["members"].([]any)
	if len(members) != 1 {
		t.Errorf("members after removal = %d, want 1", len(members))
	}

	// Listing is creator-scoped: Bob sees nothing.
	status, _ = ts.do(t, http.MethodGet, "/api/v1/groups/get_groups", bobToken, nil)
	if status != http.StatusOK {
		t.Fatalf("get groups returned %d", status)
	}

	// Only the creator may delete.
	status, _ = ts.do(t, http.MethodDelete, "/api/v1/groups/delete_group/"+groupID, bobToken, nil)
	if status != http.StatusForbidden {
		t.Errorf("delete by non-creator = %d, want %d", status, http.StatusForbidden)
	}
	status, deleted := ts.do(t, http.MethodDelete, "/api/v1/groups/delete_group/"+groupID, aliceToken, nil)
	if status != http.StatusOK {
		t.Fatalf("delete group returned %d: %v", status, deleted)
	}
	if deleted["success"] != "your group has been deleted" {
		t.Errorf("unexpected delete response: %v", deleted)
	}
}

func TestCreateGroupDefaultsType(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.register(t, "Alice", "alice@x.com")

	// Omitted groupType falls back to the default.
	status, group := ts.do(t, http.MethodPost, "/api/v1/groups/create_group", token, map[string]any{
		"name": "Flat",
	})
	if status != http.StatusOK {
		t.Fatalf("create group returned %d: %v", status, group)
	}
	if group["groupType"] != "General" {
		t.Errorf("groupType = %v, want General", group["groupType"])
	}

	// An explicitly empty groupType is rejected.
	status, _ = ts.do(t, http.MethodPost, "/api/v1/groups/create_group", token, map[string]any{
		"name":      "Flat",
		"groupType": "",
	})
	if status != http.StatusBadRequest {
		t.Errorf("empty groupType = %d, want %d", status, http.StatusBadRequest)
	}
}

func TestGroupBalancesEndpoint(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.register(t, "Alice", "alice@x.com")

	_, group := ts.do(t, http.MethodPost, "/api/v1/groups/create_group", token, map[string]any{
		"name":      "Trip",
		"groupType": "Travel",
	})
	groupID := group["id"].(string)

	status, _ := ts.do(t, http.MethodPost, "/api/v1/expenses/create_expense", token, map[string]any{
		"cost":         "100",
		"description":  "dinner",
		"splitEqually": true,
		"groupId":      groupID,
	})
	if status != http.StatusOK {
		t.Fatalf("create expense returned %d", status)
	}

	status, body := ts.do(t, http.MethodGet, "/api/v1/groups/get_group_balances/"+groupID, token, nil)
	if status != http.StatusOK {
		t.Fatalf("balances returned %d: %v", status, body)
	}
	balances := body["balances"].([]any)
	if len(balances) != 1 {
		t.Fatalf("balances = %d, want 1", len(balances))
	}
	entry := balances[0].(map[string]any)
	if fmt.Sprint(entry["netBalance"]) != "50" {
		t.Errorf("netBalance = %v, want 50", entry["netBalance"])
	}

	status, _ = ts.do(t, http.MethodGet, "/api/v1/groups/get_group_balances/missing", token, nil)
	if status != http.StatusNotFound {
		t.Errorf("unknown group = %d, want %d", status, http.StatusNotFound)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.do(t, http.MethodGet, "/healthz", "", nil)
	if status != http.StatusOK {
		t.Fatalf("healthz = %d, want %d", status, http.StatusOK)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
}
