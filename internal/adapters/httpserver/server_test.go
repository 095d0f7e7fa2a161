package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printfarmhq/printfarm/internal/adapters/repo/postgres"
	"github.com/printfarmhq/printfarm/internal/adapters/storage/localfs"
	"github.com/printfarmhq/printfarm/internal/auth"
	"github.com/printfarmhq/printfarm/internal/domain"
	"github.com/printfarmhq/printfarm/internal/usecase"
)

type testEnv struct {
	handler http.Handler
	db      *gorm.DB
	tokens  *auth.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&domain.User{}, &domain.Subscription{},
		&domain.Filament{}, &domain.FilamentPurchase{},
		&domain.Product{}, &domain.Plate{}, &domain.PlateFilamentUsage{},
		&domain.PrinterType{}, &domain.Printer{},
		&domain.PrintJob{}, &domain.PrintJobProduct{}, &domain.PrintJobPrinter{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	userRepo := postgres.NewUserRepo(db)
	filamentRepo := postgres.NewFilamentRepo(db)
	productRepo := postgres.NewProductRepo(db)
	typeRepo := postgres.NewPrinterTypeRepo(db)
	printerRepo := postgres.NewPrinterRepo(db)
	jobRepo := postgres.NewPrintJobRepo(db)
	subRepo := postgres.NewSubscriptionRepo(db)

	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	handler := New(
		&usecase.UserUC{Users: userRepo, Subscriptions: subRepo},
		&usecase.FilamentUC{Filaments: filamentRepo},
		&usecase.ProductUC{Products: productRepo, Filaments: filamentRepo},
		&usecase.PrinterUC{Types: typeRepo, Printers: printerRepo},
		&usecase.PrintJobUC{Jobs: jobRepo, Products: productRepo, Printers: printerRepo, Types: typeRepo, Filaments: filamentRepo},
		&usecase.SubscriptionUC{Subscriptions: subRepo},
		tokens,
		localfs.New(t.TempDir()),
		nil,
	)
	return &testEnv{handler: handler, db: db, tokens: tokens}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func (e *testEnv) register(t *testing.T, email string) string {
	t.Helper()
	rec := e.do(t, "POST", "/api/v1/auth/register", "", map[string]any{
		"email": email, "name": "Test", "password": "password123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: %d %s", email, rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rec, &resp)
	return resp.Token
}

func (e *testEnv) godToken(t *testing.T) string {
	t.Helper()
	u := &domain.User{ID: uuid.New(), Email: "root@printfarmhq.test", IsGodUser: true, IsActive: true}
	if err := e.db.Create(u).Error; err != nil {
		t.Fatalf("create god user: %v", err)
	}
	tok, _, err := e.tokens.Issue(u.ID, u.Email)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func (e *testEnv) createFilament(t *testing.T, token string, color string, pricePerKg float64) uuid.UUID {
	t.Helper()
	rec := e.do(t, "POST", "/api/v1/filaments", token, map[string]any{
		"color": color, "brand": "Prusament", "material": "PLA", "price_per_kg": pricePerKg,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create filament: %d %s", rec.Code, rec.Body.String())
	}
	var f struct {
		ID uuid.UUID `json:"id"`
	}
	decode(t, rec, &f)
	return f.ID
}

func TestRegisterLoginMe(t *testing.T) {
	e := newTestEnv(t)

	tok := e.register(t, "owner@example.com")

	rec := e.do(t, "GET", "/api/v1/auth/me", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: %d %s", rec.Code, rec.Body.String())
	}
	var me domain.User
	decode(t, rec, &me)
	if me.Email != "owner@example.com" || !me.IsSuperadmin {
		t.Fatalf("me = %+v", me)
	}

	rec = e.do(t, "POST", "/api/v1/auth/login", "", map[string]any{
		"email": "owner@example.com", "password": "password123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}

	rec = e.do(t, "POST", "/api/v1/auth/login", "", map[string]any{
		"email": "owner@example.com", "password": "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: %d", rec.Code)
	}

	rec = e.do(t, "POST", "/api/v1/auth/register", "", map[string]any{
		"email": "owner@example.com", "name": "Dup", "password": "password123",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate email: %d", rec.Code)
	}

	rec = e.do(t, "GET", "/api/v1/filaments", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: %d", rec.Code)
	}
}

func TestTenantIsolation(t *testing.T) {
	e := newTestEnv(t)
	tokA := e.register(t, "a@example.com")
	tokB := e.register(t, "b@example.com")

	idA := e.createFilament(t, tokA, "Galaxy Black", 30)
	e.createFilament(t, tokB, "Lipstick Red", 25)

	rec := e.do(t, "GET", "/api/v1/filaments", tokA, nil)
	var list struct {
		Items []domain.Filament `json:"items"`
		Total int               `json:"total"`
	}
	decode(t, rec, &list)
	if list.Total != 1 || list.Items[0].Color != "Galaxy Black" {
		t.Fatalf("tenant A list = %+v", list)
	}

	// another tenant's row is indistinguishable from a missing one
	rec = e.do(t, "GET", "/api/v1/filaments/"+idA.String(), tokB, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("cross-tenant read: %d", rec.Code)
	}
	rec = e.do(t, "PATCH", "/api/v1/filaments/"+idA.String(), tokB, map[string]any{"color": "stolen"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("cross-tenant write: %d", rec.Code)
	}
	rec = e.do(t, "DELETE", "/api/v1/filaments/"+idA.String(), tokB, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("cross-tenant delete: %d", rec.Code)
	}
	rec = e.do(t, "GET", "/api/v1/filaments/"+idA.String(), tokA, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner read after foreign delete attempt: %d", rec.Code)
	}
}

func TestGodUserSeesUnion(t *testing.T) {
	e := newTestEnv(t)
	tokA := e.register(t, "a@example.com")
	tokB := e.register(t, "b@example.com")
	god := e.godToken(t)

	e.createFilament(t, tokA, "Galaxy Black", 30)
	e.createFilament(t, tokB, "Lipstick Red", 25)
	e.createFilament(t, god, "Shared Grey", 20) // NULL-owned

	rec := e.do(t, "GET", "/api/v1/filaments", god, nil)
	var list struct {
		Total int `json:"total"`
	}
	decode(t, rec, &list)
	if list.Total != 3 {
		t.Fatalf("god list total = %d, want 3", list.Total)
	}

	// NULL-owned rows stay invisible to tenants
	rec = e.do(t, "GET", "/api/v1/filaments", tokA, nil)
	decode(t, rec, &list)
	if list.Total != 1 {
		t.Fatalf("tenant A total = %d, want 1", list.Total)
	}
}

func TestOrphanedMemberSeesNothing(t *testing.T) {
	e := newTestEnv(t)
	tokA := e.register(t, "a@example.com")
	e.createFilament(t, tokA, "Galaxy Black", 30)

	orphan := &domain.User{ID: uuid.New(), Email: "orphan@example.com", IsActive: true}
	if err := e.db.Create(orphan).Error; err != nil {
		t.Fatalf("create orphan: %v", err)
	}
	tok, _, err := e.tokens.Issue(orphan.ID, orphan.Email)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec := e.do(t, "GET", "/api/v1/filaments", tok, nil)
	var list struct {
		Total int `json:"total"`
	}
	decode(t, rec, &list)
	if list.Total != 0 {
		t.Fatalf("orphan total = %d, want 0", list.Total)
	}

	rec = e.do(t, "POST", "/api/v1/filaments", tok, map[string]any{"color": "Sneaky", "price_per_kg": 1})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("orphan create: %d", rec.Code)
	}
}

func TestTeamMembers(t *testing.T) {
	e := newTestEnv(t)
	tokA := e.register(t, "a@example.com")
	filID := e.createFilament(t, tokA, "Galaxy Black", 30)

	rec := e.do(t, "POST", "/api/v1/users", tokA, map[string]any{
		"email": "member@example.com", "name": "Member", "password": "password123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create member: %d %s", rec.Code, rec.Body.String())
	}
	var member domain.User
	decode(t, rec, &member)

	rec = e.do(t, "POST", "/api/v1/auth/login", "", map[string]any{
		"email": "member@example.com", "password": "password123",
	})
	var login struct {
		Token string `json:"token"`
	}
	decode(t, rec, &login)

	// members operate inside their creator's tenant
	rec = e.do(t, "GET", "/api/v1/filaments/"+filID.String(), login.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("member read: %d", rec.Code)
	}

	rec = e.do(t, "POST", "/api/v1/users", login.Token, map[string]any{
		"email": "other@example.com", "name": "X", "password": "password123",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("member creating members: %d", rec.Code)
	}

	rec = e.do(t, "GET", "/api/v1/users", tokA, nil)
	var team struct {
		Total int `json:"total"`
	}
	decode(t, rec, &team)
	if team.Total != 1 {
		t.Fatalf("team total = %d, want 1", team.Total)
	}

	// a foreign superadmin cannot delete the member
	tokB := e.register(t, "b@example.com")
	rec = e.do(t, "DELETE", "/api/v1/users/"+member.ID.String(), tokB, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("foreign delete member: %d", rec.Code)
	}
	rec = e.do(t, "DELETE", "/api/v1/users/"+member.ID.String(), tokA, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete member: %d %s", rec.Code, rec.Body.String())
	}
}

func TestDuplicatePrinterName(t *testing.T) {
	e := newTestEnv(t)
	tok := e.register(t, "a@example.com")

	rec := e.do(t, "POST", "/api/v1/printers", tok, map[string]any{"name": "Ender 3", "purchase_price_eur": 200})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create printer: %d %s", rec.Code, rec.Body.String())
	}
	// same name modulo case and whitespace
	rec = e.do(t, "POST", "/api/v1/printers", tok, map[string]any{"name": "  ENDER   3 "})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate printer: %d %s", rec.Code, rec.Body.String())
	}
	// a different tenant may reuse the name
	tokB := e.register(t, "b@example.com")
	rec = e.do(t, "POST", "/api/v1/printers", tokB, map[string]any{"name": "Ender 3"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("same name other tenant: %d %s", rec.Code, rec.Body.String())
	}
}

func TestProductCostEndpoint(t *testing.T) {
	e := newTestEnv(t)
	tok := e.register(t, "a@example.com")
	f1 := e.createFilament(t, tok, "Black", 20)
	f2 := e.createFilament(t, tok, "White", 30)

	rec := e.do(t, "POST", "/api/v1/products", tok, map[string]any{
		"name":                  "Planter",
		"sku":                   "PLT-1",
		"additional_parts_cost": 0.5,
		"plates": []map[string]any{
			{
				"name": "Body", "quantity": 1, "print_time_hrs": 4,
				"filament_usages": []map[string]any{
					{"filament_id": f1, "grams_used": 100},
					{"filament_id": f2, "grams_used": 50},
				},
			},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product: %d %s", rec.Code, rec.Body.String())
	}
	var p domain.Product
	decode(t, rec, &p)

	rec = e.do(t, "GET", "/api/v1/products/"+p.ID.String()+"/cost", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cost: %d %s", rec.Code, rec.Body.String())
	}
	var cost struct {
		PlatesTotal float64 `json:"plates_total"`
		UnitCost    float64 `json:"unit_cost"`
	}
	decode(t, rec, &cost)
	if cost.PlatesTotal != 3.5 {
		t.Fatalf("plates total = %v, want 3.5", cost.PlatesTotal)
	}
	if cost.UnitCost != 4.0 {
		t.Fatalf("unit cost = %v, want 4.0", cost.UnitCost)
	}

	// deleting a referenced filament degrades its usages to zero
	rec = e.do(t, "DELETE", "/api/v1/filaments/"+f2.String(), tok, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete filament: %d", rec.Code)
	}
	rec = e.do(t, "GET", "/api/v1/products/"+p.ID.String()+"/cost", tok, nil)
	decode(t, rec, &cost)
	if cost.UnitCost != 2.5 {
		t.Fatalf("unit cost after filament delete = %v, want 2.5", cost.UnitCost)
	}
}

func TestPlateOperations(t *testing.T) {
	e := newTestEnv(t)
	tok := e.register(t, "a@example.com")
	f1 := e.createFilament(t, tok, "Black", 20)

	rec := e.do(t, "POST", "/api/v1/products", tok, map[string]any{"name": "Bracket"})
	var p domain.Product
	decode(t, rec, &p)

	rec = e.do(t, "POST", "/api/v1/products/"+p.ID.String()+"/plates", tok, map[string]any{
		"name": "Main", "quantity": 2, "print_time_hrs": 1.5,
		"filament_usages": []map[string]any{{"filament_id": f1, "grams_used": 80}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add plate: %d %s", rec.Code, rec.Body.String())
	}
	var plate domain.Plate
	decode(t, rec, &plate)

	// non-positive grams are rejected at write time
	rec = e.do(t, "POST", "/api/v1/products/"+p.ID.String()+"/plates", tok, map[string]any{
		"name": "Bad", "quantity": 1,
		"filament_usages": []map[string]any{{"filament_id": f1, "grams_used": 0}},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("zero grams: %d", rec.Code)
	}

	rec = e.do(t, "PATCH", "/api/v1/plates/"+plate.ID.String(), tok, map[string]any{
		"filament_usages": []map[string]any{{"filament_id": f1, "grams_used": 120}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update plate: %d %s", rec.Code, rec.Body.String())
	}

	rec = e.do(t, "GET", "/api/v1/products/"+p.ID.String()+"/cost", tok, nil)
	var cost struct {
		UnitCost float64 `json:"unit_cost"`
	}
	decode(t, rec, &cost)
	if cost.UnitCost != 2.4 {
		t.Fatalf("unit cost = %v, want 2.4", cost.UnitCost)
	}

	rec = e.do(t, "DELETE", "/api/v1/plates/"+plate.ID.String(), tok, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete plate: %d", rec.Code)
	}
	rec = e.do(t, "GET", "/api/v1/products/"+p.ID.String()+"/cost", tok, nil)
	decode(t, rec, &cost)
	if cost.UnitCost != 0 {
		t.Fatalf("unit cost after plate delete = %v, want 0", cost.UnitCost)
	}
}

func TestPrintJobLifecycle(t *testing.T) {
	e := newTestEnv(t)
	tok := e.register(t, "a@example.com")
	f1 := e.createFilament(t, tok, "Black", 20)

	rec := e.do(t, "POST", "/api/v1/products", tok, map[string]any{
		"name": "Planter",
		"plates": []map[string]any{{
			"name": "Body", "quantity": 1, "print_time_hrs": 2,
			"filament_usages": []map[string]any{{"filament_id": f1, "grams_used": 100}},
		}},
	})
	var p domain.Product
	decode(t, rec, &p)

	rec = e.do(t, "POST", "/api/v1/printer-types", tok, map[string]any{
		"brand": "Creality", "model": "Ender 3", "expected_life_hours": 20000,
	})
	var pt domain.PrinterType
	decode(t, rec, &pt)

	rec = e.do(t, "POST", "/api/v1/printers", tok, map[string]any{
		"name": "Ender Left", "printer_type_id": pt.ID, "purchase_price_eur": 800,
	})
	var printer domain.Printer
	decode(t, rec, &printer)

	rec = e.do(t, "POST", "/api/v1/print-jobs", tok, map[string]any{
		"name":     "Batch 1",
		"products": []map[string]any{{"product_id": p.ID, "items_qty": 4}},
		"printers": []map[string]any{{"printer_id": printer.ID, "hours_used": 10}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create job: %d %s", rec.Code, rec.Body.String())
	}
	var job domain.PrintJob
	decode(t, rec, &job)
	if job.Status != domain.PrintJobStatusPending {
		t.Fatalf("status = %s, want pending", job.Status)
	}

	// pending cannot jump straight to completed
	rec = e.do(t, "PATCH", "/api/v1/print-jobs/"+job.ID.String()+"/status", tok, map[string]any{"status": "completed"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("pending→completed: %d", rec.Code)
	}

	rec = e.do(t, "PATCH", "/api/v1/print-jobs/"+job.ID.String()+"/status", tok, map[string]any{"status": "printing"})
	if rec.Code != http.StatusOK {
		t.Fatalf("pending→printing: %d %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &job)
	if job.StartedAt == nil || job.EstimatedCompletionAt == nil {
		t.Fatalf("started/estimated not stamped: %+v", job)
	}

	rec = e.do(t, "PATCH", "/api/v1/print-jobs/"+job.ID.String()+"/status", tok, map[string]any{"status": "completed"})
	if rec.Code != http.StatusOK {
		t.Fatalf("printing→completed: %d %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &job)
	if job.CompletedAt == nil {
		t.Fatal("completed_at not stamped")
	}

	// completion charges the printer's working hours
	rec = e.do(t, "GET", "/api/v1/printers/"+printer.ID.String(), tok, nil)
	decode(t, rec, &printer)
	if printer.WorkingHours != 10 {
		t.Fatalf("working hours = %v, want 10", printer.WorkingHours)
	}

	// completed is terminal
	rec = e.do(t, "PATCH", "/api/v1/print-jobs/"+job.ID.String()+"/status", tok, map[string]any{"status": "failed"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("completed→failed: %d", rec.Code)
	}

	rec = e.do(t, "GET", "/api/v1/print-jobs/"+job.ID.String()+"/cogs", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cogs: %d %s", rec.Code, rec.Body.String())
	}
	var cogs struct {
		LinesTotal          float64 `json:"lines_total"`
		PrinterAmortization float64 `json:"printer_amortization"`
		Total               float64 `json:"total"`
	}
	decode(t, rec, &cogs)
	if cogs.LinesTotal != 8.0 {
		t.Fatalf("lines total = %v, want 8.0", cogs.LinesTotal)
	}
	if cogs.PrinterAmortization != 0.4 {
		t.Fatalf("amortization = %v, want 0.4", cogs.PrinterAmortization)
	}
	if cogs.Total != 8.4 {
		t.Fatalf("total = %v, want 8.4", cogs.Total)
	}
}

func TestFilamentPurchaseAdjustsStock(t *testing.T) {
	e := newTestEnv(t)
	tok := e.register(t, "a@example.com")
	id := e.createFilament(t, tok, "Black", 20)

	rec := e.do(t, "POST", "/api/v1/filaments/"+id.String()+"/purchases", tok, map[string]any{
		"qty_kg": 2.5, "price_per_kg_paid": 18,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("purchase: %d %s", rec.Code, rec.Body.String())
	}
	rec = e.do(t, "POST", "/api/v1/filaments/"+id.String()+"/purchases", tok, map[string]any{
		"qty_kg": 1.0, "price_per_kg_paid": 19,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("second purchase: %d %s", rec.Code, rec.Body.String())
	}

	rec = e.do(t, "GET", "/api/v1/filaments/"+id.String(), tok, nil)
	var f domain.Filament
	decode(t, rec, &f)
	if f.TotalQtyKg != 3.5 {
		t.Fatalf("stock = %v, want 3.5", f.TotalQtyKg)
	}

	rec = e.do(t, "POST", "/api/v1/filaments/"+id.String()+"/purchases", tok, map[string]any{"qty_kg": -1})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("negative purchase: %d", rec.Code)
	}

	rec = e.do(t, "GET", "/api/v1/filaments/"+id.String()+"/purchases", tok, nil)
	var list struct {
		Total int `json:"total"`
	}
	decode(t, rec, &list)
	if list.Total != 2 {
		t.Fatalf("purchases = %d, want 2", list.Total)
	}
}

func TestFilamentExport(t *testing.T) {
	e := newTestEnv(t)
	tok := e.register(t, "a@example.com")
	e.createFilament(t, tok, "Black", 20)

	rec := e.do(t, "GET", "/api/v1/filaments/export", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export: %d %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("content type = %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Fatal("empty workbook")
	}
}

func TestProductMultipartCreate(t *testing.T) {
	e := newTestEnv(t)
	tok := e.register(t, "a@example.com")
	f1 := e.createFilament(t, tok, "Black", 20)

	plates, err := json.Marshal([]map[string]any{{
		"name": "Body", "quantity": 1,
		"filament_usages": []map[string]any{{"filament_id": f1, "grams_used": 50}},
	}})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("name", "Vase")
	_ = mw.WriteField("additional_parts_cost", "0.25")
	_ = mw.WriteField("plates", string(plates))
	fw, err := mw.CreateFormFile("model_file", "vase.stl")
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprint(fw, "solid vase\nendsolid vase\n")
	mw.Close()

	req := httptest.NewRequest("POST", "/api/v1/products", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("multipart create: %d %s", rec.Code, rec.Body.String())
	}
	var p domain.Product
	decode(t, rec, &p)
	if p.ModelFilePath == "" {
		t.Fatal("model file not stored")
	}
	if len(p.Plates) != 1 || len(p.Plates[0].FilamentUsages) != 1 {
		t.Fatalf("plates = %+v", p.Plates)
	}

	rec = e.do(t, "GET", "/api/v1/products/"+p.ID.String()+"/cost", tok, nil)
	var cost struct {
		UnitCost float64 `json:"unit_cost"`
	}
	decode(t, rec, &cost)
	if cost.UnitCost != 1.25 {
		t.Fatalf("unit cost = %v, want 1.25", cost.UnitCost)
	}
}

func TestSubscription(t *testing.T) {
	e := newTestEnv(t)
	tok := e.register(t, "a@example.com")

	rec := e.do(t, "GET", "/api/v1/subscription", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get subscription: %d %s", rec.Code, rec.Body.String())
	}
	var sub domain.Subscription
	decode(t, rec, &sub)
	if sub.Plan != "free" {
		t.Fatalf("plan = %q, want free", sub.Plan)
	}

	rec = e.do(t, "PUT", "/api/v1/subscription", tok, map[string]any{"plan": "pro"})
	if rec.Code != http.StatusOK {
		t.Fatalf("set plan: %d %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &sub)
	if sub.Plan != "pro" {
		t.Fatalf("plan = %q, want pro", sub.Plan)
	}

	rec = e.do(t, "PUT", "/api/v1/subscription", tok, map[string]any{"plan": "platinum"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown plan: %d", rec.Code)
	}
}
