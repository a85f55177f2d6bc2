package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"budgetmaster/internal/month"
	"budgetmaster/internal/queue"
	"budgetmaster/internal/testutil"
)

func TestFoodSyncFlow_TransactionsDriveFoodBudget(t *testing.T) {
	app := setupApp(t)
	token := testutil.NewAccessToken(t, "user-food")

	for _, body := range []string{
		`{"date":"2024-03-02","category":"expense","amount":100,"description":"REMA 1000 Grünerløkka"}`,
		`{"date":"2024-03-15","category":"expense","amount":150,"description":"Kiwi Majorstuen"}`,
		`{"date":"2024-03-20","category":"expense","amount":99,"description":"Netflix"}`,
		`{"date":"2024-03-25","category":"income","amount":30000,"description":"Salary"}`,
		`{"date":"2024-04-01","category":"expense","amount":70,"description":"Coop Extra"}`,
	} {
		rec := app.request("POST", "/api/v1/transactions", body, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 creating transaction, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	march := app.budgetsByName(t, token, "2024-03")
	food, ok := march["food"]
	if !ok {
		t.Fatalf("expected food budget for 2024-03, got %v", march)
	}
	if spent := decimalField(t, food, "money_spent"); !spent.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expected 250 spent in March, got %s", spent)
	}
	if planned := decimalField(t, food, "planned_budget"); !planned.Equal(decimal.NewFromInt(4000)) {
		t.Errorf("expected default planned 4000, got %s", planned)
	}

	april := app.budgetsByName(t, token, "2024-04")
	if spent := decimalField(t, april["food"], "money_spent"); !spent.Equal(decimal.NewFromInt(70)) {
		t.Errorf("expected 70 spent in April, got %s", spent)
	}

	// Keep a custom planned amount through later syncs.
	rec := app.request("PUT", "/api/v1/budgets/"+food["id"].(string), `{"planned_budget":3000}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 updating food budget, got %d: %s", rec.Code, rec.Body.String())
	}

	// Moving the Kiwi purchase to April reconciles both months.
	list := app.request("GET", "/api/v1/transactions?month=2024-03&category=expense", "", token)
	var kiwiID string
	for _, item := range parseJSON(t, list)["data"].([]interface{}) {
		tx := item.(map[string]interface{})
		if tx["description"] == "Kiwi Majorstuen" {
			kiwiID = tx["id"].(string)
		}
	}
	if kiwiID == "" {
		t.Fatal("expected to find the Kiwi transaction")
	}
	rec = app.request("PUT", "/api/v1/transactions/"+kiwiID, `{"date":"2024-04-10"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 moving transaction, got %d: %s", rec.Code, rec.Body.String())
	}

	march = app.budgetsByName(t, token, "2024-03")
	if spent := decimalField(t, march["food"], "money_spent"); !spent.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected 100 spent in March after move, got %s", spent)
	}
	if planned := decimalField(t, march["food"], "planned_budget"); !planned.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("expected planned 3000 to survive sync, got %s", planned)
	}
	april = app.budgetsByName(t, token, "2024-04")
	if spent := decimalField(t, april["food"], "money_spent"); !spent.Equal(decimal.NewFromInt(220)) {
		t.Errorf("expected 220 spent in April after move, got %s", spent)
	}

	// Deleting brings the month back down.
	rec = app.request("DELETE", "/api/v1/transactions/"+kiwiID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 deleting transaction, got %d: %s", rec.Code, rec.Body.String())
	}
	april = app.budgetsByName(t, token, "2024-04")
	if spent := decimalField(t, april["food"], "money_spent"); !spent.Equal(decimal.NewFromInt(70)) {
		t.Errorf("expected 70 spent in April after delete, got %s", spent)
	}
}

func TestFoodSyncFlow_ExplicitSync(t *testing.T) {
	app := setupApp(t)
	userID := testutil.NewUserID()
	token := testutil.NewAccessToken(t, userID)

	testutil.CreateTestTransaction(t, app.DB, userID, "expense", "Meny Storo", 320, testutil.Date(2024, 5, 3))

	rec := app.request("POST", "/api/v1/budgets/food/sync", `{"month":"2024-05"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["created"] != true {
		t.Error("expected the food budget to be created")
	}
	if spent := decimalField(t, result, "spent"); !spent.Equal(decimal.NewFromInt(320)) {
		t.Errorf("expected 320, got %s", spent)
	}

	// A second sync updates the same row.
	rec = app.request("POST", "/api/v1/budgets/food/sync", `{"month":"2024-05"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["created"] != false {
		t.Error("expected second sync to update, not create")
	}
	if n := len(app.budgetsByName(t, token, "2024-05")); n != 1 {
		t.Errorf("expected exactly one budget, got %d", n)
	}
}

func TestFoodSyncFlow_QueuedReconciliation(t *testing.T) {
	pub := &recordingPublisher{}
	app := setupApp(t, func(o *Options) { o.Publisher = pub })
	token := testutil.NewAccessToken(t, "user-queued")

	rec := app.request("POST", "/api/v1/transactions/import", `{"transactions":[
		{"date":"2024-06-01","category":"expense","amount":40,"description":"Joker"},
		{"date":"2024-06-09","category":"expense","amount":60,"description":"Spar"},
		{"date":"2024-07-01","category":"expense","amount":10,"description":"Oda"}
	]}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if len(pub.requests) != 2 {
		t.Fatalf("expected one request per affected month, got %v", pub.requests)
	}
	want := map[string]bool{"user-queued|2024-06": true, "user-queued|2024-07": true}
	for _, r := range pub.requests {
		if !want[r] {
			t.Errorf("unexpected reconcile request %s", r)
		}
	}

	if _, ok := app.budgetsByName(t, token, "2024-06")["food"]; ok {
		t.Error("expected no inline food budget when a publisher is configured")
	}

	// The worker side runs the same reconciler.
	res, err := app.Reconciler.ReconcileMonth(t.Context(), "user-queued", month.Key{Year: 2024, Month: time.June})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Spent.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected 100, got %s", res.Spent)
	}
}

func TestFoodSyncFlow_WorkerChangesReachAPICache(t *testing.T) {
	bus := &memoryBus{}
	api := setupApp(t, func(o *Options) { o.Publisher = bus })
	worker := New(api.DB, Options{ChangePublisher: bus})
	t.Cleanup(func() { _ = worker.WS.Close() })

	token := testutil.NewAccessToken(t, "user-split")
	reconcile := queue.ReconcileHandler(worker.Reconciler)
	apply := queue.ApplyBudgetChanges(api.Budgets)

	foodSpent := func(t *testing.T) decimal.Decimal {
		t.Helper()
		food, ok := api.budgetsByName(t, token, "2024-06")["food"]
		if !ok {
			t.Fatal("expected a food budget for 2024-06")
		}
		return decimalField(t, food, "money_spent")
	}

	addExpense := func(body string) {
		t.Helper()
		rec := api.request("POST", "/api/v1/transactions", body, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if n := bus.deliverReconcile(t, reconcile); n != 1 {
			t.Fatalf("expected one reconcile request, got %d", n)
		}
	}

	addExpense(`{"date":"2024-06-03","category":"expense","amount":250,"description":"Rema 1000"}`)
	if n := bus.deliverEvents(t, apply); n != 1 {
		t.Fatalf("expected one budget event from the worker, got %d", n)
	}
	if spent := foodSpent(t); !spent.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected 250, got %s", spent)
	}

	addExpense(`{"date":"2024-06-10","category":"expense","amount":100,"description":"Kiwi"}`)

	t.Run("served_from_cache_before_event", func(t *testing.T) {
		if spent := foodSpent(t); !spent.Equal(decimal.NewFromInt(250)) {
			t.Errorf("expected cached 250, got %s", spent)
		}
	})

	t.Run("refreshed_after_event", func(t *testing.T) {
		if n := bus.deliverEvents(t, apply); n != 1 {
			t.Fatalf("expected one budget event, got %d", n)
		}
		if spent := foodSpent(t); !spent.Equal(decimal.NewFromInt(350)) {
			t.Errorf("expected 350 after the worker's change, got %s", spent)
		}
	})
}
