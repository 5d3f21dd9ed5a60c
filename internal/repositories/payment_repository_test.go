package repositories

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"fleetbackend/internal/domain"
	"fleetbackend/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestTransitionFromPendingWinsWhenRowStillPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE payment_transactions").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := PaymentRepository{DB: db}
	now := time.Now().UTC()
	won, err := repo.TransitionFromPending(context.Background(), "pt-1", models.PaymentSuccess, json.RawMessage(`{}`), &now)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !won {
		t.Fatalf("expected transition to win")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransitionFromPendingLosesWhenAlreadyTerminal(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE payment_transactions").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := PaymentRepository{DB: db}
	won, err := repo.TransitionFromPending(context.Background(), "pt-1", models.PaymentFailed, json.RawMessage(`{}`), nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if won {
		t.Fatalf("expected transition to lose against a non-pending row")
	}
}

func TestTransitionFromPendingRejectsNonTerminalTarget(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := PaymentRepository{DB: db}
	_, err = repo.TransitionFromPending(context.Background(), "pt-1", models.PaymentPending, nil, nil)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM payment_transactions").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := PaymentRepository{DB: db}
	_, err = repo.GetByID(context.Background(), "missing")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestGetByIDScansFullRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("FROM payment_transactions").
		WithArgs("pt-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "vendor_id", "amount", "currency", "payment_gateway",
			"gateway_transaction_id", "gateway_payment_id", "status",
			"payment_url", "description", "metadata",
			"wallet_transaction_id", "completed_at", "created_at", "updated_at"}).
			AddRow("pt-1", 7, "500.00", "INR", "zoho",
				"", "zp-9", "pending",
				"https://pay.example/pt-1", "wallet top-up", []byte(`null`),
				0, nil, now, now))

	repo := PaymentRepository{DB: db}
	pt, err := repo.GetByID(context.Background(), "pt-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pt.Status != models.PaymentPending {
		t.Fatalf("status not mapped, got %s", pt.Status)
	}
	if pt.GatewayPaymentID != "zp-9" || pt.VendorID != 7 {
		t.Fatalf("unexpected row: %+v", pt)
	}
	if pt.CompletedAt != nil {
		t.Fatalf("completed_at should stay nil for pending rows")
	}
}
