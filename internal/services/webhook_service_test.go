package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"fleetbackend/internal/domain"
	"fleetbackend/internal/domain/models"

	"github.com/shopspring/decimal"
)

func signBody(key string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func pendingPayment(id string) models.PaymentTransaction {
	return models.PaymentTransaction{
		ID:          id,
		VendorID:    7,
		Amount:      decimal.RequireFromString("500.00"),
		Currency:    "INR",
		Gateway:     "zoho",
		Status:      models.PaymentPending,
		Description: "wallet top-up",
	}
}

func testWebhookService(store *fakePaymentStore, wallets *fakeWalletStore) WebhookService {
	return WebhookService{Payments: store, Wallets: wallets}
}

func TestWebhookCapturedCreditsWalletOnce(t *testing.T) {
	store := newFakePaymentStore(pendingPayment("pt-1"))
	wallets := newFakeWalletStore(7)
	svc := testWebhookService(store, wallets)

	body := []byte(`{"payment":{"payment_id":"zp-9","reference_id":"pt-1","status":"captured","amount":50000}}`)
	result, err := svc.Handle(context.Background(), body, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Status != models.PaymentSuccess || result.Duplicate {
		t.Fatalf("unexpected result: %+v", result)
	}

	pt := store.rows["pt-1"]
	if pt.Status != models.PaymentSuccess || pt.CompletedAt == nil {
		t.Fatalf("row not finalized: %+v", pt)
	}
	if pt.GatewayPaymentID != "zp-9" {
		t.Fatalf("gateway id not backfilled: %+v", pt)
	}

	if len(wallets.appended) != 1 {
		t.Fatalf("expected exactly one credit, got %d", len(wallets.appended))
	}
	credit := wallets.appended[0]
	if credit.Amount.StringFixed(2) != "500.00" {
		t.Fatalf("minor units not converted, got %s", credit.Amount)
	}
	if !strings.Contains(credit.Description, "(Payment ID: zp-9)") {
		t.Fatalf("credit description missing gateway id: %q", credit.Description)
	}
	if pt.WalletTransactionID != credit.ID {
		t.Fatalf("ledger linkage missing: %+v", pt)
	}
}

func TestWebhookRedeliveryIsAbsorbedWithoutSecondCredit(t *testing.T) {
	store := newFakePaymentStore(pendingPayment("pt-1"))
	wallets := newFakeWalletStore(7)
	svc := testWebhookService(store, wallets)

	body := []byte(`{"payment_id":"zp-9","reference_id":"pt-1","status":"captured","amount":50000}`)
	if _, err := svc.Handle(context.Background(), body, ""); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	result, err := svc.Handle(context.Background(), body, "")
	if err != nil {
		t.Fatalf("second delivery must be acknowledged: %v", err)
	}
	if !result.Duplicate {
		t.Fatalf("second delivery should be flagged duplicate: %+v", result)
	}
	if len(wallets.appended) != 1 {
		t.Fatalf("re-delivery produced a second credit: %d entries", len(wallets.appended))
	}
}

func TestWebhookRedeliveryRepairsStrandedCredit(t *testing.T) {
	store := newFakePaymentStore(pendingPayment("pt-1"))
	wallets := newFakeWalletStore() // no wallet for vendor 7 yet
	svc := testWebhookService(store, wallets)

	body := []byte(`{"payment_id":"zp-9","reference_id":"pt-1","status":"captured","amount":50000}`)
	if _, err := svc.Handle(context.Background(), body, ""); err == nil {
		t.Fatalf("first delivery should fail without a wallet")
	}

	// The transition won before the credit failed: the row is terminal but
	// nothing was ledgered.
	pt := store.rows["pt-1"]
	if pt.Status != models.PaymentSuccess || pt.WalletTransactionID != 0 {
		t.Fatalf("unexpected row after failed credit: %+v", pt)
	}

	wallets.wallets[7] = models.Wallet{ID: 1, VendorID: 7}
	result, err := svc.Handle(context.Background(), body, "")
	if err != nil {
		t.Fatalf("retry must succeed once the wallet exists: %v", err)
	}
	if !result.Duplicate || result.Status != models.PaymentSuccess {
		t.Fatalf("unexpected retry result: %+v", result)
	}
	if len(wallets.appended) != 1 {
		t.Fatalf("expected the retry to record the credit, got %d entries", len(wallets.appended))
	}
	credit := wallets.appended[0]
	if credit.Reference != "zp-9" {
		t.Fatalf("credit reference should be the gateway payment id: %+v", credit)
	}
	if store.rows["pt-1"].WalletTransactionID != credit.ID {
		t.Fatalf("ledger linkage missing after repair: %+v", store.rows["pt-1"])
	}

	// Further deliveries see the linkage and leave the ledger alone.
	if _, err := svc.Handle(context.Background(), body, ""); err != nil {
		t.Fatalf("third delivery: %v", err)
	}
	if len(wallets.appended) != 1 {
		t.Fatalf("repair ran twice: %d entries", len(wallets.appended))
	}
}

func TestWebhookRepairAbsorbsDuplicateLedgerReference(t *testing.T) {
	store := newFakePaymentStore(pendingPayment("pt-1"))
	wallets := newFakeWalletStore(7)
	svc := testWebhookService(store, wallets)

	// Another delivery already recorded the credit but its linkage update
	// was lost; the unique ledger reference must stop a second entry.
	row := store.rows["pt-1"]
	row.Status = models.PaymentSuccess
	store.rows["pt-1"] = row
	if _, err := wallets.AppendTransaction(context.Background(), models.WalletTransaction{
		WalletID:  1,
		VendorID:  7,
		Type:      models.TransactionCredit,
		Amount:    decimal.RequireFromString("500.00"),
		Reference: "zp-9",
	}); err != nil {
		t.Fatalf("seed credit: %v", err)
	}

	body := []byte(`{"payment_id":"zp-9","reference_id":"pt-1","status":"captured","amount":50000}`)
	result, err := svc.Handle(context.Background(), body, "")
	if err != nil {
		t.Fatalf("delivery must be acknowledged: %v", err)
	}
	if !result.Duplicate {
		t.Fatalf("expected duplicate acknowledgement: %+v", result)
	}
	if len(wallets.appended) != 1 {
		t.Fatalf("duplicate reference credited twice: %d entries", len(wallets.appended))
	}
}

func TestWebhookFailedStatusNeverCredits(t *testing.T) {
	store := newFakePaymentStore(pendingPayment("pt-1"))
	wallets := newFakeWalletStore(7)
	svc := testWebhookService(store, wallets)

	body := []byte(`{"reference_id":"pt-1","status":"failed"}`)
	result, err := svc.Handle(context.Background(), body, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Status != models.PaymentFailed {
		t.Fatalf("unexpected status: %+v", result)
	}
	if store.rows["pt-1"].CompletedAt != nil {
		t.Fatalf("failed payments must not carry completed_at")
	}
	if len(wallets.appended) != 0 {
		t.Fatalf("failure must not credit the wallet")
	}
}

func TestWebhookUnknownStatusKeepsPaymentPending(t *testing.T) {
	store := newFakePaymentStore(pendingPayment("pt-1"))
	svc := testWebhookService(store, newFakeWalletStore(7))

	body := []byte(`{"reference_id":"pt-1","status":"under_review"}`)
	result, err := svc.Handle(context.Background(), body, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Status != models.PaymentPending {
		t.Fatalf("unknown vocabulary must not transition, got %s", result.Status)
	}
	if len(store.rows["pt-1"].Metadata) == 0 {
		t.Fatalf("payload should be kept for audit")
	}
}

func TestWebhookResolvesByGatewayPaymentID(t *testing.T) {
	pt := pendingPayment("pt-1")
	pt.GatewayPaymentID = "zp-9"
	store := newFakePaymentStore(pt)
	wallets := newFakeWalletStore(7)
	svc := testWebhookService(store, wallets)

	body := []byte(`{"payment_id":"zp-9","status":"success","amount":50000}`)
	result, err := svc.Handle(context.Background(), body, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Status != models.PaymentSuccess {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(wallets.appended) != 1 {
		t.Fatalf("expected one credit, got %d", len(wallets.appended))
	}
}

func TestWebhookUnknownPaymentIsNotFound(t *testing.T) {
	svc := testWebhookService(newFakePaymentStore(), newFakeWalletStore(7))

	body := []byte(`{"reference_id":"ghost","status":"captured"}`)
	if _, err := svc.Handle(context.Background(), body, ""); !domain.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestWebhookRejectsUnparseableAndIdentifierlessPayloads(t *testing.T) {
	svc := testWebhookService(newFakePaymentStore(), newFakeWalletStore(7))

	if _, err := svc.Handle(context.Background(), []byte(`{broken`), ""); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for broken JSON, got %v", err)
	}
	if _, err := svc.Handle(context.Background(), []byte(`{"status":"captured"}`), ""); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for missing identifiers, got %v", err)
	}
}

func TestWebhookSignatureEnforcement(t *testing.T) {
	body := []byte(`{"reference_id":"pt-1","status":"captured","amount":50000}`)
	store := newFakePaymentStore(pendingPayment("pt-1"))
	svc := testWebhookService(store, newFakeWalletStore(7))
	svc.SigningKey = "whsec"

	if _, err := svc.Handle(context.Background(), body, ""); !domain.IsUnauthorized(err) {
		t.Fatalf("missing signature should be rejected, got %v", err)
	}
	if _, err := svc.Handle(context.Background(), body, signBody("wrong-key", body)); !domain.IsUnauthorized(err) {
		t.Fatalf("bad signature should be rejected, got %v", err)
	}

	result, err := svc.Handle(context.Background(), body, signBody("whsec", body))
	if err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}
	if result.Status != models.PaymentSuccess {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestWebhookAllowUnsignedOptOut(t *testing.T) {
	body := []byte(`{"reference_id":"pt-1","status":"failed"}`)
	svc := testWebhookService(newFakePaymentStore(pendingPayment("pt-1")), newFakeWalletStore(7))
	svc.SigningKey = "whsec"
	svc.AllowUnsigned = true

	if _, err := svc.Handle(context.Background(), body, ""); err != nil {
		t.Fatalf("unsigned delivery should pass with the opt-out, got %v", err)
	}
	if _, err := svc.Handle(context.Background(), body, signBody("wrong-key", body)); !domain.IsUnauthorized(err) {
		t.Fatalf("a present but wrong signature is still rejected, got %v", err)
	}
}

func TestWebhookMissingWalletIsNotFound(t *testing.T) {
	store := newFakePaymentStore(pendingPayment("pt-1"))
	svc := testWebhookService(store, newFakeWalletStore())

	body := []byte(`{"reference_id":"pt-1","status":"captured","amount":50000}`)
	if _, err := svc.Handle(context.Background(), body, ""); !domain.IsNotFound(err) {
		t.Fatalf("expected not-found for unprovisioned wallet, got %v", err)
	}
}

func TestWebhookMissingAmountFallsBackToStoredAmount(t *testing.T) {
	store := newFakePaymentStore(pendingPayment("pt-1"))
	wallets := newFakeWalletStore(7)
	svc := testWebhookService(store, wallets)

	body := []byte(`{"reference_id":"pt-1","status":"captured"}`)
	if _, err := svc.Handle(context.Background(), body, ""); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if wallets.appended[0].Amount.StringFixed(2) != "500.00" {
		t.Fatalf("fallback amount wrong: %s", wallets.appended[0].Amount)
	}
}
