package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"game-tournament-api/apperrors"
	"game-tournament-api/config"
)

// TxDetails is what the chain oracle reports for a transaction reference.
type TxDetails struct {
	Amount float64 `json:"amount"`
	To     string  `json:"to"`
	Status string  `json:"status,omitempty"`
}

// TransactionOracle looks up an on-chain transaction by hash. A network or
// upstream failure is surfaced as oracle_unavailable so callers can retry;
// it is never folded into "payment rejected".
type TransactionOracle interface {
	Lookup(ctx context.Context, txHash string) (*TxDetails, error)
}

// TatumOracle queries the Tatum TRON API.
type TatumOracle struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewTatumOracle(cfg config.Config) *TatumOracle {
	return &TatumOracle{
		BaseURL: cfg.TatumBaseURL,
		APIKey:  cfg.TatumAPIKey,
		Client: &http.Client{
			Timeout: cfg.OracleTimeout,
		},
	}
}

func (o *TatumOracle) Lookup(ctx context.Context, txHash string) (*TxDetails, error) {
	url := fmt.Sprintf("%s/v3/tron/transaction/%s", o.BaseURL, txHash)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, apperrors.OracleUnavailable(err)
	}
	req.Header.Set("x-api-key", o.APIKey)

	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, apperrors.OracleUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		log.Printf("[ORACLE] Tatum returned %d for tx %s", resp.StatusCode, txHash)
		return nil, apperrors.OracleUnavailable(fmt.Errorf("tatum returned %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		// The oracle answered but knows no such transaction.
		return nil, apperrors.PaymentInvalid("transaction %s not found on chain", txHash)
	}

	var details TxDetails
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return nil, apperrors.OracleUnavailable(fmt.Errorf("decoding tatum response: %w", err))
	}
	return &details, nil
}

// PaymentVerifier validates a claimed entry-fee payment on the automatic
// path. The manual path skips it entirely; validity there is asserted by
// admin attestation in ConfirmManualPayment.
type PaymentVerifier struct {
	Oracle        TransactionOracle
	CentralWallet string
}

func NewPaymentVerifier(oracle TransactionOracle, cfg config.Config) *PaymentVerifier {
	return &PaymentVerifier{Oracle: oracle, CentralWallet: cfg.CentralWallet}
}

// VerifyAutomatic returns the transferred amount when the transaction paid
// at least minAmount to the central wallet, and payment_invalid otherwise.
func (v *PaymentVerifier) VerifyAutomatic(ctx context.Context, txHash string, minAmount float64) (float64, error) {
	details, err := v.Oracle.Lookup(ctx, txHash)
	if err != nil {
		return 0, err
	}
	if details.To != v.CentralWallet {
		return 0, apperrors.PaymentInvalid("transaction destination does not match the central wallet")
	}
	if details.Amount < minAmount {
		return 0, apperrors.PaymentInvalid("transaction amount %.2f is below the entry fee %.2f", details.Amount, minAmount)
	}
	return details.Amount, nil
}
