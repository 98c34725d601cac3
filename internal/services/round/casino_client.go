package round

import (
	"context"

	"github.com/juanwalsh/backendtest/internal/infra/sigclient"
)

// CasinoClient is the provider's view of the casino wallet API. All calls
// are synchronous signed HTTP posts.
type CasinoClient struct {
	c *sigclient.Client
}

// NewCasinoClient points at the casino's base URL, e.g.
// "http://localhost:3000/casino".
func NewCasinoClient(baseURL, secret string) *CasinoClient {
	return &CasinoClient{c: sigclient.New(baseURL, secret, "X-Casino-Signature")}
}

// BalanceReply is the casino's balance response.
type BalanceReply struct {
	Success           bool   `json:"success"`
	UserID            int64  `json:"userId"`
	PlayableBalance   string `json:"playableBalance"`
	RedeemableBalance string `json:"redeemableBalance"`
	CurrencyCode      string `json:"currencyCode"`
}

// WalletReply is the casino's response to debit/credit/rollback.
type WalletReply struct {
	Success               bool   `json:"success"`
	TransactionID         string `json:"transactionId"`
	ExternalTransactionID string `json:"externalTransactionId"`
	TransactionType       string `json:"transactionType"`
	Amount                string `json:"amount"`
	BalanceAfter          string `json:"balanceAfter"`
	Status                string `json:"status"`
}

func (cc *CasinoClient) GetBalance(ctx context.Context, requestID, token string) (*BalanceReply, error) {
	var reply BalanceReply

	err := cc.c.PostJSON(ctx, "/getBalance", requestID, map[string]string{"token": token}, &reply)
	if err != nil {
		return nil, err
	}

	return &reply, nil
}

func (cc *CasinoClient) Debit(ctx context.Context, requestID, token, amount, transactionID string) (*WalletReply, error) {
	return cc.walletCall(ctx, "/debit", requestID, map[string]string{
		"token":         token,
		"amount":        amount,
		"transactionId": transactionID,
	})
}

func (cc *CasinoClient) Credit(ctx context.Context, requestID, token, amount, transactionID string) (*WalletReply, error) {
	return cc.walletCall(ctx, "/credit", requestID, map[string]string{
		"token":         token,
		"amount":        amount,
		"transactionId": transactionID,
	})
}

func (cc *CasinoClient) Rollback(ctx context.Context, requestID, token, amount, transactionID, originalTransactionID string) (*WalletReply, error) {
	return cc.walletCall(ctx, "/rollback", requestID, map[string]string{
		"token":                 token,
		"amount":                amount,
		"transactionId":         transactionID,
		"originalTransactionId": originalTransactionID,
	})
}

func (cc *CasinoClient) walletCall(ctx context.Context, path, requestID string, body map[string]string) (*WalletReply, error) {
	var reply WalletReply

	err := cc.c.PostJSON(ctx, path, requestID, body, &reply)
	if err != nil {
		return nil, err
	}

	return &reply, nil
}
