package api

import (
	"context"

	"github.com/juanwalsh/backendtest/internal/infra/sigclient"
	"github.com/juanwalsh/backendtest/internal/services/round"
)

// ProviderClient is the casino's signed client for the provider endpoints.
type ProviderClient struct {
	c *sigclient.Client
}

func NewProviderClient(baseURL, secret string) *ProviderClient {
	return &ProviderClient{c: sigclient.New(baseURL, secret, "X-Provider-Signature")}
}

type providerLaunchReply struct {
	Success           bool   `json:"success"`
	ProviderSessionID string `json:"providerSessionId"`
	PlayerID          int64  `json:"playerId"`
	GameID            string `json:"gameId"`
}

type providerSimulateReply struct {
	Success      bool         `json:"success"`
	RoundID      string       `json:"roundId"`
	Steps        []round.Step `json:"steps"`
	FinalBalance string       `json:"finalBalance"`
}

func (pc *ProviderClient) Launch(ctx context.Context, requestID, token string, userID int64, gameRef string) (*providerLaunchReply, error) {
	var reply providerLaunchReply

	err := pc.c.PostJSON(ctx, "/launch", requestID, map[string]any{
		"token":  token,
		"userId": userID,
		"gameId": gameRef,
	}, &reply)
	if err != nil {
		return nil, err
	}

	return &reply, nil
}

func (pc *ProviderClient) Simulate(ctx context.Context, requestID, token string) (*providerSimulateReply, error) {
	var reply providerSimulateReply

	err := pc.c.PostJSON(ctx, "/simulate", requestID, map[string]string{"token": token}, &reply)
	if err != nil {
		return nil, err
	}

	return &reply, nil
}
