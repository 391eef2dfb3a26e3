package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal-gateway/internal/domain"
)

type fakeExchangeClient struct {
	validateCalls int
	submitCalls   int
	lastAction    domain.OrderAction
	orderID       string
	err           error
	positions     []domain.ExchangePosition
}

func (c *fakeExchangeClient) ValidateOrder(_ context.Context, action domain.OrderAction) (string, error) {
	c.validateCalls++
	c.lastAction = action
	return c.orderID, c.err
}

func (c *fakeExchangeClient) SubmitOrder(_ context.Context, action domain.OrderAction) (string, error) {
	c.submitCalls++
	c.lastAction = action
	return c.orderID, c.err
}

func (c *fakeExchangeClient) OpenPositions(_ context.Context) ([]domain.ExchangePosition, error) {
	return c.positions, c.err
}

func fixedFactory(client domain.ExchangeClient) domain.ExchangeClientFactory {
	return func(domain.AccountConfig) (domain.ExchangeClient, error) {
		return client, nil
	}
}

func testAction() domain.OrderAction {
	return domain.OrderAction{
		AccountID:     "acct",
		Symbol:        "BTCUSDT",
		Kind:          domain.ActionOpen,
		Side:          domain.SideLong,
		Quantity:      1,
		EntryType:     domain.EntryMarket,
		ClientOrderID: "acct-BTCUSDT-ENTER-1",
	}
}

func TestExecuteDryNeverTouchesTheExchange(t *testing.T) {
	factoryCalls := 0
	d := NewDispatcher(func(domain.AccountConfig) (domain.ExchangeClient, error) {
		factoryCalls++
		return nil, errors.New("should not be called")
	})

	account := domain.AccountConfig{AccountID: "acct", Mode: domain.ModeDry}
	result, err := d.Execute(context.Background(), testAction(), account)
	require.NoError(t, err)

	assert.Zero(t, factoryCalls)
	assert.True(t, result.Accepted)
	assert.True(t, strings.HasPrefix(result.OrderID, "dryrun-"), "order_id=%s", result.OrderID)
	assert.Equal(t, domain.ModeDry, result.Mode)
}

func TestExecuteTestModeValidatesOnly(t *testing.T) {
	client := &fakeExchangeClient{}
	d := NewDispatcher(fixedFactory(client))

	account := domain.AccountConfig{AccountID: "acct", Mode: domain.ModeTest}
	result, err := d.Execute(context.Background(), testAction(), account)
	require.NoError(t, err)

	assert.Equal(t, 1, client.validateCalls)
	assert.Zero(t, client.submitCalls)
	assert.True(t, result.Accepted)
}

func TestExecuteLiveSubmitsAndPropagatesOrderID(t *testing.T) {
	client := &fakeExchangeClient{orderID: "1234567890"}
	d := NewDispatcher(fixedFactory(client))

	account := domain.AccountConfig{AccountID: "acct", Mode: domain.ModeLive}
	result, err := d.Execute(context.Background(), testAction(), account)
	require.NoError(t, err)

	assert.Equal(t, 1, client.submitCalls)
	assert.Zero(t, client.validateCalls)
	assert.True(t, result.Accepted)
	assert.Equal(t, "1234567890", result.OrderID)
	assert.Equal(t, "acct-BTCUSDT-ENTER-1", client.lastAction.ClientOrderID)
}

func TestExecuteExchangeFailureIsNotAccepted(t *testing.T) {
	client := &fakeExchangeClient{err: &domain.ExchangeError{Code: 100400, Message: "bad quantity"}}
	d := NewDispatcher(fixedFactory(client))

	account := domain.AccountConfig{AccountID: "acct", Mode: domain.ModeLive}
	result, err := d.Execute(context.Background(), testAction(), account)
	require.Error(t, err) // caller rolls the position back on this

	assert.False(t, result.Accepted)
	assert.Contains(t, result.Error, "bad quantity")
}

func TestExecuteNoPositionIsASoftNoOp(t *testing.T) {
	client := &fakeExchangeClient{err: &domain.ExchangeError{Code: 101205, Message: "No position to close", NoPosition: true}}
	d := NewDispatcher(fixedFactory(client))

	account := domain.AccountConfig{AccountID: "acct", Mode: domain.ModeDemo}
	action := testAction()
	action.Kind = domain.ActionClose

	result, err := d.Execute(context.Background(), action, account)
	require.NoError(t, err) // no rollback: the flat state stands

	assert.True(t, result.Accepted)
	assert.True(t, result.NoPosition)
}

func TestExecuteCachesClientPerAccount(t *testing.T) {
	factoryCalls := 0
	client := &fakeExchangeClient{}
	d := NewDispatcher(func(domain.AccountConfig) (domain.ExchangeClient, error) {
		factoryCalls++
		return client, nil
	})

	account := domain.AccountConfig{AccountID: "acct", Mode: domain.ModeLive}
	_, err := d.Execute(context.Background(), testAction(), account)
	require.NoError(t, err)
	_, err = d.Execute(context.Background(), testAction(), account)
	require.NoError(t, err)

	assert.Equal(t, 1, factoryCalls)
	assert.Equal(t, 2, client.submitCalls)
}
