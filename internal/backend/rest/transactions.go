package rest

import (
	"context"
	"net/http"
	"net/url"

	"crewfin/internal/backend"
	"crewfin/internal/core"
)

// ListTransactions implements backend.TransactionStore.
func (c *Client) ListTransactions(ctx context.Context, filter backend.TxFilter) ([]core.Transaction, error) {
	query := map[string]string{}
	if filter.UserID != "" {
		query["userId"] = filter.UserID
	}
	var txs []core.Transaction
	if err := c.getJSON(ctx, "/transactions", query, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (c *Client) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	var created core.Transaction
	if err := c.do(ctx, http.MethodPost, "/transactions", t, &created); err != nil {
		return core.Transaction{}, err
	}
	return created, nil
}

func (c *Client) UpdateTransaction(ctx context.Context, id string, t core.Transaction) (core.Transaction, error) {
	var updated core.Transaction
	if err := c.do(ctx, http.MethodPut, "/transactions/"+url.PathEscape(id), t, &updated); err != nil {
		return core.Transaction{}, err
	}
	return updated, nil
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/transactions/"+url.PathEscape(id), nil, nil)
}

func (c *Client) BulkDeleteTransactions(ctx context.Context, ids []string) error {
	payload := struct {
		IDs []string `json:"ids"`
	}{IDs: ids}
	return c.do(ctx, http.MethodPost, "/transactions/bulk-delete", payload, nil)
}

func (c *Client) BulkUpdateCategory(ctx context.Context, ids []string, category string) error {
	payload := struct {
		IDs      []string `json:"ids"`
		Category string   `json:"category"`
	}{IDs: ids, Category: category}
	return c.do(ctx, http.MethodPost, "/transactions/bulk-category", payload, nil)
}
