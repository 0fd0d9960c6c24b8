package rest

import (
	"context"
	"net/http"
	"net/url"

	"crewfin/internal/core"
)

// ListUsers implements backend.UserDirectory.
func (c *Client) ListUsers(ctx context.Context) ([]core.User, error) {
	var users []core.User
	if err := c.getJSON(ctx, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	var created core.User
	if err := c.do(ctx, http.MethodPost, "/users", u, &created); err != nil {
		return core.User{}, err
	}
	return created, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, u core.User) (core.User, error) {
	var updated core.User
	if err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id), u, &updated); err != nil {
		return core.User{}, err
	}
	return updated, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
}

// ListPlans implements backend.PlanStore.
func (c *Client) ListPlans(ctx context.Context) ([]core.Plan, error) {
	var plans []core.Plan
	if err := c.getJSON(ctx, "/sip-plans", nil, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (c *Client) CreatePlan(ctx context.Context, p core.Plan) (core.Plan, error) {
	var created core.Plan
	if err := c.do(ctx, http.MethodPost, "/sip-plans", p, &created); err != nil {
		return core.Plan{}, err
	}
	return created, nil
}

func (c *Client) DeletePlan(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/sip-plans/"+url.PathEscape(id), nil, nil)
}
