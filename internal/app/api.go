package app

import (
	"context"

	"jasper/internal/client"
	"jasper/internal/types"
)

// BackendAPI is the slice of the assistant backend the terminal UI uses.
type BackendAPI interface {
	Query(ctx context.Context, query string) (*client.QueryResponse, error)
	Open(ctx context.Context, id string, provider types.Provider) error
	Restart(ctx context.Context) error
	Ping(ctx context.Context) error
	IndexStatus(ctx context.Context) (*types.IndexStatus, error)
}

type ClientAPI struct {
	client *client.Client
}

func NewClientAPI(client *client.Client) *ClientAPI {
	return &ClientAPI{client: client}
}

func (a *ClientAPI) Query(ctx context.Context, query string) (*client.QueryResponse, error) {
	return a.client.Query(ctx, query)
}

func (a *ClientAPI) Open(ctx context.Context, id string, provider types.Provider) error {
	return a.client.Open(ctx, id, provider)
}

func (a *ClientAPI) Restart(ctx context.Context) error {
	return a.client.Restart(ctx)
}

func (a *ClientAPI) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *ClientAPI) IndexStatus(ctx context.Context) (*types.IndexStatus, error) {
	return a.client.IndexStatus(ctx)
}
