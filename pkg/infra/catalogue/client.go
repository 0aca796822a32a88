package catalogue

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	common "github.com/matchforge/platform/pkg/domain"
)

// gameExistsMethod is the fully-qualified RPC this client invokes against
// the external games database (spec §1 out-of-scope collaborator). The
// service lives outside this module, so there is no local .proto to
// generate from; requests/responses are boxed in the well-known wrapper
// types rather than a bespoke message.
const gameExistsMethod = "/catalogue.GameCatalogueService/GameExists"

// Client implements matchmaking_out.GameCatalogueClient over gRPC.
type Client struct {
	conn    *grpc.ClientConn
	timeout time.Duration
}

// NewClient creates the gRPC client for target. grpc.NewClient does not
// connect until the first RPC, so an unreachable catalogue surfaces as
// CATALOGUE_UNAVAILABLE from GameExists rather than at startup.
func NewClient(target string, timeout time.Duration) (*Client, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("catalogue: dial %s: %w", target, err)
	}

	return &Client{conn: conn, timeout: timeout}, nil
}

// GameExists implements matchmaking_out.GameCatalogueClient. gRPC
// unavailability (connection refused, deadline exceeded) is surfaced as
// CATALOGUE_UNAVAILABLE so callers can map it to 502/503 per spec §7.
func (c *Client) GameExists(ctx context.Context, gameID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := wrapperspb.String(gameID)
	resp := &wrapperspb.BoolValue{}

	if err := c.conn.Invoke(ctx, gameExistsMethod, req, resp); err != nil {
		if s, ok := status.FromError(err); ok {
			switch s.Code() {
			case codes.Unavailable, codes.DeadlineExceeded:
				return false, common.NewErrCatalogueUnavailable(err)
			}
		}
		return false, common.NewErrCatalogueUnavailable(err)
	}

	return resp.GetValue(), nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
