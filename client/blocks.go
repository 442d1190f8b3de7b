package client

import (
	"context"
	"fmt"
	"time"

	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/errors"
	cmn "github.com/tendermint/tendermint/libs/common"
	tmquery "github.com/tendermint/tendermint/libs/pubsub/query"
	tmtypes "github.com/tendermint/tendermint/types"
)

// Header is a tendermint block header.
type Header = tmtypes.Header

const (
	searchPageSize = 50

	// indexDelay gives the node time to index the transactions of a new
	// block before it is queried.
	indexDelay = 100 * time.Millisecond
)

// Header fails with ErrInput for a height that was not reached yet.
func (c *Client) Header(ctx context.Context, height int64) (*Header, error) {
	info, err := c.conn.BlockchainInfo(height, height)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "blockchain info: %s", err)
	}
	if len(info.BlockMetas) == 0 {
		return nil, errors.Wrapf(errors.ErrInput, "no block at height %d", height)
	}
	return &info.BlockMetas[0].Header, nil
}

// SearchTx returns the first page of committed transactions matching the
// tendermint query, for example "tx.height=5".
func (c *Client) SearchTx(ctx context.Context, query string) ([]*CommitResult, error) {
	res, err := c.conn.TxSearch(query, false, 1, searchPageSize)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "search tx: %s", err)
	}
	out := make([]*CommitResult, len(res.Txs))
	for i, tx := range res.Txs {
		dres, err := weave.ParseDeliverOrError(tx.TxResult)
		out[i] = &CommitResult{ID: tx.Hash, Height: tx.Height, Result: dres, Err: err}
	}
	return out, nil
}

// SubscribeHeaders sends every new block header to headers until ctx is
// done, then closes it.
func (c *Client) SubscribeHeaders(ctx context.Context, headers chan<- Header) error {
	q, err := tmquery.New(fmt.Sprintf("%s='%s'", tmtypes.EventTypeKey, tmtypes.EventNewBlockHeader))
	if err != nil {
		return errors.Wrapf(errors.ErrHuman, "header query: %s", err)
	}
	subscriber := "pension-" + cmn.RandStr(16)
	events, err := c.conn.Subscribe(ctx, subscriber, q.String(), cap(headers))
	if err != nil {
		return errors.Wrapf(errors.ErrNetwork, "subscribe: %s", err)
	}

	go func() {
		defer close(headers)
		defer func() {
			_ = c.conn.Unsubscribe(context.Background(), subscriber, q.String())
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				h, ok := ev.Data.(tmtypes.EventDataNewBlockHeader)
				if !ok {
					continue
				}
				select {
				case headers <- h.Header:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return nil
}

// WaitForNextBlock returns the header of the next block.
func (c *Client) WaitForNextBlock(ctx context.Context) (*Header, error) {
	return c.waitFor(ctx, func(Header) bool { return true })
}

// WaitForHeight returns the first new header at height or above. It waits
// for a new block even when height was already reached.
func (c *Client) WaitForHeight(ctx context.Context, height int64) (*Header, error) {
	return c.waitFor(ctx, func(h Header) bool { return h.Height >= height })
}

func (c *Client) waitFor(ctx context.Context, done func(Header) bool) (*Header, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	headers := make(chan Header, 2)
	if err := c.SubscribeHeaders(ctx, headers); err != nil {
		return nil, err
	}
	for h := range headers {
		if done(h) {
			time.Sleep(indexDelay)
			return &h, nil
		}
	}
	return nil, errors.Wrap(errors.ErrNetwork, "subscription closed")
}
