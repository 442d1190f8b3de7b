package client

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	rpctest "github.com/tendermint/tendermint/rpc/test"
	tmtypes "github.com/tendermint/tendermint/types"
)

func TestStatusAndHeader(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	ctx, cancel := timeoutCtx()
	defer cancel()

	status, err := c.Status(ctx)
	require.NoError(t, err)
	require.False(t, status.CatchingUp)
	require.Equal(t, rpctest.GetConfig().ChainID(), status.ChainID)
	require.True(t, status.Height > 0, "height %d", status.Height)

	h, err := c.Header(ctx, status.Height)
	require.NoError(t, err)
	require.Equal(t, status.Height, h.Height)

	_, err = c.Header(ctx, status.Height+100)
	require.Error(t, err, "header of a block that does not exist yet")
}

func TestWaitForHeight(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	ctx, cancel := timeoutCtx()
	defer cancel()

	for _, diff := range []int64{-1, 0, 1, 2} {
		status, err := c.Status(ctx)
		require.NoError(t, err)
		want := status.Height + diff

		h, err := c.WaitForHeight(ctx, want)
		require.NoError(t, err, "diff %d", diff)
		require.True(t, h.Height >= want, "diff %d: got height %d, want %d", diff, h.Height, want)
	}

	before, err := c.Status(ctx)
	require.NoError(t, err)
	next, err := c.WaitForNextBlock(ctx)
	require.NoError(t, err)
	require.True(t, next.Height > before.Height)
}

func TestWaitForHeightTimeout(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.WaitForHeight(ctx, 1<<40)
	require.Error(t, err)
}

func TestSubscribeHeadersInOrder(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	headers := make(chan Header, 4)
	require.NoError(t, c.SubscribeHeaders(ctx, headers))

	var last int64
	for i := 0; i < 3; i++ {
		h, ok := <-headers
		require.True(t, ok, "channel closed after %d headers", i)
		require.True(t, h.Height > last, "height %d after %d", h.Height, last)
		last = h.Height
	}

	// Cancelling the subscription closes the channel.
	cancel()
	for range headers {
	}
}

func TestSearchTxByHash(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	res, err := c.conn.BroadcastTxCommit(tmtypes.Tx("pensioner=7"))
	require.NoError(t, err)
	time.Sleep(indexDelay)

	found, err := c.SearchTx(context.Background(), fmt.Sprintf("%s='%X'", tmtypes.TxHashKey, res.Hash))
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, res.Height, found[0].Height)
	require.NoError(t, found[0].Err)
}
