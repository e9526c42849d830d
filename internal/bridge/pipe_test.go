package bridge

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPipeCarriesEndpoints(t *testing.T) {
	toChildR, toChildW, err := os.Pipe()
	require.NoError(t, err)
	fromChildR, fromChildW, err := os.Pipe()
	require.NoError(t, err)

	host := NewEndpoint(Pipe{R: fromChildR, W: toChildW})
	child := NewEndpoint(Pipe{R: toChildR, W: fromChildW})
	t.Cleanup(func() {
		host.Close()
		child.Close()
	})

	got := make(chan FileSave, 1)
	NewRenderer(child).OnFileSave(func(_ context.Context, p FileSave) error {
		got <- p
		return nil
	})
	errc := runAsync(t, child)

	require.NoError(t, NewMain(host).SendFileSave(context.Background(), "/tmp/a.txt"))
	require.Equal(t, "/tmp/a.txt", recv(t, got).FilePath)

	// Closing the host side ends the child's read loop.
	require.NoError(t, host.Close())
	require.Error(t, recv(t, errc))
}
