package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManager_Shutdown(t *testing.T) {
	require := require.New(t)

	manager := NewMockSystemManager()
	var order []int
	manager.AddPreShutdownHook(func() { order = append(order, 1) })
	manager.AddPreShutdownHook(func() { order = append(order, 2) })

	require.NoError(manager.ServiceContext().Err())
	manager.Shutdown()
	manager.Shutdown()

	require.Error(manager.ServiceContext().Err())
	require.NoError(manager.Context().Err())
	require.Equal([]int{2, 1}, order)

	// Returns immediately once the manager is shut down.
	manager.WaitForInterrupt()
}
