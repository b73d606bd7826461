package relay

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUserSupersedes(t *testing.T) {
	registry := NewRegistry()
	first := &fakeConn{}
	second := &fakeConn{}

	prev := registry.RegisterUser(1, first)
	assert.Nil(t, prev)

	prev = registry.RegisterUser(1, second)
	assert.Same(t, first, prev.(*fakeConn))

	// Only the newest connection resolves.
	conn, ok := registry.LookupUser(1)
	require.True(t, ok)
	assert.Same(t, second, conn.(*fakeConn))
	assert.Equal(t, 1, registry.UserCount())
}

func TestUnregisterUserIgnoresStaleConn(t *testing.T) {
	registry := NewRegistry()
	old := &fakeConn{}
	fresh := &fakeConn{}

	registry.RegisterUser(1, old)
	registry.RegisterUser(1, fresh)

	// The superseded session's late disconnect must not remove the live entry.
	assert.False(t, registry.UnregisterUser(1, old))

	conn, ok := registry.LookupUser(1)
	require.True(t, ok)
	assert.Same(t, fresh, conn.(*fakeConn))

	assert.True(t, registry.UnregisterUser(1, fresh))
	_, ok = registry.LookupUser(1)
	assert.False(t, ok)
}

func TestAdminConnectionsCoexist(t *testing.T) {
	registry := NewRegistry()
	tabOne := &fakeConn{}
	tabTwo := &fakeConn{}
	other := &fakeConn{}

	registry.RegisterAdmin(10, tabOne)
	registry.RegisterAdmin(10, tabTwo)
	registry.RegisterAdmin(11, other)

	admins := registry.Admins()
	assert.Len(t, admins, 3)

	registry.UnregisterAdmin(tabOne)
	admins = registry.Admins()
	assert.Len(t, admins, 2)
	for _, admin := range admins {
		assert.NotSame(t, tabOne, admin.Conn.(*fakeConn))
	}
}

func TestRegistryConcurrentChurn(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			conn := &fakeConn{}
			registry.RegisterUser(userID, conn)
			registry.LookupUser(userID)
			registry.UnregisterUser(userID, conn)
		}(uint(i % 10))
	}
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(adminID uint) {
			defer wg.Done()
			conn := &fakeConn{}
			registry.RegisterAdmin(adminID, conn)
			registry.Admins()
			registry.UnregisterAdmin(conn)
		}(uint(i))
	}
	wg.Wait()

	assert.Zero(t, registry.AdminCount())
}
