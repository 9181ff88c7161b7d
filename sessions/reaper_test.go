package sessions_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/novawrites/auth-service/sessions"
	"github.com/novawrites/auth-service/sessions/repofake"
)

func TestReaperStopsOnContextCancel(t *testing.T) {
	registry, err := sessions.NewRegistry(repofake.NewFakeSessionRepo(), time.Hour)
	require.NoError(t, err)

	reaper := sessions.NewReaper(registry, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		reaper.Run(ctx)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop after context cancellation")
	}
}

func TestReaperFlipsExpiredSessions(t *testing.T) {
	f := setupRegistry(t)
	f.createSession(t, testUserID, "r1")

	// Let the wall-clock reaper see the fixture's simulated expiry
	f.advance(testRefreshTTL + time.Minute)

	reaper := sessions.NewReaper(f.registry, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		reaper.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		session, err := f.repo.GetByToken(context.Background(), "access-r1")
		return err == nil && !session.Active
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}
