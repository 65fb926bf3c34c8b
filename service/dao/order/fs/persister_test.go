package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/chatapproval/model"
)

func TestPersister_RoundTrip(t *testing.T) {
	ctx := context.Background()
	baseDir := filepath.Join(t.TempDir(), "state")

	persister, err := New(ctx, baseDir)
	require.NoError(t, err)

	orders, err := persister.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	reason := "wrong dates"
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	first := model.NewOrder("INV-1", []string{"6281@s.whatsapp.net", "6282@s.whatsapp.net"}, "http://cb", now)
	first.Recipients["6282@s.whatsapp.net"] = &model.Response{State: model.StateRejected, RejectReason: &reason, RespondedAt: &now}
	second := model.NewOrder("INV-2", []string{"6283@s.whatsapp.net"}, "", now)

	require.NoError(t, persister.Save(ctx, []*model.Order{first, second}))
	_, err = os.Stat(filepath.Join(baseDir, DefaultFilename))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(baseDir, DefaultFilename+".tmp"))
	assert.True(t, os.IsNotExist(err))

	reloaded, err := New(ctx, baseDir)
	require.NoError(t, err)
	orders, err = reloaded.Load(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "INV-1", orders[0].ID)
	assert.Equal(t, "http://cb", orders[0].CallbackURL)
	assert.Equal(t, model.StatusPending, orders[0].Status)
	assert.Equal(t, model.StateUnanswered, orders[0].Recipients["6281@s.whatsapp.net"].State)
	rejected := orders[0].Recipients["6282@s.whatsapp.net"]
	assert.Equal(t, model.StateRejected, rejected.State)
	require.NotNil(t, rejected.RejectReason)
	assert.Equal(t, reason, *rejected.RejectReason)

	require.NoError(t, persister.Save(ctx, []*model.Order{second}))
	orders, err = reloaded.Load(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "INV-2", orders[0].ID)
}

func TestPersister_LoadCorrupted(t *testing.T) {
	ctx := context.Background()
	baseDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(baseDir, DefaultFilename), []byte("{not json"), 0o644))

	persister, err := New(ctx, baseDir)
	require.NoError(t, err)
	_, err = persister.Load(ctx)
	assert.Error(t, err)
}
