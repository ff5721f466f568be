package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/votemonitor/internal/model"
)

func TestSetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := New()

	got, err := c.GetCredentials(ctx, "t1")
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, c.SetCredentials(ctx, "t1", &model.Credentials{Email: "demo1@x.com", Password: "p4ss"}, time.Minute))
	got, err = c.GetCredentials(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, &model.Credentials{Email: "demo1@x.com", Password: "p4ss"}, got)

	require.NoError(t, c.DeleteCredentials(ctx, "t1"))
	got, err = c.GetCredentials(ctx, "t1")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	c := New()
	c.now = func() time.Time { return now }

	require.NoError(t, c.SetCredentials(ctx, "t1", &model.Credentials{Email: "a@x.com", Password: "p"}, time.Minute))
	now = now.Add(2 * time.Minute)

	got, err := c.GetCredentials(ctx, "t1")
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, c.SetCredentials(ctx, "t2", &model.Credentials{Email: "b@x.com", Password: "p"}, time.Minute))
	require.Len(t, c.items, 1)
}

func TestReturnedValueIsACopy(t *testing.T) {
	ctx := context.Background()
	c := New()
	require.NoError(t, c.SetCredentials(ctx, "t1", &model.Credentials{Email: "a@x.com", Password: "p"}, time.Minute))

	got, _ := c.GetCredentials(ctx, "t1")
	got.Password = "changed"

	again, _ := c.GetCredentials(ctx, "t1")
	require.Equal(t, "p", again.Password)
}
