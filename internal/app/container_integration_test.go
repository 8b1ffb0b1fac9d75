//go:build integration

package app_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"fleet-platform/internal/app"
	"fleet-platform/internal/config"
	"fleet-platform/internal/repository"
)

func TestMustBuildContainer_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := app.MustBuildContainer(ctx)
	require.NotNil(t, c)

	err := c.Invoke(func(cfg *config.Config, pool *pgxpool.Pool, schema *repository.SchemaRepo, srv *http.Server) {
		require.NotNil(t, cfg)
		require.NotNil(t, pool)
		require.NotNil(t, srv.Handler)

		require.NoError(t, schema.Apply(ctx))
		status, err := schema.TableStatus(ctx)
		require.NoError(t, err)
		for _, name := range repository.Tables {
			require.True(t, status[name], name)
		}
	})
	require.NoError(t, err)
}
