package server

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/pkg/config"
	applogger "StockPulse/pkg/logger"
)

func TestRunUnknownCommand(t *testing.T) {
	app := New(&config.Config{}, applogger.Nop(), Pipeline{}, nil)
	err := app.Run(context.Background(), "backfill")
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestRunEnrichMissingNewsFile(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	cfg.News.File = filepath.Join(t.TempDir(), "noticias.txt")

	app := New(cfg, applogger.Nop(), Pipeline{}, nil)
	assert.Error(t, app.Run(context.Background(), "enrich"))
}
