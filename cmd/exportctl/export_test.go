package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exporthub/internal/services"
	"exporthub/internal/storage/memory"
	"exporthub/internal/transport"
)

func useTestApp(t *testing.T) *services.App {
	t.Helper()
	app := services.NewApp(memory.New(), services.AppOptions{
		Transport: transport.NewSimulator(transport.WithScale(0)),
	})
	prev := globalApp
	globalApp = app
	t.Cleanup(func() { globalApp = prev })
	return app
}

func runDownload(t *testing.T, dir, template string) (string, error) {
	t.Helper()
	prevDir := exportDir
	exportDir = dir
	t.Cleanup(func() { exportDir = prevDir })

	var out bytes.Buffer
	exportDownloadCmd.SetContext(context.Background())
	exportDownloadCmd.SetOut(&out)
	err := exportDownloadCmd.RunE(exportDownloadCmd, []string{template})
	return out.String(), err
}

func TestExportDownloadWritesFileAndRecords(t *testing.T) {
	app := useTestApp(t)
	dir := t.TempDir()

	out, err := runDownload(t, dir, "full-export")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "full-export.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Date,Amount,Category,Description", string(data))
	assert.Contains(t, out, "full-export.csv")

	entries := app.History.List(context.Background())
	require.Len(t, entries, 1)
	assert.Equal(t, services.LocalDownloadDestination, entries[0].Destination)
}

func TestExportDownloadToMissingDirRecordsNothing(t *testing.T) {
	app := useTestApp(t)
	missing := filepath.Join(t.TempDir(), "does", "not", "exist")

	_, err := runDownload(t, missing, "full-export")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write")

	assert.Empty(t, app.History.List(context.Background()))
}
