package handler

import (
    "bytes"
    "context"
    "log"
    "testing"

    "github.com/stretchr/testify/assert"

    "github.com/courtside/tennis-booking/internal/model"
    "github.com/courtside/tennis-booking/internal/pricing"
    "github.com/courtside/tennis-booking/internal/repository"
)

type stubSettings struct {
    settings model.Settings
    err      error
}

func (s stubSettings) Get(ctx context.Context) (model.Settings, error) {
    return s.settings, s.err
}

func captureLog(t *testing.T) *bytes.Buffer {
    t.Helper()
    var buf bytes.Buffer
    prev := log.Writer()
    log.SetOutput(&buf)
    t.Cleanup(func() { log.SetOutput(prev) })
    return &buf
}

func TestLoadRatesFromSettings(t *testing.T) {
    buf := captureLog(t)

    rates := loadRates(context.Background(), stubSettings{
        settings: model.Settings{CourtCostPerHour: 25, MachineCostPerHour: 45},
    })
    assert.Equal(t, pricing.Rates{CourtPerHour: 25, MachinePerHour: 45}, rates)
    assert.Empty(t, buf.String())
}

func TestLoadRatesLogsMissingSettingsFallback(t *testing.T) {
    buf := captureLog(t)

    // an unconfigured club must not fall back to defaults silently
    rates := loadRates(context.Background(), stubSettings{err: repository.ErrNoSettings})
    assert.Equal(t, pricing.DefaultRates(), rates)
    assert.Contains(t, buf.String(), "using defaults")
}
