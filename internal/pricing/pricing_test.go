package pricing

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func rate(v float64) *float64 { return &v }

func standardRates() Rates {
    return Rates{CourtPerHour: 20, MachinePerHour: 40}
}

func TestCalculateBreakdown(t *testing.T) {
    // coach $30/hr, court $20/hr, machine $40/hr, three hours
    q := Calculate(3, rate(30), standardRates(), true)
    assert.Equal(t, 90.0, q.CoachFee)
    assert.Equal(t, 60.0, q.CourtFee)
    assert.Equal(t, 120.0, q.MachineFee)
    assert.Equal(t, 270.0, q.Total)
}

func TestCalculateNoCoach(t *testing.T) {
    q := Calculate(2, nil, standardRates(), false)
    assert.Zero(t, q.CoachFee)
    assert.Equal(t, 40.0, q.CourtFee)
    assert.Zero(t, q.MachineFee)
    assert.Equal(t, 40.0, q.Total)
}

func TestCalculateNoMachine(t *testing.T) {
    q := Calculate(1, rate(30), standardRates(), false)
    assert.Zero(t, q.MachineFee)
    assert.Equal(t, 50.0, q.Total)
}

func TestCalculateAdditivity(t *testing.T) {
    one := Calculate(1, rate(30), standardRates(), true)
    two := Calculate(2, rate(30), standardRates(), true)
    assert.InDelta(t, one.Total*2, two.Total, 1e-9)
}

func TestCalculateNegativeHoursClamped(t *testing.T) {
    q := Calculate(-4, rate(30), standardRates(), true)
    assert.Zero(t, q.Total)
}

func TestQuoteAdd(t *testing.T) {
    a := Calculate(1, rate(30), standardRates(), true)
    b := Calculate(2, rate(30), standardRates(), true)
    sum := a.Add(b)
    assert.InDelta(t, Calculate(3, rate(30), standardRates(), true).Total, sum.Total, 1e-9)
}

func TestDefaultRates(t *testing.T) {
    r := DefaultRates()
    assert.Equal(t, 20.0, r.CourtPerHour)
    assert.Equal(t, 40.0, r.MachinePerHour)
}

func TestCents(t *testing.T) {
    assert.Equal(t, int64(27000), Cents(270.00))
    assert.Equal(t, int64(1999), Cents(19.99))
    assert.Equal(t, int64(50), Cents(0.495))
    assert.Equal(t, int64(0), Cents(0))
}

func TestVerifyClientTotalBoundary(t *testing.T) {
    server := Calculate(3, rate(30), standardRates(), true) // 270.00

    assert.NoError(t, VerifyClientTotal(server, 270.00))
    assert.NoError(t, VerifyClientTotal(server, 270.01))
    assert.NoError(t, VerifyClientTotal(server, 269.99))

    err := VerifyClientTotal(server, 270.02)
    require.Error(t, err)
    var mismatch *CostMismatchError
    require.ErrorAs(t, err, &mismatch)
    assert.Equal(t, 270.02, mismatch.Submitted)
    assert.Equal(t, server, mismatch.Server)
    assert.Contains(t, mismatch.Error(), "270.02")
}
