package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayoff(t *testing.T) {
	assert.Equal(t, 15.0, Payoff(120, 100, Call, 5))
	assert.Equal(t, -5.0, Payoff(90, 100, Call, 5))
	assert.Equal(t, 7.0, Payoff(90, 100, Put, 3))
	assert.Equal(t, -3.0, Payoff(110, 100, Put, 3))
}

func TestPayoffCurveCall(t *testing.T) {
	d, err := PayoffCurve(atm(Call), 200)
	require.NoError(t, err)

	require.Len(t, d.Spots, 200)
	assert.Equal(t, 50.0, d.Spots[0])
	assert.Equal(t, 200.0, d.Spots[199])
	assert.InDelta(t, 10.4506, d.Premium, 1e-3)
	assert.Equal(t, 100+d.Premium, d.Breakeven)
	assert.Equal(t, -d.Premium, d.MaxLoss)
	assert.Nil(t, d.MaxProfit)

	for i := range d.Spots {
		assert.Equal(t, -d.Long[i], d.Short[i])
		assert.GreaterOrEqual(t, d.Long[i], d.MaxLoss)
	}
}

func TestPayoffCurvePut(t *testing.T) {
	d, err := PayoffCurve(atm(Put), 50)
	require.NoError(t, err)

	require.NotNil(t, d.MaxProfit)
	assert.Equal(t, 100-d.Premium, *d.MaxProfit)
	assert.Equal(t, 100-d.Premium, d.Breakeven)
	assert.InDelta(t, 0, Payoff(d.Breakeven, 100, Put, d.Premium), 1e-12)
}

func TestPayoffCurveLowStrikeClampsSpotAxis(t *testing.T) {
	p := atm(Call)
	p.Spot, p.Strike = 1.5, 1.5
	d, err := PayoffCurve(p, 10)
	require.NoError(t, err)
	assert.Equal(t, 1.0, d.Spots[0])
	assert.Equal(t, 3.0, d.Spots[9])
}

func TestPayoffCurveErrors(t *testing.T) {
	_, err := PayoffCurve(atm(Call), 1)
	assert.ErrorIs(t, err, ErrInvalidGridSpec)

	bad := atm(Call)
	bad.Strike = 0
	_, err = PayoffCurve(bad, 10)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
