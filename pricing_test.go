package pricing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_QuoteWithoutUpstream(t *testing.T) {
	client, err := NewClient(WithRatesUrl(""), WithLogging(false))
	require.NoError(t, err)
	defer client.Stop()

	q := client.Quote(context.Background(), QuoteReq{
		RoomType: "A-Cabin",
		CheckIn:  "2024-06-01",
		CheckOut: "2024-06-03",
		Adults:   3,
		Currency: "USD",
	})
	assert.Equal(t, "$125.00", q.PricePerNight)
	assert.Equal(t, "$250.00", q.Total)

	prices := client.RoomPrices(context.Background(), "Tents")
	assert.Equal(t, "fallback", prices.Source)
}
