package invoice

import (
	"bytes"
	"testing"
	"time"

	"modesta/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func sampleOrder() *models.Order {
	return &models.Order{
		ID:     "3f2b9c1e-order",
		UserID: "u1",
		Items: []models.OrderItem{
			{ProductID: "p1", Name: "Turkey Pashmina", Price: 25, Quantity: 2, SelectedColor: "Maroon"},
			{ProductID: "p2", Name: "Women Dress Abaya Black", Price: 65, Quantity: 1, SelectedSize: "L"},
		},
		ShippingAddress: models.ShippingAddress{
			FullName: "Aisha Rahman", Address: "12 Jalan Melati", City: "Kuala Lumpur",
			PostalCode: "50450", Country: "Malaysia", Phone: "+60123456789",
		},
		Subtotal:   115,
		Discount:   10,
		CouponCode: "EID20",
		Total:      105,
		Status:     models.StatusPending,
		CreatedAt:  time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC),
	}
}

func TestRenderProducesPDF(t *testing.T) {
	out, err := Render(sampleOrder(), secret)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Greater(t, len(out), 1000)
}

func TestQRPayloadRoundTrip(t *testing.T) {
	o := sampleOrder()
	payload := QRPayload(o, secret)
	assert.Contains(t, payload, o.ID+"|105.00|")

	id, ok := Verify(payload, secret)
	assert.True(t, ok)
	assert.Equal(t, o.ID, id)

	_, ok = Verify(payload, []byte("other"))
	assert.False(t, ok)

	_, ok = Verify(o.ID+"|999.00|"+payload[len(payload)-10:], secret)
	assert.False(t, ok)

	_, ok = Verify("nopipe", secret)
	assert.False(t, ok)
}
