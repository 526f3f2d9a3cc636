package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrotrust/internal/domain/entity"
)

func TestDefault(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)

	require.Len(t, d.Farmers, 3)
	assert.Equal(t, "Musa Ibrahim", d.Farmers[0].Name)
	assert.Equal(t, []string{"Tomatoes", "Peppers"}, d.Farmers[0].MainCrops)
	assert.False(t, d.Farmers[2].Verified)

	require.Len(t, d.Products, 4)
	for _, p := range d.Products {
		assert.True(t, entity.IsRegion(p.State), p.ID)
		assert.True(t, entity.IsCategory(p.Category), p.ID)
	}

	require.Len(t, d.Orders, 2)
	for _, o := range d.Orders {
		assert.Equal(t, o.ComputeTotal(), o.Total, o.ID)
	}
	delivered := d.Orders[1]
	assert.Equal(t, entity.OrderDelivered, delivered.Status)
	require.NotNil(t, delivered.DeliveredAt)
	require.NotNil(t, delivered.AutoReleaseAt)
}

func TestParse_RejectsDanglingReferences(t *testing.T) {
	_, err := Parse([]byte(`
farmers:
  - id: f1
products:
  - id: p1
    farmerId: f9
`))
	assert.ErrorContains(t, err, "unknown farmer")
}

func TestParse_RejectsUnknownStatus(t *testing.T) {
	_, err := Parse([]byte(`
farmers:
  - id: f1
orders:
  - id: o1
    farmerId: f1
    status: LOST
`))
	assert.ErrorContains(t, err, "unknown status")
}
