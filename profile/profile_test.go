package profile

import (
	"testing"

	"modesta/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func defaults(list []models.Address) []string {
	var ids []string
	for _, a := range list {
		if a.IsDefault {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

func TestAddAddressDefaults(t *testing.T) {
	list := addAddress(nil, models.Address{ID: "home"})
	assert.Equal(t, []string{"home"}, defaults(list))

	list = addAddress(list, models.Address{ID: "office"})
	assert.Equal(t, []string{"home"}, defaults(list))

	list = addAddress(list, models.Address{ID: "parents", IsDefault: true})
	assert.Equal(t, []string{"parents"}, defaults(list))
	assert.Len(t, list, 3)
}

func TestPatchAddress(t *testing.T) {
	list := addAddress(nil, models.Address{ID: "home", City: "Delhi"})
	list = addAddress(list, models.Address{ID: "office", City: "Pune"})

	city := "Mumbai"
	yes := true
	require.True(t, patchAddress(list, "office", addressPatch{City: &city, IsDefault: &yes}))
	assert.Equal(t, "Mumbai", list[1].City)
	assert.Equal(t, "Delhi", list[0].City)
	assert.Equal(t, []string{"office"}, defaults(list))

	assert.False(t, patchAddress(list, "missing", addressPatch{City: &city}))
}

func TestRemoveAddressPromotesDefault(t *testing.T) {
	list := addAddress(nil, models.Address{ID: "home"})
	list = addAddress(list, models.Address{ID: "office"})

	list = removeAddress(list, "home")
	require.Len(t, list, 1)
	assert.Equal(t, []string{"office"}, defaults(list))

	assert.Empty(t, removeAddress(list, "office"))
	assert.Len(t, removeAddress(list, "nope"), 1)
}

func TestComplete(t *testing.T) {
	a := models.Address{FullName: "Aisha", Phone: "+91", Street: "1 Road", City: "Delhi", PostalCode: "110001", Country: "IN"}
	assert.True(t, complete(a))
	a.Street = ""
	assert.False(t, complete(a))
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("secret1")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("secret2")))
}
