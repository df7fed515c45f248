package profile

import "modesta/models"

// addAddress appends a. The first address, or one flagged default,
// becomes the only default.
func addAddress(list []models.Address, a models.Address) []models.Address {
	if len(list) == 0 || a.IsDefault {
		clearDefault(list)
		a.IsDefault = true
	}
	return append(list, a)
}

// patchAddress merges p into the address with id. It reports false when
// no such address exists.
func patchAddress(list []models.Address, id string, p addressPatch) bool {
	for i := range list {
		if list[i].ID != id {
			continue
		}
		if p.IsDefault != nil && *p.IsDefault {
			clearDefault(list)
		}
		p.apply(&list[i])
		return true
	}
	return false
}

// removeAddress drops id and promotes the first remaining address when the
// default was removed.
func removeAddress(list []models.Address, id string) []models.Address {
	out := make([]models.Address, 0, len(list))
	removedDefault := false
	for _, a := range list {
		if a.ID == id {
			removedDefault = a.IsDefault
			continue
		}
		out = append(out, a)
	}
	if removedDefault && len(out) > 0 {
		out[0].IsDefault = true
	}
	return out
}

func clearDefault(list []models.Address) {
	for i := range list {
		list[i].IsDefault = false
	}
}

type addressPatch struct {
	AddressID  string  `json:"addressId"`
	Label      *string `json:"label"`
	FullName   *string `json:"fullName"`
	Phone      *string `json:"phone"`
	Street     *string `json:"street"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postalCode"`
	Country    *string `json:"country"`
	IsDefault  *bool   `json:"isDefault"`
}

func (p addressPatch) apply(a *models.Address) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&a.Label, p.Label)
	set(&a.FullName, p.FullName)
	set(&a.Phone, p.Phone)
	set(&a.Street, p.Street)
	set(&a.City, p.City)
	set(&a.State, p.State)
	set(&a.PostalCode, p.PostalCode)
	set(&a.Country, p.Country)
	if p.IsDefault != nil {
		a.IsDefault = *p.IsDefault
	}
}

func complete(a models.Address) bool {
	return a.FullName != "" && a.Phone != "" && a.Street != "" && a.City != "" && a.PostalCode != "" && a.Country != ""
}
