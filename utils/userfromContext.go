package utils

import (
	"net/http"

	"modesta/globals"
)

func GetUserIDFromRequest(r *http.Request) string {
	requestingUserID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

// HasRole reports whether the authenticated caller carries role.
func HasRole(r *http.Request, role string) bool {
	roles, _ := r.Context().Value(globals.RoleKey).([]string)
	for _, have := range roles {
		if have == role {
			return true
		}
	}
	return false
}
