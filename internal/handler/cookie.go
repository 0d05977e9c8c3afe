package handler

import (
	"net/http"

	"telepost/internal/config"
)

// OwnerCookieName is the ownership credential cookie. It is the entire
// authentication mechanism: an opaque random token minted on first save
// and compared by exact string match on every mutation. Anyone who can
// read or forge it impersonates the owner.
const OwnerCookieName = "ownerToken"

// ownerTokenFromRequest returns the presented owner token, or "" if the
// cookie is absent.
func ownerTokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(OwnerCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// setOwnerCookie sets or refreshes the ownership cookie with its 10-year
// lifetime.
func setOwnerCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     OwnerCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   config.OwnerCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
