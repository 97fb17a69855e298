// Package cookies управляет сессионной cookie с токеном.
package cookies

import (
	"net/http"
	"time"
)

// TokenCookie — имя сессионной cookie.
const TokenCookie = "token"

// sessionTTL совпадает со сроком действия токена.
const sessionTTL = 7 * 24 * time.Hour

// SetSession выставляет сессионную cookie с токеном.
// В проде cookie отдается только по HTTPS и с SameSite=None,
// иначе — SameSite=Strict для локальной разработки.
func SetSession(w http.ResponseWriter, token string, isProd bool) {
	sameSite := http.SameSiteStrictMode
	if isProd {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   isProd,
		SameSite: sameSite,
	})
}

// ClearSession сбрасывает сессионную cookie.
func ClearSession(w http.ResponseWriter, isProd bool) {
	sameSite := http.SameSiteStrictMode
	if isProd {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isProd,
		SameSite: sameSite,
	})
}
