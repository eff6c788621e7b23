// Package device classifies the requesting device from its User-Agent.
// The class feeds logs and metrics only; no decision depends on it.
package device

import (
	"net/http"

	"github.com/mssola/useragent"

	"discountgate/pkg/requestcontext"
)

// Device classes.
const (
	ClassDesktop = "desktop"
	ClassMobile  = "mobile"
	ClassBot     = "bot"
	ClassUnknown = "unknown"
)

// Classify middleware parses the User-Agent and stores the device class in
// the context.
func Classify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithDeviceClass(r.Context(), ClassOf(r.Header.Get("User-Agent")))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClassOf maps a raw User-Agent string to a device class.
func ClassOf(rawUA string) string {
	if rawUA == "" {
		return ClassUnknown
	}
	ua := useragent.New(rawUA)
	switch {
	case ua.Bot():
		return ClassBot
	case ua.Mobile():
		return ClassMobile
	default:
		return ClassDesktop
	}
}
