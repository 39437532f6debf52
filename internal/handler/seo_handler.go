package handler

import (
	"fmt"
	"net/http"
)

// robotsHandler keeps crawlers out of the dashboard.
func robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Disallow: /")
}
