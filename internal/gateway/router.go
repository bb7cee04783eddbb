package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/julienschmidt/httprouter"
)

var (
	methods = []string{
		"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD",
	}
)

// AsHandler sends /api/v1 calls to apiCalls and everything else to
// accountCalls
func AsHandler(ctx context.Context, apiCalls *url.URL, accountCalls *url.URL) (http.Handler, error) {
	if apiCalls == nil || accountCalls == nil {
		return nil, errors.New("gateway: both api and account endpoints are required")
	}
	router := httprouter.New()
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	apiProxy := httputil.NewSingleHostReverseProxy(apiCalls)
	accountProxy := httputil.NewSingleHostReverseProxy(accountCalls)

	for _, m := range methods {
		router.Handler(m, "/api/v1/*rest", apiProxy)
	}

	// delegate to the account service if not found
	router.NotFound = accountProxy
	router.MethodNotAllowed = accountProxy

	return router, nil
}
