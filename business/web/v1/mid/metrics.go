package mid

import (
	"context"
	"net/http"
	"strconv"

	"github.com/groovechain/groovechain/foundation/metrics"
	"github.com/groovechain/groovechain/foundation/web"
)

// Metrics updates the prometheus counters for each request.
func Metrics() web.Middleware {

	// This is the actual middleware function to be executed.
	m := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			err := handler(ctx, w, r)

			status := 0
			if v, verr := web.GetValues(ctx); verr == nil {
				status = v.StatusCode
			}
			metrics.Requests.WithLabelValues(r.URL.Path, strconv.Itoa(status)).Inc()

			return err
		}

		return h
	}

	return m
}
