package middleware

import "net/http"

// Stage is one step of a route pipeline. It returns the request to pass on,
// possibly with an enriched context, or an error that ends the pipeline.
type Stage func(r *http.Request) (*http.Request, error)

// Pipeline runs stages in order before the wrapped handler. The first failing
// stage short-circuits and its error is rendered by WriteError.
func Pipeline(stages ...Stage) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, stage := range stages {
				next, err := stage(r)
				if err != nil {
					WriteError(w, r, err)
					return
				}
				r = next
			}
			h.ServeHTTP(w, r)
		})
	}
}
