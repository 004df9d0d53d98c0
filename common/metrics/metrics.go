package metrics

import (
	"net/http"

	"github.com/arl/statsviz"
)

// Serve registers the statsviz runtime dashboard on addr and blocks.
// The dashboard lives at /debug/statsviz/.
func Serve(addr string) error {
	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		return err
	}
	return http.ListenAndServe(addr, mux)
}
