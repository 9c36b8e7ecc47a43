package httputil_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/httputil"
)

func ExampleWriteError() {
	h := httputil.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteError(w, r, errors.New(errors.ErrCodeUnknownShape, "unknown shape %q", "hexagon"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/frame.svg", nil))
	fmt.Println(rec.Code)
	fmt.Println(rec.Header().Get(httputil.HeaderRequestID) != "")
	// Output:
	// 400
	// true
}
