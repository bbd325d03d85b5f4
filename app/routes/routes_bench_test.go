package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func BenchmarkPages(b *testing.B) {
	router := newTestRouter(b, &stubSubmitter{})

	for _, path := range []string{"/", "/features", "/pricing", "/contact", "/demo", "/customers", "/resources", "/dashboard"} {
		b.Run(path, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				w := httptest.NewRecorder()
				router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
				if w.Code != http.StatusOK {
					b.Fatalf("%s: status %d", path, w.Code)
				}
			}
		})
	}
}
