package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/okian/modtier/internal/config"
	"github.com/okian/modtier/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

const testCatalog = `
base_types:
  - path: Metadata/Items/Rings/Ring1
    class_name: Ring
modifiers:
  - key: IncreasedLife1
    group: IncreasedLife
    slot: prefix
    domain: item
    tier: "1"
    tag_chances: [{tag: ring, chance: 100}]
  - key: IncreasedLife2
    group: IncreasedLife
    slot: prefix
    domain: item
    tier: "2"
    tag_chances: [{tag: ring, chance: 100}]
`

func TestMainWiring(t *testing.T) {
	convey.Convey("Given a configuration pointing at a catalog file", t, func() {
		_ = logger.Init()

		dir := t.TempDir()
		path := dir + "/catalog.yaml"
		convey.So(os.WriteFile(path, []byte(testCatalog), 0o600), convey.ShouldBeNil)

		cfg := config.New()
		cfg.CatalogPath = path
		cfg.WorkerCount = 1
		cfg.Addr = ":0"

		convey.Convey("When the eligibility mode is invalid", func() {
			cfg.EligibilityMode = "sometimes"
			_, err := newService(cfg, logger.Get())

			convey.Convey("Then the service is not built", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the service is started behind the mux", func() {
			svc, err := newService(cfg, logger.Get())
			convey.So(err, convey.ShouldBeNil)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			srv := httptest.NewServer(newMux(svc))
			defer srv.Close()

			convey.Convey("Then health reports the loaded catalog", func() {
				resp, err := http.Get(srv.URL + "/healthz")
				convey.So(err, convey.ShouldBeNil)
				defer resp.Body.Close()

				var body map[string]any
				convey.So(json.NewDecoder(resp.Body).Decode(&body), convey.ShouldBeNil)
				convey.So(body["catalog_records"], convey.ShouldEqual, float64(2))
				convey.So(body["families"], convey.ShouldEqual, float64(1))
			})

			convey.Convey("Then classify resolves a tier end to end", func() {
				resp, err := http.Post(srv.URL+"/classify", "application/json",
					strings.NewReader(`{"base_path":"Metadata/Items/Rings/Ring1","mod_key":"IncreasedLife2"}`))
				convey.So(err, convey.ShouldBeNil)
				defer resp.Body.Close()

				var body map[string]any
				convey.So(json.NewDecoder(resp.Body).Decode(&body), convey.ShouldBeNil)
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(body["tier"], convey.ShouldEqual, float64(2))
				convey.So(body["total_tiers"], convey.ShouldEqual, float64(2))
			})

			convey.Convey("Then the metrics updater reads service stats without panicking", func() {
				convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When building the HTTP server", func() {
			srv := newHTTPServer(cfg, http.NewServeMux())

			convey.Convey("Then timeouts are set", func() {
				convey.So(srv.Addr, convey.ShouldEqual, ":0")
				convey.So(srv.ReadTimeout, convey.ShouldEqual, readTimeout)
				convey.So(srv.ReadHeaderTimeout, convey.ShouldEqual, readHeaderTimeout)
			})
		})
	})
}
