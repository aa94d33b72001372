// @title         Receiptjar API
// @version       0.1.0
// @description   Minimal JSON API for recording trade and alert receipts

package main

import (
	"context"

	"receiptjar/internal/platform/config"
	"receiptjar/internal/platform/kv"
	"receiptjar/internal/platform/logger"
	phttp "receiptjar/internal/platform/net/http"

	"receiptjar/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (RECEIPT_API_*)
	root := config.New()
	apiCfg := root.Prefix("RECEIPT_API_")

	// bring up logging early
	l := logger.Get()

	// open the kv store (reads SERVICE_KV_DRIVER and friends)
	store, err := kv.Open(
		context.Background(),
		kv.FromConf(root, "receiptjar-api"),
		kv.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("kv.Open failed")
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close kv store")
		}
	}()

	// http server (reads RECEIPT_API_PORT)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			KV:             store,
			Logger:         l,
			APIKey:         apiCfg.MayString("KEY", ""),
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	// run
	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
