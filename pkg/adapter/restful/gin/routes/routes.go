// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages based on the user provided configuration settings.
package routes

import (
	"context"
	"fmt"
	"net/http"

	gg "github.com/gin-gonic/gin"
	"github.com/momeni/parking-control/pkg/adapter/config"
	"github.com/momeni/parking-control/pkg/adapter/restful/gin"
	"github.com/momeni/parking-control/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/parking-control/pkg/adapter/restful/gin/spotsrs"
	"github.com/momeni/parking-control/pkg/core/repo"
)

// Register instantiates relevant repositories and use cases based on
// the c configuration settings. The p connections pool is passed to
// the use case instances, so they may acquire/release connections
// and transactions on demand. These connections/transactions will be
// passed to the repositories later in order to run relevant queries on
// them and accomplish those use cases. Each use case package is named
// like spotsuc and each repository package is named like spotsrp.
// Register instantiates a series of "resource" structs, from packages
// which are named like spotsrs, in order to adapt the use cases
// interfaces with the REST APIs. These resources are registered as
// request handlers using the e gin-gonic engine instance.
// The health check is served at /healthz and if m is not nil, the
// metrics are exposed at /metrics too.
// Possible errors will be returned after possible wrapping.
func Register(
	e *gin.Engine, p repo.Pool, c *config.Config, m *gin.Metrics,
) error {
	spotsRepo := c.NewSpotsRepo()
	spotsUseCase, err := c.NewSpotsUseCase(p, spotsRepo)
	if err != nil {
		return fmt.Errorf("creating spots use case: %w", err)
	}
	var obs spotsrs.Observer
	if m != nil {
		obs = m
		e.GET("/metrics", m.Handler())
	}
	e.GET("/healthz", healthz(p))
	spotsrs.Register(e.Group("/api"), spotsUseCase, obs)
	return nil
}

func healthz(p repo.Pool) gin.HandlerFunc {
	return func(c *gg.Context) {
		err := p.Conn(
			c.Request.Context(),
			func(context.Context, repo.Conn) error { return nil },
		)
		if err != nil {
			serdser.SerErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gg.H{"status": "ok"})
	}
}
