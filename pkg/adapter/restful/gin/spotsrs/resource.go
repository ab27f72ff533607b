// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package spotsrs realizes the parking spots resource, allowing the
// spots management REST APIs to be accepted and delegated to the
// spots use cases respectively.
package spotsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/parking-control/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/parking-control/pkg/core/usecase/spotsuc"
)

// DeletedMessage is reported in the message key of a successful
// deletion response.
const DeletedMessage = "parking spot was deleted successfully"

// Observer is notified about the registration attempts outcomes.
// Outcome is one of "created", "conflict", "invalid", or "error".
type Observer interface {
	ObserveRegistration(outcome string)
}

type nopObserver struct{}

func (nopObserver) ObserveRegistration(string) {}

type resource struct {
	spots *spotsuc.UseCase
	obs   Observer
}

// Register instantiates a resource adapting the spots use case
// instance with the relevant REST APIs including:
//  1. POST request to /api/vaga/cadastrar in order to register a spot,
//  2. GET request to /api/vaga/listar in order to list all spots,
//  3. GET request to /api/vaga/listar/:id in order to get one spot,
//  4. PUT request to /api/vaga/atualizar/:id in order to replace the
//     fields of a spot, and
//  5. DELETE request to /api/vaga/excluir/:id in order to delete one.
//
// The obs observer may be nil.
func Register(r *gin.RouterGroup, spots *spotsuc.UseCase, obs Observer) {
	if obs == nil {
		obs = nopObserver{}
	}
	registerValidations()
	rs := &resource{spots: spots, obs: obs}
	g := r.Group("vaga")
	g.POST("cadastrar", rs.RegisterSpot)
	g.GET("listar", rs.ListSpots)
	g.GET("listar/:id", rs.GetSpot)
	g.PUT("atualizar/:id", rs.UpdateSpot)
	g.DELETE("excluir/:id", rs.DeleteSpot)
}

func (rs *resource) RegisterSpot(c *gin.Context) {
	req := &spotReq{}
	if !serdser.Bind(c, req, bindingJSON, messages) {
		rs.obs.ObserveRegistration("invalid")
		return
	}
	s, err := rs.spots.Register(c.Request.Context(), req.ToModel())
	if err != nil {
		rs.obs.ObserveRegistration(outcome(err))
		serdser.SerErr(c, err)
		return
	}
	rs.obs.ObserveRegistration("created")
	c.JSON(http.StatusCreated, s)
}

func (rs *resource) ListSpots(c *gin.Context) {
	ss, err := rs.spots.List(c.Request.Context())
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, ss)
}

func (rs *resource) GetSpot(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	s, err := rs.spots.Get(c.Request.Context(), id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (rs *resource) UpdateSpot(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	req := &spotReq{}
	if !serdser.Bind(c, req, bindingJSON, messages) {
		return
	}
	s, err := rs.spots.Update(c.Request.Context(), id, req.ToModel())
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (rs *resource) DeleteSpot(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	if err := rs.spots.Delete(c.Request.Context(), id); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": DeletedMessage})
}
