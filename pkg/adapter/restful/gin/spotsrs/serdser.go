// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package spotsrs

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/momeni/parking-control/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/parking-control/pkg/core/cerr"
	"github.com/momeni/parking-control/pkg/core/model"
	"github.com/paemuri/brdoc"
)

var bindingJSON = binding.JSON

// spotReq is the body of the registration and update requests.
// The id and registrationDate keys are ignored if they are sent.
type spotReq struct {
	SpotNumber      string `json:"parkingSpotNumber" binding:"notblank,max=32"`
	LicensePlate    string `json:"licensePlateCar" binding:"notblank,max=7"`
	Brand           string `json:"brandCar" binding:"notblank,max=70"`
	Model           string `json:"modelCar" binding:"notblank,max=70"`
	Color           string `json:"colorCar" binding:"notblank,max=70"`
	ResponsibleName string `json:"responsibleName" binding:"notblank,max=130"`
	Apartment       string `json:"apartment" binding:"notblank,max=30"`
	Block           string `json:"block" binding:"notblank,max=30"`
	Email           string `json:"email" binding:"notblank,max=254,email"`
	NationalID      string `json:"cpf" binding:"notblank,cpf"`
}

func (req *spotReq) ToModel() *model.Spot {
	return &model.Spot{
		SpotNumber:      req.SpotNumber,
		LicensePlate:    req.LicensePlate,
		Brand:           req.Brand,
		Model:           req.Model,
		Color:           req.Color,
		ResponsibleName: req.ResponsibleName,
		Apartment:       req.Apartment,
		Block:           req.Block,
		Email:           req.Email,
		NationalID:      req.NationalID,
	}
}

var messages = serdser.Messages{
	"parkingSpotNumber.notblank": "parking spot number is required",
	"parkingSpotNumber.max":      "parking spot number is longer than 32 characters",
	"licensePlateCar.notblank":   "license plate of the vehicle is required",
	"licensePlateCar.max":        "license plate is longer than 7 characters",
	"brandCar.notblank":          "brand of the vehicle is required",
	"brandCar.max":               "brand is longer than 70 characters",
	"modelCar.notblank":          "model of the vehicle is required",
	"modelCar.max":               "model is longer than 70 characters",
	"colorCar.notblank":          "color of the vehicle is required",
	"colorCar.max":               "color is longer than 70 characters",
	"responsibleName.notblank":   "name of the responsible person is required",
	"responsibleName.max":        "name of the responsible person is longer than 130 characters",
	"apartment.notblank":         "apartment is required",
	"apartment.max":              "apartment is longer than 30 characters",
	"block.notblank":             "block is required",
	"block.max":                  "block is longer than 30 characters",
	"email.notblank":             "email is required",
	"email.max":                  "email is longer than 254 characters",
	"email.email":                "email is not valid",
	"cpf.notblank":               "CPF is required",
	"cpf.cpf":                    "CPF is not valid",
	"id.required":                idMessage,
	"id.number":                  idMessage,
}

const idMessage = "id must be a positive integer"

var registerOnce sync.Once

func registerValidations() {
	registerOnce.Do(func() {
		err := serdser.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
			return brdoc.IsCPF(fl.Field().String())
		})
		if err != nil {
			panic(err)
		}
	})
}

type idReq struct {
	ID string `uri:"id" binding:"required,number"`
}

// bindID parses the id path parameter. Non-numeric, zero, and out of
// range values are reported with the 400 status code.
func bindID(c *gin.Context) (int64, bool) {
	req := &idReq{}
	if !serdser.BindURI(c, req, messages) {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimLeft(req.ID, "0"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"id": idMessage})
		return 0, false
	}
	return id, true
}

func outcome(err error) string {
	var ce *cerr.Error
	if errors.As(err, &ce) && ce.HTTPStatusCode == http.StatusConflict {
		return "conflict"
	}
	return "error"
}
