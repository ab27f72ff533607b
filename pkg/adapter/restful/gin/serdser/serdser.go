// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package serdser contains the common serialization and
// deserialization helpers of the REST API resources. It binds the
// requests, reports their validation errors as one message per field,
// and serializes the *cerr.Error errors with their HTTP status codes.
package serdser

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/momeni/parking-control/pkg/core/cerr"
)

// Messages maps a "field.tag" key, such as "licensePlateCar.max", to
// the message which should be reported when that field fails that
// validation tag. Field names are the names which are used on the
// wire (json, uri, or form names).
type Messages map[string]string

var setupOnce sync.Once

// validate returns the validator engine of gin after registering the
// custom tags and the wire name resolution on it.
func validate() *validator.Validate {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		panic("gin validator engine is not a go-playground validator")
	}
	setupOnce.Do(func() {
		v.RegisterTagNameFunc(wireName)
		if err := v.RegisterValidation(
			"notblank", validators.NotBlank,
		); err != nil {
			panic(err)
		}
	})
	return v
}

func wireName(f reflect.StructField) string {
	for _, tag := range []string{"json", "uri", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		switch name {
		case "-":
			return ""
		case "":
			continue
		default:
			return name
		}
	}
	return f.Name
}

// RegisterValidation registers fn as the validation function of the
// tag, so it may be used in the binding struct tags.
func RegisterValidation(tag string, fn validator.Func) error {
	if err := validate().RegisterValidation(tag, fn); err != nil {
		return fmt.Errorf("registering %q validation: %w", tag, err)
	}
	return nil
}

// Bind deserializes the request into req using b binding (such as
// binding.JSON) and validates it. In case of errors, a response is
// written and false is returned. Validation failures are reported with
// the 400 status code and a JSON object with one entry per failing
// field whose message is looked up from msgs.
func Bind(c *gin.Context, req any, b binding.Binding, msgs Messages) bool {
	validate()
	return report(c, c.ShouldBindWith(req, b), msgs)
}

// BindURI deserializes and validates the path parameters into req,
// reporting the errors like Bind.
func BindURI(c *gin.Context, req any, msgs Messages) bool {
	validate()
	return report(c, c.ShouldBindUri(req), msgs)
}

func report(c *gin.Context, err error, msgs Messages) bool {
	var ive *validator.InvalidValidationError
	var ves validator.ValidationErrors
	switch {
	case err == nil:
		return true
	case errors.As(err, &ive):
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": ive.Error(),
		})
	case errors.As(err, &ves):
		c.JSON(http.StatusBadRequest, FieldErrors(ves, msgs))
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
	}
	return false
}

// FieldErrors converts ves to a map from the failing fields names to
// their messages. If a field fails several tags, only the first one
// (in the struct tag order) is reported.
func FieldErrors(ves validator.ValidationErrors, msgs Messages) map[string]string {
	errs := make(map[string]string, len(ves))
	for _, fe := range ves {
		name := fe.Field()
		if _, found := errs[name]; found {
			continue
		}
		msg, ok := msgs[name+"."+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("failed on the '%s' tag", fe.Tag())
		}
		errs[name] = msg
	}
	return errs
}

// SerErr writes err as a JSON object with its message in the detail
// key. A *cerr.Error in the err chain selects the status code, while
// other errors are reported as internal server errors.
func SerErr(c *gin.Context, err error) {
	var ce *cerr.Error
	if errors.As(err, &ce) {
		c.JSON(ce.HTTPStatusCode, gin.H{
			"detail": ce.Err.Error(),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"detail": err.Error(),
	})
}
