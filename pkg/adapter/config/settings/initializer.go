// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

// Nil2Zero makes a nil (*t) pointer to point to a newly allocated
// zero value of T. A non-nil (*t) is kept as is.
func Nil2Zero[T any](t **T) {
	if (*t) != nil {
		return
	}
	var zero T
	(*t) = &zero
}

// OverwriteNil fills an unset optional setting with its default value.
// If the (*dst) pointer is nil, it is changed to point to a copy of
// (*src). A non-nil (*dst) or a nil src are ignored.
func OverwriteNil[T any](dst **T, src *T) {
	if (*dst) != nil || src == nil {
		return
	}
	t := *src
	(*dst) = &t
}
