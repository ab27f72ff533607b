// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settings provides the value types and the generic helpers
// which are used by the configuration settings structs in order to
// decode, default, and verify their optional fields.
package settings
