// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package safex pins a single OPAQUE cipher suite (Ristretto255, 3DH,
// Argon2id, SHA-512) and the shared error taxonomy used across its
// subpackages: server (the native server engine), client (the engine meant
// for a WASM embedding), and aead (a symmetric codec keyed from the OPAQUE
// export key).
//
// safex never logs, never reads configuration files, and never talks to a
// network or a datastore; those concerns belong to the application
// embedding it.
package safex
