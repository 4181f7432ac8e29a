// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for chatdeck.
//
// Configuration is TOML with sensible defaults and environment variable
// overrides, loaded from ~/.chatdeck/config.toml. There is no ambient
// global: Load returns an instance that is passed into the components
// that need it.
package config
