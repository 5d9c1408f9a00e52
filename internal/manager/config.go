/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package manager

import (
	"docgen/internal/config"
	"docgen/internal/domain"
	"docgen/internal/export"
	"docgen/internal/storage"
)

// OptionsFromConfig maps the user configuration onto manager options.
func OptionsFromConfig(cfg config.AppConfig) []Option {
	return []Option{
		WithDefaultLevel(domain.Level(cfg.Document.DefaultLevel)),
		WithWriteOptions(storage.WriteOptions{KeepBackups: cfg.Storage.KeepBackups}),
		WithExportOptions(export.Options{RenderKinds: cfg.Export.RenderKinds}),
		WithSearchIndex(cfg.Storage.Index),
	}
}
