/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Command docgen assembles text sections into ordered documents and exports
// them as AsciiDoc, Markdown or PDF.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"docgen/internal/config"
	"docgen/internal/crash"
	applog "docgen/internal/log"
	"docgen/internal/manager"
)

func main() {
	cfg, path, err := config.Load()
	applog.Init(cfg.Logging.LogOptions())
	l := applog.WithComponent("cli")
	if err != nil {
		l.Warn("config load failed, using defaults", slog.String("path", path), slog.Any("err", err))
	}

	a := newApp(cfg)
	defer crash.Recover(a.mgr)

	l.Debug("start", slog.Int("args", len(os.Args)))
	if err := newRootCmd(a).Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app is the state shared by all commands of one invocation.
type app struct {
	cfg config.AppConfig
	mgr *manager.Manager
	log *slog.Logger
}

func newApp(cfg config.AppConfig) *app {
	return &app{
		cfg: cfg,
		mgr: manager.New(manager.OptionsFromConfig(cfg)...),
		log: applog.WithComponent("cli"),
	}
}
