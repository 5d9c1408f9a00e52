/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage implements set file persistence and the local search index.
// Set files are replaced transactionally (temp file, fsync, rename) and the
// previous version is kept as a timestamped backup under <dir>/.docgen/backups.
// The SQLite index at <dir>/.docgen/index.sqlite is derived from set files and
// can be deleted and rebuilt at any time.
package storage
