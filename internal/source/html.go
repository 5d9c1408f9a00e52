/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package source

import (
	"regexp"
	"strings"
	"sync"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
)

var (
	scriptRe         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	excessiveLinesRe = regexp.MustCompile(`\n{3,}`)

	convOnce  sync.Once
	converter *md.Converter
)

func htmlConverter() *md.Converter {
	convOnce.Do(func() {
		converter = md.NewConverter("", true, nil)
		converter.Use(plugin.GitHubFlavored())
	})
	return converter
}

// HTMLToMarkdown converts an HTML page or fragment to Markdown. Scripts and
// styles are dropped and runs of blank lines collapse to one.
func HTMLToMarkdown(html string) (string, error) {
	cleaned := scriptRe.ReplaceAllString(html, "")
	cleaned = styleRe.ReplaceAllString(cleaned, "")
	out, err := htmlConverter().ConvertString(cleaned)
	if err != nil {
		return "", err
	}
	out = excessiveLinesRe.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out), nil
}
