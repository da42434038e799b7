// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package facetview

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/AleutianAI/facetview/checks"
)

var nonWordPattern = regexp.MustCompile(`[^\w]`)

// sanitize makes a string safe for directory and file names: spaces become
// underscores and every other non-word character is dropped.
func sanitize(text string, toLower bool) string {
	if toLower {
		text = strings.ToLower(text)
	}
	text = strings.ReplaceAll(text, " ", "_")
	return nonWordPattern.ReplaceAllString(text, "")
}

// jsonFilePath joins a directory and base name with a .json or .jsonp
// extension.
func jsonFilePath(dir, base string, jsonp bool) string {
	ext := "json"
	if jsonp {
		ext = "jsonp"
	}
	return filepath.Join(dir, base+"."+ext)
}

// writeJSONFile writes content to a file, wrapped in a jsonp function call
// when jsonp is true. The jsonp form lets the viewer run without a web
// server.
func writeJSONFile(path string, jsonp bool, functionName, content string) error {
	if jsonp {
		content = functionName + "(" + content + ")"
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// writeWindowJSFile writes content as a window-scoped javascript variable
// assignment.
func writeWindowJSFile(path, windowVarName, content string) error {
	wrapped := fmt.Sprintf("window.%s = %s", windowVarName, content)
	return os.WriteFile(path, []byte(wrapped), 0o644)
}

// readJSONP reads the JSON object from a .json or .jsonp file, stripping
// the jsonp function wrapper when present.
func readJSONP(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content := string(raw)

	switch {
	case strings.HasSuffix(path, ".json"):
		// content used as-is
	case strings.HasSuffix(path, ".jsonp"):
		start := strings.Index(content, "(")
		end := strings.LastIndex(content, ")")
		if start < 0 || end < start {
			return nil, &checks.CheckError{
				Kind: checks.ErrBadValue,
				Msg:  fmt.Sprintf("file %s is not a valid jsonp document", path),
			}
		}
		content = content[start+1 : end]
	default:
		return nil, &checks.CheckError{
			Kind: checks.ErrBadValue,
			Msg: fmt.Sprintf(
				"Unrecognized file extension for file %s. Expected .json or .jsonp", path),
		}
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, err
	}
	return result, nil
}
