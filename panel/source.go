// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package panel models the visual-content columns of a display: where
// panel content lives (Source), how a panel column is materialized (Panel),
// and the pre-specified rendering options (Options). The Create factory
// infers the right panel variant from raw dataset content.
package panel

import "encoding/json"

// Source type discriminators as the viewer expects them on the wire.
const (
	SourceTypeFile           = "file"
	SourceTypeREST           = "REST"
	SourceTypeLocalWebSocket = "localWebSocket"
)

// Source describes where panel content physically lives. It is a closed
// union: FileSource, RESTSource, LocalWebSocketSource.
type Source interface {
	// SourceType returns the wire discriminator of the source.
	SourceType() string

	// Copy returns an independent copy of the source.
	Copy() Source

	json.Marshaler
}

// FileSource is panel content stored as files, either inside the output
// tree (local) or at remote URLs.
type FileSource struct {
	IsLocal bool
}

// NewFileSource creates a file panel source.
func NewFileSource(isLocal bool) *FileSource {
	return &FileSource{IsLocal: isLocal}
}

// SourceType returns "file".
func (s *FileSource) SourceType() string { return SourceTypeFile }

// Copy returns an independent copy of the source.
func (s *FileSource) Copy() Source {
	clone := *s
	return &clone
}

// MarshalJSON serializes with the isLocal key name the viewer expects.
func (s *FileSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"type"`
		IsLocal bool   `json:"isLocal"`
	}{Type: s.SourceType(), IsLocal: s.IsLocal})
}

// RESTSource is panel content served by a REST endpoint.
type RESTSource struct {
	URL     string
	APIKey  string
	Headers map[string]string
}

// NewRESTSource creates a REST panel source.
func NewRESTSource(url, apiKey string, headers map[string]string) *RESTSource {
	return &RESTSource{URL: url, APIKey: apiKey, Headers: headers}
}

// SourceType returns "REST".
func (s *RESTSource) SourceType() string { return SourceTypeREST }

// Copy returns an independent copy of the source.
func (s *RESTSource) Copy() Source {
	clone := *s
	if s.Headers != nil {
		clone.Headers = make(map[string]string, len(s.Headers))
		for k, v := range s.Headers {
			clone.Headers[k] = v
		}
	}
	return &clone
}

// MarshalJSON serializes with the apiKey key name the viewer expects.
func (s *RESTSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string            `json:"type"`
		URL     string            `json:"url"`
		APIKey  string            `json:"apiKey"`
		Headers map[string]string `json:"headers"`
	}{Type: s.SourceType(), URL: s.URL, APIKey: s.APIKey, Headers: s.Headers})
}

// LocalWebSocketSource is panel content served lazily over a local
// websocket. Creating panels against this source is not implemented yet;
// the type exists so the wire schema is complete.
type LocalWebSocketSource struct {
	URL  string
	Port int
}

// NewLocalWebSocketSource creates a local websocket panel source.
func NewLocalWebSocketSource(url string, port int) *LocalWebSocketSource {
	return &LocalWebSocketSource{URL: url, Port: port}
}

// SourceType returns "localWebSocket".
func (s *LocalWebSocketSource) SourceType() string { return SourceTypeLocalWebSocket }

// Copy returns an independent copy of the source.
func (s *LocalWebSocketSource) Copy() Source {
	clone := *s
	return &clone
}

// MarshalJSON serializes the source for the viewer.
func (s *LocalWebSocketSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		URL  string `json:"url"`
		Port int    `json:"port"`
	}{Type: s.SourceType(), URL: s.URL, Port: s.Port})
}
