// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package meta reads the per-scheme metadata files that record the
// expected key/ciphertext lengths and known-answer digests.
//
// Each scheme has one YAML file under META/ in the library checkout,
// e.g. META/mlkem768.yml:
//
//	length-secret-key: 2400
//	length-public-key: 1184
//	length-ciphertext: 1088
//	nistkat-digest: 89e82a5bf2d4ddb2c6444e10409e6d9ca65dafbca67d1a0db2c9b54d0279a331
//	kat-digest: 6cb5d78cfc093b0d4d4bf29bdf473dcf20f4ff04e4b23ed345eeb60a64214deb
//
// Files are parsed once and cached for the process lifetime.
package meta

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

// Well-known metadata keys.
const (
	KeySecretKeyLen  = "length-secret-key"
	KeyPublicKeyLen  = "length-public-key"
	KeyCiphertextLen = "length-ciphertext"
	KeyNistKatDigest = "nistkat-digest"
	KeyKatDigest     = "kat-digest"
)

// ErrUnknownKey indicates the metadata file has no entry for the key.
var ErrUnknownKey = errors.New("unknown metadata key")

// Store loads and caches scheme metadata from a library checkout.
type Store struct {
	dir string

	mu    sync.Mutex
	cache map[string]map[string]string
}

// NewStore creates a Store rooted at the library checkout directory.
// Metadata files are expected under <dir>/META/<scheme>.yml.
func NewStore(dir string) *Store {
	return &Store{
		dir:   dir,
		cache: make(map[string]map[string]string),
	}
}

// Lookup returns the metadata value for (scheme, key) as a string.
func (s *Store) Lookup(scheme, key string) (string, error) {
	entries, err := s.load(scheme)
	if err != nil {
		return "", err
	}
	v, ok := entries[key]
	if !ok {
		return "", fmt.Errorf("%w: %s for scheme %s", ErrUnknownKey, key, scheme)
	}
	return v, nil
}

// LookupInt returns the metadata value for (scheme, key) as an integer.
func (s *Store) LookupInt(scheme, key string) (int, error) {
	v, err := s.Lookup(scheme, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("metadata %s for scheme %s is not an integer: %q", key, scheme, v)
	}
	return n, nil
}

// load parses the scheme's metadata file, caching the result.
func (s *Store) load(scheme string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entries, ok := s.cache[scheme]; ok {
		return entries, nil
	}

	path := filepath.Join(s.dir, "META", scheme+".yml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading metadata for scheme %s: %w", scheme, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	entries := make(map[string]string, len(raw))
	for k, v := range raw {
		entries[k] = fmt.Sprintf("%v", v)
	}

	s.cache[scheme] = entries
	return entries, nil
}
