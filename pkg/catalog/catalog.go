// Copyright 2025 The MindDish Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package catalog holds the read-only video metadata catalog.
//
// The catalog is produced by the ingestion pipeline as curated_index.json,
// one entry per indexed video. It is loaded once at startup and never
// mutated afterwards.
package catalog

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"
)

// VideoMetadata describes one indexed video.
type VideoMetadata struct {
	ID      string `json:"video_id"`
	Title   string `json:"title"`
	Cuisine string `json:"cuisine"`
	URL     string `json:"url"`
}

// indexEntry matches the on-disk curated_index.json format produced by the
// ingestion pipeline.
type indexEntry struct {
	Collection string `json:"collection"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	VideoID    string `json:"video_id"`
}

// Catalog is an immutable lookup over the video metadata.
type Catalog struct {
	byID      map[string]VideoMetadata
	byCuisine map[string][]VideoMetadata
	order     []string
}

// Load reads a curated_index.json file into a Catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var entries []indexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}

	videos := make([]VideoMetadata, 0, len(entries))
	for _, e := range entries {
		id := e.VideoID
		if id == "" {
			id = ExtractVideoID(e.URL)
		}
		if id == "" {
			continue
		}
		videos = append(videos, VideoMetadata{
			ID:      id,
			Title:   e.Title,
			Cuisine: cuisineFromCollection(e.Collection),
			URL:     e.URL,
		})
	}

	return New(videos), nil
}

// New builds a Catalog from a list of videos.
func New(videos []VideoMetadata) *Catalog {
	c := &Catalog{
		byID:      make(map[string]VideoMetadata, len(videos)),
		byCuisine: make(map[string][]VideoMetadata),
	}
	for _, v := range videos {
		if _, exists := c.byID[v.ID]; exists {
			continue
		}
		c.byID[v.ID] = v
		c.order = append(c.order, v.ID)
		if v.Cuisine != "" {
			c.byCuisine[v.Cuisine] = append(c.byCuisine[v.Cuisine], v)
		}
	}
	return c
}

// Get returns the metadata for a video id.
func (c *Catalog) Get(videoID string) (VideoMetadata, bool) {
	v, ok := c.byID[videoID]
	return v, ok
}

// ByCuisine returns all videos tagged with the given cuisine.
func (c *Catalog) ByCuisine(cuisine string) []VideoMetadata {
	return c.byCuisine[normalizeCuisine(cuisine)]
}

// Cuisines returns the known cuisine tags, sorted.
func (c *Catalog) Cuisines() []string {
	cuisines := make([]string, 0, len(c.byCuisine))
	for cuisine := range c.byCuisine {
		cuisines = append(cuisines, cuisine)
	}
	sort.Strings(cuisines)
	return cuisines
}

// Len returns the number of videos in the catalog.
func (c *Catalog) Len() int {
	return len(c.order)
}

// All returns the videos in catalog order.
func (c *Catalog) All() []VideoMetadata {
	videos := make([]VideoMetadata, 0, len(c.order))
	for _, id := range c.order {
		videos = append(videos, c.byID[id])
	}
	return videos
}

// ExtractVideoID extracts a video id from a YouTube URL, or returns the
// trimmed input when it is already a raw id.
func ExtractVideoID(videoURLOrID string) string {
	if !strings.Contains(videoURLOrID, "youtube.com") && !strings.Contains(videoURLOrID, "youtu.be") {
		return strings.TrimSpace(videoURLOrID)
	}

	parsed, err := url.Parse(videoURLOrID)
	if err != nil {
		return strings.TrimSpace(videoURLOrID)
	}

	if strings.Contains(parsed.Host, "youtube.com") {
		if v := parsed.Query().Get("v"); v != "" {
			return v
		}
	}

	if strings.Contains(parsed.Host, "youtu.be") {
		return strings.TrimPrefix(parsed.Path, "/")
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	return parts[len(parts)-1]
}

// cuisineFromCollection maps collection names like "african_cuisine" to the
// cuisine tag "african".
func cuisineFromCollection(collection string) string {
	return normalizeCuisine(strings.TrimSuffix(collection, "_cuisine"))
}

func normalizeCuisine(cuisine string) string {
	return strings.ToLower(strings.TrimSpace(cuisine))
}
