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

package tools

import (
	"context"
	"fmt"

	"github.com/minddish/minddish/pkg/retrieval"
)

// VideoQATool answers questions by searching the transcript index.
type VideoQATool struct {
	adapter *retrieval.Adapter
}

// NewVideoQATool creates the video_qa tool.
func NewVideoQATool(adapter *retrieval.Adapter) *VideoQATool {
	return &VideoQATool{adapter: adapter}
}

// GetInfo returns the tool metadata.
func (t *VideoQATool) GetInfo() ToolInfo {
	return ToolInfo{
		Name:        "video_qa",
		Description: "Search the cooking video transcripts for passages relevant to a question.",
		Parameters: []ToolParameter{
			{Name: "question", Type: "string", Description: "The question to search for", Required: true},
			{Name: "k", Type: "integer", Description: "Number of passages to retrieve"},
			{Name: "cuisine", Type: "string", Description: "Restrict results to one cuisine tag"},
			{Name: "video_id", Type: "string", Description: "Restrict results to one video"},
		},
	}
}

// Execute searches the index and returns the top chunks.
func (t *VideoQATool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	question := StringArg(args, "question")
	k := IntArg(args, "k")

	filters := map[string]any{}
	if cuisine := StringArg(args, "cuisine"); cuisine != "" {
		filters["cuisine"] = cuisine
	}
	if videoID := StringArg(args, "video_id"); videoID != "" {
		filters["video_id"] = videoID
	}
	if len(filters) == 0 {
		filters = nil
	}

	chunks, err := t.adapter.Search(ctx, question, k, filters)
	if err != nil {
		return ToolResult{}, fmt.Errorf("video_qa search failed: %w", err)
	}

	return ToolResult{
		ToolName: "video_qa",
		Kind:     KindRetrievedChunks,
		Chunks:   chunks,
	}, nil
}

// Ensure VideoQATool implements Tool.
var _ Tool = (*VideoQATool)(nil)
