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

import "errors"

var (
	// ErrInvalidToolInput indicates arguments violated the declared
	// parameter schema. Non-retriable; the tool body never ran.
	ErrInvalidToolInput = errors.New("invalid tool input")

	// ErrSearchDenied indicates web search was invoked without per-turn
	// user consent. Non-retriable, policy-enforced, never bypassed.
	ErrSearchDenied = errors.New("web search denied: no user consent for this turn")

	// ErrToolNotFound indicates the requested tool is not registered.
	ErrToolNotFound = errors.New("tool not found")
)
