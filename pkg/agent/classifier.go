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

package agent

import (
	"regexp"
	"strings"

	"github.com/minddish/minddish/pkg/catalog"
	"github.com/minddish/minddish/pkg/session"
)

// ToolStep is one planned tool invocation.
type ToolStep struct {
	// Tool is the registry name to invoke.
	Tool string `json:"tool"`

	// Args are the invocation arguments.
	Args map[string]any `json:"args,omitempty"`

	// ChainArg names the argument to fill with text gathered by the
	// preceding retrieval step. Empty means no chaining.
	ChainArg string `json:"chain_arg,omitempty"`
}

// ToolPlan is the ordered tool sequence for one turn.
type ToolPlan struct {
	Steps []ToolStep `json:"steps"`
}

// IntentClassifier maps a user utterance to a tool plan. It is a pure
// decision boundary: implementations must not perform retrieval or tool
// execution, so they can be swapped or mocked independently of the
// controller.
type IntentClassifier interface {
	Classify(text string, history []session.Turn) (ToolPlan, error)
}

// RuleClassifier is a keyword-rule classifier over the fixed tool catalog.
type RuleClassifier struct {
	catalog *catalog.Catalog
}

// NewRuleClassifier creates a rule-based classifier. The catalog is used to
// recognize cuisine and video mentions; nil is allowed.
func NewRuleClassifier(cat *catalog.Catalog) *RuleClassifier {
	return &RuleClassifier{catalog: cat}
}

var (
	substitutePattern = regexp.MustCompile(
		`(?i)\b(?:substitute|replace|swap(?:\s+out)?)\s+(?:the\s+)?([a-z][a-z ]{1,30}?)(?:\s+(?:in|with|for|by)\b|[.,;!?]|$)`)
	insteadOfPattern = regexp.MustCompile(
		`(?i)\binstead of\s+(?:the\s+)?([a-z][a-z ]{1,30}?)(?:[.,;!?]|\s+(?:in|for)\b|$)`)
	allergicPattern = regexp.MustCompile(
		`(?i)\ballerg(?:ic|y)\s+to\s+([a-z][a-z ,]+?)(?:[.;!?]|$)`)
	comparePattern = regexp.MustCompile(
		`(?i)\b(?:compare|difference between)\s+(.+?)\s+(?:and|vs\.?|versus|with|to)\s+(.+?)(?:[.;!?]|$)`)
)

// dietTerms are the dietary patterns recognized in free text.
var dietTerms = []string{
	"vegan", "vegetarian", "pescatarian", "halal", "kosher", "gluten-free", "dairy-free",
}

// Classify applies the keyword rules in priority order. Substitution and
// comparison outrank retrieval because their trigger phrases embed
// question-like wording; the plain question fallback is video_qa.
func (c *RuleClassifier) Classify(text string, history []session.Turn) (ToolPlan, error) {
	lower := strings.ToLower(text)

	if plan, ok := c.classifySubstitution(text, lower); ok {
		return plan, nil
	}
	if plan, ok := c.classifyComparison(text, lower); ok {
		return plan, nil
	}
	if containsAny(lower, "search the web", "search online", "look up online", "on the internet") {
		return ToolPlan{Steps: []ToolStep{{
			Tool: "web_search",
			Args: map[string]any{"query": text},
		}}}, nil
	}
	if containsAny(lower, "how long", "how much time", "cooking time", "total time", "how many minutes") {
		return ToolPlan{Steps: []ToolStep{
			c.retrievalStep(text, lower),
			{Tool: "estimate_cooking_time", Args: map[string]any{}, ChainArg: "instructions"},
		}}, nil
	}
	if strings.Contains(lower, "ingredient") {
		return ToolPlan{Steps: []ToolStep{
			c.retrievalStep(text, lower),
			{Tool: "extract_ingredients", Args: map[string]any{}, ChainArg: "text"},
		}}, nil
	}

	return ToolPlan{Steps: []ToolStep{c.retrievalStep(text, lower)}}, nil
}

func (c *RuleClassifier) classifySubstitution(text, lower string) (ToolPlan, bool) {
	if !containsAny(lower, "substitute", "replace", "instead of", "swap") {
		return ToolPlan{}, false
	}

	ingredient := ""
	if m := substitutePattern.FindStringSubmatch(text); m != nil {
		ingredient = strings.TrimSpace(strings.ToLower(m[1]))
	} else if m := insteadOfPattern.FindStringSubmatch(text); m != nil {
		ingredient = strings.TrimSpace(strings.ToLower(m[1]))
	}
	if ingredient == "" {
		return ToolPlan{}, false
	}

	args := map[string]any{"ingredient": ingredient}
	if allergens := extractAllergens(lower); len(allergens) > 0 {
		args["allergens"] = allergens
	}
	if diet := extractDiet(lower); diet != "" {
		args["diet"] = diet
	}

	return ToolPlan{Steps: []ToolStep{{Tool: "suggest_substitution", Args: args}}}, true
}

func (c *RuleClassifier) classifyComparison(text, lower string) (ToolPlan, bool) {
	m := comparePattern.FindStringSubmatch(text)
	if m == nil {
		return ToolPlan{}, false
	}

	subjects := []string{
		cleanSubject(m[1]),
		cleanSubject(m[2]),
	}
	if subjects[0] == "" || subjects[1] == "" {
		return ToolPlan{}, false
	}

	return ToolPlan{Steps: []ToolStep{{
		Tool: "compare_recipes",
		Args: map[string]any{"subjects": subjects},
	}}}, true
}

// retrievalStep builds the video_qa step, attaching a cuisine filter when
// the utterance names a known cuisine.
func (c *RuleClassifier) retrievalStep(text, lower string) ToolStep {
	args := map[string]any{"question": text}

	if c.catalog != nil {
		for _, cuisine := range c.catalog.Cuisines() {
			if strings.Contains(lower, strings.ToLower(cuisine)) {
				args["cuisine"] = cuisine
				break
			}
		}
	}

	return ToolStep{Tool: "video_qa", Args: args}
}

func extractAllergens(lower string) []string {
	m := allergicPattern.FindStringSubmatch(lower)
	if m == nil {
		return nil
	}

	var out []string
	for _, part := range strings.FieldsFunc(m[1], func(r rune) bool {
		return r == ','
	}) {
		part = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "and "))
		part = strings.TrimSuffix(part, "s")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func extractDiet(lower string) string {
	for _, diet := range dietTerms {
		if strings.Contains(lower, diet) {
			return diet
		}
	}
	return ""
}

func cleanSubject(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"the ", "a ", "an "} {
		s = strings.TrimPrefix(s, prefix)
	}
	for _, suffix := range []string{" recipe", " recipes", " cooking", " food", " cuisine"} {
		s = strings.TrimSuffix(s, suffix)
	}
	return strings.TrimSpace(s)
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// Ensure RuleClassifier implements IntentClassifier.
var _ IntentClassifier = (*RuleClassifier)(nil)
