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

// Package safety validates ingredient substitutions.
//
// The gate runs three ordered stages per candidate: allergen check, dietary
// restriction check, nutritional compatibility check. A fail at any stage
// rejects the candidate immediately; allergen failures in particular must
// never be overridden by a later stage. Warnings carry forward and are
// surfaced even when the candidate is accepted. The gate is stateless per
// call.
package safety

import (
	"fmt"
	"strings"
)

// Stage identifies a validation stage.
type Stage string

const (
	StageAllergen    Stage = "allergen"
	StageDietary     Stage = "dietary"
	StageNutritional Stage = "nutritional"
)

// Outcome is the result of a single stage.
type Outcome string

const (
	OutcomePass Outcome = "pass"
	OutcomeWarn Outcome = "warn"
	OutcomeFail Outcome = "fail"
)

// StageResult records one stage's outcome and reason.
type StageResult struct {
	Stage   Stage   `json:"stage"`
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`
}

// Verdict is the combined result for one substitution candidate.
type Verdict struct {
	// Accepted is true only when no stage failed.
	Accepted bool `json:"accepted"`

	// Stages holds the per-stage results, in evaluation order. Stages
	// skipped by a fail short-circuit are absent.
	Stages []StageResult `json:"stages"`

	// Warnings collects warn-stage reasons, surfaced even on accept.
	Warnings []string `json:"warnings,omitempty"`

	// Reason is the human-readable rejection reason (empty on accept).
	Reason string `json:"reason,omitempty"`
}

// Constraints describe the user's restrictions for a substitution request.
type Constraints struct {
	// Allergens the user must avoid, e.g. "peanut", "dairy".
	Allergens []string `json:"allergens,omitempty"`

	// Diet is an optional dietary pattern, e.g. "vegan", "halal".
	Diet string `json:"diet,omitempty"`
}

// Candidate is a proposed substitution under evaluation.
type Candidate struct {
	// Original is the ingredient being replaced.
	Original string `json:"original"`

	// Substitute is the proposed replacement.
	Substitute string `json:"substitute"`
}

// Gate evaluates substitution candidates against the three stages.
type Gate struct{}

// NewGate creates a substitution safety gate.
func NewGate() *Gate {
	return &Gate{}
}

// Evaluate runs the stages in order for one candidate.
// Any fail short-circuits the remaining stages and rejects.
func (g *Gate) Evaluate(candidate Candidate, constraints Constraints) Verdict {
	verdict := Verdict{}

	for _, check := range []func(Candidate, Constraints) StageResult{
		g.checkAllergens,
		g.checkDietary,
		g.checkNutritional,
	} {
		result := check(candidate, constraints)
		verdict.Stages = append(verdict.Stages, result)

		switch result.Outcome {
		case OutcomeFail:
			verdict.Accepted = false
			verdict.Reason = result.Reason
			return verdict
		case OutcomeWarn:
			verdict.Warnings = append(verdict.Warnings, result.Reason)
		}
	}

	verdict.Accepted = true
	return verdict
}

// checkAllergens fails when the substitute contains any declared allergen.
func (g *Gate) checkAllergens(candidate Candidate, constraints Constraints) StageResult {
	substitute := normalize(candidate.Substitute)

	for _, allergen := range constraints.Allergens {
		terms, ok := allergenTerms[normalize(allergen)]
		if !ok {
			// Unrecognized allergen: match the raw term itself.
			terms = []string{normalize(allergen)}
		}
		for _, term := range terms {
			if matchesExclusion(substitute, term) {
				return StageResult{
					Stage:   StageAllergen,
					Outcome: OutcomeFail,
					Reason: fmt.Sprintf("%q contains allergen %q, which is in the user's allergen profile",
						candidate.Substitute, allergen),
				}
			}
		}
		for _, term := range crossReactiveTerms[normalize(allergen)] {
			if containsIngredient(substitute, term) {
				return StageResult{
					Stage:   StageAllergen,
					Outcome: OutcomeFail,
					Reason: fmt.Sprintf("%q carries cross-contact risk with allergen %q, which is in the user's allergen profile",
						candidate.Substitute, allergen),
				}
			}
		}
	}

	return StageResult{Stage: StageAllergen, Outcome: OutcomePass}
}

// checkDietary fails when the substitute violates the declared diet.
func (g *Gate) checkDietary(candidate Candidate, constraints Constraints) StageResult {
	diet := normalize(constraints.Diet)
	if diet == "" {
		return StageResult{Stage: StageDietary, Outcome: OutcomePass}
	}

	excluded, ok := dietExclusions[diet]
	if !ok {
		return StageResult{
			Stage:   StageDietary,
			Outcome: OutcomeWarn,
			Reason:  fmt.Sprintf("unrecognized diet %q; dietary compatibility not verified", constraints.Diet),
		}
	}

	substitute := normalize(candidate.Substitute)
	for _, term := range excluded {
		if matchesExclusion(substitute, term) {
			return StageResult{
				Stage:   StageDietary,
				Outcome: OutcomeFail,
				Reason: fmt.Sprintf("%q contains %q, which is excluded by a %s diet",
					candidate.Substitute, term, diet),
			}
		}
	}

	return StageResult{Stage: StageDietary, Outcome: OutcomePass}
}

// checkNutritional compares ingredient categories. Mismatches warn rather
// than fail: a category change alters the dish but is not a safety issue.
func (g *Gate) checkNutritional(candidate Candidate, constraints Constraints) StageResult {
	originalCat := categoryOf(candidate.Original)
	substituteCat := categoryOf(candidate.Substitute)

	if originalCat == "" || substituteCat == "" {
		return StageResult{
			Stage:   StageNutritional,
			Outcome: OutcomeWarn,
			Reason: fmt.Sprintf("nutritional profile of %q vs %q could not be verified",
				candidate.Substitute, candidate.Original),
		}
	}

	if originalCat != substituteCat && !compatibleCategories(originalCat, substituteCat) {
		return StageResult{
			Stage:   StageNutritional,
			Outcome: OutcomeWarn,
			Reason: fmt.Sprintf("%q (%s) differs nutritionally from %q (%s)",
				candidate.Substitute, substituteCat, candidate.Original, originalCat),
		}
	}

	return StageResult{Stage: StageNutritional, Outcome: OutcomePass}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// matchesExclusion matches a restriction term, except when the match is
// qualified by a plant word ("coconut milk" does not match "milk").
func matchesExclusion(text, term string) bool {
	if !containsIngredient(text, term) {
		return false
	}

	padded := " " + text + " "
	idx := strings.Index(padded, " "+term+" ")
	if idx < 0 {
		return true
	}
	words := strings.Fields(padded[:idx])
	if len(words) == 0 {
		return true
	}
	return !plantQualifiers[words[len(words)-1]]
}

// containsIngredient matches whole ingredient terms, so "butter" does not
// match "peanut butter" incorrectly in reverse.
func containsIngredient(text, term string) bool {
	if term == "" {
		return false
	}
	if text == term {
		return true
	}
	return strings.Contains(" "+text+" ", " "+term+" ") ||
		strings.HasPrefix(text, term+" ") ||
		strings.HasSuffix(text, " "+term)
}
