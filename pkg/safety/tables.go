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

package safety

import "strings"

// allergenTerms maps an allergen profile entry to the ingredient terms it
// covers. Covers the major allergen groups that show up in the corpus's
// recipes.
var allergenTerms = map[string][]string{
	"peanut":    {"peanut", "peanuts", "peanut butter", "groundnut", "groundnuts"},
	"tree nut":  {"almond", "almonds", "cashew", "cashews", "walnut", "walnuts", "pecan", "hazelnut", "pistachio"},
	"dairy":     {"milk", "butter", "cream", "cheese", "yogurt", "ghee", "paneer"},
	"milk":      {"milk", "butter", "cream", "cheese", "yogurt", "ghee", "paneer"},
	"gluten":    {"wheat", "flour", "bread", "breadcrumbs", "pasta", "couscous", "barley", "seitan"},
	"wheat":     {"wheat", "flour", "bread", "breadcrumbs", "pasta", "couscous"},
	"soy":       {"soy", "soy sauce", "tofu", "tempeh", "edamame", "miso"},
	"egg":       {"egg", "eggs", "mayonnaise", "aioli"},
	"shellfish": {"shrimp", "prawn", "prawns", "crab", "lobster", "oyster", "mussels", "clams"},
	"fish":      {"fish", "fish sauce", "anchovy", "anchovies", "cod", "salmon", "bacalhau"},
	"sesame":    {"sesame", "sesame oil", "tahini"},
}

// crossReactiveTerms maps an allergen to ingredient terms that commonly
// carry cross-contact risk with it. Nut butters are processed on shared
// equipment, so a peanut allergy also rejects tree nut butters.
var crossReactiveTerms = map[string][]string{
	"peanut":   {"almond butter", "cashew butter", "walnut butter", "hazelnut butter", "nut butter"},
	"tree nut": {"peanut butter"},
}

// dietExclusions maps a diet to ingredient terms it excludes.
var dietExclusions = map[string][]string{
	"vegan": {
		"beef", "pork", "chicken", "lamb", "goat", "meat", "bacon", "ham",
		"fish", "shrimp", "prawn", "anchovy", "fish sauce",
		"milk", "butter", "cream", "cheese", "yogurt", "ghee", "paneer",
		"egg", "eggs", "honey", "gelatin",
	},
	"vegetarian": {
		"beef", "pork", "chicken", "lamb", "goat", "meat", "bacon", "ham",
		"fish", "shrimp", "prawn", "anchovy", "fish sauce", "gelatin",
	},
	"pescatarian": {
		"beef", "pork", "chicken", "lamb", "goat", "meat", "bacon", "ham",
	},
	"halal": {
		"pork", "bacon", "ham", "lard", "wine", "beer", "brandy", "rum",
	},
	"kosher": {
		"pork", "bacon", "ham", "lard", "shrimp", "prawn", "crab", "lobster", "oyster",
	},
	"gluten-free": {
		"wheat", "flour", "bread", "breadcrumbs", "pasta", "couscous", "barley", "seitan",
	},
	"dairy-free": {
		"milk", "butter", "cream", "cheese", "yogurt", "ghee", "paneer",
	},
}

// ingredientCategories is a coarse nutritional grouping used by the
// compatibility stage.
var ingredientCategories = map[string]string{
	"peanut":          "nut",
	"peanuts":         "nut",
	"peanut butter":   "nut",
	"almond":          "nut",
	"almond butter":   "nut",
	"cashew":          "nut",
	"cashew butter":   "nut",
	"tahini":          "seed",
	"sunflower seed butter": "seed",
	"sesame":          "seed",
	"butter":          "dairy",
	"ghee":            "dairy",
	"milk":            "dairy",
	"cream":           "dairy",
	"yogurt":          "dairy",
	"cheese":          "dairy",
	"coconut milk":    "plant fat",
	"coconut cream":   "plant fat",
	"coconut oil":     "plant fat",
	"olive oil":       "plant fat",
	"vegetable oil":   "plant fat",
	"margarine":       "plant fat",
	"chicken":         "meat",
	"beef":            "meat",
	"pork":            "meat",
	"lamb":            "meat",
	"tofu":            "plant protein",
	"tempeh":          "plant protein",
	"seitan":          "plant protein",
	"chickpeas":       "legume",
	"lentils":         "legume",
	"beans":           "legume",
	"fish":            "fish",
	"cod":             "fish",
	"salmon":          "fish",
	"fish sauce":      "condiment",
	"soy sauce":       "condiment",
	"tamari":          "condiment",
	"coconut aminos":  "condiment",
	"wheat flour":     "grain",
	"flour":           "grain",
	"rice":            "grain",
	"rice flour":      "grain",
	"cornstarch":      "grain",
	"egg":             "egg",
	"eggs":            "egg",
	"flax egg":        "seed",
	"honey":           "sweetener",
	"sugar":           "sweetener",
	"maple syrup":     "sweetener",
	"agave":           "sweetener",
}

// compatiblePairs lists cross-category substitutions considered
// nutritionally close enough to pass without a warning.
var compatiblePairs = map[[2]string]bool{
	{"nut", "seed"}:              true,
	{"dairy", "plant fat"}:       true,
	{"meat", "plant protein"}:    true,
	{"meat", "legume"}:           true,
	{"fish", "plant protein"}:    true,
	{"egg", "seed"}:              true,
	{"grain", "legume"}:          true,
}

// plantQualifiers suppress animal-product term matches: "coconut milk"
// contains "milk" but is not dairy.
var plantQualifiers = map[string]bool{
	"coconut": true,
	"oat":     true,
	"almond":  true,
	"soy":     true,
	"cashew":  true,
	"rice":    true,
	"peanut":  true,
	"flax":    true,
	"vegan":   true,
}

func categoryOf(ingredient string) string {
	norm := normalize(ingredient)
	if cat, ok := ingredientCategories[norm]; ok {
		return cat
	}
	// Fall back to the longest term contained in the ingredient phrase.
	best := ""
	bestLen := 0
	for term, cat := range ingredientCategories {
		if len(term) > bestLen && strings.Contains(norm, term) {
			best = cat
			bestLen = len(term)
		}
	}
	return best
}

func compatibleCategories(a, b string) bool {
	return compatiblePairs[[2]string{a, b}] || compatiblePairs[[2]string{b, a}]
}
