// Package interpret classifies free-text analytic questions into a fixed set
// of intents and extracts their raw parameters. Classification is a fixed
// priority order of pattern rules; the first satisfied rule commits the
// intent. The interpreter never fails: worst case is the unknown intent with
// the raw text preserved.
package interpret

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Intent selects which computation runs downstream.
type Intent string

const (
	IntentCompareRainfallAndCrops Intent = "compare_rainfall_and_crops"
	IntentDistrictExtremes        Intent = "district_extremes"
	IntentProductionTrend         Intent = "production_trend_with_climate"
	IntentPolicyArguments         Intent = "policy_arguments"
	IntentUnknown                 Intent = "unknown"
)

// Params holds raw extracted parameters. Zero values mean absent; resolution
// against the dataset vocabulary happens downstream.
type Params struct {
	StateA     string `json:"stateA,omitempty"`
	StateB     string `json:"stateB,omitempty"`
	Region     string `json:"region,omitempty"`
	Crop       string `json:"crop,omitempty"`
	CropA      string `json:"cropA,omitempty"`
	CropB      string `json:"cropB,omitempty"`
	CropFilter string `json:"cropFilter,omitempty"`
	Years      int    `json:"years,omitempty"`
	TopM       int    `json:"topM,omitempty"`
	Year       int    `json:"year,omitempty"`
	Raw        string `json:"raw,omitempty"`
}

// ParsedQuestion is the interpreter's output.
type ParsedQuestion struct {
	Intent Intent `json:"intent"`
	Params Params `json:"params"`
}

// Default number of crops ranked when the question names none.
const defaultTopM = 3

// Match state names (1-3 words max, lazily extended), case insensitive.
const stateNamePattern = `[A-Za-z]+(?:\s+[A-Za-z]+){0,2}?`

var (
	statePairRegex = regexp.MustCompile(
		`(?i)in\s+(` + stateNamePattern + `)\s+(?:and|vs\.?|versus|&)\s+(` + stateNamePattern + `)\b`)
	stateBetweenRegex = regexp.MustCompile(
		`(?i)between\s+(` + stateNamePattern + `)\s+(?:and|vs\.?|versus|&)\s+(` + stateNamePattern + `)\b`)
	// For "compare X and Y" or "compare rainfall in X and Y"
	compareStatesRegex = regexp.MustCompile(
		`(?i)compare\s+(?:.*?\s+in\s+)?(` + stateNamePattern + `)\s+(?:and|vs\.?|versus|&)\s+(` + stateNamePattern + `)\b`)
	statePlaceholderRegex = regexp.MustCompile(`(?i)state[_\s]?([A-Za-z]+)`)

	yearCountRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:last|past|previous|recent)\s+(\d+)\s+years?`),
		regexp.MustCompile(`(?i)over\s+(?:the\s+)?(?:last|past|previous)?\s*(\d+)\s+years?`),
		regexp.MustCompile(`(?i)during\s+(?:the\s+)?(?:last|past|previous)?\s*(\d+)\s+years?`),
		regexp.MustCompile(`(?i)for\s+(?:the\s+)?(?:last|past|previous)?\s*(\d+)\s+years?`),
		regexp.MustCompile(`(?i)in\s+(?:the\s+)?(?:last|past|previous)?\s*(\d+)\s+years?`),
	}

	topMRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:top|first|best|leading|main)\s+(\d+)`),
		regexp.MustCompile(`(?i)(\d+)\s+(?:most|top|best|leading|main)`),
	}

	regionRegex            = regexp.MustCompile(`(?i)in\s+([A-Za-z\s]+?)(?:\s+over|\s+during|\s+across|,|\.|\?|$)`)
	regionPlaceholderRegex = regexp.MustCompile(`(?i)region[_\s]?([A-Za-z]+)`)

	cropPlaceholderRegex = regexp.MustCompile(`(?i)crop(?:_type)?[_\s]?([A-Za-z]+)`)
	cropTrendOfRegex     = regexp.MustCompile(`(?i)production trend of\s+([A-Za-z\s]+?)\s+in`)
	cropProductionRegex  = regexp.MustCompile(`(?i)production of\s+([A-Za-z\s]+?)(?:\s+in|\s+over|,|\.|\?|$)`)
	cropsOfRegex         = regexp.MustCompile(`(?i)crops of ([A-Za-z\s]+?)(?:\(|for|in|,|\.|$)`)

	cropPairPlaceholderRegex = regexp.MustCompile(`(?i)crop[_\s]?type[_\s]?([A-Za-z]+)`)
	promoteRegex             = regexp.MustCompile(`(?i)promote\s+([A-Za-z\s]+?)\s+over\s+([A-Za-z\s]+?)(?:\s+in|\s+across|\.|$)`)

	// Inline "in <phrase>" scan for the district-extremes rule. The original
	// heuristic stops a phrase at a connective or punctuation; the connective
	// is consumed here rather than looked ahead at, which RE2 cannot do.
	inlineStateRegex = regexp.MustCompile(
		`(?i)\bin\s+([A-Za-z\s]+?)(?:\s+(?:and|with|having|showing|that|had|for)\b|,|\?|\.|$)`)
	highStateRegex = regexp.MustCompile(`(?i)districts?\s+in\s+([A-Za-z\s]+?)\s+(?:with|having|showing|had)`)
	lowStateRegex  = regexp.MustCompile(`(?i)(?:lowest|minimum|min)\s+production\s+of\s+[A-Za-z\s]+?\s+in\s+([A-Za-z\s]+?)(?:\s|,|\.|\?|$)`)
	highCropRegex  = regexp.MustCompile(`(?i)highest production of\s+([A-Za-z\s]+?)\s`)
	// Leftmost wins: an explicit "most recent year" before any 4-digit
	// literal means no year was requested.
	yearLiteral = regexp.MustCompile(`most recent year|(\d{4})`)

	whitespaceRegex = regexp.MustCompile(`\s+`)
)

var highSynonyms = []string{"highest", "max", "maximum", "peak", "best", "top"}
var lowSynonyms = []string{"lowest", "min", "minimum", "worst", "bottom"}

// stateExcludeTokens filters spurious captures from the generic inline
// "in <phrase>" scan.
var stateExcludeTokens = map[string]bool{
	"most": true, "recent": true, "year": true, "available": true,
	"lowest": true, "highest": true, "district": true, "compare": true,
	"that": true, "with": true, "the": true,
}

// Parse classifies a question and extracts its raw parameters.
func Parse(question string) ParsedQuestion {
	text := strings.TrimSpace(question)
	lowered := strings.ToLower(text)

	// Rule 1: rainfall comparison with crop ranking
	if strings.Contains(lowered, "rainfall") &&
		(strings.Contains(lowered, "top") || strings.Contains(lowered, "list")) &&
		strings.Contains(lowered, "crop") {
		stateA, stateB := extractStatePair(text)
		cropFilter := ""
		if m := cropsOfRegex.FindStringSubmatch(text); m != nil {
			cropFilter = cleanToken(m[1])
		} else {
			cropFilter = extractCrop(text)
		}
		return ParsedQuestion{
			Intent: IntentCompareRainfallAndCrops,
			Params: Params{
				StateA:     stateA,
				StateB:     stateB,
				Years:      extractYearCount(lowered),
				TopM:       extractTopM(lowered),
				CropFilter: cropFilter,
			},
		}
	}

	// Rule 2: district extremes needs both a highest and a lowest token
	hasHigh := containsAny(lowered, highSynonyms)
	hasLow := containsAny(lowered, lowSynonyms)

	if strings.Contains(lowered, "district") && hasHigh && hasLow {
		stateA, stateB := extractStatePair(text)

		inlineStates := extractInlineStates(text)
		if stateA == "" && len(inlineStates) > 0 {
			stateA = inlineStates[0]
		}
		if stateB == "" && len(inlineStates) > 1 {
			stateB = inlineStates[1]
		}
		if stateA == "" {
			if m := highStateRegex.FindStringSubmatch(text); m != nil {
				stateA = normalizeStateName(cleanToken(m[1]))
			}
		}
		if stateB == "" {
			if m := lowStateRegex.FindStringSubmatch(text); m != nil {
				stateB = normalizeStateName(cleanToken(m[1]))
			}
		}

		crop := extractCrop(text)
		if crop == "" {
			if m := highCropRegex.FindStringSubmatch(text); m != nil {
				crop = cleanToken(m[1])
			}
		}

		year := 0
		if m := yearLiteral.FindStringSubmatch(lowered); m != nil && m[1] != "" {
			year, _ = strconv.Atoi(m[1])
		}

		return ParsedQuestion{
			Intent: IntentDistrictExtremes,
			Params: Params{StateA: stateA, StateB: stateB, Crop: crop, Year: year},
		}
	}

	// Rule 3: production trend, only when both region and crop are extractable
	if strings.Contains(lowered, "trend") || strings.Contains(lowered, "show") {
		region := extractRegion(text)
		crop := extractCrop(text)
		if region != "" && crop != "" {
			return ParsedQuestion{
				Intent: IntentProductionTrend,
				Params: Params{
					Region: region,
					Crop:   titleWords(crop),
					Years:  extractYearCount(lowered),
				},
			}
		}
	}

	// Rule 4: policy arguments
	if strings.Contains(lowered, "policy") || strings.Contains(lowered, "scheme") || strings.Contains(lowered, "promote") {
		crops := extractCropPair(text)
		params := Params{
			Region: extractRegion(text),
			Years:  extractYearCount(lowered),
		}
		if len(crops) > 0 {
			params.CropA = crops[0]
		}
		if len(crops) > 1 {
			params.CropB = crops[1]
		}
		return ParsedQuestion{Intent: IntentPolicyArguments, Params: params}
	}

	// Fallback heuristics for looser phrasing
	stateA, stateB := extractStatePair(text)
	crop := extractCrop(text)

	if strings.Contains(lowered, "rainfall") && stateA != "" && stateB != "" {
		return ParsedQuestion{
			Intent: IntentCompareRainfallAndCrops,
			Params: Params{
				StateA:     stateA,
				StateB:     stateB,
				Years:      extractYearCount(lowered),
				TopM:       extractTopM(lowered),
				CropFilter: crop,
			},
		}
	}

	if strings.Contains(lowered, "district") && stateA != "" && stateB != "" && crop != "" {
		return ParsedQuestion{
			Intent: IntentDistrictExtremes,
			Params: Params{StateA: stateA, StateB: stateB, Crop: crop},
		}
	}

	if strings.Contains(lowered, "trend") && (crop != "" || strings.Contains(lowered, "production")) {
		return ParsedQuestion{
			Intent: IntentProductionTrend,
			Params: Params{
				Region: extractRegion(text),
				Crop:   titleWords(crop),
				Years:  extractYearCount(lowered),
			},
		}
	}

	if (strings.Contains(lowered, "promote") || strings.Contains(lowered, "compare")) && crop != "" {
		crops := extractCropPair(text)
		params := Params{
			Region: extractRegion(text),
			CropA:  crop,
			Years:  extractYearCount(lowered),
		}
		if len(crops) > 0 {
			params.CropA = crops[0]
		}
		if len(crops) > 1 {
			params.CropB = crops[1]
		}
		return ParsedQuestion{Intent: IntentPolicyArguments, Params: params}
	}

	return ParsedQuestion{Intent: IntentUnknown, Params: Params{Raw: question}}
}

// ==========================
// Extraction primitives
// ==========================

func extractStatePair(text string) (string, string) {
	for _, re := range []*regexp.Regexp{statePairRegex, stateBetweenRegex, compareStatesRegex} {
		if m := re.FindStringSubmatch(text); m != nil && cleanToken(m[1]) != "" && cleanToken(m[2]) != "" {
			return normalizeStateName(cleanToken(m[1])), normalizeStateName(cleanToken(m[2]))
		}
	}

	// Last resort: "state_<token>" placeholders
	placeholders := statePlaceholderRegex.FindAllStringSubmatch(text, -1)
	if len(placeholders) >= 2 {
		return normalizeStateName(cleanToken(placeholders[0][1])), normalizeStateName(cleanToken(placeholders[1][1]))
	}

	return "", ""
}

func extractInlineStates(text string) []string {
	var states []string
	for _, m := range inlineStateRegex.FindAllStringSubmatch(text, -1) {
		candidate := normalizeStateName(cleanToken(m[1]))
		if candidate == "" {
			continue
		}
		excluded := false
		for _, token := range strings.Fields(strings.ToLower(candidate)) {
			if stateExcludeTokens[token] {
				excluded = true
				break
			}
		}
		if !excluded {
			states = append(states, candidate)
		}
	}
	return states
}

func extractYearCount(text string) int {
	for _, re := range yearCountRegexes {
		if m := re.FindStringSubmatch(text); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil {
				return n
			}
		}
	}
	return 0
}

func extractTopM(text string) int {
	for _, re := range topMRegexes {
		if m := re.FindStringSubmatch(text); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil {
				return n
			}
		}
	}
	return defaultTopM
}

func extractRegion(text string) string {
	if m := regionRegex.FindStringSubmatch(text); m != nil {
		return normalizeStateName(cleanToken(m[1]))
	}
	if m := regionPlaceholderRegex.FindStringSubmatch(text); m != nil {
		return normalizeStateName(cleanToken(m[1]))
	}
	return ""
}

func extractCrop(text string) string {
	if m := cropPlaceholderRegex.FindStringSubmatch(text); m != nil {
		return cleanToken(m[1])
	}
	if m := cropTrendOfRegex.FindStringSubmatch(text); m != nil {
		return cleanToken(m[1])
	}
	if m := cropProductionRegex.FindStringSubmatch(text); m != nil {
		return cleanToken(m[1])
	}
	return ""
}

func extractCropPair(text string) []string {
	var crops []string
	for _, m := range cropPairPlaceholderRegex.FindAllStringSubmatch(text, -1) {
		crops = append(crops, cleanToken(m[1]))
	}
	if len(crops) > 0 {
		return crops
	}
	if m := promoteRegex.FindStringSubmatch(text); m != nil {
		return []string{cleanToken(m[1]), cleanToken(m[2])}
	}
	return nil
}

// ==========================
// Token helpers
// ==========================

// cleanToken collapses internal whitespace and trims the ends.
func cleanToken(value string) string {
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(value), " ")
}

// normalizeStateName title-cases each word so "tamil nadu" becomes "Tamil Nadu".
func normalizeStateName(state string) string {
	return titleWords(state)
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		if len(runes) > 0 {
			runes[0] = unicode.ToUpper(runes[0])
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
