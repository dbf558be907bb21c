package metrics

import (
	"regexp"
	"strings"
	"sync"

	"github.com/tkarna-dev/zaksha-interview-ai/internal/models"
)

// aiTypicalNames is the fixed list of identifier names that AI-generated code
// leans on heavily.
var aiTypicalNames = map[string]bool{
	"result": true, "results": true, "data": true, "temp": true, "item": true,
	"items": true, "value": true, "values": true, "index": true, "output": true,
	"input": true, "response": true, "helper": true, "handler": true,
	"element": true, "elements": true, "array": true, "list": true,
	"num": true, "str": true, "obj": true, "val": true, "res": true, "ret": true,
}

var identifierRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

var (
	camelRe  = regexp.MustCompile(`^[a-z][a-z0-9]*(?:[A-Z][a-z0-9]*)+$`)
	pascalRe = regexp.MustCompile(`^(?:[A-Z][a-z0-9]+)+$`)
	snakeRe  = regexp.MustCompile(`^[a-z][a-z0-9]*(?:_[a-z0-9]+)+$`)
	returnRe = regexp.MustCompile(`^return\b`)
)

// patternCache avoids recompiling the table regexes on every submission.
var patternCache sync.Map // pattern string -> *regexp.Regexp

// compilePattern compiles and caches a table regex. Invalid patterns (from a
// user-supplied override file) match nothing.
func compilePattern(pattern string) *regexp.Regexp {
	if pattern == "" {
		return nil
	}
	if cached, ok := patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		patternCache.Store(pattern, (*regexp.Regexp)(nil))
		return nil
	}
	patternCache.Store(pattern, re)
	return re
}

func countMatches(re *regexp.Regexp, text string) int {
	if re == nil {
		return 0
	}
	return len(re.FindAllStringIndex(text, -1))
}

// AnalyzeCode derives the static stylometry feature set from a single code
// submission. It is a pure function of the text and the language pattern
// table.
func AnalyzeCode(code, language string, table models.LanguageTable, cfg StylometryConfig) models.CodeStylometryFeatures {
	features := models.CodeStylometryFeatures{
		Structure: models.StructuralSummary{NamingConvention: "mixed"},
	}
	if code == "" {
		return features
	}

	patterns := table.Lookup(language)
	lines := strings.Split(strings.ReplaceAll(code, "\r\n", "\n"), "\n")

	features.LineCount = len(lines)
	features.CharacterCount = len(code)

	// Average line length over non-blank lines.
	nonBlank := 0
	var lengthSum int
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		nonBlank++
		lengthSum += len(line)
	}
	if nonBlank > 0 {
		features.AverageLineLength = float64(lengthSum) / float64(nonBlank)
	}

	// Comment ratio: comment-tagged lines over total lines, tracking block
	// comment state line by line.
	commentLines := 0
	inBlock := false
	blockEnd := ""
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if inBlock {
			commentLines++
			if strings.Contains(trimmed, blockEnd) {
				inBlock = false
			}
			continue
		}
		isComment := false
		for _, prefix := range patterns.LineComments {
			if strings.HasPrefix(trimmed, prefix) {
				isComment = true
				break
			}
		}
		if !isComment {
			for _, pair := range patterns.BlockComments {
				if strings.HasPrefix(trimmed, pair[0]) {
					isComment = true
					rest := trimmed[len(pair[0]):]
					if !strings.Contains(rest, pair[1]) {
						inBlock = true
						blockEnd = pair[1]
					}
					break
				}
			}
		}
		if isComment {
			commentLines++
		}
	}
	features.CommentRatio = float64(commentLines) / float64(len(lines))

	// Pattern presence flags.
	features.HasTernary = countMatches(compilePattern(patterns.TernaryPattern), code) > 0
	for _, line := range lines {
		if returnRe.MatchString(strings.TrimSpace(line)) {
			features.BareReturnCount++
		}
	}
	seen := make(map[string]int)
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) > 10 {
			seen[trimmed]++
		}
	}
	for _, n := range seen {
		if n > 1 {
			features.HasDuplicateLines = true
			break
		}
	}

	// Complexity: control-flow keywords + 2x max nesting depth + function
	// definitions, all from the language's pattern set.
	controlCount := 0
	for _, kw := range patterns.ControlKeywords {
		controlCount += countMatches(compilePattern(`\b`+regexp.QuoteMeta(kw)+`\b`), code)
	}
	functionCount := 0
	for _, p := range patterns.FunctionDefs {
		functionCount += countMatches(compilePattern(p), code)
	}
	features.ComplexityScore = float64(controlCount) + 2*float64(maxNestingDepth(code)) + float64(functionCount)

	// Structural summary.
	features.Structure.FunctionCount = functionCount
	for _, p := range patterns.ClassDefs {
		features.Structure.ClassCount += countMatches(compilePattern(p), code)
	}
	for _, p := range patterns.ImportPatterns {
		features.Structure.ImportCount += countMatches(compilePattern(`(?m)`+p), code)
	}

	// Identifier analysis: naming convention and AI-typical name share.
	identifiers := identifierRe.FindAllString(code, -1)
	keywords := make(map[string]bool, len(patterns.ControlKeywords))
	for _, kw := range patterns.ControlKeywords {
		keywords[kw] = true
	}
	camel, pascal, snake, classified, aiTypical, total := 0, 0, 0, 0, 0, 0
	for _, ident := range identifiers {
		if keywords[ident] {
			continue
		}
		total++
		if aiTypicalNames[strings.ToLower(ident)] {
			aiTypical++
		}
		switch {
		case camelRe.MatchString(ident):
			camel++
			classified++
		case pascalRe.MatchString(ident):
			pascal++
			classified++
		case snakeRe.MatchString(ident):
			snake++
			classified++
		}
	}
	if classified > 0 {
		half := classified / 2
		switch {
		case camel > half:
			features.Structure.NamingConvention = "camelCase"
		case snake > half:
			features.Structure.NamingConvention = "snake_case"
		case pascal > half:
			features.Structure.NamingConvention = "PascalCase"
		}
	}
	aiShare := 0.0
	if total > 0 {
		aiShare = float64(aiTypical) / float64(total)
	}

	// Additive AI-generation likelihood.
	prob := 0.0
	if features.HasTernary {
		prob += 0.2
	}
	if features.BareReturnCount > 2 {
		prob += 0.3
	}
	if !features.HasDuplicateLines {
		prob += 0.1
	}
	if features.CommentRatio < cfg.LowCommentRatio {
		prob += 0.1
	}
	if aiShare > cfg.AITypicalShare {
		prob += 0.2
	}
	if features.AverageLineLength > cfg.LongLineLength {
		prob += 0.1
	}
	features.AIGeneratedProbability = clamp01(prob)

	// Perplexity: weighted unusual-pattern matches normalized by line count.
	perplexity := 0.0
	for _, wp := range patterns.UnusualPatterns {
		perplexity += wp.Weight * float64(countMatches(compilePattern(wp.Pattern), code))
	}
	features.PerplexityScore = clamp01(perplexity / float64(features.LineCount))

	return features
}

// maxNestingDepth scans brace/parenthesis pairs and returns the deepest
// nesting level.
func maxNestingDepth(code string) int {
	depth, maxDepth := 0, 0
	for _, r := range code {
		switch r {
		case '{', '(':
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		case '}', ')':
			if depth > 0 {
				depth--
			}
		}
	}
	return maxDepth
}

// DetectCodeAnomalies applies the fixed additive rules to a stylometry
// feature set.
func DetectCodeAnomalies(features models.CodeStylometryFeatures, cfg StylometryConfig) models.AnomalyVerdict {
	verdict := models.AnomalyVerdict{Indicators: make([]string, 0)}

	if features.AIGeneratedProbability > 0.7 {
		verdict.Confidence += 0.4
		verdict.Indicators = append(verdict.Indicators, "high AI-generation likelihood")
	}
	if features.HasTernary && features.BareReturnCount > 0 {
		verdict.Confidence += 0.3
		verdict.Indicators = append(verdict.Indicators, "ternary and direct-return style")
	}
	if features.CommentRatio < 0.02 && features.LineCount > 20 {
		verdict.Confidence += 0.2
		verdict.Indicators = append(verdict.Indicators, "uncommented code")
	}
	if features.ComplexityScore < 2 && features.LineCount > 30 {
		verdict.Confidence += 0.2
		verdict.Indicators = append(verdict.Indicators, "abnormally flat structure")
	}
	if features.Structure.NamingConvention == "camelCase" && features.Structure.FunctionCount > 5 {
		verdict.Confidence += 0.1
		verdict.Indicators = append(verdict.Indicators, "uniform camelCase naming")
	}

	verdict.Confidence = clamp01(verdict.Confidence)
	verdict.Suspicious = verdict.Confidence > cfg.SuspicionThreshold
	return verdict
}
