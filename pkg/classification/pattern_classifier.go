package classification

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/formsense/field-classifier/pkg/features"
	"github.com/formsense/field-classifier/pkg/observability/logging"
	"github.com/formsense/field-classifier/pkg/taxonomy"
)

// Source weights for the multi-source pattern scan. A visible label is the
// strongest evidence; sibling text the weakest.
const (
	weightLabel       = 1.0
	weightPlaceholder = 0.8
	weightIDName      = 0.6
	weightParent      = 0.4
	weightSibling     = 0.3

	// minScanScore is the floor a winning scan score must clear. An id/name
	// match alone (0.6) passes; parent or sibling context alone does not.
	minScanScore = 0.6

	hintConfidence          = 0.99
	compensationConfidence  = 0.99
	dateConfidence          = 0.95
	dateAmbiguousConfidence = 0.88

	minPatternConfidence = 0.60
	maxPatternConfidence = 0.99
)

var (
	compensationCue = regexp.MustCompile(`(?i)\b(salary|compensation|ctc|remuneration|pay)\b`)
	expectedCue     = regexp.MustCompile(`(?i)\b(expect\w*|desired?|anticipat\w*)\b`)
	currentCue      = regexp.MustCompile(`(?i)\b(current\w*|present|existing)\b`)

	dateCue      = regexp.MustCompile(`(?i)\bdate\b`)
	startCue     = regexp.MustCompile(`(?i)\b(start\w*|from|begin\w*|join\w*|commence\w*)\b`)
	endCue       = regexp.MustCompile(`(?i)\b(end\w*|until|finish\w*|complet\w*|graduat\w*|leav\w*)\b`)
	educationCue = regexp.MustCompile(`(?i)\b(education\w*|school\w*|universit\w*|college\w*|degree\w*|academ\w*|stud(y|ies|ied))\b`)
	workCue      = regexp.MustCompile(`(?i)\b(work|employ\w*|job\w*|compan\w*|experience\w*|position\w*|career\w*)\b`)
)

// preppedRule is a PatternRule compiled for the hot path.
type preppedRule struct {
	class      string
	category   string
	patterns   []*regexp.Regexp
	exclude    *regexp.Regexp
	context    *regexp.Regexp
	confidence float64
	priority   int
}

// PatternClassifier is the deterministic, rule-based classifier. It never
// errors: absence of a match is a normal nil result.
type PatternClassifier struct {
	tax   *taxonomy.Taxonomy
	rules []preppedRule
	hints map[string]string
}

// NewPatternClassifier builds the classifier over the built-in rule, hint and
// priority tables.
func NewPatternClassifier(tax *taxonomy.Taxonomy) (*PatternClassifier, error) {
	return NewPatternClassifierWithTables(tax, defaultRules, autofillHints, conflictPriority)
}

// NewPatternClassifierWithTables builds the classifier from explicit tables;
// nil hints or priorities fall back to the built-in ones. Every class
// referenced by a rule, a hint or a priority entry must resolve to a
// canonical taxonomy class; this runs once at startup and fails loudly.
func NewPatternClassifierWithTables(tax *taxonomy.Taxonomy, rules map[string]PatternRule, hints map[string]string, priorities map[string]int) (*PatternClassifier, error) {
	if hints == nil {
		hints = autofillHints
	}
	if priorities == nil {
		priorities = conflictPriority
	}
	pc := &PatternClassifier{tax: tax, hints: make(map[string]string, len(hints))}

	for hint, class := range hints {
		canonical := tax.ResolveAlias(class)
		if !tax.Contains(canonical) {
			return nil, fmt.Errorf("autofill hint %q maps to unknown class %q", hint, class)
		}
		pc.hints[hint] = canonical
	}

	seen := make(map[string]bool, len(rules))
	for class, rule := range rules {
		canonical := tax.ResolveAlias(class)
		if !tax.Contains(canonical) {
			return nil, fmt.Errorf("pattern rule references unknown class %q", class)
		}
		if seen[canonical] {
			return nil, fmt.Errorf("duplicate pattern rule for class %q", canonical)
		}
		seen[canonical] = true

		prepped := preppedRule{
			class:      canonical,
			category:   tax.CategoryOf(canonical),
			confidence: rule.Confidence,
			priority:   priorities[canonical],
		}
		if prepped.confidence == 0 {
			prepped.confidence = 0.90
		}
		for _, p := range rule.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("failed to compile pattern %q for class %q: %w", p, canonical, err)
			}
			prepped.patterns = append(prepped.patterns, re)
		}
		if rule.Exclude != "" {
			re, err := regexp.Compile("(?i)" + rule.Exclude)
			if err != nil {
				return nil, fmt.Errorf("failed to compile exclusion for class %q: %w", canonical, err)
			}
			prepped.exclude = re
		}
		if rule.Context != "" {
			re, err := regexp.Compile("(?i)" + rule.Context)
			if err != nil {
				return nil, fmt.Errorf("failed to compile context gate for class %q: %w", canonical, err)
			}
			prepped.context = re
		}
		pc.rules = append(pc.rules, prepped)
	}

	// The rule table is a map, so the slice above is in random order. Scan
	// ties resolve to the first rule seen; fix the order to the taxonomy's so
	// two classifiers built from the same tables always agree.
	sort.Slice(pc.rules, func(i, j int) bool {
		a, _ := tax.IndexOf(pc.rules[i].class)
		b, _ := tax.IndexOf(pc.rules[j].class)
		return a < b
	})

	logging.Infof("Pattern classifier ready: %d rules, %d autofill hints", len(pc.rules), len(pc.hints))
	return pc, nil
}

// source is one text attribute in both raw-lowercase and normalized form.
// Patterns are tested against both: the raw form keeps multi-word phrasing
// intact, the normalized form splits camelCase/underscore identifiers.
type source struct {
	raw    string
	norm   string
	weight float64
}

func newSource(text string, weight float64) source {
	return source{
		raw:    strings.ToLower(text),
		norm:   features.NormalizeText(text),
		weight: weight,
	}
}

func (s source) matches(re *regexp.Regexp) bool {
	if s.raw == "" {
		return false
	}
	return re.MatchString(s.raw) || re.MatchString(s.norm)
}

// Classify runs the priority ladder: autofill hint, compensation cue, date
// cue, then the weighted multi-source scan. The first stage that decides
// wins; nil means no stage matched.
func (pc *PatternClassifier) Classify(d *features.FieldDescriptor) *ClassificationResult {
	if d == nil {
		return nil
	}

	if r := pc.classifyHint(d); r != nil {
		return r
	}

	ownText := strings.ToLower(d.OwnText() + " " + features.NormalizeText(d.OwnText()))
	fullContext := strings.ToLower(d.FullContext() + " " + features.NormalizeText(d.FullContext()))

	if r := pc.classifyCompensation(ownText); r != nil {
		return r
	}
	if r := pc.classifyDate(ownText, fullContext); r != nil {
		return r
	}
	return pc.classifyScan(d, ownText, fullContext)
}

// classifyHint maps a recognized platform autofill hint directly to a class.
func (pc *PatternClassifier) classifyHint(d *features.FieldDescriptor) *ClassificationResult {
	hint := strings.ToLower(strings.TrimSpace(d.AutofillHint))
	if hint == "" {
		return nil
	}
	class, ok := pc.hints[hint]
	if !ok {
		return nil
	}
	return &ClassificationResult{
		Label:      class,
		Confidence: hintConfidence,
		Tier:       TierAutofillHint,
		Category:   pc.tax.CategoryOf(class),
	}
}

// classifyCompensation splits the generic salary cue on expected-vs-current
// sub-cues. Without a sub-cue it falls through to the scan.
func (pc *PatternClassifier) classifyCompensation(ownText string) *ClassificationResult {
	if !compensationCue.MatchString(ownText) {
		return nil
	}
	var class string
	switch {
	case expectedCue.MatchString(ownText):
		class = "salary_expected"
	case currentCue.MatchString(ownText):
		class = "salary_current"
	default:
		return nil
	}
	return &ClassificationResult{
		Label:      class,
		Confidence: compensationConfidence,
		Tier:       TierCompensation,
		Category:   pc.tax.CategoryOf(class),
	}
}

// classifyDate disambiguates date fields along two axes: start-vs-end on the
// field's own text, and education-vs-work on the full surrounding context.
// An ambiguous context defaults to the work-history variant at reduced
// confidence, since work blocks outnumber education blocks on real forms.
func (pc *PatternClassifier) classifyDate(ownText, fullContext string) *ClassificationResult {
	if !dateCue.MatchString(ownText) {
		return nil
	}
	isStart := startCue.MatchString(ownText)
	isEnd := endCue.MatchString(ownText)
	if isStart == isEnd {
		return nil
	}

	edu := educationCue.MatchString(fullContext)
	work := workCue.MatchString(fullContext)

	var class string
	confidence := dateConfidence
	switch {
	case edu && !work:
		if isStart {
			class = "education_start_date"
		} else {
			class = "education_end_date"
		}
	case work && !edu:
		if isStart {
			class = "job_start_date"
		} else {
			class = "job_end_date"
		}
	default:
		if isStart {
			class = "job_start_date"
		} else {
			class = "job_end_date"
		}
		confidence = dateAmbiguousConfidence
	}
	return &ClassificationResult{
		Label:      class,
		Confidence: confidence,
		Tier:       TierDateContext,
		Category:   pc.tax.CategoryOf(class),
	}
}

// classifyScan is the weighted multi-source pattern scan over every rule.
func (pc *PatternClassifier) classifyScan(d *features.FieldDescriptor, ownText, fullContext string) *ClassificationResult {
	sources := [5]source{
		newSource(d.Label, weightLabel),
		newSource(d.Placeholder, weightPlaceholder),
		newSource(strings.TrimSpace(d.Name+" "+d.ID), weightIDName),
		newSource(d.ParentContext, weightParent),
		newSource(d.SiblingContext, weightSibling),
	}

	var (
		best         *preppedRule
		bestScore    float64
		bestMatched  [5]bool
		bestNearMiss bool
	)

	for i := range pc.rules {
		rule := &pc.rules[i]

		if rule.context != nil && !rule.context.MatchString(fullContext) {
			continue
		}

		nearMiss := false
		if rule.exclude != nil {
			if rule.exclude.MatchString(ownText) {
				// Exclusion on the field's own text is a veto, not a penalty.
				continue
			}
			if rule.exclude.MatchString(fullContext) {
				nearMiss = true
			}
		}

		var score float64
		var matched [5]bool
		for si, src := range sources {
			for _, re := range rule.patterns {
				if src.matches(re) {
					score += src.weight
					matched[si] = true
					break
				}
			}
		}
		if score < minScanScore {
			continue
		}

		if best == nil || score > bestScore ||
			(score == bestScore && rule.priority > best.priority) {
			best = rule
			bestScore = score
			bestMatched = matched
			bestNearMiss = nearMiss
		}
	}

	if best == nil {
		return nil
	}

	confidence := best.confidence
	switch {
	case bestMatched[0]:
		// Label match carries the base confidence.
	case bestMatched[1]:
		confidence -= 0.05
	case bestMatched[2]:
		// id/name-only win.
		confidence -= 0.12
	default:
		// Carried by parent/sibling context alone.
		confidence -= 0.20
	}
	if d.AutofillHint != "" {
		// A hint was present but not recognized by the hint table; its mere
		// presence still marks the field as autofill-annotated.
		confidence += 0.05
	}
	matchCount := 0
	for _, m := range bestMatched {
		if m {
			matchCount++
		}
	}
	if matchCount > 1 {
		confidence += 0.03
	}
	if bestNearMiss {
		confidence -= 0.10
	}
	if confidence < minPatternConfidence {
		confidence = minPatternConfidence
	}
	if confidence > maxPatternConfidence {
		confidence = maxPatternConfidence
	}

	class := pc.tax.ResolveAlias(best.class)
	logging.Debugf("Pattern scan matched %q (score=%.2f, sources=%d, confidence=%.2f)", class, bestScore, matchCount, confidence)
	return &ClassificationResult{
		Label:      class,
		Confidence: confidence,
		Tier:       TierPatternScan,
		Category:   pc.tax.CategoryOf(class),
	}
}
