package usecase

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/kendall-wood/blackbuy-backend/internal/domain"
	"github.com/kendall-wood/blackbuy-backend/internal/taxonomy"
)

// Package-level compiled regex patterns for preprocessing
var (
	trademarkRegex  = regexp.MustCompile(`[™®©]`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

const (
	// fallbackConfidence is reported whenever classification falls through
	// to brand or token extraction.
	fallbackConfidence = 0.3

	// specialConfidence is reported for hits in the special-category table.
	specialConfidence = 0.9

	// fallbackQuery is the ultimate query when nothing usable survives.
	fallbackQuery = "hair care"

	// maxFallbackTokens caps how many leftover tokens form the query.
	maxFallbackTokens = 3
)

// Classifier maps recognized label text to a product type and search query
// using the static taxonomy tables. It never fails; low confidence is the
// caller's signal of reliability.
type Classifier struct {
	logger       *zap.Logger
	wordPatterns map[string]*regexp.Regexp
}

// NewClassifier creates a classifier with word-boundary patterns precompiled
// for every keyword in the primary and special tables.
func NewClassifier(logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}

	patterns := make(map[string]*regexp.Regexp)
	for _, rule := range taxonomy.CategoryRules {
		for _, keyword := range rule.Keywords {
			patterns[keyword] = wordBoundaryPattern(keyword)
		}
	}
	for _, rule := range taxonomy.SpecialRules {
		for _, keyword := range rule.Keywords {
			patterns[keyword] = wordBoundaryPattern(keyword)
		}
	}

	return &Classifier{
		logger:       logger,
		wordPatterns: patterns,
	}
}

// wordBoundaryPattern builds a literal-escaped whole-word pattern for a keyword.
func wordBoundaryPattern(keyword string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
}

// Classify turns raw recognized text into a classification result. It always
// returns a usable result; the fallback chain is category keywords, special
// categories, known brands, then leftover tokens.
func (c *Classifier) Classify(text string) domain.ClassificationResult {
	cleaned := preprocess(text)

	result, ok := c.classifyByKeywords(cleaned, taxonomy.CategoryRules)
	if ok {
		result.Form = taxonomy.DetectForm(cleaned)
		result.Ingredients = taxonomy.DetectIngredients(cleaned)
		c.logger.Debug("classified by keywords",
			zap.String("productType", result.ProductType),
			zap.Float64("confidence", result.Confidence))
		return result
	}

	if special, ok := c.classifyByKeywords(cleaned, taxonomy.SpecialRules); ok {
		special.Confidence = specialConfidence
		return special
	}

	if brand, ok := extractBrand(cleaned); ok {
		c.logger.Debug("classified by brand", zap.String("brand", brand))
		return domain.ClassificationResult{
			ProductType:     "Other",
			Query:           brand,
			Confidence:      fallbackConfidence,
			MatchedKeywords: []string{strings.ToLower(brand)},
			Form:            taxonomy.DetectForm(cleaned),
			Ingredients:     taxonomy.DetectIngredients(cleaned),
		}
	}

	query := fallbackTokenQuery(cleaned)
	if query == "" {
		query = fallbackQuery
	}
	return domain.ClassificationResult{
		ProductType: "Other",
		Query:       query,
		Confidence:  fallbackConfidence,
		Form:        taxonomy.DetectForm(cleaned),
		Ingredients: taxonomy.DetectIngredients(cleaned),
	}
}

// preprocess lowercases, strips trademark symbols, collapses whitespace and
// applies the known OCR corrections.
func preprocess(text string) string {
	cleaned := strings.ToLower(text)
	cleaned = trademarkRegex.ReplaceAllString(cleaned, "")
	cleaned = whitespaceRegex.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	for _, correction := range taxonomy.OCRCorrections {
		cleaned = strings.ReplaceAll(cleaned, correction.Wrong, correction.Right)
	}
	return cleaned
}

// classifyByKeywords scores every rule in the table against the text.
// Scoring: +1 per keyword found as a substring, +1 more when the keyword also
// matches on word boundaries. The strictly highest score wins; ties go to the
// first-enumerated rule. Confidence is min(score/keywordCount, 1).
func (c *Classifier) classifyByKeywords(text string, rules []taxonomy.CategoryRule) (domain.ClassificationResult, bool) {
	var best domain.ClassificationResult
	bestScore := 0

	for _, rule := range rules {
		score := 0
		var matched []string
		for _, keyword := range rule.Keywords {
			if !strings.Contains(text, keyword) {
				continue
			}
			score++
			matched = append(matched, keyword)
			if pattern, ok := c.wordPatterns[keyword]; ok && pattern.MatchString(text) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			confidence := float64(score) / float64(len(rule.Keywords))
			if confidence > 1 {
				confidence = 1
			}
			best = domain.ClassificationResult{
				ProductType:     rule.ProductType,
				Query:           rule.ProductType,
				Confidence:      confidence,
				MatchedKeywords: matched,
			}
		}
	}

	return best, bestScore > 0
}

// extractBrand checks the text for any known brand spelling and returns the
// canonical name of the first match.
func extractBrand(text string) (string, bool) {
	for _, brand := range taxonomy.BrandVariants {
		if strings.Contains(text, brand.Variant) {
			return brand.Canonical, true
		}
	}
	return "", false
}

// fallbackTokenQuery builds a query from the leftover tokens: split on
// whitespace and punctuation, drop short tokens, stop words and tokens with
// non-letter characters, and join the first few survivors.
func fallbackTokenQuery(text string) string {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == ';' || r == ':' ||
			r == '!' || r == '?' || r == '/' || r == '(' || r == ')' ||
			r == '"' || r == '\''
	})

	var kept []string
	for _, token := range tokens {
		if len(token) <= 2 {
			continue
		}
		if taxonomy.StopWords[token] {
			continue
		}
		if !isAllLetters(token) {
			continue
		}
		kept = append(kept, token)
		if len(kept) == maxFallbackTokens {
			break
		}
	}

	return strings.Join(kept, " ")
}

// isAllLetters reports whether the token contains only ASCII letters.
func isAllLetters(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return len(s) > 0
}
