package service

import (
	"bufio"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

var (
	emailRe     = regexp.MustCompile(`[\w.\-]+@[\w.\-]+\.[a-zA-Z]{2,}`)
	phoneRe     = regexp.MustCompile(`\+?\d[\d\s\-]{8,}`)
	wordTokenRe = regexp.MustCompile(`[A-Za-z+#]+`)
	spaceRunRe  = regexp.MustCompile(`\s+`)
	defaultTopN = 20
)

// maxPhraseWords bounds dictionary phrase matching to 1-3 word skills.
const maxPhraseWords = 3

var defaultNoiseWords = []string{
	"position", "location", "company", "address", "cv", "resume",
}

// SkillExtractor turns free text into a canonical, ordered, deduplicated
// skill list. A known-skills dictionary (one skill per line) refines casing
// when present; without it, extraction degrades to pure heuristics and never
// fails.
type SkillExtractor struct {
	dictionary []string          // canonical forms, longest first
	lookup     map[string]string // lowercased form -> canonical form
	noiseWords []string
	logger     *zap.Logger
}

func NewSkillExtractor(assetPath string, logger *zap.Logger) *SkillExtractor {
	e := &SkillExtractor{
		lookup:     make(map[string]string),
		noiseWords: defaultNoiseWords,
		logger:     logger,
	}
	e.loadDictionary(assetPath)
	return e
}

func (e *SkillExtractor) loadDictionary(path string) {
	if path == "" {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		e.logger.Warn("skills dictionary not found, extraction degrades to heuristics",
			zap.String("path", path))
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		skill := strings.TrimSpace(scanner.Text())
		if skill == "" {
			continue
		}
		key := strings.ToLower(skill)
		if _, ok := e.lookup[key]; ok {
			continue
		}
		e.lookup[key] = skill
		e.dictionary = append(e.dictionary, skill)
	}
	// longest-match preference
	sort.SliceStable(e.dictionary, func(i, j int) bool {
		return len(e.dictionary[i]) > len(e.dictionary[j])
	})
	e.logger.Info("skills dictionary loaded",
		zap.String("path", path), zap.Int("skills", len(e.dictionary)))
}

// Extract returns up to topN canonical skills in first-seen order. It never
// fails: empty or junk input yields an empty list.
//
// The scan walks word tokens left to right. With a dictionary loaded it
// first tries 3-, 2- then 1-word phrases at each position (longest-match
// preference, canonical spelling on a case-insensitive hit); without a hit
// the single word falls through to the casing heuristics.
func (e *SkillExtractor) Extract(text string, topN int) []string {
	if topN <= 0 {
		topN = defaultTopN
	}
	out := []string{}
	if strings.TrimSpace(text) == "" {
		return out
	}

	txt := strings.NewReplacer("\n", " ", "\r", " ").Replace(text)
	txt = strings.TrimSpace(spaceRunRe.ReplaceAllString(txt, " "))
	// emails and phone-like digit runs are contact noise, not skills
	txt = emailRe.ReplaceAllString(txt, " ")
	txt = phoneRe.ReplaceAllString(txt, " ")

	words := wordTokenRe.FindAllString(txt, -1)
	seen := make(map[string]bool)

	add := func(canonical string) bool {
		key := strings.ToLower(canonical)
		if seen[key] {
			return false
		}
		seen[key] = true
		out = append(out, canonical)
		return true
	}

	for i := 0; i < len(words) && len(out) < topN; {
		if canonical, consumed := e.dictionaryMatch(words, i); consumed > 0 {
			add(canonical)
			i += consumed
			continue
		}
		if phrase, consumed := e.heuristicPhrase(words, i); consumed > 0 {
			add(phrase)
			i += consumed
			continue
		}
		token := strings.ToLower(words[i])
		i++
		if len(token) <= 2 || e.isNoise(token) {
			continue
		}
		add(e.canonicalize(token))
	}
	return out
}

// dictionaryMatch tries the longest known phrase starting at position i,
// returning its canonical form and the number of words consumed.
func (e *SkillExtractor) dictionaryMatch(words []string, i int) (string, int) {
	if len(e.lookup) == 0 {
		return "", 0
	}
	for n := maxPhraseWords; n >= 1; n-- {
		if i+n > len(words) {
			continue
		}
		phrase := strings.ToLower(strings.Join(words[i:i+n], " "))
		if canonical, ok := e.lookup[phrase]; ok {
			return canonical, n
		}
	}
	return "", 0
}

// heuristicPhrase groups a run of consecutive capitalized words into one
// title-cased multi-word skill, so phrases like "Machine Learning" survive
// runs without a dictionary.
func (e *SkillExtractor) heuristicPhrase(words []string, i int) (string, int) {
	n := 0
	for n < maxPhraseWords && i+n < len(words) {
		w := words[i+n]
		if len(w) < 2 || !startsUpper(w) || e.isNoise(strings.ToLower(w)) {
			break
		}
		n++
	}
	if n < 2 {
		return "", 0
	}
	return titleCase(strings.ToLower(strings.Join(words[i:i+n], " "))), n
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

func (e *SkillExtractor) isNoise(token string) bool {
	for _, w := range e.noiseWords {
		if strings.Contains(token, w) {
			return true
		}
	}
	return false
}

// canonicalize prefers the dictionary's spelling on an exact case-insensitive
// match; otherwise short all-alphabetic tokens are treated as acronyms and
// the rest is title-cased.
func (e *SkillExtractor) canonicalize(token string) string {
	if canonical, ok := e.lookup[token]; ok {
		return canonical
	}
	if strings.Contains(token, " ") {
		return titleCase(token)
	}
	if len(token) <= 5 && isAlpha(token) {
		return strings.ToUpper(token)
	}
	return titleCase(token)
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
