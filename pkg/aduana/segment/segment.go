// Package segment assigns coarse product segments via ordered
// keyword-containment rules.
//
// Precedence is a contract: when several rules match the same text, the rule
// declared EARLIEST wins. The legacy system applied rules in reverse declared
// order, each overwriting the previous assignment, which nets out to exactly
// this; the forward first-match scan here keeps the same observable behavior
// without relying on iteration-order tricks.
package segment

import (
	"sort"
	"strings"
)

// Unclassified is the sentinel label for rows no rule matches.
const Unclassified = "NO CLASIFICADO"

// Rule maps a segment label to the keywords that select it. Keywords are
// matched as case-insensitive substrings.
type Rule struct {
	Label    string   `json:"segmento"`
	Keywords []string `json:"keywords"`
}

// RuleSet is an ordered list of rules. Order is significant and preserved
// across load/save round trips.
type RuleSet struct {
	rules []Rule
}

// New builds a RuleSet, uppercasing labels and lowercasing keywords the way
// the rule-management collaborator stores them. Empty labels and keywords are
// dropped.
func New(rules []Rule) *RuleSet {
	rs := &RuleSet{}
	for _, r := range rules {
		label := strings.ToUpper(strings.TrimSpace(r.Label))
		if label == "" {
			continue
		}
		var keywords []string
		for _, kw := range r.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		if len(keywords) > 0 {
			rs.rules = append(rs.rules, Rule{Label: label, Keywords: keywords})
		}
	}
	return rs
}

// Rules returns a copy of the ordered rules.
func (rs *RuleSet) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	for i, r := range rs.rules {
		out[i] = Rule{Label: r.Label, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}

// Len reports the number of rules.
func (rs *RuleSet) Len() int { return len(rs.rules) }

// Classify returns the label of the earliest-declared rule whose keywords
// appear in text, or Unclassified.
func (rs *RuleSet) Classify(text string) string {
	lowered := strings.ToLower(text)
	for _, r := range rs.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lowered, kw) {
				return r.Label
			}
		}
	}
	return Unclassified
}

// AddKeyword adds a keyword to a label's rule, creating the rule at the end
// of the declared order when new. Keywords within a rule stay sorted and
// deduplicated. Reports whether anything changed.
func (rs *RuleSet) AddKeyword(label, keyword string) bool {
	label = strings.ToUpper(strings.TrimSpace(label))
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if label == "" || keyword == "" {
		return false
	}
	for i, r := range rs.rules {
		if r.Label != label {
			continue
		}
		for _, kw := range r.Keywords {
			if kw == keyword {
				return false
			}
		}
		rs.rules[i].Keywords = append(rs.rules[i].Keywords, keyword)
		sort.Strings(rs.rules[i].Keywords)
		return true
	}
	rs.rules = append(rs.rules, Rule{Label: label, Keywords: []string{keyword}})
	return true
}

// RemoveKeyword removes a keyword from a label's rule; a rule left without
// keywords is removed entirely. Reports whether anything changed.
func (rs *RuleSet) RemoveKeyword(label, keyword string) bool {
	for i, r := range rs.rules {
		if r.Label != label {
			continue
		}
		for j, kw := range r.Keywords {
			if kw != keyword {
				continue
			}
			rs.rules[i].Keywords = append(r.Keywords[:j], r.Keywords[j+1:]...)
			if len(rs.rules[i].Keywords) == 0 {
				rs.rules = append(rs.rules[:i], rs.rules[i+1:]...)
			}
			return true
		}
		return false
	}
	return false
}
