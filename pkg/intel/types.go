// Package intel extracts and accumulates identifying artifacts from scammer
// messages: phone numbers, payment handles, bank accounts, links, emails and
// case/policy/order references. Artifact sets only ever grow.
package intel

// Artifacts holds the nine named artifact sets for a session. Each field is
// an insertion-ordered set: no byte-identical duplicates, never trimmed.
type Artifacts struct {
	PhoneNumbers       []string `json:"phoneNumbers"`
	BankAccounts       []string `json:"bankAccounts"`
	UPIIDs             []string `json:"upiIds"`
	PhishingLinks      []string `json:"phishingLinks"`
	EmailAddresses     []string `json:"emailAddresses"`
	CaseIDs            []string `json:"caseIds"`
	PolicyNumbers      []string `json:"policyNumbers"`
	OrderNumbers       []string `json:"orderNumbers"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
}

// appendUnique appends items not already present, preserving order.
func appendUnique(dst []string, items ...string) []string {
	for _, item := range items {
		if item == "" {
			continue
		}
		seen := false
		for _, existing := range dst {
			if existing == item {
				seen = true
				break
			}
		}
		if !seen {
			dst = append(dst, item)
		}
	}
	return dst
}

// Merge unions other into a, field by field. Merging the same set twice
// is a no-op, and no field ever shrinks.
func (a *Artifacts) Merge(other Artifacts) {
	a.PhoneNumbers = appendUnique(a.PhoneNumbers, other.PhoneNumbers...)
	a.BankAccounts = appendUnique(a.BankAccounts, other.BankAccounts...)
	a.UPIIDs = appendUnique(a.UPIIDs, other.UPIIDs...)
	a.PhishingLinks = appendUnique(a.PhishingLinks, other.PhishingLinks...)
	a.EmailAddresses = appendUnique(a.EmailAddresses, other.EmailAddresses...)
	a.CaseIDs = appendUnique(a.CaseIDs, other.CaseIDs...)
	a.PolicyNumbers = appendUnique(a.PolicyNumbers, other.PolicyNumbers...)
	a.OrderNumbers = appendUnique(a.OrderNumbers, other.OrderNumbers...)
	a.SuspiciousKeywords = appendUnique(a.SuspiciousKeywords, other.SuspiciousKeywords...)
}

// AbsorbKeywords folds the session's accumulated scam-signal keywords into
// the suspicious-keyword set, taking at most max entries from the source so
// the field always reflects the richest available keyword evidence without
// growing unbounded.
func (a *Artifacts) AbsorbKeywords(keywords []string, max int) {
	if max > 0 && len(keywords) > max {
		keywords = keywords[:max]
	}
	a.SuspiciousKeywords = appendUnique(a.SuspiciousKeywords, keywords...)
}

// HasContactIntel reports whether any artifact usable for attribution has
// been captured. Suspicious keywords alone do not count.
func (a *Artifacts) HasContactIntel() bool {
	return len(a.PhoneNumbers) > 0 || len(a.BankAccounts) > 0 || len(a.UPIIDs) > 0 ||
		len(a.PhishingLinks) > 0 || len(a.EmailAddresses) > 0 ||
		len(a.CaseIDs) > 0 || len(a.PolicyNumbers) > 0 || len(a.OrderNumbers) > 0
}

// HasPaymentIntel reports whether a phone, payment handle, or bank account
// has been captured. This gates per-turn report dispatch.
func (a *Artifacts) HasPaymentIntel() bool {
	return len(a.PhoneNumbers) > 0 || len(a.UPIIDs) > 0 || len(a.BankAccounts) > 0
}

// Count returns the total number of attribution artifacts (keywords excluded).
func (a *Artifacts) Count() int {
	return len(a.PhoneNumbers) + len(a.BankAccounts) + len(a.UPIIDs) +
		len(a.PhishingLinks) + len(a.EmailAddresses) +
		len(a.CaseIDs) + len(a.PolicyNumbers) + len(a.OrderNumbers)
}

// Clone returns a deep copy, safe to hand to a detached report dispatch
// while the session keeps mutating.
func (a *Artifacts) Clone() Artifacts {
	return Artifacts{
		PhoneNumbers:       append([]string(nil), a.PhoneNumbers...),
		BankAccounts:       append([]string(nil), a.BankAccounts...),
		UPIIDs:             append([]string(nil), a.UPIIDs...),
		PhishingLinks:      append([]string(nil), a.PhishingLinks...),
		EmailAddresses:     append([]string(nil), a.EmailAddresses...),
		CaseIDs:            append([]string(nil), a.CaseIDs...),
		PolicyNumbers:      append([]string(nil), a.PolicyNumbers...),
		OrderNumbers:       append([]string(nil), a.OrderNumbers...),
		SuspiciousKeywords: append([]string(nil), a.SuspiciousKeywords...),
	}
}
