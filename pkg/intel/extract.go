package intel

import (
	"regexp"
	"strings"
)

// Pre-compiled extraction patterns (compiled once, used on every message).
var (
	rePhone    = regexp.MustCompile(`(?:\+91[\s-]?)?\b[6-9][0-9]{9}\b|\+[0-9]{10,12}\b`)
	reBankAcct = regexp.MustCompile(`\b[0-9]{11,18}\b`)
	// Payment handles look like identifier@provider with a bare provider
	// name; anything with a dotted domain is treated as an email instead.
	reHandle = regexp.MustCompile(`\b[a-zA-Z0-9._-]+@[a-zA-Z]{2,}\b`)
	reEmail  = regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)
	reLink   = regexp.MustCompile(`https?://[^\s<>"']+|\bwww\.[^\s<>"']+`)
	reCaseID = regexp.MustCompile(`(?i)\b(?:case|fir|complaint|ref(?:erence)?)\s*(?:id|no\.?|number|#)?\s*[:#-]?\s*([A-Z0-9][A-Z0-9/-]{3,19})`)
	rePolicy = regexp.MustCompile(`(?i)\b(?:policy|lic)\s*(?:id|no\.?|number|#)?\s*[:#-]?\s*([A-Z0-9][A-Z0-9/-]{3,19})`)
	reOrder  = regexp.MustCompile(`(?i)\b(?:order|txn|transaction|tracking|consignment|parcel|awb)\s*(?:id|no\.?|number|#)?\s*[:#-]?\s*([A-Z0-9][A-Z0-9/-]{3,19})`)

	reDigits = regexp.MustCompile(`[0-9]`)
)

// Extract scans raw text and returns every structured artifact found.
// It is a pure function: no state, no side effects, and it tolerates
// arbitrary input including the empty string.
func Extract(text string) Artifacts {
	var out Artifacts
	if text == "" {
		return out
	}

	for _, m := range rePhone.FindAllString(text, -1) {
		out.PhoneNumbers = appendUnique(out.PhoneNumbers, normalizePhone(m))
	}

	for _, m := range reBankAcct.FindAllString(text, -1) {
		// 10-digit runs were already claimed as phones; 11+ digits here.
		// A +91 prefix makes a mobile number look like a 12-digit account,
		// so skip runs already captured inside a phone match.
		if claimedByPhone(m, out.PhoneNumbers) {
			continue
		}
		out.BankAccounts = appendUnique(out.BankAccounts, m)
	}

	emails := map[string]bool{}
	for _, m := range reEmail.FindAllString(text, -1) {
		emails[strings.ToLower(m)] = true
		out.EmailAddresses = appendUnique(out.EmailAddresses, strings.ToLower(m))
	}
	for _, m := range reHandle.FindAllString(text, -1) {
		handle := strings.ToLower(m)
		if isEmailPart(handle, emails) {
			continue
		}
		out.UPIIDs = appendUnique(out.UPIIDs, handle)
	}

	for _, m := range reLink.FindAllString(text, -1) {
		out.PhishingLinks = appendUnique(out.PhishingLinks, strings.TrimRight(m, ".,;)"))
	}

	for _, groups := range reCaseID.FindAllStringSubmatch(text, -1) {
		if plausibleReference(groups[1]) {
			out.CaseIDs = appendUnique(out.CaseIDs, groups[1])
		}
	}
	for _, groups := range rePolicy.FindAllStringSubmatch(text, -1) {
		if plausibleReference(groups[1]) {
			out.PolicyNumbers = appendUnique(out.PolicyNumbers, groups[1])
		}
	}
	for _, groups := range reOrder.FindAllStringSubmatch(text, -1) {
		if plausibleReference(groups[1]) {
			out.OrderNumbers = appendUnique(out.OrderNumbers, groups[1])
		}
	}

	return out
}

// ExtractAll runs Extract over the current message plus every transcript
// message, returning the union. Re-scanning the full transcript each call
// is intentional: a corrected or enriched transcript is still captured.
func ExtractAll(current string, history []string) Artifacts {
	out := Extract(current)
	for _, text := range history {
		item := Extract(text)
		out.Merge(item)
	}
	return out
}

func normalizePhone(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, raw)
	return cleaned
}

func claimedByPhone(digits string, phones []string) bool {
	for _, p := range phones {
		if strings.Contains(p, digits) || strings.Contains(digits, strings.TrimPrefix(p, "+")) {
			return true
		}
	}
	return false
}

// isEmailPart filters handle matches that are just the local@host prefix of
// an email address found in the same text.
func isEmailPart(handle string, emails map[string]bool) bool {
	for email := range emails {
		if strings.HasPrefix(email, handle) {
			return true
		}
	}
	return false
}

// plausibleReference rejects captures that are plain English words grabbed
// after a trigger term ("reference the above", "order now").
func plausibleReference(s string) bool {
	if len(s) < 4 {
		return false
	}
	hasDigit := reDigits.MatchString(s)
	hasUpper := strings.ToLower(s) != s
	return hasDigit || hasUpper
}
