package persona

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// hinglishWords is romanized Hindi vocabulary common in scam messages.
// Two or more hits in one message flips the reply language.
var hinglishWords = map[string]bool{
	"hai": true, "hain": true, "nahi": true, "kya": true, "kaise": true,
	"kahan": true, "kaun": true, "kyun": true, "bhai": true,
	"ji": true, "mera": true, "meri": true, "mere": true, "tera": true,
	"teri": true, "tere": true, "aapka": true, "aapki": true,
	"yeh": true, "woh": true, "abhi": true, "bolo": true, "batao": true,
	"karo": true, "karna": true, "hona": true, "raha": true,
	"rahi": true, "rahe": true, "toh": true, "bhi": true, "aur": true,
	"par": true, "lekin": true, "pehle": true, "baad": true,
	"mein": true, "ko": true, "ka": true, "ki": true, "ke": true,
	"se": true, "pe": true, "ne": true, "sir": true, "madam": true,
	"arrey": true, "theek": true, "accha": true, "haan": true,
	"nahin": true, "chahiye": true, "dijiye": true, "dena": true,
	"lena": true, "jaana": true, "aana": true, "paisa": true,
	"rupee": true, "lakh": true, "crore": true, "sahib": true,
	"beta": true, "beti": true, "didi": true, "uncle": true,
	"aunty": true, "sahab": true,
}

// DetectLanguage classifies a message as english or hinglish. Any
// Devanagari rune decides immediately; otherwise the romanized vocabulary
// count does. Input is NFC-normalized first so decomposed Devanagari from
// copy-pasted text still matches the script range.
func DetectLanguage(text string) string {
	for _, r := range norm.NFC.String(text) {
		if r >= 0x0900 && r <= 0x097F {
			return LangHinglish
		}
	}

	count := 0
	seen := map[string]bool{}
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:\"'()")
		if hinglishWords[word] && !seen[word] {
			seen[word] = true
			count++
			if count >= 2 {
				return LangHinglish
			}
		}
	}
	return LangEnglish
}
