// Package detect implements the rule-driven scam-signal scorer, the
// scam-type classifier, and the auxiliary transaction-risk heuristic.
//
// Design principles:
// - TABLE ONCE: all keyword tables are package-level values, not built
//   per request
// - ORDERED: classifier priority and category ordering are explicit
//   slices, never map iteration order
package detect

// Category is a manipulation-tactic tag used for both scoring and
// response selection.
type Category string

const (
	CategoryUrgency       Category = "urgency"
	CategoryThreat        Category = "threat"
	CategoryFinancial     Category = "financial"
	CategoryReward        Category = "reward"
	CategoryImpersonation Category = "impersonation"
	CategoryAction        Category = "action"
	CategorySocialEng     Category = "social_engineering"
)

// KeywordCategory binds a category to its score weight and trigger phrases.
// Phrases are matched case-insensitively as substrings.
type KeywordCategory struct {
	Name    Category
	Weight  int
	Phrases []string
}

// Categories is the fixed scoring table, v1. Ordering only affects the
// order keywords are reported in, not the score.
var Categories = []KeywordCategory{
	{
		Name:   CategoryUrgency,
		Weight: 2,
		Phrases: []string{
			"urgent", "immediately", "today", "now", "quick", "fast", "hurry",
			"limited time", "expires", "deadline", "asap", "right away", "don't delay",
			"act now", "warning", "alert", "important", "critical", "within 2 hours",
			"last chance", "final notice",
		},
	},
	{
		Name:   CategoryThreat,
		Weight: 3,
		Phrases: []string{
			"blocked", "suspended", "deactivated", "terminated", "closed", "frozen",
			"seized", "legal action", "police", "court", "arrest", "fine", "penalty",
			"will be blocked", "account blocked", "account suspended", "fir",
			"warrant", "summon", "jail", "case filed", "prosecution",
		},
	},
	{
		Name:   CategoryFinancial,
		Weight: 1,
		Phrases: []string{
			"bank", "account", "upi", "payment", "transfer", "money", "rupees", "rs",
			"balance", "transaction", "kyc", "verify", "verification", "update",
			"otp", "pin", "cvv", "card", "atm", "ifsc", "neft", "rtgs", "imps",
			"fee", "charge", "deposit", "withdraw", "cashback", "processing fee",
			"emi", "loan", "credit",
		},
	},
	{
		Name:   CategoryReward,
		Weight: 2,
		Phrases: []string{
			"won", "winner", "prize", "lottery", "reward", "cashback", "bonus",
			"free", "gift", "offer", "lucky", "congratulations", "selected", "chosen",
			"approved", "eligible", "entitled",
		},
	},
	{
		Name:   CategoryImpersonation,
		Weight: 2,
		Phrases: []string{
			"rbi", "reserve bank", "government", "ministry", "income tax", "it department",
			"sbi", "hdfc", "icici", "axis", "paytm", "phonepe", "gpay", "google pay",
			"customer care", "support", "helpline", "official", "officer", "inspector",
			"customs", "electricity board", "irda",
		},
	},
	{
		Name:   CategoryAction,
		Weight: 1,
		Phrases: []string{
			"click", "link", "call", "contact", "share", "send", "provide", "enter",
			"submit", "confirm", "verify", "update", "download", "install", "pay",
		},
	},
	{
		Name:   CategorySocialEng,
		Weight: 1,
		Phrases: []string{
			"dear", "sir", "madam", "kindly", "beloved", "hello dear",
			"invest", "profit", "guaranteed", "returns", "bitcoin", "crypto",
			"job", "work from home", "part time", "earning", "forex", "trading",
			"doubl", "10x", "mutual fund",
		},
	},
}

// ComboPair names two categories whose joint presence in one message earns
// a bonus. Messages combining manipulation vectors outrank single-vector
// messages.
type ComboPair struct {
	A, B  Category
	Bonus int
}

// ComboBonuses is the fixed combo table, v1.
var ComboBonuses = []ComboPair{
	{CategoryUrgency, CategoryFinancial, 3},
	{CategoryThreat, CategoryFinancial, 3},
	{CategoryImpersonation, CategoryFinancial, 2},
	{CategoryUrgency, CategoryThreat, 2},
	{CategoryAction, CategoryImpersonation, 2},
	{CategoryReward, CategoryAction, 2},
	{CategorySocialEng, CategoryFinancial, 2},
	{CategoryThreat, CategoryAction, 2},
}

// Synthetic hit markers recorded by the structural detectors. They flow
// through the same keyword channel as phrase hits so the classifier can
// key off them.
const (
	MarkerURL   = "contains_url"
	MarkerPhone = "contains_phone"
	MarkerUPI   = "contains_upi"
)

func categoryByName(name Category) *KeywordCategory {
	for i := range Categories {
		if Categories[i].Name == name {
			return &Categories[i]
		}
	}
	return nil
}
