package detect

// ScamType is the discrete fraud-scheme tag resolved from accumulated hit
// keywords.
type ScamType string

const (
	TypeOTPFraud       ScamType = "OTP_FRAUD"
	TypeLotteryScam    ScamType = "LOTTERY_SCAM"
	TypeInvestmentScam ScamType = "INVESTMENT_SCAM"
	TypeJobScam        ScamType = "JOB_SCAM"
	TypeInsuranceScam  ScamType = "INSURANCE_SCAM"
	TypeTaxScam        ScamType = "TAX_SCAM"
	TypeCustomsScam    ScamType = "CUSTOMS_SCAM"
	TypeElectricity    ScamType = "ELECTRICITY_SCAM"
	TypeRefundScam     ScamType = "REFUND_SCAM"
	TypeAccountThreat  ScamType = "ACCOUNT_THREAT"
	TypePhishing       ScamType = "PHISHING"
	TypeUPIFraud       ScamType = "UPI_FRAUD"
	TypeKYCFraud       ScamType = "KYC_FRAUD"
	TypeBankFraud      ScamType = "BANK_FRAUD"
	TypeGovtScam       ScamType = "GOVT_SCAM"
	TypeGeneralFraud   ScamType = "GENERAL_FRAUD"
)

// classifierRule maps a keyword set to a scam type. First matching rule
// wins, so rule order IS the priority contract: specific and dangerous
// schemes outrank generic financial terms matched in the same message.
type classifierRule struct {
	Tag ScamType
	Any []string
}

// classifierRules, v1. Do not reorder without revisiting the tie-break
// guarantees (credential theft beats everything; account threats beat
// UPI/payment terms; generic banking terms come near the end).
var classifierRules = []classifierRule{
	{TypeOTPFraud, []string{"otp", "pin", "cvv"}},
	{TypeLotteryScam, []string{"won", "winner", "prize", "lottery", "reward"}},
	{TypeInvestmentScam, []string{"invest", "profit", "bitcoin", "crypto", "forex", "trading"}},
	{TypeJobScam, []string{"job", "work from home", "part time", "earning"}},
	{TypeInsuranceScam, []string{"insurance", "lic", "irda", "premium"}},
	{TypeTaxScam, []string{"income tax", "tax", "it department"}},
	{TypeCustomsScam, []string{"customs", "parcel", "seized"}},
	{TypeElectricity, []string{"electricity", "bill", "power"}},
	{TypeRefundScam, []string{"refund", "cashback", "compensation"}},
	{TypeAccountThreat, []string{"blocked", "suspended", "deactivated", "frozen", "terminated"}},
	{TypePhishing, []string{MarkerURL}},
	{TypeUPIFraud, []string{"upi", "payment", "transfer", "cashback", MarkerUPI}},
	{TypeKYCFraud, []string{"kyc"}},
	{TypeBankFraud, []string{"bank", "account", "atm", "neft", "rtgs", "imps", "ifsc"}},
	{TypeGovtScam, []string{"government", "ministry", "official"}},
}

// Classify resolves the scam type for a set of hit keywords.
func Classify(keywords []string) ScamType {
	set := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		set[kw] = true
	}
	for _, rule := range classifierRules {
		for _, kw := range rule.Any {
			if set[kw] {
				return rule.Tag
			}
		}
	}
	return TypeGeneralFraud
}

// IsSpecific reports whether t is a concrete scheme tag rather than the
// generic fallback. A specific tag is never downgraded back to generic.
func IsSpecific(t ScamType) bool {
	return t != "" && t != TypeGeneralFraud
}
