package detect

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Transaction risk scoring. A message is mapped onto four synthetic
// transaction features (sender country, beneficiary country, USD amount,
// transaction type) and scored with a two-class Gaussian naive Bayes over
// the weighted combination. The class parameters encode "fraudulent
// transfers cluster high, normal transfers cluster low" rather than any
// fitted model, so treat the probability as a calibrated heuristic.

const (
	inrPerUSD        = 83.0
	defaultUSDAmount = 500.0

	fraudMean  = 0.72
	fraudVar   = 0.04
	normalMean = 0.28
	normalVar  = 0.04

	priorFraud  = 0.48
	priorNormal = 0.52
)

var countryRisk = map[string]float64{
	"USA": 0.10, "UK": 0.10, "CANADA": 0.10, "AUSTRALIA": 0.10,
	"GERMANY": 0.12, "FRANCE": 0.12, "JAPAN": 0.10, "SINGAPORE": 0.12,
	"UAE": 0.25, "NETHERLANDS": 0.12, "SWITZERLAND": 0.12,
	"INDIA": 0.35, "BRAZIL": 0.35, "MEXICO": 0.40, "RUSSIA": 0.45,
	"CHINA": 0.35, "TURKEY": 0.40, "INDONESIA": 0.38, "THAILAND": 0.38,
	"SOUTH AFRICA": 0.40, "ARGENTINA": 0.40,
	"NIGERIA": 0.80, "COMOROS": 0.85, "MYANMAR": 0.82, "PAKISTAN": 0.70,
	"SRI-LANKA": 0.65, "TANZANIA": 0.72, "SENEGAL": 0.68,
	"CAMBODIA": 0.75, "LAOS": 0.72, "ETHIOPIA": 0.70,
	"GHANA": 0.68, "KENYA": 0.60, "BELARUS": 0.65,
	"IRAN": 0.95, "NORTH KOREA": 0.98, "SYRIA": 0.95,
}

const defaultCountryRisk = 0.50

var txTypeRisk = map[string]float64{
	"MOVE-FUNDS":    0.85,
	"MAKE-PAYMENT":  0.55,
	"PAY-CHECK":     0.15,
	"PURCHASE":      0.20,
	"CASH-TRANSFER": 0.70,
	"WITHDRAWAL":    0.65,
	"DEPOSIT":       0.25,
	"REVERSAL":      0.60,
	"REFUND":        0.50,
	"TRANSFER":      0.60,
}

const defaultTxRisk = 0.55

// amountBands map a USD amount to risk by the first band the amount falls
// under.
var amountBands = []struct {
	Below float64
	Risk  float64
}{
	{50, 0.10},
	{200, 0.20},
	{500, 0.30},
	{1000, 0.45},
	{2000, 0.55},
	{5000, 0.70},
	{10000, 0.80},
	{50000, 0.88},
	{math.Inf(1), 0.95},
}

// txTypeHints resolve the transaction type from message vocabulary.
// Ordered: the first hint present in the text wins.
var txTypeHints = []struct {
	Word string
	Type string
}{
	{"otp", "MOVE-FUNDS"},
	{"kyc", "MOVE-FUNDS"},
	{"transfer", "CASH-TRANSFER"},
	{"pay", "MAKE-PAYMENT"},
	{"payment", "MAKE-PAYMENT"},
	{"refund", "REFUND"},
	{"reversal", "REVERSAL"},
	{"withdrawal", "WITHDRAWAL"},
	{"invest", "TRANSFER"},
	{"lottery", "MAKE-PAYMENT"},
	{"prize", "MAKE-PAYMENT"},
	{"customs", "MAKE-PAYMENT"},
	{"penalty", "MAKE-PAYMENT"},
	{"fine", "MAKE-PAYMENT"},
	{"electricity", "MAKE-PAYMENT"},
	{"insurance", "MAKE-PAYMENT"},
	{"loan", "TRANSFER"},
	{"upi", "MAKE-PAYMENT"},
	{"neft", "TRANSFER"},
	{"rtgs", "TRANSFER"},
	{"imps", "TRANSFER"},
	{"deposit", "DEPOSIT"},
	{"purchase", "PURCHASE"},
}

var (
	reLakhAmount = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*lakh`)
	reRsAmount   = regexp.MustCompile(`(?:rs\.?\s*|inr\s*|rupees?\s*)(\d[\d,]*(?:\.\d+)?)`)
	reUSDAmount  = regexp.MustCompile(`\$\s*(\d[\d,]*(?:\.\d+)?)`)
	reBareAmount = regexp.MustCompile(`\b(\d{3,8})\b`)
)

// RiskFeatures is the synthetic transaction the message was mapped onto.
type RiskFeatures struct {
	SenderCountry   string  `json:"Sender_Country"`
	BeneCountry     string  `json:"Bene_Country"`
	USDAmount       float64 `json:"USD_amount"`
	TransactionType string  `json:"Transaction_Type"`
}

// RiskBreakdown holds the per-feature contributions to the combined risk.
type RiskBreakdown struct {
	SenderCountryRisk   float64 `json:"sender_country_risk"`
	BeneCountryRisk     float64 `json:"bene_country_risk"`
	AmountRisk          float64 `json:"amount_risk"`
	TransactionTypeRisk float64 `json:"transaction_type_risk"`
	CombinedRisk        float64 `json:"combined_risk"`
}

// RiskAssessment is the full transaction-risk verdict for one message.
type RiskAssessment struct {
	Label       string        `json:"fraudLabel"`
	Probability float64       `json:"fraudProbability"`
	RiskScore   int           `json:"transactionRiskScore"`
	RiskLevel   string        `json:"riskLevel"`
	Features    RiskFeatures  `json:"features"`
	Breakdown   RiskBreakdown `json:"breakdown"`
}

func amountRisk(usd float64) float64 {
	for _, band := range amountBands {
		if usd < band.Below {
			return band.Risk
		}
	}
	return 0.95
}

func riskForCountry(country string) float64 {
	if country == "" {
		return defaultCountryRisk
	}
	if r, ok := countryRisk[strings.ToUpper(strings.TrimSpace(country))]; ok {
		return r
	}
	return defaultCountryRisk
}

func gaussLogLikelihood(x, mean, variance float64) float64 {
	if variance <= 0 {
		variance = 1e-9
	}
	return -0.5*math.Log(2*math.Pi*variance) - (x-mean)*(x-mean)/(2*variance)
}

// extractUSDAmount pulls the strongest amount signal out of the text,
// converting rupee figures at a fixed rate. Bare 3-8 digit runs are
// treated as INR and the largest wins.
func extractUSDAmount(text string) float64 {
	lower := strings.ToLower(text)

	if m := reLakhAmount.FindStringSubmatch(lower); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v * 100000 / inrPerUSD
		}
	}
	if m := reRsAmount.FindStringSubmatch(lower); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			return v / inrPerUSD
		}
	}
	if m := reUSDAmount.FindStringSubmatch(lower); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			return v
		}
	}
	var best float64
	for _, m := range reBareAmount.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			if usd := v / inrPerUSD; usd > best {
				best = usd
			}
		}
	}
	if best > 0 {
		return best
	}
	return defaultUSDAmount
}

func inferBeneCountry(lower string) string {
	switch {
	case containsAny(lower, "nigeria", "comoros", "myanmar", "ghana"):
		return "NIGERIA"
	case containsAny(lower, "crypto", "bitcoin", "binance", "usdt"):
		return "COMOROS"
	case containsAny(lower, "customs", "parcel", "package", "courier"):
		return "MYANMAR"
	default:
		return "SRI-LANKA"
	}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func inferTxType(lower string) string {
	for _, hint := range txTypeHints {
		if strings.Contains(lower, hint.Word) {
			return hint.Type
		}
	}
	return "MOVE-FUNDS"
}

// AssessRisk scores one message as a synthetic financial transaction.
// historyLen boosts the assumed amount when the conversation has run long
// enough that repeated payment demands are likely.
func AssessRisk(text string, historyLen int) RiskAssessment {
	lower := strings.ToLower(text)

	features := RiskFeatures{
		SenderCountry:   "INDIA",
		BeneCountry:     inferBeneCountry(lower),
		USDAmount:       extractUSDAmount(text),
		TransactionType: inferTxType(lower),
	}
	if historyLen > 3 && features.USDAmount < 1000 {
		features.USDAmount = 1000
	}

	scRisk := riskForCountry(features.SenderCountry)
	bcRisk := riskForCountry(features.BeneCountry)
	amtRisk := amountRisk(features.USDAmount)
	txRisk, ok := txTypeRisk[features.TransactionType]
	if !ok {
		txRisk = defaultTxRisk
	}

	combined := bcRisk*0.35 + txRisk*0.30 + scRisk*0.20 + amtRisk*0.15

	logFraud := math.Log(priorFraud) + gaussLogLikelihood(combined, fraudMean, fraudVar)
	logNormal := math.Log(priorNormal) + gaussLogLikelihood(combined, normalMean, normalVar)

	maxLog := math.Max(logFraud, logNormal)
	expFraud := math.Exp(logFraud - maxLog)
	expNormal := math.Exp(logNormal - maxLog)
	prob := expFraud / (expFraud + expNormal)
	prob = round4(clampFloat(prob, 0.01, 0.99))

	label := "normal"
	if prob >= 0.50 {
		label = "fraudulent"
	}

	riskScore := int(math.Round(prob * 100))
	var level string
	switch {
	case riskScore >= 80:
		level = "CRITICAL"
	case riskScore >= 60:
		level = "HIGH"
	case riskScore >= 40:
		level = "MEDIUM"
	default:
		level = "LOW"
	}

	features.USDAmount = round2(features.USDAmount)

	return RiskAssessment{
		Label:       label,
		Probability: prob,
		RiskScore:   riskScore,
		RiskLevel:   level,
		Features:    features,
		Breakdown: RiskBreakdown{
			SenderCountryRisk:   round3(scRisk),
			BeneCountryRisk:     round3(bcRisk),
			AmountRisk:          round3(amtRisk),
			TransactionTypeRisk: round3(txRisk),
			CombinedRisk:        round3(combined),
		},
	}
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
