package detect

import "testing"

func TestClassifyPriorityOrder(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		want     ScamType
	}{
		{"otp beats everything", []string{"bank", "upi", "otp"}, TypeOTPFraud},
		{"lottery over payment", []string{"payment", "prize"}, TypeLotteryScam},
		{"investment", []string{"crypto", "transfer"}, TypeInvestmentScam},
		{"job", []string{"work from home", "earning"}, TypeJobScam},
		{"insurance", []string{"premium", "bank"}, TypeInsuranceScam},
		{"tax", []string{"income tax"}, TypeTaxScam},
		{"customs", []string{"parcel", "seized"}, TypeCustomsScam},
		{"electricity", []string{"electricity", "bill"}, TypeElectricity},
		{"refund", []string{"refund"}, TypeRefundScam},
		{"account threat beats upi and payment", []string{"blocked", "upi", "payment"}, TypeAccountThreat},
		{"phishing via url marker", []string{MarkerURL}, TypePhishing},
		{"upi", []string{"upi"}, TypeUPIFraud},
		{"kyc", []string{"kyc"}, TypeKYCFraud},
		{"bank", []string{"atm", "ifsc"}, TypeBankFraud},
		{"govt", []string{"ministry"}, TypeGovtScam},
		{"fallback", []string{"something else"}, TypeGeneralFraud},
		{"empty", nil, TypeGeneralFraud},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.keywords); got != tt.want {
				t.Errorf("Classify(%v) = %s, want %s", tt.keywords, got, tt.want)
			}
		})
	}
}

func TestIsSpecific(t *testing.T) {
	if IsSpecific(TypeGeneralFraud) {
		t.Error("GENERAL_FRAUD reported as specific")
	}
	if IsSpecific("") {
		t.Error("empty tag reported as specific")
	}
	if !IsSpecific(TypeKYCFraud) {
		t.Error("KYC_FRAUD not reported as specific")
	}
}
