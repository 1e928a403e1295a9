package intel

import (
	"reflect"
	"testing"
)

func TestExtractPhonesAndAccounts(t *testing.T) {
	got := Extract("Call 9876543210 or +91-9876543211, account 123456789012345")

	wantPhones := []string{"9876543210", "+919876543211"}
	if !reflect.DeepEqual(got.PhoneNumbers, wantPhones) {
		t.Errorf("phones = %v, want %v", got.PhoneNumbers, wantPhones)
	}
	wantAccts := []string{"123456789012345"}
	if !reflect.DeepEqual(got.BankAccounts, wantAccts) {
		t.Errorf("accounts = %v, want %v", got.BankAccounts, wantAccts)
	}
}

func TestExtractPhoneNotDoubleCountedAsAccount(t *testing.T) {
	got := Extract("urgent, call +91 9876543210 now")
	if len(got.PhoneNumbers) != 1 {
		t.Fatalf("phones = %v", got.PhoneNumbers)
	}
	if len(got.BankAccounts) != 0 {
		t.Errorf("phone leaked into accounts: %v", got.BankAccounts)
	}
}

func TestExtractHandleVsEmail(t *testing.T) {
	got := Extract("Pay to fraudster@paytm, queries to support@rbi-verify.com")

	if want := []string{"fraudster@paytm"}; !reflect.DeepEqual(got.UPIIDs, want) {
		t.Errorf("upi = %v, want %v", got.UPIIDs, want)
	}
	if want := []string{"support@rbi-verify.com"}; !reflect.DeepEqual(got.EmailAddresses, want) {
		t.Errorf("emails = %v, want %v", got.EmailAddresses, want)
	}
}

func TestExtractLinksTrailingPunctuation(t *testing.T) {
	got := Extract("Verify at https://kyc-update.in/verify. Do it now")
	if want := []string{"https://kyc-update.in/verify"}; !reflect.DeepEqual(got.PhishingLinks, want) {
		t.Errorf("links = %v, want %v", got.PhishingLinks, want)
	}
}

func TestExtractReferences(t *testing.T) {
	got := Extract("Your case ID CBI/2024/8871, policy no LIC44521, order #AMZ-99210")
	if len(got.CaseIDs) != 1 || got.CaseIDs[0] != "CBI/2024/8871" {
		t.Errorf("case ids = %v", got.CaseIDs)
	}
	if len(got.PolicyNumbers) != 1 || got.PolicyNumbers[0] != "LIC44521" {
		t.Errorf("policy numbers = %v", got.PolicyNumbers)
	}
	if len(got.OrderNumbers) != 1 || got.OrderNumbers[0] != "AMZ-99210" {
		t.Errorf("order numbers = %v", got.OrderNumbers)
	}
}

func TestExtractRejectsWordAfterTrigger(t *testing.T) {
	got := Extract("please order soon and reference the thing")
	if len(got.OrderNumbers) != 0 || len(got.CaseIDs) != 0 {
		t.Errorf("plain words captured: orders=%v cases=%v", got.OrderNumbers, got.CaseIDs)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	got := Extract("")
	if got.Count() != 0 {
		t.Errorf("empty input produced artifacts: %+v", got)
	}
}

func TestExtractAllUnionsHistory(t *testing.T) {
	got := ExtractAll("send to 9876543210", []string{
		"my upi is scammer@ybl",
		"send to 9876543210 again",
	})
	if len(got.PhoneNumbers) != 1 {
		t.Errorf("phones = %v, want deduped single entry", got.PhoneNumbers)
	}
	if len(got.UPIIDs) != 1 || got.UPIIDs[0] != "scammer@ybl" {
		t.Errorf("upi = %v", got.UPIIDs)
	}
}

func TestMergeIdempotent(t *testing.T) {
	a := Extract("call 9876543210, upi scammer@ybl")
	b := a.Clone()
	a.Merge(b)
	if len(a.PhoneNumbers) != 1 || len(a.UPIIDs) != 1 {
		t.Errorf("merge duplicated entries: %+v", a)
	}
}

func TestHasPaymentIntel(t *testing.T) {
	var a Artifacts
	if a.HasPaymentIntel() {
		t.Error("empty artifacts reported payment intel")
	}
	a.SuspiciousKeywords = []string{"urgent"}
	if a.HasPaymentIntel() {
		t.Error("keywords alone should not count as payment intel")
	}
	a.UPIIDs = []string{"scammer@ybl"}
	if !a.HasPaymentIntel() {
		t.Error("upi id should count as payment intel")
	}
}

func TestAbsorbKeywordsCap(t *testing.T) {
	var a Artifacts
	words := []string{
		"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8",
		"a9", "a10", "a11", "a12", "a13", "a14", "a15", "a16",
	}
	a.AbsorbKeywords(words, 15)
	if len(a.SuspiciousKeywords) != 15 {
		t.Errorf("keywords = %d, want 15", len(a.SuspiciousKeywords))
	}
	a.AbsorbKeywords([]string{"a1", "a2"}, 15)
	if len(a.SuspiciousKeywords) != 15 {
		t.Errorf("duplicates grew the list: %d", len(a.SuspiciousKeywords))
	}
}
