package market

import "fmt"

// Premium computes a subject's percentage deviation from the baseline.
// The result is nil when either side is undefined or the baseline is zero;
// an undefined comparison must never masquerade as "no premium".
func Premium(subject string, subjectPPZFA, baseline *float64) PremiumResult {
	result := PremiumResult{
		Subject:       subject,
		BaselinePPZFA: baseline,
		SubjectPPZFA:  subjectPPZFA,
	}
	if subjectPPZFA == nil || baseline == nil || *baseline == 0 {
		return result
	}
	result.PremiumPercent = ptr((*subjectPPZFA / *baseline - 1) * 100)
	return result
}

// Premiums computes per-bucket premiums against the baseline, keyed on
// mean PPZFA. Bucket order is preserved.
func Premiums(buckets []Bucket, baseline *float64) []PremiumResult {
	results := make([]PremiumResult, 0, len(buckets))
	for _, b := range buckets {
		subject := string(b.Borough)
		if b.Period != "" && b.Period != "all" {
			subject = fmt.Sprintf("%s %s", b.Borough, b.Period)
		}
		results = append(results, Premium(subject, b.MeanPPZFA, baseline))
	}
	return results
}

// ClassPremiums computes per-class premiums against the baseline.
func ClassPremiums(buckets []ClassBucket, baseline *float64) []PremiumResult {
	results := make([]PremiumResult, 0, len(buckets))
	for _, b := range buckets {
		results = append(results, Premium(b.Label, b.MeanPPZFA, baseline))
	}
	return results
}
