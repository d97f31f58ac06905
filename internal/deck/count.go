package deck

// TargetCount picks the slide count tier for a document. The result never
// decreases as the document grows.
func TargetCount(sections []Section, p Policy) int {
	return TargetCountForLength(DocumentLength(sections), p)
}

// TargetCountForLength applies the policy tiers to a character count.
func TargetCountForLength(length int, p Policy) int {
	switch {
	case length < p.SmallThreshold:
		return p.SmallCount
	case length <= p.LargeThreshold:
		return p.MediumCount
	default:
		return p.LargeCount
	}
}
