package deck

// Fallback regroups sections into at most target slides without any remote
// call. Consecutive sections share a slide, the slide takes the heading of
// its first section, and every body is the policy placeholder.
func Fallback(sections []Section, target int, p Policy) Deck {
	if len(sections) == 0 {
		return Deck{}
	}
	if target <= 0 {
		target = 1
	}
	bucketSize := (len(sections) + target - 1) / target

	out := make(Deck, 0, target)
	for start := 0; start < len(sections) && len(out) < target; start += bucketSize {
		out = append(out, Slide{
			Heading: sections[start].Heading,
			Body:    p.PlaceholderBody,
		})
	}
	return out
}
