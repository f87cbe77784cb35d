package grading

import (
	"math"
	"sort"
)

// Band is an admin-configured IQ grade. A nil SubjectID marks a global band.
type Band struct {
	SubjectID          *string
	MinScorePercentage int
	MaxScorePercentage int
	MinIQ              int
	MaxIQ              int
	Label              string
}

type IQResult struct {
	Score int
	Label string
}

// ChooseBands returns the subject bands when there are any, otherwise the
// global ones. The two sets are never merged.
func ChooseBands(subjectBands, globalBands []Band) []Band {
	if len(subjectBands) > 0 {
		return subjectBands
	}
	return globalBands
}

// ResolveIQ finds the first band, in ascending MinScorePercentage order, whose
// inclusive range contains percentage and interpolates an IQ inside it.
// It returns nil when no band matches.
func ResolveIQ(percentage float64, bands []Band) *IQResult {
	ordered := make([]Band, len(bands))
	copy(ordered, bands)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].MinScorePercentage < ordered[j].MinScorePercentage
	})

	for _, b := range ordered {
		if percentage >= float64(b.MinScorePercentage) && percentage <= float64(b.MaxScorePercentage) {
			return &IQResult{Score: b.Interpolate(percentage), Label: b.Label}
		}
	}
	return nil
}

// ResolveForSubject splits a mixed band list into subject and global bands and
// resolves against the applicable set.
func ResolveForSubject(percentage float64, subjectID string, bands []Band) *IQResult {
	var subject, global []Band
	for _, b := range bands {
		switch {
		case b.SubjectID == nil:
			global = append(global, b)
		case subjectID != "" && *b.SubjectID == subjectID:
			subject = append(subject, b)
		}
	}
	return ResolveIQ(percentage, ChooseBands(subject, global))
}

// Interpolate maps percentage linearly from the band's score range onto its
// IQ range. A zero-width (or inverted) score range resolves to MinIQ.
func (b Band) Interpolate(percentage float64) int {
	scoreRange := float64(b.MaxScorePercentage - b.MinScorePercentage)
	if scoreRange <= 0 {
		return b.MinIQ
	}
	iqRange := float64(b.MaxIQ - b.MinIQ)
	scorePos := percentage - float64(b.MinScorePercentage)
	return int(math.Round(float64(b.MinIQ) + scorePos/scoreRange*iqRange))
}
