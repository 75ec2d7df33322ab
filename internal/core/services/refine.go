package services

import (
	"math"
	"time"

	"github.com/custodia-labs/docsearch/internal/core/domain"
)

// AgeInDays returns the document age as the ceiling of whole days between
// createdAt and now.
func AgeInDays(createdAt, now time.Time) int {
	return int(math.Ceil(now.Sub(createdAt).Hours() / 24))
}

// Refine applies the filter dimensions the remote service does not support.
// Filters compose by AND. A range at its default bounds and OCR "all" are
// no-ops. A document without a creation time is dropped while the age
// filter is active. The input slice is not modified.
func Refine(
	docs []domain.DocumentSummary,
	age domain.DayRange,
	size domain.SizeRange,
	ocr domain.OCRPresence,
	now time.Time,
) []domain.DocumentSummary {
	ageActive := !age.IsDefault()
	sizeActive := !size.IsDefault()

	out := make([]domain.DocumentSummary, 0, len(docs))
	for i := range docs {
		doc := &docs[i]
		if ageActive {
			if doc.CreatedAt.IsZero() || !age.Contains(AgeInDays(doc.CreatedAt, now)) {
				continue
			}
		}
		if sizeActive && !size.Contains(doc.SizeMB()) {
			continue
		}
		switch ocr {
		case domain.OCRPresent:
			if !doc.HasOCRText {
				continue
			}
		case domain.OCRAbsent:
			if doc.HasOCRText {
				continue
			}
		case domain.OCRAll:
		}
		out = append(out, *doc)
	}
	return out
}

// RefineWith is Refine driven by a filter state.
func RefineWith(docs []domain.DocumentSummary, filters domain.FilterState, now time.Time) []domain.DocumentSummary {
	return Refine(docs, filters.AgeRangeDays, filters.SizeRangeMB, filters.OCRPresence, now)
}
