// Package extraction reads interactive form values out of PDF documents.
//
// Form fields (PDF 1.7 section 12.7) live in two places: the document
// catalog's AcroForm dictionary, whose Fields array roots the field tree,
// and the widget annotations in each page's Annots array, which are the
// visual representation of terminal fields. Authoring tools disagree on
// which of the two is complete, so two independent backends are provided:
//
//   - widgets: walks page annotations with ledongthuc/pdf
//   - acroform: walks the AcroForm field tree with pdfcpu
//
// Both report fully qualified field names (partial T names joined with
// "." from the root down, or the TU alias when no T is present) mapped to
// the field's V value. Name objects are reported with their leading slash,
// so a choice export reads "/choice5". Fields without a value are skipped.
//
// FormExtractor runs the backends in order and merges their maps; on a
// name collision the backend consulted last wins. A backend failure only
// removes that backend's contribution.
package extraction
