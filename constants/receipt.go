package constants

// DivisionExpense tags every record produced by the OCR pipeline.
// Income is not distinguished at OCR time, so the division is fixed.
const DivisionExpense = "지출"

// NotAvailable is the canonical value for a field that could not be
// resolved from either OCR modality. Distinct from zero and from the
// empty string; the UI treats it as "unknown, fill manually".
const NotAvailable = "N/A"
