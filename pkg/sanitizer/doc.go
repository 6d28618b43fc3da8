// Package sanitizer provides input normalization for booking data.
//
// All normalization functions are idempotent - applying them multiple times produces
// the same result. Functions handle invalid input gracefully, typically by returning
// empty strings rather than errors.
//
// Normalization includes:
//   - Names and addresses: Collapse whitespace, trim leading/trailing spaces
//   - Location keys: Lowercase, letters and digits only - "Taman  Suropati, Menteng" becomes "taman_suropati_menteng"
//   - Free text: Drop control characters, keep line breaks, trim each line
//   - Identifiers: Trim surrounding whitespace
package sanitizer
