// Package coursefetch extracts structured course information from university
// web pages. It delegates page fetch-and-parse work to an extraction
// provider, processes URL batches under rate-limit and timeout constraints,
// and streams per-URL outcomes as they resolve so that partial results are
// always available.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., firecrawl/, sqlite/, gemini/); the
// orchestration core lives in batch/.
package coursefetch
