// Package pagecollect collects visible text from web pages and asks a
// locally-hosted or self-hosted LLM questions about the collected content.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, rod/).
package pagecollect
