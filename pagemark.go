// Package pagemark provides a web service and CLI that convert fetched web
// pages into Markdown with the help of a large language model, and a chat
// agent that answers questions about the fetched content. A deterministic
// normalization pipeline prepares HTML for the model according to a
// caller-selected processing mode.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, gemini/, goquery/) or the
// concern they serve (normalize/, pipeline/).
package pagemark
