// Package docstore discovers markdown documents beneath a documents root,
// parses their frontmatter, and builds the per-run snapshot the audit
// engines read. The snapshot is immutable once built; every index is derived
// fresh on each run.
package docstore
