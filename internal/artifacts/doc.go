// Package artifacts maintains a searchable SQLite index of handoff and plan
// documents.
//
// The post-tool-use hook upserts an artifact each time a markdown file under
// the handoffs or plans directory is written and removes it when the file is
// deleted. "continuum search" queries the index by title, summary and
// keywords, newest first. The markdown files stay the source of truth; the
// index can be deleted at any time and rebuilds as documents are touched.
package artifacts
