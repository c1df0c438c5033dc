// Package obsidian turns notes from an Obsidian vault into Hugo posts.
//
// # Note Format
//
// A note starts with a YAML front matter block between two "---" markers,
// followed by a title line and the body:
//
//	---
//	tags: [work/project/a, music]
//	publish: true
//	language: en
//	publish_date: 2024-01-02
//	---
//	# 01.02 My Post
//	Body text...
//
// The header is decoded strictly: unknown keys fail, and tags, publish,
// language and publish_date are required. The title loses its Markdown
// heading marks and its Johnny Decimal identifier ("01.02 ").
//
// # Pipeline
//
// [Scanner] walks the vault lazily and yields only notes marked publish.
// Malformed notes are logged, counted and skipped. [Pull] writes each
// published note to <dst>/<language>/posts/<slug>.md. [Watch] re-runs a
// callback when Markdown files in the vault change.
package obsidian
