// Package models defines the value objects that flow through the site pipelines.
//
// The package contains two categories of types:
//
// 1. Pipeline records: created fresh on every run and discarded once written
//   - [Note] : An Obsidian note parsed from its front matter, ready to become a Hugo post
//   - [Playlist] : Spotify playlist metadata plus its sorted [Track] list
//   - [Track] : Song metadata with the fields rendered into .m3u and .json files
//
// 2. Run history: the only persisted entity
//   - [Run] : One pipeline invocation with its outcome and item counters
//
// Every type implements [Validator]; constructors validate before returning.
package models
