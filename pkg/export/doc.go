// Package export provides functionality for exporting dungeon artifacts
// as JSON, as Tiled TMJ maps, and as SVG images.
//
// JSON export offers both formatted (indented) and compact options to
// accommodate different use cases, from human-readable output to
// space-efficient storage.
package export
