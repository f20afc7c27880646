// Package pkg holds the archdeck libraries.
//
// Data flows through them in one direction:
//
//	JSON/TOML spec
//	     ↓
//	[diagram] (parse + normalize into a Graph)
//	     ↓
//	[diagram/layout] (layered, grid or manual placement)
//	     ↓
//	[diagram/scene] (interactive SVG scene: zoom, drag, hover, collapse)
//	     ↓
//	[pipeline] (cached render to svg, html, json, dot, png)
//
// Alongside the main flow:
//
//   - [chart]: bar and line charts plus the arch chart dispatch
//   - [deck]: chart blocks in markdown slide decks
//   - [cache]: file, redis and null caches with key helpers
//   - [store]: saved diagrams in SQLite or MongoDB
//   - [observability]: hooks for metrics and tracing
//   - [errors]: coded errors shared by every package
//
// [diagram]: github.com/matzehuels/archdeck/pkg/diagram
// [diagram/layout]: github.com/matzehuels/archdeck/pkg/diagram/layout
// [diagram/scene]: github.com/matzehuels/archdeck/pkg/diagram/scene
// [pipeline]: github.com/matzehuels/archdeck/pkg/pipeline
// [chart]: github.com/matzehuels/archdeck/pkg/chart
// [deck]: github.com/matzehuels/archdeck/pkg/deck
// [cache]: github.com/matzehuels/archdeck/pkg/cache
// [store]: github.com/matzehuels/archdeck/pkg/store
// [observability]: github.com/matzehuels/archdeck/pkg/observability
// [errors]: github.com/matzehuels/archdeck/pkg/errors
package pkg
