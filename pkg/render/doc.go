// Package render groups the output backends.
//
//   - [sink]: a small SVG element tree, its serializer and the HTML page and
//     browser interaction script built around it
//   - [nodelink]: Graphviz DOT export plus PNG rasterization through the
//     embedded Graphviz runtime
//
// The interactive scene in package scene builds its SVG with [sink]; the
// pipeline uses [nodelink] for the dot and png formats.
//
// [sink]: github.com/matzehuels/archdeck/pkg/render/sink
// [nodelink]: github.com/matzehuels/archdeck/pkg/render/nodelink
package render
