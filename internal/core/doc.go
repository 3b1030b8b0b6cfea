// Package core provides shared geometry and style types for the editing
// core. It sits at the bottom of the dependency graph so that layout,
// editor, theme, and the presentation layer can exchange rectangles and
// style spans without importing one another.
package core
