// Package theme loads JSON color themes and derives the secondary
// colors the editor needs but theme authors rarely specify, such as the
// inactive selection and the current-line highlight.
package theme
