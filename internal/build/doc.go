// Package build runs a full content build: load every document, render and
// resolve them on a bounded worker pool, then hand the results to the output
// writer. Any parse or transform failure aborts the whole build.
package build
