// Package driver runs the engine over files on disk: it lists the documents
// a configuration selects, loads them into a FileSet, evaluates them in
// parallel and reuses cached results for unchanged documents.
package driver
