// Package pipeline runs the build stages over a buildctx.Context.
//
// A settings sync runs SyncEditorSettings then End. A full build runs
// SyncEditorSettings, PrepareAssets, ExportProject and End; the export stage
// hands the project to an Exporter and, once it completes, raises the
// compile, modify and completion extension points. Stages run one at a time
// on the goroutine that calls Execute; asynchronous exporter completions are
// marshaled back through a mainthread.Queue.
package pipeline
